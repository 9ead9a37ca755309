package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bryan-cox/studyledger/internal/api"
	"github.com/bryan-cox/studyledger/internal/clipboard"
	"github.com/bryan-cox/studyledger/internal/export"
	"github.com/bryan-cox/studyledger/internal/model"
	"github.com/bryan-cox/studyledger/internal/report"
	"github.com/bryan-cox/studyledger/internal/scheduler"
	"github.com/bryan-cox/studyledger/internal/store"
)

// --- Cobra Command Definitions ---

var (
	// Used for flags.
	filePath string
	todayStr string
	logLevel string

	taskCourse   string
	taskTitle    string
	taskDue      string
	taskPriority string
	taskHours    float64

	useColor bool

	dailyHours   float64
	focusHours   float64
	breakMinutes int

	exportDir   string
	toClipboard bool

	listenAddr string

	// level is shared with the handler installed in main.
	level = new(slog.LevelVar)

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:               "studyledger",
		Short:             "A CLI tool to plan study sessions from a task ledger.",
		Long:              `StudyLedger keeps a ledger of academic tasks and turns it into a day-by-day study schedule that balances priority, due dates and your daily study budget.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: configureLogging,
	}

	addCmd = &cobra.Command{
		Use:   "add",
		Short: "Add a task to the ledger.",
		Args:  cobra.NoArgs,
		RunE:  runAddCommand,
	}

	deleteCmd = &cobra.Command{
		Use:   "delete <id|number>",
		Short: "Delete a task by id or by its number in 'list'.",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeleteCommand,
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the tasks in the ledger.",
		Args:  cobra.NoArgs,
		RunE:  runListCommand,
	}

	scheduleCmd = &cobra.Command{
		Use:   "schedule",
		Short: "Generate a study schedule.",
		Long:  `Generates a study schedule starting today (or --today), placing sessions on weekdays up to each task's due date.`,
		Args:  cobra.NoArgs,
		RunE:  runScheduleCommand,
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics.",
		Args:  cobra.NoArgs,
		RunE:  runStatsCommand,
	}

	prefsCmd = &cobra.Command{
		Use:   "prefs",
		Short: "Show or update study preferences.",
		Long:  `Prints the current study preferences. Any flag given updates that preference in the ledger first.`,
		Args:  cobra.NoArgs,
		RunE:  runPrefsCommand,
	}

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export the schedule to a timestamped text file.",
		Args:  cobra.NoArgs,
		RunE:  runExportCommand,
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Add a set of sample tasks to the ledger.",
		Args:  cobra.NoArgs,
		RunE:  runSeedCommand,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger and schedule as a JSON API.",
		Args:  cobra.NoArgs,
		RunE:  runServeCommand,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&filePath, "file", "studyledger.yml", "Path to the ledger (.yml for YAML, .db for SQLite).")
	rootCmd.PersistentFlags().StringVar(&todayStr, "today", "", "Schedule as of this date (YYYY-MM-DD). Defaults to the current date.")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error).")

	addCmd.Flags().StringVar(&taskCourse, "course", "", "Course name.")
	addCmd.Flags().StringVar(&taskTitle, "title", "", "Task title.")
	addCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD).")
	addCmd.Flags().StringVar(&taskPriority, "priority", "Medium", "Priority (High, Medium, Low).")
	addCmd.Flags().Float64Var(&taskHours, "hours", 2, "Estimated hours of work.")
	addCmd.MarkFlagRequired("course")
	addCmd.MarkFlagRequired("title")
	addCmd.MarkFlagRequired("due")

	scheduleCmd.Flags().BoolVar(&useColor, "color", false, "Colorize the schedule for the terminal.")

	prefsCmd.Flags().Float64Var(&dailyHours, "daily-hours", 0, "Daily study hours.")
	prefsCmd.Flags().Float64Var(&focusHours, "focus-hours", 0, "Length of a focus session in hours.")
	prefsCmd.Flags().IntVar(&breakMinutes, "break-minutes", 0, "Break length in minutes.")

	exportCmd.Flags().StringVar(&exportDir, "dir", ".", "Directory to write the export to.")
	exportCmd.Flags().BoolVar(&toClipboard, "clipboard", false, "Copy the schedule to the clipboard instead of writing a file.")

	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "Address to listen on.")

	rootCmd.AddCommand(addCmd, deleteCmd, listCmd, scheduleCmd, statsCmd, prefsCmd, exportCmd, seedCmd, serveCmd)
}

// --- Main Application Entry Point ---

func main() {
	// Setup structured JSON logger for errors.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	Execute()
}

func configureLogging(cmd *cobra.Command, args []string) error {
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	return nil
}

// --- Command Execution Logic ---

func runAddCommand(cmd *cobra.Command, args []string) error {
	due, err := model.ParseDate(taskDue)
	if err != nil {
		return err
	}
	priority, err := model.ParsePriority(taskPriority)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := s.AddTask(model.Task{
		Course:         taskCourse,
		Title:          taskTitle,
		DueDate:        due,
		Priority:       priority,
		EstimatedHours: taskHours,
	})
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	slog.Debug("task added", "id", task.ID, "course", task.Course, "due", task.DueDate)
	fmt.Fprintf(cmd.OutOrStdout(), "Task added: %s: %s (id %s)\n", task.Course, task.Title, task.ID)
	return nil
}

func runDeleteCommand(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	tasks, err := s.Tasks()
	if err != nil {
		return err
	}
	id, err := store.ResolveTaskID(tasks, args[0])
	if err != nil {
		return err
	}
	if err := s.DeleteTask(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Task deleted: %s\n", id)
	return nil
}

func runListCommand(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	tasks, err := s.Tasks()
	if err != nil {
		return err
	}
	report.WriteTaskList(cmd.OutOrStdout(), tasks)
	return nil
}

func runScheduleCommand(cmd *cobra.Command, args []string) error {
	plan, err := buildPlan()
	if err != nil {
		return err
	}

	theme := report.PlainTheme
	if useColor {
		theme = report.ColorTheme()
	}
	out := cmd.OutOrStdout()
	report.WriteSchedule(out, plan, theme)
	if plan.IsEmpty() {
		fmt.Fprintln(out)
	}
	return nil
}

func runStatsCommand(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	tasks, err := s.Tasks()
	if err != nil {
		return err
	}
	prefs, err := s.Preferences()
	if err != nil {
		return err
	}

	report.WriteStats(cmd.OutOrStdout(), report.Summarize(tasks, prefs), report.PlainTheme)
	return nil
}

func runPrefsCommand(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	prefs, err := s.Preferences()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("daily-hours") || flags.Changed("focus-hours") || flags.Changed("break-minutes") {
		if flags.Changed("daily-hours") {
			prefs.DailyStudyHours = dailyHours
		}
		if flags.Changed("focus-hours") {
			prefs.FocusSessionHours = focusHours
		}
		if flags.Changed("break-minutes") {
			prefs.BreakMinutes = breakMinutes
		}
		if err := s.SavePreferences(prefs); err != nil {
			return fmt.Errorf("failed to update preferences: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Preferences updated.")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Daily study hours: %g\n", prefs.DailyStudyHours)
	fmt.Fprintf(cmd.OutOrStdout(), "Focus session: %g hours\n", prefs.FocusSessionHours)
	fmt.Fprintf(cmd.OutOrStdout(), "Break: %d minutes\n", prefs.BreakMinutes)
	return nil
}

func runExportCommand(cmd *cobra.Command, args []string) error {
	plan, err := buildPlan()
	if err != nil {
		return err
	}
	text := report.FormatSchedule(plan)

	if toClipboard {
		if err := clipboard.CopyText(text); err != nil {
			return fmt.Errorf("failed to copy schedule: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schedule copied to clipboard.")
		return nil
	}

	path, err := export.WriteFile(exportDir, time.Now(), text)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schedule exported to %s\n", path)
	return nil
}

func runSeedCommand(cmd *cobra.Command, args []string) error {
	today, err := resolveToday()
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	samples := store.SampleTasks(today)
	for _, task := range samples {
		if _, err := s.AddTask(task); err != nil {
			return fmt.Errorf("failed to add sample task: %w", err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d sample tasks.\n", len(samples))
	return nil
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	logger := slog.Default()
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           api.NewRouter(s, time.Now, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", listenAddr, "ledger", filePath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// --- Helper Functions ---

func openStore() (store.Store, error) {
	s, err := store.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger '%s': %w", filePath, err)
	}
	return s, nil
}

func resolveToday() (model.Date, error) {
	if todayStr == "" {
		return model.DateOf(time.Now()), nil
	}
	return model.ParseDate(todayStr)
}

// buildPlan loads the ledger and runs the scheduler.
func buildPlan() (model.Plan, error) {
	today, err := resolveToday()
	if err != nil {
		return model.Plan{}, err
	}

	s, err := openStore()
	if err != nil {
		return model.Plan{}, err
	}
	defer s.Close()

	tasks, err := s.Tasks()
	if err != nil {
		return model.Plan{}, err
	}
	prefs, err := s.Preferences()
	if err != nil {
		return model.Plan{}, err
	}

	sessions, plan := scheduler.Generate(tasks, prefs, today)
	slog.Debug("schedule generated", "today", today, "tasks", len(tasks), "sessions", len(sessions))
	for _, entry := range plan.Entries {
		if entry.Unscheduled > 0 {
			slog.Warn("task cannot be fully scheduled before its due date",
				"course", entry.Task.Course, "task", entry.Task.Title,
				"due", entry.Task.DueDate, "unscheduled_hours", entry.Unscheduled)
		}
	}
	for _, task := range plan.Overdue {
		slog.Warn("task is overdue", "course", task.Course, "task", task.Title, "due", task.DueDate)
	}
	return plan, nil
}
