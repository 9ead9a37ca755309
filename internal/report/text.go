// Package report formats schedules and statistics as text.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bryan-cox/studyledger/internal/model"
)

// Report text constants.
const (
	TextNoTasks   = "No tasks to schedule. Add tasks first."
	TextBanner    = "STUDY SCHEDULE"
	TextTipsTitle = "📝 STUDY TIPS:"
)

var divider = strings.Repeat("=", 50)

// FormatSchedule renders plan without styling.
func FormatSchedule(plan model.Plan) string {
	var buf bytes.Buffer
	WriteSchedule(&buf, plan, PlainTheme)
	return buf.String()
}

// WriteSchedule writes the full schedule report: banner, one block per
// scheduled task, overdue warnings and study tips.
func WriteSchedule(out io.Writer, plan model.Plan, theme Theme) {
	if plan.IsEmpty() {
		fmt.Fprint(out, TextNoTasks)
		return
	}

	fmt.Fprintln(out, theme.Banner(TextBanner))
	fmt.Fprintln(out, divider)

	for _, entry := range plan.Entries {
		printTaskPlan(out, entry, theme)
	}
	printOverdue(out, plan.Overdue, theme)
	printTips(out, plan.Tips, theme)
}

func printTaskPlan(out io.Writer, entry model.TaskPlan, theme Theme) {
	task := entry.Task
	fmt.Fprintln(out)
	fmt.Fprintln(out, theme.Heading(fmt.Sprintf("📚 %s: %s", task.Course, task.Title)))
	fmt.Fprintf(out, "   Due: %s | Priority: %s\n", task.DueDate, task.Priority)
	fmt.Fprintf(out, "   Recommended: %.1f hours per day\n", entry.DailyRate)

	for _, session := range entry.Sessions {
		fmt.Fprintf(out, "   • %s: %.1f hours\n", session.Date.Format("Monday, Jan 02"), session.Hours)
	}

	if entry.Unscheduled > 0 {
		line := fmt.Sprintf("   ⚠️ %.1f of %.1f hours do not fit before the due date",
			entry.Unscheduled, task.EstimatedHours)
		fmt.Fprintln(out, theme.Warning(line))
	}
}

func printOverdue(out io.Writer, overdue []model.Task, theme Theme) {
	if len(overdue) == 0 {
		return
	}
	fmt.Fprintln(out)
	for _, task := range overdue {
		line := fmt.Sprintf("⚠️ OVERDUE: %s (was due %s)", task.Title, task.DueDate)
		fmt.Fprintln(out, theme.Warning(line))
	}
}

func printTips(out io.Writer, tips []string, theme Theme) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, divider)
	fmt.Fprintln(out, theme.Banner(TextTipsTitle))
	for _, tip := range tips {
		fmt.Fprintln(out, theme.Muted("• "+tip))
	}
}

// WriteTaskList prints the task store as numbered rows.
func WriteTaskList(out io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks yet.")
		return
	}
	for i, task := range tasks {
		fmt.Fprintf(out, "%2d. %s | %s | %s | %s | %g h  [%s]\n",
			i+1, task.Course, task.Title, task.DueDate, task.Priority, task.EstimatedHours, task.ID)
	}
}
