package report

import (
	"fmt"
	"io"

	"github.com/bryan-cox/studyledger/internal/model"
)

// Summarize aggregates the task store: counts, total hours and counts per
// priority, alongside the configured budget.
func Summarize(tasks []model.Task, prefs model.Preferences) model.Stats {
	stats := model.Stats{
		TotalTasks:        len(tasks),
		ByPriority:        make(map[model.Priority]int, len(model.Priorities)),
		DailyStudyHours:   prefs.DailyStudyHours,
		FocusSessionHours: prefs.FocusSessionHours,
		BreakMinutes:      prefs.BreakMinutes,
	}
	for _, p := range model.Priorities {
		stats.ByPriority[p] = 0
	}
	for _, task := range tasks {
		stats.TotalHours += task.EstimatedHours
		stats.ByPriority[task.Priority]++
	}
	return stats
}

// WriteStats prints the statistics block.
func WriteStats(out io.Writer, stats model.Stats, theme Theme) {
	fmt.Fprintln(out, theme.Banner("Study Statistics:"))
	fmt.Fprintf(out, "• Total tasks: %d\n", stats.TotalTasks)
	fmt.Fprintf(out, "• Total study hours needed: %.1f\n", stats.TotalHours)
	for _, p := range model.Priorities {
		fmt.Fprintf(out, "• %s priority tasks: %d\n", p, stats.ByPriority[p])
	}
	fmt.Fprintf(out, "• Recommended daily study: %g hours\n", stats.DailyStudyHours)
	fmt.Fprintf(out, "• Focus sessions: %g hours with %d minute breaks\n", stats.FocusSessionHours, stats.BreakMinutes)
}
