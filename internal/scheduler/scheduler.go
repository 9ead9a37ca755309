// Package scheduler turns a list of tasks into day-by-day study sessions.
package scheduler

import (
	"math"
	"sort"

	"github.com/bryan-cox/studyledger/internal/model"
)

// MaxHorizonDays bounds how far past today a single task's day-walk may go.
const MaxHorizonDays = 730

// epsilon is the remaining-hours threshold below which a task counts as fully
// allocated.
const epsilon = 1e-9

// StudyTips are appended to every generated report.
var StudyTips = []string{
	"Use the Pomodoro technique: 25 min focus, 5 min break",
	"Review material within 24 hours to improve retention by up to 60%",
	"Study hardest subjects when you're most alert",
	"Teach what you've learned to reinforce understanding",
	"Take regular breaks to maintain focus and prevent burnout",
}

// Generate allocates tasks into weekday study sessions starting at today.
//
// Tasks are ordered by priority (High first) and then due date, keeping input
// order for ties. Overdue tasks get no sessions and are listed in
// Plan.Overdue. The per-task daily rate is capped at half the daily budget,
// but the cap is not shared across tasks, so one day may hold more than
// prefs.DailyStudyHours in total.
func Generate(tasks []model.Task, prefs model.Preferences, today model.Date) ([]model.StudySession, model.Plan) {
	plan := model.Plan{Today: today, Tips: StudyTips}
	if len(tasks) == 0 {
		return nil, plan
	}

	var sessions []model.StudySession
	for _, task := range SortTasks(tasks) {
		daysUntilDue := today.DaysUntil(task.DueDate)
		if daysUntilDue < 0 {
			plan.Overdue = append(plan.Overdue, task)
			continue
		}

		rate := TargetRate(task.EstimatedHours, daysUntilDue, prefs.DailyStudyHours)
		taskSessions, remaining := walkDays(task, rate, prefs.FocusSessionHours, today)
		sessions = append(sessions, taskSessions...)

		plan.Entries = append(plan.Entries, model.TaskPlan{
			Task:         task,
			DaysUntilDue: daysUntilDue,
			DailyRate:    rate,
			Sessions:     taskSessions,
			Unscheduled:  remaining,
		})
	}

	return sessions, plan
}

// SortTasks returns a copy of tasks ordered by priority rank descending, then
// due date ascending. The sort is stable.
func SortTasks(tasks []model.Task) []model.Task {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Priority.Rank(), sorted[j].Priority.Rank()
		if ri != rj {
			return ri > rj
		}
		return sorted[i].DueDate.Before(sorted[j].DueDate)
	})
	return sorted
}

// TargetRate is the recommended hours per day for a task: its hours spread
// over the days left, never more than half the daily budget.
func TargetRate(estimatedHours float64, daysUntilDue int, dailyStudyHours float64) float64 {
	daysAvailable := max(1, daysUntilDue)
	return math.Min(estimatedHours/float64(daysAvailable), dailyStudyHours/2)
}

// walkDays places sessions for one task from today through its due date and
// returns them with the hours left over.
func walkDays(task model.Task, rate, focusHours float64, today model.Date) ([]model.StudySession, float64) {
	var sessions []model.StudySession
	remaining := task.EstimatedHours
	last := task.DueDate
	if horizon := today.AddDays(MaxHorizonDays); last.After(horizon) {
		last = horizon
	}

	for day := today; remaining > epsilon && !day.After(last); day = day.AddDays(1) {
		if day.IsWeekend() {
			continue
		}

		hours := math.Min(rate, math.Min(remaining, focusHours))
		if hours <= 0 {
			continue
		}
		sessions = append(sessions, model.StudySession{
			Date:     day,
			Course:   task.Course,
			Task:     task.Title,
			Hours:    hours,
			Priority: task.Priority,
		})
		remaining -= hours
	}

	if remaining <= epsilon {
		remaining = 0
	}
	return sessions, remaining
}
