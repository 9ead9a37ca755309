// Package model defines the core data structures for StudyLedger.
package model

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel errors returned by validation.
var (
	ErrInvalidTask        = errors.New("invalid task")
	ErrInvalidPreferences = errors.New("invalid preferences")
)

// Priority is the urgency of a task.
type Priority string

// Priority levels.
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists every level from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank returns 3 for High, 2 for Medium, 1 for Low and 0 for anything else.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the known levels.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// ParsePriority matches s case-insensitively against the known levels.
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q, use High, Medium or Low", s)
}

// Task is a unit of academic work.
type Task struct {
	ID             string   `yaml:"id" json:"id"`
	Course         string   `yaml:"course" json:"course"`
	Title          string   `yaml:"title" json:"title"`
	DueDate        Date     `yaml:"due_date" json:"due_date"`
	Priority       Priority `yaml:"priority" json:"priority"`
	EstimatedHours float64  `yaml:"estimated_hours" json:"estimated_hours"`
}

// Validate checks the fields a task needs before it can be stored or scheduled.
func (t Task) Validate() error {
	switch {
	case strings.TrimSpace(t.Course) == "":
		return fmt.Errorf("%w: course is required", ErrInvalidTask)
	case strings.TrimSpace(t.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	case t.DueDate.IsZero():
		return fmt.Errorf("%w: due date is required", ErrInvalidTask)
	case !t.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidTask, t.Priority)
	case t.EstimatedHours <= 0:
		return fmt.Errorf("%w: estimated hours must be positive, got %g", ErrInvalidTask, t.EstimatedHours)
	}
	return nil
}

// Preferences holds the user's study settings.
type Preferences struct {
	DailyStudyHours   float64 `yaml:"daily_study_hours" json:"daily_study_hours"`
	FocusSessionHours float64 `yaml:"focus_session_hours" json:"focus_session_hours"`
	BreakMinutes      int     `yaml:"break_minutes" json:"break_minutes"`
}

// DefaultPreferences returns the settings used until the user saves their own.
func DefaultPreferences() Preferences {
	return Preferences{
		DailyStudyHours:   4,
		FocusSessionHours: 2,
		BreakMinutes:      15,
	}
}

// UnmarshalYAML fills keys missing from a hand-written preferences block
// with their defaults.
func (p *Preferences) UnmarshalYAML(node *yaml.Node) error {
	type plain Preferences
	prefs := plain(DefaultPreferences())
	if err := node.Decode(&prefs); err != nil {
		return err
	}
	*p = Preferences(prefs)
	return nil
}

// Validate rejects non-positive settings.
func (p Preferences) Validate() error {
	if p.DailyStudyHours <= 0 {
		return fmt.Errorf("%w: daily study hours must be positive, got %g", ErrInvalidPreferences, p.DailyStudyHours)
	}
	if p.FocusSessionHours <= 0 {
		return fmt.Errorf("%w: focus session hours must be positive, got %g", ErrInvalidPreferences, p.FocusSessionHours)
	}
	if p.BreakMinutes <= 0 {
		return fmt.Errorf("%w: break minutes must be positive, got %d", ErrInvalidPreferences, p.BreakMinutes)
	}
	return nil
}

// StudySession is a block of hours allocated to one task on one weekday.
type StudySession struct {
	Date     Date     `json:"date"`
	Course   string   `json:"course"`
	Task     string   `json:"task"`
	Hours    float64  `json:"hours"`
	Priority Priority `json:"priority"`
}

// TaskPlan is the schedule of a single task that was not overdue.
type TaskPlan struct {
	Task         Task
	DaysUntilDue int
	DailyRate    float64
	Sessions     []StudySession
	Unscheduled  float64 // hours that did not fit before the due date
}

// Plan is the report model produced by one scheduling run.
type Plan struct {
	Today   Date
	Entries []TaskPlan
	Overdue []Task
	Tips    []string
}

// IsEmpty reports whether the run had no tasks at all.
func (p Plan) IsEmpty() bool {
	return len(p.Entries) == 0 && len(p.Overdue) == 0
}

// Stats aggregates the task store and preferences.
type Stats struct {
	TotalTasks        int              `json:"total_tasks"`
	TotalHours        float64          `json:"total_hours"`
	ByPriority        map[Priority]int `json:"by_priority"`
	DailyStudyHours   float64          `json:"daily_study_hours"`
	FocusSessionHours float64          `json:"focus_session_hours"`
	BreakMinutes      int              `json:"break_minutes"`
}
