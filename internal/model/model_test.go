package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func validTask() Task {
	return Task{
		Course:         "Mathematics",
		Title:          "Complete calculus exercises",
		DueDate:        NewDate(2024, time.January, 3),
		Priority:       PriorityHigh,
		EstimatedHours: 3,
	}
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr bool
	}{
		{name: "valid task", mutate: func(*Task) {}},
		{name: "empty course", mutate: func(t *Task) { t.Course = "  " }, wantErr: true},
		{name: "empty title", mutate: func(t *Task) { t.Title = "" }, wantErr: true},
		{name: "missing due date", mutate: func(t *Task) { t.DueDate = Date{} }, wantErr: true},
		{name: "unknown priority", mutate: func(t *Task) { t.Priority = "Urgent" }, wantErr: true},
		{name: "zero hours", mutate: func(t *Task) { t.EstimatedHours = 0 }, wantErr: true},
		{name: "negative hours", mutate: func(t *Task) { t.EstimatedHours = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(&task)
			err := task.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTask) {
					t.Errorf("expected ErrInvalidTask, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPreferencesValidate(t *testing.T) {
	if err := DefaultPreferences().Validate(); err != nil {
		t.Fatalf("default preferences should be valid: %v", err)
	}

	bad := []Preferences{
		{DailyStudyHours: 0, FocusSessionHours: 2, BreakMinutes: 15},
		{DailyStudyHours: 4, FocusSessionHours: -1, BreakMinutes: 15},
		{DailyStudyHours: 4, FocusSessionHours: 2, BreakMinutes: 0},
	}
	for _, p := range bad {
		if err := p.Validate(); !errors.Is(err, ErrInvalidPreferences) {
			t.Errorf("expected ErrInvalidPreferences for %+v, got %v", p, err)
		}
	}
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{"high": PriorityHigh, " Medium ": PriorityMedium, "LOW": PriorityLow} {
		got, err := ParsePriority(in)
		if err != nil {
			t.Fatalf("ParsePriority(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParsePriority(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParsePriority("critical"); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestPriorityRank(t *testing.T) {
	if !(PriorityHigh.Rank() > PriorityMedium.Rank() && PriorityMedium.Rank() > PriorityLow.Rank()) {
		t.Error("priority ranks are not ordered High > Medium > Low")
	}
	if Priority("other").Rank() != 0 {
		t.Error("unknown priority should rank 0")
	}
}

func TestDate(t *testing.T) {
	monday := NewDate(2024, time.January, 1)

	t.Run("days until", func(t *testing.T) {
		if got := monday.DaysUntil(NewDate(2024, time.January, 3)); got != 2 {
			t.Errorf("DaysUntil = %d, want 2", got)
		}
		if got := monday.DaysUntil(NewDate(2023, time.December, 30)); got != -2 {
			t.Errorf("DaysUntil = %d, want -2", got)
		}
		if got := monday.DaysUntil(NewDate(2400, time.January, 1)); got != 137331 {
			t.Errorf("DaysUntil far future = %d, want 137331", got)
		}
	})

	t.Run("weekend", func(t *testing.T) {
		if monday.IsWeekend() {
			t.Error("Monday reported as weekend")
		}
		if !monday.AddDays(5).IsWeekend() || !monday.AddDays(6).IsWeekend() {
			t.Error("Saturday/Sunday not reported as weekend")
		}
	})

	t.Run("date of local time", func(t *testing.T) {
		loc := time.FixedZone("UTC+9", 9*3600)
		got := DateOf(time.Date(2024, time.January, 1, 23, 30, 0, 0, loc))
		if got.String() != "2024-01-01" {
			t.Errorf("DateOf = %s, want 2024-01-01", got)
		}
	})

	t.Run("parse rejects other layouts", func(t *testing.T) {
		if _, err := ParseDate("01/03/2024"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestDateEncoding(t *testing.T) {
	task := validTask()

	out, err := yaml.Marshal(task)
	if err != nil {
		t.Fatalf("yaml marshal: %v", err)
	}
	var fromYAML Task
	if err := yaml.Unmarshal(out, &fromYAML); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if !fromYAML.DueDate.Equal(task.DueDate.Time) {
		t.Errorf("yaml due date = %s, want %s", fromYAML.DueDate, task.DueDate)
	}

	raw, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if fields["due_date"] != "2024-01-03" {
		t.Errorf("json due_date = %v, want 2024-01-03", fields["due_date"])
	}
}
