package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bryan-cox/studyledger/internal/model"
)

var today = model.NewDate(2024, time.January, 1)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	yamlStore, err := Open(filepath.Join(dir, "ledger.yml"))
	if err != nil {
		t.Fatalf("failed to open yaml store: %v", err)
	}
	sqliteStore, err := Open(filepath.Join(dir, "ledger.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		yamlStore.Close()
		sqliteStore.Close()
	})

	return map[string]Store{"yaml": yamlStore, "sqlite": sqliteStore}
}

func TestOpenPicksBackend(t *testing.T) {
	for name, s := range openBackends(t) {
		switch s.(type) {
		case *YAMLStore:
			if name != "yaml" {
				t.Errorf("%s opened a YAML store", name)
			}
		case *SQLiteStore:
			if name != "sqlite" {
				t.Errorf("%s opened a SQLite store", name)
			}
		}
	}
}

func TestStoreTasks(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			tasks, err := s.Tasks()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tasks) != 0 {
				t.Fatalf("expected empty store, got %d tasks", len(tasks))
			}

			var added []model.Task
			for _, task := range SampleTasks(today) {
				task.Course = "  " + task.Course + " "
				got, err := s.AddTask(task)
				if err != nil {
					t.Fatalf("AddTask: %v", err)
				}
				if got.ID == "" {
					t.Fatal("expected an id to be assigned")
				}
				added = append(added, got)
			}

			tasks, err = s.Tasks()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tasks) != len(added) {
				t.Fatalf("expected %d tasks, got %d", len(added), len(tasks))
			}
			for i := range tasks {
				if tasks[i].ID != added[i].ID || tasks[i].Title != added[i].Title {
					t.Errorf("task %d = %+v, want %+v", i, tasks[i], added[i])
				}
				if !tasks[i].DueDate.Equal(added[i].DueDate.Time) {
					t.Errorf("task %d due %s, want %s", i, tasks[i].DueDate, added[i].DueDate)
				}
			}
			if tasks[0].Course != "Mathematics" {
				t.Errorf("course not trimmed: %q", tasks[0].Course)
			}

			if err := s.DeleteTask(added[1].ID); err != nil {
				t.Fatalf("DeleteTask: %v", err)
			}
			tasks, _ = s.Tasks()
			if len(tasks) != 3 || tasks[1].ID != added[2].ID {
				t.Errorf("unexpected tasks after delete: %+v", tasks)
			}

			if err := s.DeleteTask("missing"); !errors.Is(err, ErrTaskNotFound) {
				t.Errorf("expected ErrTaskNotFound, got %v", err)
			}
		})
	}
}

func TestStoreRejectsInvalidTask(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.AddTask(model.Task{Course: "Math", Title: "Nothing", DueDate: today, Priority: model.PriorityLow})
			if !errors.Is(err, model.ErrInvalidTask) {
				t.Errorf("expected ErrInvalidTask, got %v", err)
			}
		})
	}
}

func TestStorePreferences(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			prefs, err := s.Preferences()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if prefs != model.DefaultPreferences() {
				t.Errorf("expected defaults, got %+v", prefs)
			}

			want := model.Preferences{DailyStudyHours: 6, FocusSessionHours: 1.5, BreakMinutes: 10}
			if err := s.SavePreferences(want); err != nil {
				t.Fatalf("SavePreferences: %v", err)
			}
			// Saving twice exercises the update path.
			if err := s.SavePreferences(want); err != nil {
				t.Fatalf("SavePreferences: %v", err)
			}
			if prefs, _ = s.Preferences(); prefs != want {
				t.Errorf("preferences = %+v, want %+v", prefs, want)
			}

			if err := s.SavePreferences(model.Preferences{}); !errors.Is(err, model.ErrInvalidPreferences) {
				t.Errorf("expected ErrInvalidPreferences, got %v", err)
			}
		})
	}
}

func TestYAMLStoreHandWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.yml")
	content := []byte(`
preferences:
  daily_study_hours: 5
  focus_session_hours: 2
  break_minutes: 20
tasks:
  - course: Mathematics
    title: Problem set 4
    due_date: 2024-01-05
    priority: high
    estimated_hours: 3
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write ledger: %v", err)
	}

	s, err := OpenYAML(path)
	if err != nil {
		t.Fatalf("OpenYAML: %v", err)
	}
	tasks, err := s.Tasks()
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Priority != model.PriorityHigh || tasks[0].ID == "" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}

	// Assigned ids are persisted so they stay stable across loads.
	again, _ := s.Tasks()
	if again[0].ID != tasks[0].ID {
		t.Errorf("id changed between loads: %s != %s", again[0].ID, tasks[0].ID)
	}

	prefs, _ := s.Preferences()
	if prefs.DailyStudyHours != 5 || prefs.BreakMinutes != 20 {
		t.Errorf("unexpected preferences: %+v", prefs)
	}
}

func TestYAMLStoreRejectsBadFile(t *testing.T) {
	dir := t.TempDir()

	malformed := filepath.Join(dir, "malformed.yml")
	os.WriteFile(malformed, []byte("tasks: [unclosed"), 0o644)
	if _, err := OpenYAML(malformed); err == nil {
		t.Error("expected parse error")
	}

	invalid := filepath.Join(dir, "invalid.yml")
	os.WriteFile(invalid, []byte("tasks:\n  - course: Math\n    title: X\n    due_date: 2024-01-05\n    priority: High\n    estimated_hours: 0\n"), 0o644)
	if _, err := OpenYAML(invalid); !errors.Is(err, model.ErrInvalidTask) {
		t.Errorf("expected ErrInvalidTask, got %v", err)
	}
}

func TestYAMLStorePreferencesFromFile(t *testing.T) {
	dir := t.TempDir()

	partial := filepath.Join(dir, "partial.yml")
	if err := os.WriteFile(partial, []byte("preferences:\n  daily_study_hours: 6\n"), 0o644); err != nil {
		t.Fatalf("Failed to write ledger: %v", err)
	}
	s, err := OpenYAML(partial)
	if err != nil {
		t.Fatalf("OpenYAML: %v", err)
	}
	prefs, err := s.Preferences()
	if err != nil {
		t.Fatalf("Preferences: %v", err)
	}
	want := model.Preferences{DailyStudyHours: 6, FocusSessionHours: 2, BreakMinutes: 15}
	if prefs != want {
		t.Errorf("got %+v, want %+v", prefs, want)
	}

	invalid := filepath.Join(dir, "invalid.yml")
	if err := os.WriteFile(invalid, []byte("preferences:\n  focus_session_hours: 0\n"), 0o644); err != nil {
		t.Fatalf("Failed to write ledger: %v", err)
	}
	if _, err := OpenYAML(invalid); !errors.Is(err, model.ErrInvalidPreferences) {
		t.Errorf("expected ErrInvalidPreferences, got %v", err)
	}
}

func TestResolveTaskID(t *testing.T) {
	tasks := []model.Task{{ID: "a1"}, {ID: "b2"}}

	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{ref: "b2", want: "b2"},
		{ref: "1", want: "a1"},
		{ref: "2", want: "b2"},
		{ref: "3", wantErr: true},
		{ref: "0", wantErr: true},
		{ref: "zz", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ResolveTaskID(tasks, tt.ref)
		if tt.wantErr {
			if !errors.Is(err, ErrTaskNotFound) {
				t.Errorf("ResolveTaskID(%q): expected ErrTaskNotFound, got %v", tt.ref, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ResolveTaskID(%q) = %q, %v; want %q", tt.ref, got, err, tt.want)
		}
	}
}
