// Package store persists tasks and preferences in a ledger.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/bryan-cox/studyledger/internal/model"
)

// ErrTaskNotFound is returned when deleting an unknown task id.
var ErrTaskNotFound = errors.New("task not found")

// Store is an ordered task collection plus the user's preferences.
type Store interface {
	// Tasks returns every task in insertion order.
	Tasks() ([]model.Task, error)
	// AddTask validates task, assigns it an id and appends it.
	AddTask(task model.Task) (model.Task, error)
	DeleteTask(id string) error
	// Preferences returns the saved preferences, or the defaults.
	Preferences() (model.Preferences, error)
	SavePreferences(prefs model.Preferences) error
	Close() error
}

// Open picks a backend from the path's extension: .db, .sqlite and .sqlite3
// open a SQLite database, anything else a YAML ledger file.
func Open(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := OpenYAML(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func prepareTask(task model.Task) (model.Task, error) {
	task.Course = strings.TrimSpace(task.Course)
	task.Title = strings.TrimSpace(task.Title)
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	task.ID = uuid.New().String()
	return task, nil
}

// ResolveTaskID maps a 1-based position from a task listing, or an id, to
// a task id.
func ResolveTaskID(tasks []model.Task, ref string) (string, error) {
	for _, task := range tasks {
		if task.ID == ref {
			return task.ID, nil
		}
	}
	if index, err := strconv.Atoi(ref); err == nil {
		if index < 1 || index > len(tasks) {
			return "", fmt.Errorf("%w: no task at position %d", ErrTaskNotFound, index)
		}
		return tasks[index-1].ID, nil
	}
	return "", fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
}
