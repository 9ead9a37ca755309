package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bryan-cox/studyledger/internal/model"
)

// SQLiteStore keeps the ledger in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path and initializes the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite handles one writer at a time

	s := &SQLiteStore{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		course TEXT NOT NULL,
		title TEXT NOT NULL,
		due_date TEXT NOT NULL,
		priority TEXT NOT NULL,
		estimated_hours REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS preferences (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		daily_study_hours REAL NOT NULL,
		focus_session_hours REAL NOT NULL,
		break_minutes INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Tasks() ([]model.Task, error) {
	rows, err := s.db.Query(`
		SELECT id, course, title, due_date, priority, estimated_hours
		FROM tasks
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var task model.Task
		var due, priority string
		if err := rows.Scan(&task.ID, &task.Course, &task.Title, &due, &priority, &task.EstimatedHours); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if task.DueDate, err = model.ParseDate(due); err != nil {
			return nil, fmt.Errorf("task %s: %w", task.ID, err)
		}
		task.Priority = model.Priority(priority)
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *SQLiteStore) AddTask(task model.Task) (model.Task, error) {
	task, err := prepareTask(task)
	if err != nil {
		return model.Task{}, err
	}

	_, err = s.db.Exec(`
		INSERT INTO tasks (id, course, title, due_date, priority, estimated_hours)
		VALUES (?, ?, ?, ?, ?, ?)
	`, task.ID, task.Course, task.Title, task.DueDate.String(), string(task.Priority), task.EstimatedHours)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

func (s *SQLiteStore) DeleteTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) Preferences() (model.Preferences, error) {
	var prefs model.Preferences
	err := s.db.QueryRow(`
		SELECT daily_study_hours, focus_session_hours, break_minutes
		FROM preferences
		WHERE id = 1
	`).Scan(&prefs.DailyStudyHours, &prefs.FocusSessionHours, &prefs.BreakMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultPreferences(), nil
	}
	if err != nil {
		return model.Preferences{}, fmt.Errorf("query preferences: %w", err)
	}
	return prefs, nil
}

func (s *SQLiteStore) SavePreferences(prefs model.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO preferences (id, daily_study_hours, focus_session_hours, break_minutes)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			daily_study_hours = excluded.daily_study_hours,
			focus_session_hours = excluded.focus_session_hours,
			break_minutes = excluded.break_minutes
	`, prefs.DailyStudyHours, prefs.FocusSessionHours, prefs.BreakMinutes)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
