package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/bryan-cox/studyledger/internal/model"
)

// ledger is the top-level structure of the YAML file.
type ledger struct {
	Preferences *model.Preferences `yaml:"preferences,omitempty"`
	Tasks       []model.Task       `yaml:"tasks"`
}

// YAMLStore keeps the ledger in a single YAML file. The file is re-read on
// every call so hand edits are picked up.
type YAMLStore struct {
	path string
	mu   sync.Mutex
}

// OpenYAML returns a store backed by the file at path. A missing file is an
// empty ledger; it is created on the first write.
func OpenYAML(path string) (*YAMLStore, error) {
	s := &YAMLStore{path: path}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *YAMLStore) Tasks() ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load()
	if err != nil {
		return nil, err
	}
	return l.Tasks, nil
}

func (s *YAMLStore) AddTask(task model.Task) (model.Task, error) {
	task, err := prepareTask(task)
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load()
	if err != nil {
		return model.Task{}, err
	}
	l.Tasks = append(l.Tasks, task)
	if err := s.save(l); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *YAMLStore) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load()
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(l.Tasks, func(t model.Task) bool { return t.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	l.Tasks = slices.Delete(l.Tasks, idx, idx+1)
	return s.save(l)
}

func (s *YAMLStore) Preferences() (model.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load()
	if err != nil {
		return model.Preferences{}, err
	}
	if l.Preferences == nil {
		return model.DefaultPreferences(), nil
	}
	return *l.Preferences, nil
}

func (s *YAMLStore) SavePreferences(prefs model.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load()
	if err != nil {
		return err
	}
	l.Preferences = &prefs
	return s.save(l)
}

// Close is a no-op; the file is not held open between calls.
func (s *YAMLStore) Close() error {
	return nil
}

func (s *YAMLStore) load() (ledger, error) {
	var l ledger
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return l, fmt.Errorf("could not read file '%s': %w", s.path, err)
	}

	if err := yaml.Unmarshal(data, &l); err != nil {
		safeData, _ := json.Marshal(string(data))
		return l, fmt.Errorf("could not parse YAML from '%s': %w. Content: %s", s.path, err, safeData)
	}

	if l.Preferences != nil {
		if err := l.Preferences.Validate(); err != nil {
			return l, fmt.Errorf("preferences in '%s': %w", s.path, err)
		}
	}

	// Hand-written entries may lack ids or use lower-case priorities.
	assigned := false
	for i := range l.Tasks {
		task := &l.Tasks[i]
		if p, err := model.ParsePriority(string(task.Priority)); err == nil {
			task.Priority = p
		}
		if err := task.Validate(); err != nil {
			return l, fmt.Errorf("task %d in '%s': %w", i+1, s.path, err)
		}
		if task.ID == "" {
			task.ID = uuid.New().String()
			assigned = true
		}
	}
	if assigned {
		if err := s.save(l); err != nil {
			return l, err
		}
	}
	return l, nil
}

// save writes to a temporary file in the same directory and renames it over
// the ledger.
func (s *YAMLStore) save(l ledger) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("could not encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".studyledger-*.yml")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write '%s': %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close '%s': %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("could not replace '%s': %w", s.path, err)
	}
	return nil
}
