package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryan-cox/studyledger/internal/model"
	"github.com/bryan-cox/studyledger/internal/report"
	"github.com/bryan-cox/studyledger/internal/scheduler"
	"github.com/bryan-cox/studyledger/internal/store"
)

// Handler serves the ledger routes. now supplies the scheduling date when a
// request does not pass ?today=.
type Handler struct {
	store store.Store
	now   func() time.Time
}

// ScheduleResponse is the body of GET /schedule.
type ScheduleResponse struct {
	Today    model.Date           `json:"today"`
	Sessions []model.StudySession `json:"sessions"`
	Overdue  []model.Task         `json:"overdue"`
	Report   string               `json:"report"`
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Preferences(); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTasks handles GET /tasks
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.Tasks()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// AddTask handles POST /tasks
func (h *Handler) AddTask(w http.ResponseWriter, r *http.Request) {
	var task model.Task
	if err := decodeJSON(r, &task); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if p, err := model.ParsePriority(string(task.Priority)); err == nil {
		task.Priority = p
	}

	created, err := h.store.AddTask(task)
	if errors.Is(err, model.ErrInvalidTask) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteTask handles DELETE /tasks/{id}
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.store.DeleteTask(id)
	if errors.Is(err, store.ErrTaskNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPreferences handles GET /preferences
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.store.Preferences()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// PutPreferences handles PUT /preferences
func (h *Handler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs model.Preferences
	if err := decodeJSON(r, &prefs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	err := h.store.SavePreferences(prefs)
	if errors.Is(err, model.ErrInvalidPreferences) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// Schedule handles GET /schedule?today=YYYY-MM-DD
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	today := model.DateOf(h.now())
	if q := r.URL.Query().Get("today"); q != "" {
		parsed, err := model.ParseDate(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		today = parsed
	}

	tasks, prefs, err := h.load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sessions, plan := scheduler.Generate(tasks, prefs, today)
	resp := ScheduleResponse{
		Today:    today,
		Sessions: sessions,
		Overdue:  plan.Overdue,
		Report:   report.FormatSchedule(plan),
	}
	if resp.Sessions == nil {
		resp.Sessions = []model.StudySession{}
	}
	if resp.Overdue == nil {
		resp.Overdue = []model.Task{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Stats handles GET /stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	tasks, prefs, err := h.load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report.Summarize(tasks, prefs))
}

func (h *Handler) load() ([]model.Task, model.Preferences, error) {
	tasks, err := h.store.Tasks()
	if err != nil {
		return nil, model.Preferences{}, err
	}
	prefs, err := h.store.Preferences()
	if err != nil {
		return nil, model.Preferences{}, err
	}
	return tasks, prefs, nil
}
