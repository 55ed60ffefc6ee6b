package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"taskmaster/internal/model"
	"taskmaster/internal/recurrence"
	"taskmaster/internal/repository"
	"taskmaster/internal/service"
)

type taskRequest struct {
	OwnerID      string            `json:"owner_id"`
	ProjectID    *string           `json:"project_id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Priority     model.Priority    `json:"priority"`
	Status       model.Status      `json:"status"`
	DueDate      *time.Time        `json:"due_date"`
	ReminderDate *time.Time        `json:"reminder_date"`
	Tags         []string          `json:"tags"`
	Subtasks     []model.Subtask   `json:"subtasks"`
	Recurring    *model.Recurrence `json:"recurring"`
}

type taskUpdateRequest struct {
	Title        *string           `json:"title"`
	Description  *string           `json:"description"`
	Priority     *model.Priority   `json:"priority"`
	Status       *model.Status     `json:"status"`
	DueDate      *time.Time        `json:"due_date"`
	ReminderDate *time.Time        `json:"reminder_date"`
	Tags         []string          `json:"tags"`
	Subtasks     []model.Subtask   `json:"subtasks"`
	Recurring    *model.Recurrence `json:"recurring"`
}

type bulkUpdateRequest struct {
	IDs    []string     `json:"ids"`
	Status model.Status `json:"status"`
}

// taskPayload decorates a task with its recurrence description.
type taskPayload struct {
	model.Task
	RecurrenceText string `json:"recurrence_text"`
}

// updatePayload is the synchronous-trigger response shape: the updated
// task, plus the occurrence its completion spawned. next_occurrence is
// simply absent when nothing was produced; that is not an error.
type updatePayload struct {
	Task           taskPayload  `json:"task"`
	NextOccurrence *taskPayload `json:"next_occurrence,omitempty"`
}

type bulkPayload struct {
	Updated []taskPayload `json:"updated"`
	Spawned []taskPayload `json:"spawned,omitempty"`
	Missing []string      `json:"missing,omitempty"`
}

func toTaskPayload(t *model.Task) taskPayload {
	return taskPayload{Task: *t, RecurrenceText: recurrence.Describe(t.Recurring)}
}

func toUpdatePayload(res *service.UpdateResult) updatePayload {
	payload := updatePayload{Task: toTaskPayload(res.Task)}
	if res.NextOccurrence != nil {
		next := toTaskPayload(res.NextOccurrence)
		payload.NextOccurrence = &next
	}
	return payload
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	task, err := s.tasks.CreateTask(r.Context(), service.TaskInput{
		OwnerID:      req.OwnerID,
		ProjectID:    req.ProjectID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Status:       req.Status,
		DueDate:      req.DueDate,
		ReminderDate: req.ReminderDate,
		Tags:         req.Tags,
		Subtasks:     req.Subtasks,
		Recurring:    req.Recurring,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTaskPayload(task))
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	filter := repository.TaskFilter{
		OwnerID:   r.URL.Query().Get("owner_id"),
		Status:    model.Status(r.URL.Query().Get("status")),
		ProjectID: r.URL.Query().Get("project_id"),
	}
	tasks, err := s.tasks.ListTasks(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	payload := make([]taskPayload, 0, len(tasks))
	for i := range tasks {
		payload = append(payload, toTaskPayload(&tasks[i]))
	}
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTaskPayload(task))
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var req taskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	result, err := s.tasks.UpdateTask(r.Context(), chi.URLParam(r, "id"), service.TaskUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Status:       req.Status,
		DueDate:      req.DueDate,
		ReminderDate: req.ReminderDate,
		Tags:         req.Tags,
		Subtasks:     req.Subtasks,
		Recurring:    req.Recurring,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUpdatePayload(result))
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleComplete(w http.ResponseWriter, r *http.Request) {
	result, err := s.tasks.ToggleComplete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUpdatePayload(result))
}

func (s *Server) generateNext(w http.ResponseWriter, r *http.Request) {
	result, err := s.tasks.GenerateNext(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUpdatePayload(result))
}

func (s *Server) bulkUpdateTasks(w http.ResponseWriter, r *http.Request) {
	var req bulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "ids are required")
		return
	}
	result, err := s.tasks.BulkUpdateStatus(r.Context(), req.IDs, req.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	payload := bulkPayload{
		Updated: make([]taskPayload, 0, len(result.Updated)),
		Missing: result.Missing,
	}
	for i := range result.Updated {
		payload.Updated = append(payload.Updated, toTaskPayload(&result.Updated[i]))
	}
	for i := range result.Spawned {
		payload.Spawned = append(payload.Spawned, toTaskPayload(&result.Spawned[i]))
	}
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) analyticsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.analytics.Summarize(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
