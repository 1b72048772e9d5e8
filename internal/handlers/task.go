package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trackforge/internal/db"
	"trackforge/internal/models"
)

/*
handles POST /add: create a task from the form submission.

Missing or blank fields are normalized, never rejected: blank title becomes
"Untitled Task", pomos is clamped to 1..8, a missing due date means today.
Only an unparsable due date fails the request. Responds with a redirect
(post/redirect/get) so reloading the page cannot resubmit the form.
*/
func (h *Handler) AddTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	today := models.DateOnly(time.Now())

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = "Untitled Task"
	}

	var source *string
	if s := strings.TrimSpace(r.FormValue("source")); s != "" {
		source = &s
	}

	tags := strings.TrimSpace(r.FormValue("tags"))
	pomos := parsePomos(r.FormValue("pomos"))

	due := today
	if raw := r.FormValue("due"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			sendError(w, "due must be a YYYY-MM-DD date", http.StatusBadRequest)
			return
		}
		due = models.DateOnly(parsed)
	}

	task := &models.Task{
		Title:         title,
		Source:        source,
		Tags:          tags,
		EstimatePomos: pomos,
		DueDate:       due,
		Status:        models.StatusForDue(due, today),
		CreatedAt:     time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.TaskRepo.Create(ctx, task); err != nil {
		sendError(w, "Failed to create task", http.StatusInternalServerError)
		return
	}
	h.Hub.Broadcast("task_added", task.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handles POST /done/{id}: flip the task to done and stamp completed_at.
// Re-marking an already-done task is harmless; a deleted id is a 404.
func (h *Handler) MarkDone(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, err := taskIDFromPath(r.URL.Path, "/done/")
	if err != nil {
		sendError(w, "Task not found", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.TaskRepo.MarkDone(ctx, id, models.DateOnly(time.Now())); err != nil {
		if errors.Is(err, db.ErrTaskNotFound) {
			sendError(w, "Task not found", http.StatusNotFound)
			return
		}
		sendError(w, "Failed to mark task done", http.StatusInternalServerError)
		return
	}
	h.Hub.Broadcast("task_done", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handles POST /delete/{id}: remove the task permanently. No soft delete.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, err := taskIDFromPath(r.URL.Path, "/delete/")
	if err != nil {
		sendError(w, "Task not found", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.TaskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, db.ErrTaskNotFound) {
			sendError(w, "Task not found", http.StatusNotFound)
			return
		}
		sendError(w, "Failed to delete task", http.StatusInternalServerError)
		return
	}
	h.Hub.Broadcast("task_deleted", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func taskIDFromPath(path, prefix string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(path, prefix), 10, 64)
}

// parsePomos accepts only a plain run of digits; anything else falls back to
// the 1-pomo default. The parsed value is clamped to 1..8, and a digit string
// too long for int64 can only mean a huge number, so it clamps high.
func parsePomos(raw string) int {
	if !isDigits(raw) {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 8
	}
	return models.ClampEstimate(n)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
