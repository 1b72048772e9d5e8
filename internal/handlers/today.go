package handlers

import (
	"context"
	"net/http"
	"time"

	"trackforge/internal/models"
)

// todayViewLimit caps the homepage at three visible tasks. It is a focus
// limit, not pagination: there is never a page two.
const todayViewLimit = 3

type todayPage struct {
	Today time.Time
	Items []*models.Task
}

// TodayView renders up to three tasks due today or earlier, with tasks
// already promoted to "today" listed before still-"scheduled" ones.
func (h *Handler) TodayView(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		sendError(w, "Not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	today := models.DateOnly(time.Now())
	items, err := h.TaskRepo.ListDue(ctx, today,
		[]models.TaskStatus{models.StatusToday, models.StatusScheduled}, todayViewLimit)
	if err != nil {
		sendError(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}
	h.render(w, http.StatusOK, "today.html", todayPage{Today: today, Items: items})
}
