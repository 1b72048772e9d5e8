package handlers

import (
	"database/sql"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"trackforge/internal/config"
	"trackforge/internal/db"
)

type Handler struct {
	TaskRepo     *db.TaskRepository
	DB           *sql.DB
	Templates    *template.Template
	Hub          *Hub
	Auth         config.AuthConfig
	LoginLimiter *RateLimiter
}

// Register wires all routes onto the mux. Every page and action sits behind
// RequireAuth, which is a no-op unless a password hash is configured.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.RequireAuth(h.TodayView))
	mux.HandleFunc("/add", h.RequireAuth(h.AddTask))
	mux.HandleFunc("/done/", h.RequireAuth(h.MarkDone))
	mux.HandleFunc("/delete/", h.RequireAuth(h.DeleteTask))
	mux.HandleFunc("/ws", h.RequireAuth(h.HandleWebSocket))
	mux.HandleFunc("/login", h.HandleLogin)
	mux.HandleFunc("/healthz", h.Healthz)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.PingContext(r.Context()); err != nil {
		sendError(w, "db not ready", http.StatusInternalServerError)
		return
	}
	w.Write([]byte("ok"))
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

func sendError(w http.ResponseWriter, msg string, code int) {
	http.Error(w, msg, code)
}

type RateLimiter struct {
	attempts map[string]int
	limit    int
	mutex    sync.Mutex
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		attempts: make(map[string]int),
		limit:    limit,
		window:   window,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	count, exists := rl.attempts[ip]
	if !exists {
		rl.attempts[ip] = 1
		return true
	}
	if count >= rl.limit {
		return false
	}
	rl.attempts[ip]++
	return true
}

func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(rl.window)
		rl.mutex.Lock()
		rl.attempts = make(map[string]int)
		rl.mutex.Unlock()
	}
}
