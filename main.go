package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trackforge/internal/config"
	"trackforge/internal/db"
	"trackforge/internal/handlers"
	"trackforge/internal/web"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConn := initDB(cfg)
	defer dbConn.Close()

	mux := initHandlers(cfg, dbConn)
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: handlers.Logging(mux),
	}
	startServer(server)
}

func initDB(cfg *config.Config) *sql.DB {
	dbConn, err := db.Connect(cfg.DB.Driver, cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.EnsureSchema(dbConn, cfg.DB.Driver); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	return dbConn
}

func initHandlers(cfg *config.Config, dbConn *sql.DB) *http.ServeMux {
	templates, err := web.Templates()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	handler := &handlers.Handler{
		TaskRepo:     db.NewTaskRepository(dbConn),
		DB:           dbConn,
		Templates:    templates,
		Hub:          handlers.NewHub(),
		Auth:         cfg.Auth,
		LoginLimiter: handlers.NewRateLimiter(5, time.Second),
	}
	mux := http.NewServeMux()
	handler.Register(mux)
	return mux
}

func startServer(server *http.Server) {
	log.Printf("Starting trackforge on %s", server.Addr)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
