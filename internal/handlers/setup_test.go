package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"trackforge/internal/db"
	"trackforge/internal/web"

	_ "github.com/mattn/go-sqlite3"
)

func setupHandler(t *testing.T) *Handler {
	t.Helper()
	dbx, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.EnsureSchema(dbx, "sqlite3"); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		if err := dbx.Close(); err != nil {
			log.Printf("close db: %v", err)
		}
	})

	templates, err := web.Templates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	return &Handler{
		TaskRepo:  db.NewTaskRepository(dbx),
		DB:        dbx,
		Templates: templates,
		Hub:       NewHub(),
	}
}

func postForm(t *testing.T, h http.HandlerFunc, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func requireRedirectHome(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("redirect location = %q, want %q", loc, "/")
	}
}
