package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"trackforge/internal/config"

	"golang.org/x/crypto/bcrypt"
)

const testPassword = "hunter2"

func setupAuthHandler(t *testing.T) *Handler {
	t.Helper()
	h := setupHandler(t)
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	h.Auth = config.AuthConfig{
		PasswordHash: string(hash),
		JWTSecret:    "test-secret",
	}
	return h
}

func TestRequireAuth_DisabledPassesThrough(t *testing.T) {
	h := setupHandler(t) // no password hash configured
	called := false
	wrapped := h.RequireAuth(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	wrapped(httptest.NewRecorder(), req)
	if !called {
		t.Error("handler not called with auth disabled")
	}
}

func TestRequireAuth_RedirectsBrowserToLogin(t *testing.T) {
	h := setupAuthHandler(t)
	wrapped := h.RequireAuth(h.TodayView)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	wrapped(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect location = %q, want /login", loc)
	}
}

func TestRequireAuth_RejectsUnauthenticatedPost(t *testing.T) {
	h := setupAuthHandler(t)
	wrapped := h.RequireAuth(h.DeleteTask)

	rec := postForm(t, wrapped, "/delete/1", url.Values{})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_BadToken(t *testing.T) {
	h := setupAuthHandler(t)
	wrapped := h.RequireAuth(h.TodayView)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "garbage"})
	rec := httptest.NewRecorder()
	wrapped(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want redirect to login", rec.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h := setupAuthHandler(t)

	rec := postForm(t, h.HandleLogin, "/login", url.Values{"password": {"nope"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Wrong password") {
		t.Errorf("error message not rendered:\n%s", rec.Body.String())
	}
}

func TestLogin_SuccessGrantsSession(t *testing.T) {
	h := setupAuthHandler(t)

	rec := postForm(t, h.HandleLogin, "/login", url.Values{"password": {testPassword}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	var session *http.Cookie
	for _, c := range cookies {
		if c.Name == sessionCookie {
			session = c
		}
	}
	if session == nil {
		t.Fatal("session cookie not set")
	}

	// the cookie opens the protected today view
	wrapped := h.RequireAuth(h.TodayView)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(session)
	page := httptest.NewRecorder()
	wrapped(page, req)
	if page.Code != http.StatusOK {
		t.Errorf("today view with session: status = %d, want 200", page.Code)
	}
}

func TestLogin_RateLimited(t *testing.T) {
	h := setupAuthHandler(t)
	h.LoginLimiter = NewRateLimiter(2, time.Minute)

	for i := 0; i < 2; i++ {
		postForm(t, h.HandleLogin, "/login", url.Values{"password": {"nope"}})
	}
	rec := postForm(t, h.HandleLogin, "/login", url.Values{"password": {"nope"}})
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}

func TestLogin_DisabledRedirectsHome(t *testing.T) {
	h := setupHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect location = %q, want /", loc)
	}
}
