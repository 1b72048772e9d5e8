package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const sessionCookie = "trackforge_session"

func (h *Handler) authEnabled() bool {
	return h.Auth.PasswordHash != ""
}

/*
RequireAuth guards a page behind the single-user login. When no password hash
is configured the whole mechanism is off and requests pass straight through.
Browsers without a valid session cookie are redirected to the login page on
GET; state-changing requests get a plain 401.
*/
func (h *Handler) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.authEnabled() {
			next(w, r)
			return
		}
		cookie, err := r.Cookie(sessionCookie)
		if err == nil {
			token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
				return []byte(h.Auth.JWTSecret), nil
			})
			if err == nil && token.Valid {
				next(w, r)
				return
			}
		}
		if r.Method == http.MethodGet {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		sendError(w, "Unauthorized", http.StatusUnauthorized)
	}
}

type loginPage struct {
	Error string
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.authEnabled() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.render(w, http.StatusOK, "login.html", loginPage{})
	case http.MethodPost:
		h.login(w, r)
	default:
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	clientIP := r.RemoteAddr
	if h.LoginLimiter != nil && !h.LoginLimiter.Allow(clientIP) {
		log.Printf("Rate limit exceeded for IP: %s", clientIP)
		sendError(w, "Too many login attempts. Please try again later.", http.StatusTooManyRequests)
		return
	}

	password := r.FormValue("password")
	if err := bcrypt.CompareHashAndPassword(
		[]byte(h.Auth.PasswordHash), []byte(password)); err != nil {
		log.Printf("Invalid login attempt from %s", clientIP)
		h.render(w, http.StatusUnauthorized, "login.html", loginPage{Error: "Wrong password."})
		return
	}

	tokenString, err := h.generateSessionToken()
	if err != nil {
		log.Printf("Error generating token: %v", err)
		sendError(w, "Cannot create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) generateSessionToken() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "trackforge",
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})
	return token.SignedString([]byte(h.Auth.JWTSecret))
}
