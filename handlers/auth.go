package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bookloom/backend/middleware"
	"github.com/bookloom/backend/store"
	"github.com/bookloom/backend/token"
)

type AuthHandler struct {
	DB     *store.DB
	Tokens *token.Service
	// Production switches the cookie to SameSite=None + Secure so the
	// cross-origin frontend can send it.
	Production bool
}

type tokenRequest struct {
	Email string `json:"email"`
}

// IssueToken signs a session token for the posted identity and delivers it
// as an http-only cookie. POST /jwt
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}
	signed, err := h.Tokens.Issue(req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create token")
		return
	}
	http.SetCookie(w, h.sessionCookie(signed, int(token.Validity/time.Second)))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout clears the session cookie. POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type librarianRequest struct {
	Email string `json:"email"`
}

type librarianResponse struct {
	Librarian bool `json:"librarian"`
}

// CheckLibrarian reports whether the caller's email is in the librarian
// set. The caller may only ask about themselves. POST /check_librarian
func (h *AuthHandler) CheckLibrarian(w http.ResponseWriter, r *http.Request) {
	var req librarianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !requireOwner(w, r, email) {
		return
	}
	admin, err := h.DB.AdminByEmail(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	if admin == nil {
		writeJSON(w, http.StatusNotFound, librarianResponse{Librarian: false})
		return
	}
	writeJSON(w, http.StatusOK, librarianResponse{Librarian: true})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     middleware.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if h.Production {
		c.SameSite = http.SameSiteNoneMode
		c.Secure = true
	}
	return c
}
