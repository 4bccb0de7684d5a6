package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookloom/backend/middleware"
	"github.com/bookloom/backend/token"
)

func sessionCookieFrom(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func Test_IssueToken_SetsVerifiableCookie(t *testing.T) {
	tokens := token.NewService("test-secret")
	h := &AuthHandler{Tokens: tokens}

	req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"Reader@Example.com"}`))
	rr := httptest.NewRecorder()
	h.IssueToken(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	c := sessionCookieFrom(t, rr)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	claims, err := tokens.Verify(c.Value)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", claims.Email)
}

func Test_IssueToken_ProductionCookiePolicy(t *testing.T) {
	h := &AuthHandler{Tokens: token.NewService("test-secret"), Production: true}

	req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"reader@example.com"}`))
	rr := httptest.NewRecorder()
	h.IssueToken(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	c := sessionCookieFrom(t, rr)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
}

func Test_IssueToken_MissingEmail(t *testing.T) {
	h := &AuthHandler{Tokens: token.NewService("test-secret")}

	req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h.IssueToken(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func Test_Logout_ClearsCookie(t *testing.T) {
	h := &AuthHandler{Tokens: token.NewService("test-secret")}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	c := sessionCookieFrom(t, rr)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}

func Test_CheckLibrarian_OwnershipMismatch(t *testing.T) {
	h := &AuthHandler{Tokens: token.NewService("test-secret")}

	req := httptest.NewRequest(http.MethodPost, "/check_librarian", strings.NewReader(`{"email":"someone-else@example.com"}`))
	rr := serveAs(t, "reader@example.com", h.CheckLibrarian, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
