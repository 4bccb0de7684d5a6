package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookloom/backend/middleware"
	"github.com/bookloom/backend/token"
)

func Test_Session_ValidCookie(t *testing.T) {
	tokens := token.NewService("test-secret")
	signed, err := tokens.Issue("reader@example.com")
	require.NoError(t, err)

	var got middleware.Identity
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = middleware.IdentityFromContext(r.Context())
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: signed})
	rr := httptest.NewRecorder()
	middleware.Session(tokens)(next).ServeHTTP(rr, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "reader@example.com", got.Email)
}

func Test_Session_Rejections(t *testing.T) {
	tokens := token.NewService("test-secret")
	foreign, err := token.NewService("other-secret").Issue("reader@example.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{name: "missing_cookie", cookie: nil},
		{name: "empty_cookie", cookie: &http.Cookie{Name: middleware.CookieName, Value: ""}},
		{name: "garbage_cookie", cookie: &http.Cookie{Name: middleware.CookieName, Value: "garbage"}},
		{name: "foreign_signature", cookie: &http.Cookie{Name: middleware.CookieName, Value: foreign}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var called bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			rr := httptest.NewRecorder()
			middleware.Session(tokens)(next).ServeHTTP(rr, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func Test_CORS_CredentialedOrigin(t *testing.T) {
	mw := middleware.CORS([]string{"http://localhost:5173"})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func Test_CORS_UnknownOrigin(t *testing.T) {
	mw := middleware.CORS([]string{"http://localhost:5173"})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
