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

// serveAs runs the handler behind the session guard with a cookie for email,
// the way the router wires protected routes.
func serveAs(t *testing.T, email string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	tokens := token.NewService("test-secret")
	signed, err := tokens.Issue(email)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: signed})
	rr := httptest.NewRecorder()
	middleware.Session(tokens)(h).ServeHTTP(rr, req)
	return rr
}

func Test_ParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int64
		wantLimit int64
		wantErr   bool
	}{
		{name: "defaults", page: "", limit: "", wantPage: 1, wantLimit: 10},
		{name: "explicit", page: "2", limit: "9", wantPage: 2, wantLimit: 9},
		{name: "zero_page", page: "0", limit: "9", wantErr: true},
		{name: "negative_page", page: "-1", limit: "9", wantErr: true},
		{name: "non_numeric_page", page: "two", limit: "9", wantErr: true},
		{name: "zero_limit", page: "1", limit: "0", wantErr: true},
		{name: "oversized_limit", page: "1", limit: "500", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, limit, err := parsePagination(tc.page, tc.limit)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantLimit, limit)
		})
	}
}

func Test_ParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "json_number", raw: `7`, want: 7},
		{name: "string_number", raw: `"7"`, want: 7},
		{name: "zero", raw: `0`, want: 0},
		{name: "negative", raw: `-1`, wantErr: true},
		{name: "non_numeric", raw: `"lots"`, wantErr: true},
		{name: "missing", raw: ``, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseQuantity([]byte(tc.raw))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func Test_Add_NoSession(t *testing.T) {
	h := &BooksHandler{}
	req := httptest.NewRequest(http.MethodPost, "/add_books", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	tokens := token.NewService("test-secret")
	middleware.Session(tokens)(http.HandlerFunc(h.Add)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func Test_Add_OwnershipMismatch(t *testing.T) {
	h := &BooksHandler{}
	body := `{"name":"Dune","category":"Sci-Fi","authorEmail":"someone-else@example.com","quantity":"3"}`
	req := httptest.NewRequest(http.MethodPost, "/add_books", strings.NewReader(body))
	rr := serveAs(t, "owner@example.com", h.Add, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func Test_Add_InvalidQuantity(t *testing.T) {
	h := &BooksHandler{}
	tests := []struct {
		name string
		body string
	}{
		{name: "non_numeric", body: `{"name":"Dune","category":"Sci-Fi","authorEmail":"owner@example.com","quantity":"lots"}`},
		{name: "negative", body: `{"name":"Dune","category":"Sci-Fi","authorEmail":"owner@example.com","quantity":"-2"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/add_books", strings.NewReader(tc.body))
			rr := serveAs(t, "owner@example.com", h.Add, req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func Test_Update_OwnershipMismatch(t *testing.T) {
	h := &BooksHandler{}
	req := httptest.NewRequest(http.MethodPatch, "/update_book?id=abc&email=someone-else@example.com", strings.NewReader(`{"name":"x"}`))
	rr := serveAs(t, "owner@example.com", h.Update, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func Test_Delete_OwnershipMismatch(t *testing.T) {
	h := &BooksHandler{}
	req := httptest.NewRequest(http.MethodDelete, "/delete_book?id=abc&email=someone-else@example.com", nil)
	rr := serveAs(t, "owner@example.com", h.Delete, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
