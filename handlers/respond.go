package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bookloom/backend/middleware"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// requireOwner enforces ownership authorization: the verified identity must
// match the subject email supplied in the request. Writes the response and
// returns false on failure.
func requireOwner(w http.ResponseWriter, r *http.Request, subjectEmail string) bool {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized access")
		return false
	}
	if subjectEmail == "" || ident.Email != subjectEmail {
		writeError(w, http.StatusForbidden, "forbidden access")
		return false
	}
	return true
}
