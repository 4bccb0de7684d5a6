package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bookloom/backend/middleware"
	"github.com/bookloom/backend/service"
)

type UploadHandler struct {
	Covers   *service.CoverService // nil when S3 is not configured
	MaxBytes int64
}

type uploadResponse struct {
	URL string `json:"url"`
}

// UploadCover stores a book cover image and returns the path to serve it
// from. POST /upload_cover
func (h *UploadHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.IdentityFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized access")
		return
	}
	if h.Covers == nil {
		writeError(w, http.StatusServiceUnavailable, "cover storage not configured")
		return
	}
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image")
		return
	}
	defer file.Close()
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "file must be an image")
		return
	}
	url, err := h.Covers.Upload(r.Context(), header.Filename, file, contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store cover")
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{URL: url})
}

// Cover streams a stored cover image. Public so img src works.
// GET /covers/{key}
func (h *UploadHandler) Cover(w http.ResponseWriter, r *http.Request) {
	if h.Covers == nil {
		writeError(w, http.StatusNotFound, "no cover")
		return
	}
	key := chi.URLParam(r, "key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing key")
		return
	}
	body, contentType, err := h.Covers.Get(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusNotFound, "no cover")
		return
	}
	defer body.Close()
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	io.Copy(w, body)
}
