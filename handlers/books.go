package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookloom/backend/models"
	"github.com/bookloom/backend/service"
	"github.com/bookloom/backend/store"
)

const popularLimit = 6

var (
	errInvalidPage  = errors.New("page must be a positive number")
	errInvalidLimit = errors.New("limit must be between 1 and 100")
)

type BooksHandler struct {
	DB     *store.DB
	Covers *service.CoverService // nil when S3 is not configured
}

// Categories lists the catalog's categories. GET /categories
func (h *BooksHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.DB.AllCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// ByCategory lists books in one category. GET /category/{id}
func (h *BooksHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	books, err := h.DB.BooksByCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

// Details fetches one book. GET /details/{id}
func (h *BooksHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// Popular lists the top-rated books. GET /popular_book
func (h *BooksHandler) Popular(w http.ResponseWriter, r *http.Request) {
	books, err := h.DB.PopularBooks(r.Context(), popularLimit)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

type pagedBooksResponse struct {
	Total int64         `json:"total"`
	Books []models.Book `json:"books"`
}

// All returns one page of the catalog with the total count of the filtered
// set. GET /all_books?books=&page=&limit=
func (h *BooksHandler) All(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePagination(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	availableOnly := r.URL.Query().Get("books") == "available"
	books, total, err := h.DB.PagedBooks(r.Context(), availableOnly, page, limit)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	writeJSON(w, http.StatusOK, pagedBooksResponse{Total: total, Books: books})
}

type addBookRequest struct {
	Name        string          `json:"name"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	AuthorName  string          `json:"authorName"`
	AuthorEmail string          `json:"authorEmail"`
	Description string          `json:"description"`
	Rating      float64         `json:"rating"`
	Quantity    json.RawMessage `json:"quantity"`
}

// parseQuantity coerces quantity, which the frontend form sends as either a
// JSON number or a string.
func parseQuantity(raw json.RawMessage) (int, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("quantity must be a non-negative number")
	}
	return n, nil
}

// Add inserts a book owned by the caller. POST /add_books
func (h *BooksHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.AuthorEmail = strings.TrimSpace(strings.ToLower(req.AuthorEmail))
	if !requireOwner(w, r, req.AuthorEmail) {
		return
	}
	if req.Name == "" || req.Category == "" {
		writeError(w, http.StatusBadRequest, "name and category required")
		return
	}
	quantity, err := parseQuantity(req.Quantity)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	book := &models.Book{
		Name:        req.Name,
		Image:       req.Image,
		Category:    req.Category,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Description: req.Description,
		Rating:      req.Rating,
		Quantity:    quantity,
		CreatedAt:   time.Now(),
	}
	id, err := h.DB.InsertBook(r.Context(), book)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	book.ID = id
	writeJSON(w, http.StatusCreated, book)
}

type updateBookRequest struct {
	Name        *string  `json:"name"`
	Image       *string  `json:"image"`
	Category    *string  `json:"category"`
	AuthorName  *string  `json:"authorName"`
	Description *string  `json:"description"`
	Rating      *float64 `json:"rating"`
}

// Update applies a partial edit to a book the caller owns.
// PATCH /update_book?id=&email=
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !requireOwner(w, r, strings.TrimSpace(strings.ToLower(r.URL.Query().Get("email")))) {
		return
	}
	id, err := primitive.ObjectIDFromHex(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}
	var req updateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.AuthorName != nil {
		fields["authorName"] = *req.AuthorName
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if err := h.DB.UpdateBook(r.Context(), id, fields); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Delete removes a book the caller owns, along with its stored cover image
// when there is one. DELETE /delete_book?id=&email=
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !requireOwner(w, r, strings.TrimSpace(strings.ToLower(r.URL.Query().Get("email")))) {
		return
	}
	id, err := primitive.ObjectIDFromHex(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}
	image, err := h.DB.DeleteBook(r.Context(), id)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	if h.Covers != nil {
		if key := service.CoverKeyFromURL(image); key != "" {
			_ = h.Covers.Delete(r.Context(), key)
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func parsePagination(pageStr, limitStr string) (page, limit int64, err error) {
	page, limit = 1, 10
	if pageStr != "" {
		page, err = strconv.ParseInt(pageStr, 10, 64)
		if err != nil || page < 1 {
			return 0, 0, errInvalidPage
		}
	}
	if limitStr != "" {
		limit, err = strconv.ParseInt(limitStr, 10, 64)
		if err != nil || limit < 1 || limit > 100 {
			return 0, 0, errInvalidLimit
		}
	}
	return page, limit, nil
}
