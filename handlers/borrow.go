package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bookloom/backend/models"
	"github.com/bookloom/backend/store"
)

type BorrowHandler struct {
	DB *store.DB
}

type borrowRequest struct {
	BookID      string  `json:"bookId"`
	UserEmail   string  `json:"userEmail"`
	ReturnDate  string  `json:"returnDate"`
	Name        string  `json:"name"`
	AuthorName  string  `json:"authorName"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
}

// Borrow takes one copy of a book for the caller. The display fields in the
// request become the loan's snapshot. PUT /borrow_book
func (h *BorrowHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req borrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.UserEmail = strings.TrimSpace(strings.ToLower(req.UserEmail))
	if !requireOwner(w, r, req.UserEmail) {
		return
	}
	bookID, err := primitive.ObjectIDFromHex(req.BookID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid book id")
		return
	}
	rec := &models.BorrowRecord{
		UserEmail:    req.UserEmail,
		BookID:       bookID,
		Name:         req.Name,
		AuthorName:   req.AuthorName,
		Category:     req.Category,
		Image:        req.Image,
		Rating:       req.Rating,
		Description:  req.Description,
		BorrowedDate: time.Now(),
		ReturnDate:   req.ReturnDate,
	}
	switch err := h.DB.BorrowBook(r.Context(), rec); err {
	case nil:
		writeJSON(w, http.StatusCreated, rec)
	case store.ErrAlreadyBorrowed:
		writeError(w, http.StatusConflict, "you have already borrowed this book")
	case store.ErrOutOfStock:
		writeError(w, http.StatusConflict, "no copies available")
	default:
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
	}
}

// Borrowed lists the caller's active loans. GET /borrowed_books/{id}
func (h *BorrowHandler) Borrowed(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(strings.ToLower(chi.URLParam(r, "id")))
	records, err := h.DB.BorrowsByEmail(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	if records == nil {
		records = []models.BorrowRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

type returnResponse struct {
	Success  bool `json:"success"`
	Returned bool `json:"returned"`
}

// Return ends a loan and puts the copy back in stock. Returning a book with
// no matching loan is a no-op that still reports success.
// PUT /return_book?borrowId=&userEmail=
func (h *BorrowHandler) Return(w http.ResponseWriter, r *http.Request) {
	bookID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("borrowId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid borrow id")
		return
	}
	email := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("userEmail")))
	if email == "" {
		writeError(w, http.StatusBadRequest, "userEmail required")
		return
	}
	returned, err := h.DB.ReturnBook(r.Context(), bookID, email)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, returnResponse{Success: true, Returned: returned})
}
