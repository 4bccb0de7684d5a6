package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BorrowRecord is one active loan of one copy of one book. The book fields
// are a snapshot taken at borrow time, so later catalog edits do not change
// what the borrower sees on their shelf.
type BorrowRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserEmail    string             `bson:"userEmail" json:"userEmail"`
	BookID       primitive.ObjectID `bson:"bookId" json:"bookId"`
	Name         string             `bson:"name" json:"name"`
	AuthorName   string             `bson:"authorName" json:"authorName"`
	Category     string             `bson:"category" json:"category"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`
	Rating       float64            `bson:"rating" json:"rating"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	BorrowedDate time.Time          `bson:"borrowedDate" json:"borrowedDate"`
	// ReturnDate is display data only; nothing enforces it against the clock.
	ReturnDate string `bson:"returnDate" json:"returnDate"`
}
