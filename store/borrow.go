package store

import (
	"context"
	"errors"
	"log"

	"github.com/bookloom/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrOutOfStock means no copy was available to decrement (or the book
	// does not exist).
	ErrOutOfStock = errors.New("no available copies")
	// ErrAlreadyBorrowed means the borrower already holds this book.
	ErrAlreadyBorrowed = errors.New("book already borrowed by this user")
)

// BorrowBook takes one copy of rec.BookID for rec.UserEmail and records the
// loan. The decrement only matches documents with quantity > 0, so quantity
// can never go negative no matter how requests interleave. The unique
// (userEmail, bookId) index catches duplicate loans that slip past the
// pre-check; in that case the decrement is compensated before returning.
func (db *DB) BorrowBook(ctx context.Context, rec *models.BorrowRecord) error {
	n, err := db.Borrows().CountDocuments(ctx, bson.M{
		"userEmail": rec.UserEmail,
		"bookId":    rec.BookID,
	})
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrAlreadyBorrowed
	}

	res, err := db.Books().UpdateOne(ctx,
		bson.M{"_id": rec.BookID, "quantity": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"quantity": -1}},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrOutOfStock
	}

	ins, err := db.Borrows().InsertOne(ctx, rec)
	if err != nil {
		if restoreErr := db.incrementQuantity(ctx, rec.BookID); restoreErr != nil {
			log.Printf("borrow: failed to restore quantity for %s: %v", rec.BookID.Hex(), restoreErr)
		}
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyBorrowed
		}
		return err
	}
	rec.ID = ins.InsertedID.(primitive.ObjectID)
	return nil
}

// ReturnBook ends the loan of bookID held by email. The quantity increment
// only happens when a record was actually deleted, so returning a book that
// was never borrowed cannot inflate stock. Returns false when no loan
// matched.
func (db *DB) ReturnBook(ctx context.Context, bookID primitive.ObjectID, email string) (bool, error) {
	res, err := db.Borrows().DeleteOne(ctx, bson.M{"bookId": bookID, "userEmail": email})
	if err != nil {
		return false, err
	}
	if res.DeletedCount == 0 {
		return false, nil
	}
	return true, db.incrementQuantity(ctx, bookID)
}

// BorrowsByEmail lists the active loans for one borrower, in stored order.
func (db *DB) BorrowsByEmail(ctx context.Context, email string) ([]models.BorrowRecord, error) {
	var records []models.BorrowRecord
	err := retryRead(ctx, func() error {
		cur, err := db.Borrows().Find(ctx, bson.M{"userEmail": email})
		if err != nil {
			return err
		}
		defer cur.Close(ctx)
		records = records[:0]
		return cur.All(ctx, &records)
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (db *DB) incrementQuantity(ctx context.Context, bookID primitive.ObjectID) error {
	_, err := db.Books().UpdateOne(ctx,
		bson.M{"_id": bookID},
		bson.M{"$inc": bson.M{"quantity": 1}},
	)
	return err
}
