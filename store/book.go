package store

import (
	"context"

	"github.com/bookloom/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PopularRatingFloor is the minimum rating for the popular-books shelf.
const PopularRatingFloor = 4.0

func (db *DB) InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	res, err := db.Books().InsertOne(ctx, book, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := retryRead(ctx, func() error {
		return db.Books().FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (db *DB) BooksByCategory(ctx context.Context, category string) ([]models.Book, error) {
	return db.findBooks(ctx, bson.M{"category": category}, options.Find())
}

// PopularBooks returns the highest-rated books at or above the rating floor.
func (db *DB) PopularBooks(ctx context.Context, limit int64) ([]models.Book, error) {
	filter := bson.M{"rating": bson.M{"$gte": PopularRatingFloor}}
	opts := options.Find().SetSort(bson.M{"rating": -1}).SetLimit(limit)
	return db.findBooks(ctx, filter, opts)
}

// PagedBooks returns one page of the catalog plus the total count of the
// filtered set. Page numbering starts at 1.
func (db *DB) PagedBooks(ctx context.Context, availableOnly bool, page, limit int64) ([]models.Book, int64, error) {
	filter := bson.M{}
	if availableOnly {
		filter["quantity"] = bson.M{"$gt": 0}
	}
	var total int64
	err := retryRead(ctx, func() error {
		var err error
		total, err = db.Books().CountDocuments(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSkip((page - 1) * limit).SetLimit(limit)
	books, err := db.findBooks(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// UpdateBook applies a partial $set of the editable fields by ID.
func (db *DB) UpdateBook(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	_, err := db.Books().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

// DeleteBook removes a book by ID and returns its Image so the caller can
// clean up a stored cover.
func (db *DB) DeleteBook(ctx context.Context, id primitive.ObjectID) (image string, err error) {
	var book models.Book
	err = db.Books().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&book)
	if err != nil {
		return "", err
	}
	return book.Image, nil
}

func (db *DB) AllCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := retryRead(ctx, func() error {
		cur, err := db.Categories().Find(ctx, bson.M{})
		if err != nil {
			return err
		}
		defer cur.Close(ctx)
		categories = categories[:0]
		return cur.All(ctx, &categories)
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (db *DB) findBooks(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Book, error) {
	var books []models.Book
	err := retryRead(ctx, func() error {
		cur, err := db.Books().Find(ctx, filter, opts)
		if err != nil {
			return err
		}
		defer cur.Close(ctx)
		books = books[:0]
		return cur.All(ctx, &books)
	})
	if err != nil {
		return nil, err
	}
	return books, nil
}
