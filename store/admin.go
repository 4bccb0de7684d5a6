package store

import (
	"context"

	"github.com/bookloom/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminByEmail returns the admin document for email, or nil when the email
// is not in the librarian set.
func (db *DB) AdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := retryRead(ctx, func() error {
		return db.Admins().FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	})
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
