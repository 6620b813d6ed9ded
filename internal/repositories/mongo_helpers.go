package repositories

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ecobloom/internal/apperrors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	CategoriesCollection = "categories"
	PlantsCollection     = "plants"
	OrdersCollection     = "orders"
	UsersCollection      = "users"
	ContactsCollection   = "contacts"
)

func mongoError(err error, entity, op string) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperrors.NotFound(entity + " not found")
	case mongo.IsDuplicateKeyError(err):
		return apperrors.Conflict(entity + " already exists")
	default:
		return fmt.Errorf("failed to %s %s: %w", op, strings.ToLower(entity), err)
	}
}

// containsRegex matches term literally anywhere, ignoring case.
func containsRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

// exactRegex matches term as the whole value, ignoring case.
func exactRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(term) + "$", Options: "i"}
}

func findPage(page Page) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if page.Skip > 0 {
		opts.SetSkip(page.Skip)
	}
	if page.Limit > 0 {
		opts.SetLimit(page.Limit)
	}
	return opts
}

// NewMongoStore wires every Mongo repository onto db.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Categories: NewMongoCategoryRepository(db.Collection(CategoriesCollection)),
		Plants:     NewMongoPlantRepository(db.Collection(PlantsCollection)),
		Orders:     NewMongoOrderRepository(db.Collection(OrdersCollection)),
		Users:      NewMongoUserRepository(db.Collection(UsersCollection)),
		Contacts:   NewMongoContactRepository(db.Collection(ContactsCollection)),
	}
}
