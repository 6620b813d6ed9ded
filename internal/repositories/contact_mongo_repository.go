package repositories

import (
	"context"
	"time"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoContactRepository struct {
	collection *mongo.Collection
}

func NewMongoContactRepository(col *mongo.Collection) *MongoContactRepository {
	return &MongoContactRepository{collection: col}
}

func contactFilter(f ContactFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Term != "" {
		re := containsRegex(f.Term)
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"email": re},
			bson.M{"phone": re},
			bson.M{"message": re},
		}
	}
	return filter
}

func (r *MongoContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	if contact.ID == "" {
		contact.ID = models.NewID()
	}
	now := time.Now().UTC()
	contact.CreatedAt, contact.UpdatedAt = now, now
	if _, err := r.collection.InsertOne(ctx, contact); err != nil {
		return mongoError(err, "Contact", "create")
	}
	return nil
}

func (r *MongoContactRepository) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	var contact models.Contact
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&contact); err != nil {
		return nil, mongoError(err, "Contact", "get")
	}
	return &contact, nil
}

func (r *MongoContactRepository) List(ctx context.Context, filter ContactFilter, page Page) ([]models.Contact, error) {
	cursor, err := r.collection.Find(ctx, contactFilter(filter), findPage(page))
	if err != nil {
		return nil, mongoError(err, "Contact", "list")
	}
	contacts := []models.Contact{}
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, mongoError(err, "Contact", "decode")
	}
	return contacts, nil
}

func (r *MongoContactRepository) Count(ctx context.Context, filter ContactFilter) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, contactFilter(filter))
	if err != nil {
		return 0, mongoError(err, "Contact", "count")
	}
	return n, nil
}

func (r *MongoContactRepository) SetStatus(ctx context.Context, id string, status models.ContactStatus) (*models.Contact, error) {
	var contact models.Contact
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&contact); err != nil {
		return nil, mongoError(err, "Contact", "update")
	}
	return &contact, nil
}

func (r *MongoContactRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoError(err, "Contact", "delete")
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("Contact not found")
	}
	return nil
}
