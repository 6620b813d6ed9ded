package repositories

import (
	"context"
	"time"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{collection: col}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = models.NewID()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return mongoError(err, "User", "create")
	}
	return nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mongoError(err, "User", "get")
	}
	return &user, nil
}

func (r *MongoUserRepository) ExistsByEmailOrNumber(ctx context.Context, email, number string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"number": number},
	}})
	if err != nil {
		return false, mongoError(err, "User", "count")
	}
	return n > 0, nil
}

func (r *MongoUserRepository) NumberTakenByOther(ctx context.Context, number, userID string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"number": number, "_id": bson.M{"$ne": userID}})
	if err != nil {
		return false, mongoError(err, "User", "count")
	}
	return n > 0, nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return mongoError(err, "User", "update")
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("User not found")
	}
	return nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoError(err, "User", "delete")
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("User not found")
	}
	return nil
}
