package repositories

import (
	"context"
	"time"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCategoryRepository struct {
	collection *mongo.Collection
}

func NewMongoCategoryRepository(col *mongo.Collection) *MongoCategoryRepository {
	return &MongoCategoryRepository{collection: col}
}

// Create rejects a keyword list identical to an existing category's.
func (r *MongoCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	n, err := r.collection.CountDocuments(ctx, bson.M{"keywords": category.Keywords})
	if err != nil {
		return mongoError(err, "Category", "create")
	}
	if n > 0 {
		return apperrors.Conflict("Category already exists")
	}
	if category.ID == "" {
		category.ID = models.NewID()
	}
	now := time.Now().UTC()
	category.CreatedAt, category.UpdatedAt = now, now
	if _, err := r.collection.InsertOne(ctx, category); err != nil {
		return mongoError(err, "Category", "create")
	}
	return nil
}

func (r *MongoCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoCategoryRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoCategoryRepository) FindByKeywords(ctx context.Context, keywords []string) ([]models.Category, error) {
	if len(keywords) == 0 {
		return []models.Category{}, nil
	}
	patterns := make([]primitive.Regex, len(keywords))
	for i, k := range keywords {
		patterns[i] = exactRegex(k)
	}
	return r.find(ctx, bson.M{"keywords": bson.M{"$in": patterns}})
}

func (r *MongoCategoryRepository) FindByKeywordSubstring(ctx context.Context, term string) ([]models.Category, error) {
	return r.find(ctx, bson.M{"keywords": containsRegex(term)})
}

func (r *MongoCategoryRepository) find(ctx context.Context, filter bson.M) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, mongoError(err, "Category", "list")
	}
	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, mongoError(err, "Category", "decode")
	}
	return categories, nil
}

func (r *MongoCategoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoError(err, "Category", "delete")
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("Category not found")
	}
	return nil
}
