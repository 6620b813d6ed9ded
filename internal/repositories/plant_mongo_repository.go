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

type MongoPlantRepository struct {
	collection *mongo.Collection
}

func NewMongoPlantRepository(col *mongo.Collection) *MongoPlantRepository {
	return &MongoPlantRepository{collection: col}
}

func plantFilter(f PlantFilter) bson.M {
	filter := bson.M{}
	if f.Name != "" {
		filter["name"] = containsRegex(f.Name)
	}
	if len(f.CategoryIDs) > 0 {
		filter["categories"] = bson.M{"$in": f.CategoryIDs}
	}
	if f.Available != nil {
		filter["available"] = *f.Available
	}
	return filter
}

func (r *MongoPlantRepository) Create(ctx context.Context, plant *models.Plant) error {
	if plant.ID == "" {
		plant.ID = models.NewID()
	}
	now := time.Now().UTC()
	plant.CreatedAt, plant.UpdatedAt = now, now
	if _, err := r.collection.InsertOne(ctx, plant); err != nil {
		return mongoError(err, "Plant", "create")
	}
	return nil
}

func (r *MongoPlantRepository) GetByID(ctx context.Context, id string) (*models.Plant, error) {
	var plant models.Plant
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plant); err != nil {
		return nil, mongoError(err, "Plant", "get")
	}
	return &plant, nil
}

func (r *MongoPlantRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Plant, error) {
	if len(ids) == 0 {
		return []models.Plant{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

func (r *MongoPlantRepository) List(ctx context.Context, filter PlantFilter, page Page) ([]models.Plant, error) {
	return r.find(ctx, plantFilter(filter), findPage(page))
}

func (r *MongoPlantRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Plant, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, mongoError(err, "Plant", "list")
	}
	plants := []models.Plant{}
	if err := cursor.All(ctx, &plants); err != nil {
		return nil, mongoError(err, "Plant", "decode")
	}
	return plants, nil
}

func (r *MongoPlantRepository) Count(ctx context.Context, filter PlantFilter) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, plantFilter(filter))
	if err != nil {
		return 0, mongoError(err, "Plant", "count")
	}
	return n, nil
}

func (r *MongoPlantRepository) Update(ctx context.Context, id string, update models.PlantUpdate) (*models.Plant, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Available != nil {
		set["available"] = *update.Available
	}
	if update.Categories != nil {
		set["categories"] = update.Categories
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}

	var plant models.Plant
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&plant)
	if err != nil {
		return nil, mongoError(err, "Plant", "update")
	}
	return &plant, nil
}

func (r *MongoPlantRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoError(err, "Plant", "delete")
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("Plant not found")
	}
	return nil
}
