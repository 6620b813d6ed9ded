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

type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(col *mongo.Collection) *MongoOrderRepository {
	return &MongoOrderRepository{collection: col}
}

func orderFilter(f OrderFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.PaymentStatus != "" {
		filter["paymentStatus"] = f.PaymentStatus
	}
	if f.PaymentMethod != "" {
		filter["paymentMethod"] = f.PaymentMethod
	}
	return filter
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = models.NewID()
	}
	now := time.Now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now
	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return mongoError(err, "Order", "create")
	}
	return nil
}

func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, mongoError(err, "Order", "get")
	}
	return &order, nil
}

func (r *MongoOrderRepository) List(ctx context.Context, filter OrderFilter, page Page) ([]models.Order, error) {
	cursor, err := r.collection.Find(ctx, orderFilter(filter), findPage(page))
	if err != nil {
		return nil, mongoError(err, "Order", "list")
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, mongoError(err, "Order", "decode")
	}
	return orders, nil
}

func (r *MongoOrderRepository) Count(ctx context.Context, filter OrderFilter) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, orderFilter(filter))
	if err != nil {
		return 0, mongoError(err, "Order", "count")
	}
	return n, nil
}

// Search joins orders with their owners and pages the result in one round trip.
func (r *MongoOrderRepository) Search(ctx context.Context, search OrderSearch, page Page) ([]models.AdminOrderView, int64, error) {
	match := orderFilter(search.OrderFilter)
	if search.OrderID != "" {
		match["_id"] = search.OrderID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         UsersCollection,
			"localField":   "user",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$owner", "preserveNullAndEmptyArrays": true}}},
	}
	if search.OrderID == "" && search.Term != "" {
		re := containsRegex(search.Term)
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"owner.name": re},
			bson.M{"owner.email": re},
			bson.M{"owner.number": re},
		}}}})
	}

	items := bson.A{bson.M{"$sort": bson.D{{Key: "createdAt", Value: -1}}}}
	if page.Skip > 0 {
		items = append(items, bson.M{"$skip": page.Skip})
	}
	if page.Limit > 0 {
		items = append(items, bson.M{"$limit": page.Limit})
	}
	pipeline = append(pipeline, bson.D{{Key: "$facet", Value: bson.M{
		"items": items,
		"total": bson.A{bson.M{"$count": "n"}},
	}}})

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, mongoError(err, "Order", "search")
	}
	var facets []struct {
		Items []struct {
			models.Order `bson:",inline"`
			Owner        *models.User `bson:"owner"`
		} `bson:"items"`
		Total []struct {
			N int64 `bson:"n"`
		} `bson:"total"`
	}
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, 0, mongoError(err, "Order", "decode")
	}

	views := []models.AdminOrderView{}
	var total int64
	if len(facets) == 0 {
		return views, 0, nil
	}
	if len(facets[0].Total) > 0 {
		total = facets[0].Total[0].N
	}
	for _, it := range facets[0].Items {
		view := models.AdminOrderView{Order: it.Order}
		if it.Owner != nil {
			view.User = it.Owner.Summary()
		}
		views = append(views, view)
	}
	return views, total, nil
}

func (r *MongoOrderRepository) SetStatus(ctx context.Context, id string, status models.OrderStatus, deliveredAt *time.Time) (*models.Order, error) {
	set := bson.M{"status": status}
	if deliveredAt != nil {
		set["deliveredAt"] = *deliveredAt
	}
	return r.update(ctx, bson.M{"_id": id}, set)
}

func (r *MongoOrderRepository) TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error) {
	return r.update(ctx, bson.M{"_id": id, "status": from}, bson.M{"status": to})
}

func (r *MongoOrderRepository) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	return r.update(ctx, bson.M{"_id": id}, bson.M{"paymentStatus": status})
}

func (r *MongoOrderRepository) update(ctx context.Context, filter, set bson.M) (*models.Order, error) {
	set["updatedAt"] = time.Now().UTC()
	var order models.Order
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&order); err != nil {
		return nil, mongoError(err, "Order", "update")
	}
	return &order, nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoError(err, "Order", "delete")
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("Order not found")
	}
	return nil
}

func (r *MongoOrderRepository) Stats(ctx context.Context, since time.Time) (*models.OrderStats, error) {
	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":     "$status",
			"orders":  bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$totalAmount"},
		}}},
	})
	if err != nil {
		return nil, mongoError(err, "Order", "aggregate")
	}
	var groups []struct {
		Status  models.OrderStatus `bson:"_id"`
		Orders  int64              `bson:"orders"`
		Revenue float64            `bson:"revenue"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, mongoError(err, "Order", "decode")
	}
	stats := models.NewOrderStats()
	for _, g := range groups {
		stats.Add(g.Status, g.Orders, g.Revenue)
	}

	cursor, err = r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"year": bson.M{"$year": "$createdAt"}, "month": bson.M{"$month": "$createdAt"}},
			"orders":  bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$totalAmount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
	})
	if err != nil {
		return nil, mongoError(err, "Order", "aggregate")
	}
	var months []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Orders  int64   `bson:"orders"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &months); err != nil {
		return nil, mongoError(err, "Order", "decode")
	}
	for _, m := range months {
		stats.Monthly = append(stats.Monthly, models.MonthlyBucket{
			Year: m.ID.Year, Month: m.ID.Month, Orders: m.Orders, Revenue: m.Revenue,
		})
	}
	return stats, nil
}
