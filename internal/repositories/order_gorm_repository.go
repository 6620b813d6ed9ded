package repositories

import (
	"context"
	"sort"
	"time"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// orderScope filters on order columns; prefix qualifies them when joined.
func orderScope(f OrderFilter, prefix string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.UserID != "" {
			db = db.Where(prefix+"user_id = ?", f.UserID)
		}
		if f.Status != "" {
			db = db.Where(prefix+"status = ?", f.Status)
		}
		if f.PaymentStatus != "" {
			db = db.Where(prefix+"payment_status = ?", f.PaymentStatus)
		}
		if f.PaymentMethod != "" {
			db = db.Where(prefix+"payment_method = ?", f.PaymentMethod)
		}
		return db
	}
}

func searchScope(s OrderSearch) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Joins("LEFT JOIN users ON users.id = orders.user_id").
			Scopes(orderScope(s.OrderFilter, "orders."))
		switch {
		case s.OrderID != "":
			db = db.Where("orders.id = ?", s.OrderID)
		case s.Term != "":
			p := containsPattern(s.Term)
			db = db.Where(`(LOWER(users.name) LIKE ? ESCAPE '\' OR LOWER(users.email) LIKE ? ESCAPE '\' OR users.number LIKE ? ESCAPE '\')`, p, p, p)
		}
		return db
	}
}

// Create creates a new order in the database.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = models.NewID()
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return gormError(err, "Order", "create")
	}
	return nil
}

// GetByID retrieves an order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, gormError(err, "Order", "get")
	}
	return &order, nil
}

func (r *GORMOrderRepository) List(ctx context.Context, filter OrderFilter, page Page) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Scopes(orderScope(filter, ""), paginate(page)).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, gormError(err, "Order", "list")
	}
	return orders, nil
}

func (r *GORMOrderRepository) Count(ctx context.Context, filter OrderFilter) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Scopes(orderScope(filter, "")).Count(&total).Error; err != nil {
		return 0, gormError(err, "Order", "count")
	}
	return total, nil
}

func (r *GORMOrderRepository) Search(ctx context.Context, search OrderSearch, page Page) ([]models.AdminOrderView, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Scopes(searchScope(search)).Count(&total).Error; err != nil {
		return nil, 0, gormError(err, "Order", "count")
	}

	var orders []models.Order
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Scopes(searchScope(search), paginate(page)).
		Select("orders.*").
		Order("orders.created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, 0, gormError(err, "Order", "search")
	}

	userIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		userIDs = append(userIDs, o.UserID)
	}
	var users []models.User
	if len(userIDs) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, 0, gormError(err, "User", "get")
		}
	}
	owners := make(map[string]*models.UserSummary, len(users))
	for i := range users {
		owners[users[i].ID] = users[i].Summary()
	}

	views := make([]models.AdminOrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, models.AdminOrderView{Order: o, User: owners[o.UserID]})
	}
	return views, total, nil
}

func (r *GORMOrderRepository) SetStatus(ctx context.Context, id string, status models.OrderStatus, deliveredAt *time.Time) (*models.Order, error) {
	fields := map[string]interface{}{"status": status}
	if deliveredAt != nil {
		fields["delivered_at"] = *deliveredAt
	}
	return r.update(ctx, r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id), id, fields)
}

func (r *GORMOrderRepository) TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error) {
	tx := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ? AND status = ?", id, from)
	return r.update(ctx, tx, id, map[string]interface{}{"status": to})
}

func (r *GORMOrderRepository) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	tx := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id)
	return r.update(ctx, tx, id, map[string]interface{}{"payment_status": status})
}

func (r *GORMOrderRepository) update(ctx context.Context, tx *gorm.DB, id string, fields map[string]interface{}) (*models.Order, error) {
	res := tx.Updates(fields)
	if res.Error != nil {
		return nil, gormError(res.Error, "Order", "update")
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("Order not found")
	}
	return r.GetByID(ctx, id)
}

// Delete deletes an order by its ID.
func (r *GORMOrderRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return gormError(res.Error, "Order", "delete")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Order not found")
	}
	return nil
}

// Stats groups by status in SQL; monthly buckets are built in Go because
// the date functions differ between SQLite and Postgres.
func (r *GORMOrderRepository) Stats(ctx context.Context, since time.Time) (*models.OrderStats, error) {
	var groups []struct {
		Status  models.OrderStatus
		Orders  int64
		Revenue float64
	}
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue").
		Group("status").
		Scan(&groups).Error
	if err != nil {
		return nil, gormError(err, "Order", "aggregate")
	}
	stats := models.NewOrderStats()
	for _, g := range groups {
		stats.Add(g.Status, g.Orders, g.Revenue)
	}

	var recent []struct {
		CreatedAt   time.Time
		TotalAmount float64
	}
	err = r.db.WithContext(ctx).Model(&models.Order{}).
		Select("created_at, total_amount").
		Where("created_at >= ?", since).
		Scan(&recent).Error
	if err != nil {
		return nil, gormError(err, "Order", "aggregate")
	}
	type key struct{ year, month int }
	buckets := map[key]*models.MonthlyBucket{}
	for _, o := range recent {
		t := o.CreatedAt.UTC()
		k := key{t.Year(), int(t.Month())}
		b, ok := buckets[k]
		if !ok {
			b = &models.MonthlyBucket{Year: k.year, Month: k.month}
			buckets[k] = b
		}
		b.Orders++
		b.Revenue += o.TotalAmount
	}
	for _, b := range buckets {
		stats.Monthly = append(stats.Monthly, *b)
	}
	sort.Slice(stats.Monthly, func(i, j int) bool {
		a, b := stats.Monthly[i], stats.Monthly[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})
	return stats, nil
}
