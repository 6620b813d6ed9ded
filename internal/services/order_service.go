package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/models"
	"ecobloom/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Routing keys of order events.
const (
	EventOrderCreated        = "order.created"
	EventOrderCancelled      = "order.cancelled"
	EventOrderStatusUpdated  = "order.status_updated"
	EventOrderPaymentUpdated = "order.payment_updated"
	EventOrderDeleted        = "order.deleted"
)

const (
	DefaultOrderPageSize = 20
	MaxOrderPageSize     = 100
)

// OrderItemInput is one requested line. Either PlantID or Plant names the plant.
type OrderItemInput struct {
	Plant    string      `json:"plant"`
	PlantID  string      `json:"plantId"`
	Quantity interface{} `json:"quantity"`
}

func (in OrderItemInput) plantID() string {
	if id := strings.TrimSpace(in.Plant); id != "" {
		return id
	}
	return strings.TrimSpace(in.PlantID)
}

// CreateOrderInput is the body of an order placement.
type CreateOrderInput struct {
	Items         []OrderItemInput `json:"items"`
	Address       models.Address   `json:"address"`
	PaymentMethod string           `json:"paymentMethod"`
}

// OrderEvent is published on every order lifecycle change.
type OrderEvent struct {
	ID            string               `json:"id"`
	Type          string               `json:"type"`
	OrderID       string               `json:"orderId"`
	UserID        string               `json:"userId,omitempty"`
	Status        models.OrderStatus   `json:"status,omitempty"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus,omitempty"`
	TotalAmount   float64              `json:"totalAmount,omitempty"`
	OccurredAt    time.Time            `json:"occurredAt"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orders    repositories.OrderRepository
	plants    repositories.PlantRepository
	publisher EventPublisher
	log       *zap.SugaredLogger
	now       func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orders repositories.OrderRepository, plants repositories.PlantRepository, publisher EventPublisher, log *zap.SugaredLogger) *OrderService {
	return &OrderService{
		orders:    orders,
		plants:    plants,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// CoerceQuantity turns any JSON value into a quantity of at least 1.
func CoerceQuantity(v interface{}) int {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 1
		}
		f = parsed
	default:
		return 1
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 1
	}
	f = math.Floor(f)
	if f < 1 {
		return 1
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// Create places an order for userID. Prices are snapshotted from the current
// plants and the total is computed once; either every plant exists or
// nothing is written.
func (s *OrderService) Create(ctx context.Context, userID string, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperrors.Validation("Items are required")
	}
	address, err := normalizeAddress(in.Address)
	if err != nil {
		return nil, err
	}
	method := models.PaymentCOD
	if strings.TrimSpace(in.PaymentMethod) != "" {
		var ok bool
		if method, ok = models.ParsePaymentMethod(in.PaymentMethod); !ok {
			return nil, apperrors.Validation("Invalid payment method")
		}
	}

	var ids []string
	for _, it := range in.Items {
		if id := it.plantID(); models.IsValidID(id) {
			ids = append(ids, id)
		}
	}
	plants, err := s.plants.GetByIDs(ctx, ids)
	if err != nil {
		return nil, wrap(err, "Failed to create order")
	}
	if len(plants) != len(in.Items) {
		return nil, apperrors.Validation("One or more plants not found")
	}
	byID := make(map[string]models.Plant, len(plants))
	for _, p := range plants {
		byID[p.ID] = p
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	total := decimal.Zero
	for _, it := range in.Items {
		plant := byID[it.plantID()]
		qty := CoerceQuantity(it.Quantity)
		items = append(items, models.OrderItem{Plant: plant.ID, Quantity: qty, Price: plant.Price})
		total = total.Add(decimal.NewFromFloat(plant.Price).Mul(decimal.NewFromInt(int64(qty))))
	}

	order := &models.Order{
		UserID:        userID,
		Items:         items,
		TotalAmount:   total.InexactFloat64(),
		Status:        models.OrderPending,
		Address:       address,
		PaymentMethod: method,
		PaymentStatus: models.PaymentPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, wrap(err, "Failed to create order")
	}
	s.publish(ctx, EventOrderCreated, order)
	return order, nil
}

func normalizeAddress(a models.Address) (models.Address, error) {
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Pincode = strings.TrimSpace(a.Pincode)
	a.Country = strings.TrimSpace(a.Country)
	for _, f := range []struct{ name, value string }{
		{"street", a.Street}, {"city", a.City}, {"state", a.State}, {"pincode", a.Pincode},
	} {
		if f.value == "" {
			return a, apperrors.Validation(fmt.Sprintf("Address %s is required", f.name))
		}
	}
	if a.Country == "" {
		a.Country = models.DefaultCountry
	}
	return a, nil
}

// ListMine pages the caller's own orders. An unknown status is ignored.
func (s *OrderService) ListMine(ctx context.Context, userID, status string, page Pagination) ([]models.Order, int64, error) {
	filter := repositories.OrderFilter{UserID: userID}
	if st, ok := models.ParseOrderStatus(status); ok {
		filter.Status = st
	}
	return s.list(ctx, filter, page)
}

// ListAll pages every order for admins. Unknown filters are ignored.
func (s *OrderService) ListAll(ctx context.Context, status, userID string, page Pagination) ([]models.Order, int64, error) {
	var filter repositories.OrderFilter
	if st, ok := models.ParseOrderStatus(status); ok {
		filter.Status = st
	}
	if models.IsValidID(userID) {
		filter.UserID = userID
	}
	return s.list(ctx, filter, page)
}

func (s *OrderService) list(ctx context.Context, filter repositories.OrderFilter, page Pagination) ([]models.Order, int64, error) {
	orders, total, err := pageOf(ctx,
		func(ctx context.Context) ([]models.Order, error) {
			return s.orders.List(ctx, filter, page.repoPage())
		},
		func(ctx context.Context) (int64, error) { return s.orders.Count(ctx, filter) },
	)
	if err != nil {
		return nil, 0, wrap(err, "Failed to fetch orders")
	}
	return orders, total, nil
}

// Get returns an order visible to the caller: its owner or an admin.
func (s *OrderService) Get(ctx context.Context, caller models.Principal, id string) (*models.Order, error) {
	if !models.IsValidID(id) {
		return nil, apperrors.Validation("Invalid order id")
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "Failed to fetch order")
	}
	if !order.IsOwnedBy(caller.UserID) && !caller.IsAdmin {
		return nil, apperrors.Forbidden("Forbidden")
	}
	return order, nil
}

// Cancel moves a pending order to cancelled on behalf of its owner or an admin.
// The move is conditional on the stored status, so a concurrent change wins.
func (s *OrderService) Cancel(ctx context.Context, caller models.Principal, id string) (*models.Order, error) {
	order, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	notCancellable := apperrors.Validation("Only pending orders can be cancelled")
	if order.Status != models.OrderPending {
		return nil, notCancellable
	}
	updated, err := s.orders.TransitionStatus(ctx, id, models.OrderPending, models.OrderCancelled)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, notCancellable
		}
		return nil, wrap(err, "Failed to cancel order")
	}
	s.publish(ctx, EventOrderCancelled, updated)
	return updated, nil
}

// PaymentStatus reports the payment state to the owner or an admin.
func (s *OrderService) PaymentStatus(ctx context.Context, caller models.Principal, id string) (models.PaymentStatus, error) {
	order, err := s.Get(ctx, caller, id)
	if err != nil {
		return "", err
	}
	return order.PaymentStatus, nil
}

// SetStatus overwrites the tracking status without lifecycle checks.
// paymentStatus is optional. Delivered orders get deliveredAt stamped.
func (s *OrderService) SetStatus(ctx context.Context, id, status, paymentStatus string) (*models.Order, error) {
	if !models.IsValidID(id) {
		return nil, apperrors.Validation("Invalid order id")
	}
	st, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, apperrors.Validation("Invalid status. Allowed: pending, confirmed, shipped, delivered, cancelled")
	}
	var ps models.PaymentStatus
	if strings.TrimSpace(paymentStatus) != "" {
		if ps, ok = models.ParsePaymentStatus(paymentStatus); !ok {
			return nil, apperrors.Validation("Invalid payment status")
		}
	}

	var deliveredAt *time.Time
	if st == models.OrderDelivered {
		now := s.now().UTC()
		deliveredAt = &now
	}
	order, err := s.orders.SetStatus(ctx, id, st, deliveredAt)
	if err != nil {
		return nil, wrap(err, "Failed to update status")
	}
	s.publish(ctx, EventOrderStatusUpdated, order)

	if ps != "" {
		if order, err = s.orders.SetPaymentStatus(ctx, id, ps); err != nil {
			return nil, wrap(err, "Failed to update status")
		}
		s.publish(ctx, EventOrderPaymentUpdated, order)
	}
	return order, nil
}

// SetPaymentStatus overwrites the payment status.
func (s *OrderService) SetPaymentStatus(ctx context.Context, id, paymentStatus string) (*models.Order, error) {
	if !models.IsValidID(id) {
		return nil, apperrors.Validation("Invalid order id")
	}
	ps, ok := models.ParsePaymentStatus(paymentStatus)
	if !ok {
		return nil, apperrors.Validation("Invalid payment status")
	}
	order, err := s.orders.SetPaymentStatus(ctx, id, ps)
	if err != nil {
		return nil, wrap(err, "Failed to update status")
	}
	s.publish(ctx, EventOrderPaymentUpdated, order)
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if !models.IsValidID(id) {
		return apperrors.Validation("Invalid order id")
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return wrap(err, "Failed to delete order")
	}
	s.publish(ctx, EventOrderDeleted, &models.Order{ID: id})
	return nil
}

// publish is best effort; failures are logged only.
func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := OrderEvent{
		ID:            uuid.New().String(),
		Type:          eventType,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalAmount:   order.TotalAmount,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		s.log.Warnw("failed to publish order event", "type", eventType, "order", order.ID, "error", err)
	}
}
