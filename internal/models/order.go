package models

import "time"

// OrderItem represents a single line within an order.
type OrderItem struct {
	Plant    string  `json:"plant" bson:"plant"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Price    float64 `json:"price" bson:"price"` // Price at the time of order
}

// Address is the delivery address of an order.
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Pincode string `json:"pincode" bson:"pincode"`
	Country string `json:"country" bson:"country"`
}

// DefaultCountry is used when an address omits its country.
const DefaultCountry = "India"

// Order represents a customer order.
type Order struct {
	ID            string        `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(24)"`
	UserID        string        `json:"user" bson:"user" gorm:"type:varchar(24);not null;index"`
	Items         []OrderItem   `json:"items" bson:"items" gorm:"type:text;serializer:json"`
	TotalAmount   float64       `json:"totalAmount" bson:"totalAmount"`
	Status        OrderStatus   `json:"status" bson:"status" gorm:"type:varchar(16);index"`
	Address       Address       `json:"address" bson:"address" gorm:"embedded;embeddedPrefix:address_"`
	PaymentMethod PaymentMethod `json:"paymentMethod" bson:"paymentMethod" gorm:"type:varchar(16)"`
	PaymentStatus PaymentStatus `json:"paymentStatus" bson:"paymentStatus" gorm:"type:varchar(16);index"`
	DeliveredAt   *time.Time    `json:"deliveredAt" bson:"deliveredAt"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// ItemsTotal recomputes Σ(price × quantity) from the line items.
func (o *Order) ItemsTotal() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// EffectiveTotal returns the stored total, falling back to the line items
// only when no total was ever stored.
func (o *Order) EffectiveTotal() float64 {
	if o.TotalAmount == 0 && len(o.Items) > 0 {
		return o.ItemsTotal()
	}
	return o.TotalAmount
}

// IsOwnedBy reports whether userID placed the order.
func (o *Order) IsOwnedBy(userID string) bool {
	return userID != "" && o.UserID == userID
}

// UserSummary is the subset of a user shown on admin order views.
type UserSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Number string `json:"number,omitempty"`
}

// AdminOrderView is an order joined with its owner.
type AdminOrderView struct {
	Order
	User *UserSummary `json:"user,omitempty"`
}

// StatusBucket is a count and revenue pair.
type StatusBucket struct {
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// MonthlyBucket is the order volume of one calendar month.
type MonthlyBucket struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// OrderStats is the admin overview.
type OrderStats struct {
	TotalOrders  int64                        `json:"totalOrders"`
	TotalRevenue float64                      `json:"totalRevenue"`
	ByStatus     map[OrderStatus]StatusBucket `json:"byStatus"`
	Monthly      []MonthlyBucket              `json:"monthly"`
}

// NewOrderStats returns stats with every status present and zeroed.
func NewOrderStats() *OrderStats {
	s := &OrderStats{ByStatus: make(map[OrderStatus]StatusBucket, len(OrderStatuses)), Monthly: []MonthlyBucket{}}
	for _, st := range OrderStatuses {
		s.ByStatus[st] = StatusBucket{}
	}
	return s
}

// Add folds one status group into the overview.
func (s *OrderStats) Add(status OrderStatus, orders int64, revenue float64) {
	s.TotalOrders += orders
	s.TotalRevenue += revenue
	b := s.ByStatus[status]
	b.Orders += orders
	b.Revenue += revenue
	s.ByStatus[status] = b
}
