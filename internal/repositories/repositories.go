package repositories

import (
	"context"
	"time"

	"ecobloom/internal/models"
)

// Page bounds a list query.
type Page struct {
	Skip  int64
	Limit int64
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Category, error)
	// FindByKeywords matches any keyword exactly, ignoring case.
	FindByKeywords(ctx context.Context, keywords []string) ([]models.Category, error)
	// FindByKeywordSubstring matches categories with a keyword containing term, ignoring case.
	FindByKeywordSubstring(ctx context.Context, term string) ([]models.Category, error)
	Delete(ctx context.Context, id string) error
}

// PlantFilter narrows plant listings. Empty fields do not filter.
type PlantFilter struct {
	Name        string
	CategoryIDs []string // any of
	Available   *bool
}

// PlantRepository defines the interface for plant data access.
type PlantRepository interface {
	Create(ctx context.Context, plant *models.Plant) error
	GetByID(ctx context.Context, id string) (*models.Plant, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Plant, error)
	List(ctx context.Context, filter PlantFilter, page Page) ([]models.Plant, error)
	Count(ctx context.Context, filter PlantFilter) (int64, error)
	Update(ctx context.Context, id string, update models.PlantUpdate) (*models.Plant, error)
	Delete(ctx context.Context, id string) error
}

// OrderFilter narrows order listings. Empty fields do not filter.
type OrderFilter struct {
	UserID        string
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	PaymentMethod models.PaymentMethod
}

// OrderSearch is the admin query over orders joined with their owners.
// When OrderID is set it is the only criterion besides OrderFilter;
// otherwise Term is matched case-insensitively against the owner's name, email and number.
type OrderSearch struct {
	OrderFilter
	OrderID string
	Term    string
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter, page Page) ([]models.Order, error)
	Count(ctx context.Context, filter OrderFilter) (int64, error)
	Search(ctx context.Context, search OrderSearch, page Page) ([]models.AdminOrderView, int64, error)
	// SetStatus overwrites the tracking status; deliveredAt is stored when non-nil.
	SetStatus(ctx context.Context, id string, status models.OrderStatus, deliveredAt *time.Time) (*models.Order, error)
	// TransitionStatus moves the order from one status to another atomically.
	// It returns a NotFound error when no order has that id and that current status.
	TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error)
	SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, since time.Time) (*models.OrderStats, error)
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// ExistsByEmailOrNumber reports whether any user has the email or the number.
	ExistsByEmailOrNumber(ctx context.Context, email, number string) (bool, error)
	// NumberTakenByOther reports whether a user other than userID has number.
	NumberTakenByOther(ctx context.Context, number, userID string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// ContactFilter narrows contact listings.
type ContactFilter struct {
	Status models.ContactStatus
	Term   string // name, email, phone or message, case-insensitive
}

// ContactRepository defines the interface for contact data access.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	List(ctx context.Context, filter ContactFilter, page Page) ([]models.Contact, error)
	Count(ctx context.Context, filter ContactFilter) (int64, error)
	SetStatus(ctx context.Context, id string, status models.ContactStatus) (*models.Contact, error)
	Delete(ctx context.Context, id string) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Categories CategoryRepository
	Plants     PlantRepository
	Orders     OrderRepository
	Users      UserRepository
	Contacts   ContactRepository
}
