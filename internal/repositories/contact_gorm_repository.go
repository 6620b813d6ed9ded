package repositories

import (
	"context"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/models"

	"gorm.io/gorm"
)

type GORMContactRepository struct {
	db *gorm.DB
}

func NewGORMContactRepository(db *gorm.DB) *GORMContactRepository {
	return &GORMContactRepository{db: db}
}

func contactScope(f ContactFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.Term != "" {
			p := containsPattern(f.Term)
			db = db.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(phone) LIKE ? ESCAPE '\' OR LOWER(message) LIKE ? ESCAPE '\')`, p, p, p, p)
		}
		return db
	}
}

func (r *GORMContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	if contact.ID == "" {
		contact.ID = models.NewID()
	}
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return gormError(err, "Contact", "create")
	}
	return nil
}

func (r *GORMContactRepository) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		return nil, gormError(err, "Contact", "get")
	}
	return &contact, nil
}

func (r *GORMContactRepository) List(ctx context.Context, filter ContactFilter, page Page) ([]models.Contact, error) {
	var contacts []models.Contact
	err := r.db.WithContext(ctx).
		Scopes(contactScope(filter), paginate(page)).
		Order("created_at DESC").
		Find(&contacts).Error
	if err != nil {
		return nil, gormError(err, "Contact", "list")
	}
	return contacts, nil
}

func (r *GORMContactRepository) Count(ctx context.Context, filter ContactFilter) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Contact{}).Scopes(contactScope(filter)).Count(&total).Error; err != nil {
		return 0, gormError(err, "Contact", "count")
	}
	return total, nil
}

func (r *GORMContactRepository) SetStatus(ctx context.Context, id string, status models.ContactStatus) (*models.Contact, error) {
	res := r.db.WithContext(ctx).Model(&models.Contact{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, gormError(res.Error, "Contact", "update")
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("Contact not found")
	}
	return r.GetByID(ctx, id)
}

func (r *GORMContactRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Contact{}, "id = ?", id)
	if res.Error != nil {
		return gormError(res.Error, "Contact", "delete")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Contact not found")
	}
	return nil
}
