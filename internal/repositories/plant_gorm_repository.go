package repositories

import (
	"context"
	"strings"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/models"

	"gorm.io/gorm"
)

// GORMPlantRepository is a GORM implementation of PlantRepository.
type GORMPlantRepository struct {
	db *gorm.DB
}

// NewGORMPlantRepository creates a new instance of GORMPlantRepository.
func NewGORMPlantRepository(db *gorm.DB) *GORMPlantRepository {
	return &GORMPlantRepository{db: db}
}

func plantScope(f PlantFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Name != "" {
			db = db.Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(f.Name))
		}
		if len(f.CategoryIDs) > 0 {
			// categories is a JSON array of quoted ids
			clauses := make([]string, len(f.CategoryIDs))
			args := make([]interface{}, len(f.CategoryIDs))
			for i, id := range f.CategoryIDs {
				clauses[i] = "categories LIKE ?"
				args[i] = `%"` + id + `"%`
			}
			db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
		}
		if f.Available != nil {
			db = db.Where("available = ?", *f.Available)
		}
		return db
	}
}

// Create creates a new plant in the database.
func (r *GORMPlantRepository) Create(ctx context.Context, plant *models.Plant) error {
	if plant.ID == "" {
		plant.ID = models.NewID()
	}
	if err := r.db.WithContext(ctx).Create(plant).Error; err != nil {
		return gormError(err, "Plant", "create")
	}
	return nil
}

// GetByID retrieves a single plant by its ID from the database.
func (r *GORMPlantRepository) GetByID(ctx context.Context, id string) (*models.Plant, error) {
	var plant models.Plant
	if err := r.db.WithContext(ctx).First(&plant, "id = ?", id).Error; err != nil {
		return nil, gormError(err, "Plant", "get")
	}
	return &plant, nil
}

func (r *GORMPlantRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Plant, error) {
	if len(ids) == 0 {
		return []models.Plant{}, nil
	}
	var plants []models.Plant
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&plants).Error; err != nil {
		return nil, gormError(err, "Plant", "get")
	}
	return plants, nil
}

// List retrieves a page of plants, newest first.
func (r *GORMPlantRepository) List(ctx context.Context, filter PlantFilter, page Page) ([]models.Plant, error) {
	var plants []models.Plant
	err := r.db.WithContext(ctx).
		Scopes(plantScope(filter), paginate(page)).
		Order("created_at DESC").
		Find(&plants).Error
	if err != nil {
		return nil, gormError(err, "Plant", "list")
	}
	return plants, nil
}

func (r *GORMPlantRepository) Count(ctx context.Context, filter PlantFilter) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Plant{}).Scopes(plantScope(filter)).Count(&total).Error; err != nil {
		return 0, gormError(err, "Plant", "count")
	}
	return total, nil
}

// Update applies a partial update inside a transaction and returns the stored plant.
func (r *GORMPlantRepository) Update(ctx context.Context, id string, update models.PlantUpdate) (*models.Plant, error) {
	var plant models.Plant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&plant, "id = ?", id).Error; err != nil {
			return err
		}
		update.Apply(&plant)
		return tx.Save(&plant).Error
	})
	if err != nil {
		return nil, gormError(err, "Plant", "update")
	}
	return &plant, nil
}

// Delete deletes a plant by its ID from the database.
func (r *GORMPlantRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Plant{}, "id = ?", id)
	if res.Error != nil {
		return gormError(res.Error, "Plant", "delete")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Plant not found")
	}
	return nil
}
