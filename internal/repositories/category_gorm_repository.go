package repositories

import (
	"context"
	"strings"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/models"

	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
// Keywords live in a JSON column, so keyword matching happens in memory
// over the (small) category table.
type GORMCategoryRepository struct {
	db *gorm.DB
}

func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = models.NewID()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return gormError(err, "Category", "create")
	}
	return nil
}

func (r *GORMCategoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&categories).Error; err != nil {
		return nil, gormError(err, "Category", "list")
	}
	return categories, nil
}

func (r *GORMCategoryRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	var categories []models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, gormError(err, "Category", "get")
	}
	return categories, nil
}

func (r *GORMCategoryRepository) FindByKeywords(ctx context.Context, keywords []string) ([]models.Category, error) {
	return r.filter(ctx, func(keyword string) bool {
		for _, k := range keywords {
			if strings.EqualFold(keyword, k) {
				return true
			}
		}
		return false
	})
}

func (r *GORMCategoryRepository) FindByKeywordSubstring(ctx context.Context, term string) ([]models.Category, error) {
	needle := strings.ToLower(term)
	return r.filter(ctx, func(keyword string) bool {
		return strings.Contains(strings.ToLower(keyword), needle)
	})
}

func (r *GORMCategoryRepository) filter(ctx context.Context, match func(string) bool) ([]models.Category, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(all))
	for _, c := range all {
		for _, k := range c.Keywords {
			if match(k) {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func (r *GORMCategoryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return gormError(res.Error, "Category", "delete")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Category not found")
	}
	return nil
}
