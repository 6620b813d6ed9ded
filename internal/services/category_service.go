package services

import (
	"context"
	"strings"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/models"
	"ecobloom/internal/repositories"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	cats, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to fetch categories", err)
	}
	return cats, nil
}

// Create stores a category after trimming its keywords and dropping blanks
// and case-insensitive repeats.
func (s *CategoryService) Create(ctx context.Context, keywords []string) (*models.Category, error) {
	clean := NormalizeKeywords(keywords)
	if len(clean) == 0 {
		return nil, apperrors.Validation("keywords must be a non-empty array")
	}
	category := &models.Category{Keywords: clean}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, wrap(err, "Failed to create category")
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if !models.IsValidID(id) {
		return apperrors.Validation("Invalid category id")
	}
	return wrap(s.repo.Delete(ctx, id), "Failed to delete category")
}

// NormalizeKeywords trims keywords, dropping blanks and case-insensitive duplicates.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" || seen[strings.ToLower(k)] {
			continue
		}
		seen[strings.ToLower(k)] = true
		out = append(out, k)
	}
	return out
}
