package services

import (
	"context"
	"math"
	"strings"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/models"
	"ecobloom/internal/repositories"

	"go.uber.org/zap"
)

const (
	DefaultPlantPageSize = 12
	MaxPlantPageSize     = 60
	listedCategoryNames  = 3
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// PlantQuery filters the catalogue listing.
type PlantQuery struct {
	Name       string
	Category   string // id, or keyword substring
	CategoryID string
	Available  *bool
	Pagination
}

// PlantPage is one page of the catalogue.
type PlantPage struct {
	Plants []models.PlantView
	Total  int64
	Pagination
}

// PlantInput is a create or update request. Nil fields were not supplied.
// Categories holds the raw category fields of the request.
type PlantInput struct {
	Name       *string
	Price      *float64
	Available  *bool
	ImageURL   *string
	Image      *ImageUpload
	Categories map[string]interface{}
}

// PlantService handles business logic related to the plant catalogue.
type PlantService struct {
	plants        repositories.PlantRepository
	categories    repositories.CategoryRepository
	resolver      *CategoryResolver
	blobs         BlobStore
	maxImageBytes int64
	log           *zap.SugaredLogger
}

// NewPlantService creates a new PlantService. blobs may be nil when uploads are disabled.
func NewPlantService(plants repositories.PlantRepository, categories repositories.CategoryRepository, blobs BlobStore, maxImageBytes int64, log *zap.SugaredLogger) *PlantService {
	return &PlantService{
		plants:        plants,
		categories:    categories,
		resolver:      NewCategoryResolver(categories),
		blobs:         blobs,
		maxImageBytes: maxImageBytes,
		log:           log,
	}
}

// List returns a page of plants, newest first. A category keyword matching
// no category yields an empty page rather than an error.
func (s *PlantService) List(ctx context.Context, q PlantQuery) (*PlantPage, error) {
	result := &PlantPage{Plants: []models.PlantView{}, Pagination: q.Pagination}
	filter := repositories.PlantFilter{Name: strings.TrimSpace(q.Name), Available: q.Available}

	switch category := strings.TrimSpace(q.Category); {
	case models.IsValidID(q.CategoryID):
		filter.CategoryIDs = []string{q.CategoryID}
	case models.IsValidID(category):
		filter.CategoryIDs = []string{category}
	case category != "":
		cats, err := s.categories.FindByKeywordSubstring(ctx, category)
		if err != nil {
			return nil, wrap(err, "Failed to load plants")
		}
		if len(cats) == 0 {
			return result, nil
		}
		filter.CategoryIDs = categoryIDs(cats)
	}

	plants, total, err := pageOf(ctx,
		func(ctx context.Context) ([]models.Plant, error) {
			return s.plants.List(ctx, filter, q.Pagination.repoPage())
		},
		func(ctx context.Context) (int64, error) { return s.plants.Count(ctx, filter) },
	)
	if err != nil {
		return nil, wrap(err, "Failed to load plants")
	}
	result.Total = total

	views, err := s.withCategoryNames(ctx, plants, listedCategoryNames)
	if err != nil {
		return nil, err
	}
	result.Plants = views
	return result, nil
}

// ByCategory returns every plant tagged with categoryID.
func (s *PlantService) ByCategory(ctx context.Context, categoryID string) ([]models.PlantView, error) {
	if !models.IsValidID(categoryID) {
		return nil, apperrors.Validation("Invalid category id")
	}
	plants, err := s.plants.List(ctx, repositories.PlantFilter{CategoryIDs: []string{categoryID}}, repositories.Page{})
	if err != nil {
		return nil, wrap(err, "Failed to fetch plants by category")
	}
	return s.withCategoryNames(ctx, plants, 0)
}

func (s *PlantService) Get(ctx context.Context, id string) (*models.PlantView, error) {
	if !models.IsValidID(id) {
		return nil, apperrors.Validation("Invalid plant id")
	}
	plant, err := s.plants.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "Failed to fetch plant")
	}
	return s.view(ctx, plant)
}

// Create adds a plant. Name, a positive price and at least one resolvable
// category are required; available defaults to true.
func (s *PlantService) Create(ctx context.Context, in PlantInput) (*models.PlantView, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" || in.Price == nil {
		return nil, apperrors.Validation("Name & price required")
	}
	if err := checkPrice(*in.Price); err != nil {
		return nil, err
	}
	tokens, _ := ParseCategoryTokens(in.Categories)
	cats, err := s.resolver.ResolveRequired(ctx, tokens)
	if err != nil {
		return nil, err
	}

	plant := &models.Plant{
		Name:       strings.TrimSpace(*in.Name),
		Price:      *in.Price,
		Categories: categoryIDs(cats),
		Available:  in.Available == nil || *in.Available,
	}
	uploaded, err := s.image(ctx, in)
	if err != nil {
		return nil, err
	}
	if uploaded != nil {
		plant.Image = *uploaded
	}

	if err := s.plants.Create(ctx, plant); err != nil {
		if in.Image != nil && plant.Image != "" {
			s.deleteImage(ctx, plant.Image)
		}
		return nil, wrap(err, "Failed to add plant")
	}
	return &models.PlantView{Plant: *plant, CategoryNames: keywordNames(cats, 0)}, nil
}

// checkPrice rejects prices that are not positive finite numbers.
func checkPrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return apperrors.Validation("Price must be a number")
	}
	if price <= 0 {
		return apperrors.Validation("Price must be greater than 0")
	}
	return nil
}

// Update changes only the supplied fields. Supplied categories replace the
// whole list and must resolve to at least one category.
func (s *PlantService) Update(ctx context.Context, id string, in PlantInput) (*models.PlantView, error) {
	if !models.IsValidID(id) {
		return nil, apperrors.Validation("Invalid plant id")
	}
	var update models.PlantUpdate
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.Validation("Name cannot be empty")
		}
		update.Name = &name
	}
	if in.Price != nil {
		if err := checkPrice(*in.Price); err != nil {
			return nil, err
		}
		update.Price = in.Price
	}
	update.Available = in.Available
	if tokens, present := ParseCategoryTokens(in.Categories); present {
		cats, err := s.resolver.ResolveRequired(ctx, tokens)
		if err != nil {
			return nil, err
		}
		update.Categories = categoryIDs(cats)
	}

	existing, err := s.plants.GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "Failed to update plant")
	}
	if update.Image, err = s.image(ctx, in); err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return nil, apperrors.Validation("Nothing to update")
	}

	plant, err := s.plants.Update(ctx, id, update)
	if err != nil {
		if in.Image != nil && update.Image != nil {
			s.deleteImage(ctx, *update.Image)
		}
		return nil, wrap(err, "Failed to update plant")
	}
	if in.Image != nil && existing.Image != "" && existing.Image != plant.Image {
		s.deleteImage(ctx, existing.Image)
	}
	return s.view(ctx, plant)
}

func (s *PlantService) SetAvailability(ctx context.Context, id string, available bool) (*models.PlantView, error) {
	if !models.IsValidID(id) {
		return nil, apperrors.Validation("Invalid plant id")
	}
	plant, err := s.plants.Update(ctx, id, models.PlantUpdate{Available: &available})
	if err != nil {
		return nil, wrap(err, "Failed to update availability")
	}
	return s.view(ctx, plant)
}

// Delete removes a plant, then its image on a best-effort basis.
func (s *PlantService) Delete(ctx context.Context, id string) error {
	if !models.IsValidID(id) {
		return apperrors.Validation("Invalid plant id")
	}
	plant, err := s.plants.GetByID(ctx, id)
	if err != nil {
		return wrap(err, "Failed to delete plant")
	}
	if err := s.plants.Delete(ctx, id); err != nil {
		return wrap(err, "Failed to delete plant")
	}
	if plant.Image != "" {
		s.deleteImage(ctx, plant.Image)
	}
	return nil
}

// image uploads in.Image when present, else returns the supplied URL.
func (s *PlantService) image(ctx context.Context, in PlantInput) (*string, error) {
	if in.Image == nil {
		if in.ImageURL == nil {
			return nil, nil
		}
		url := strings.TrimSpace(*in.ImageURL)
		return &url, nil
	}
	if s.blobs == nil {
		return nil, apperrors.Validation("Image uploads are not enabled")
	}
	if !allowedImageTypes[strings.ToLower(in.Image.ContentType)] {
		return nil, apperrors.Validation("Only jpg, jpeg, png and webp images are allowed")
	}
	if s.maxImageBytes > 0 && int64(len(in.Image.Data)) > s.maxImageBytes {
		return nil, apperrors.Validation("Image is too large")
	}
	url, err := s.blobs.PutImage(ctx, *in.Image)
	if err != nil {
		return nil, apperrors.Unexpected("Failed to upload image", err)
	}
	return &url, nil
}

func (s *PlantService) deleteImage(ctx context.Context, url string) {
	if s.blobs == nil {
		return
	}
	if err := s.blobs.Delete(ctx, url); err != nil {
		s.log.Warnw("image cleanup failed", "url", url, "error", err)
	}
}

func (s *PlantService) view(ctx context.Context, plant *models.Plant) (*models.PlantView, error) {
	views, err := s.withCategoryNames(ctx, []models.Plant{*plant}, 0)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// withCategoryNames attaches keyword names in one category lookup. max <= 0
// keeps every name.
func (s *PlantService) withCategoryNames(ctx context.Context, plants []models.Plant, max int) ([]models.PlantView, error) {
	var ids []string
	seen := map[string]bool{}
	for _, p := range plants {
		for _, id := range p.Categories {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	cats, err := s.categories.GetByIDs(ctx, ids)
	if err != nil {
		return nil, wrap(err, "Failed to load categories")
	}
	byID := make(map[string]models.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	views := make([]models.PlantView, len(plants))
	for i, p := range plants {
		var own []models.Category
		for _, id := range p.Categories {
			if c, ok := byID[id]; ok {
				own = append(own, c)
			}
		}
		views[i] = models.PlantView{Plant: p, CategoryNames: keywordNames(own, max)}
	}
	return views, nil
}

func keywordNames(cats []models.Category, max int) []string {
	names := []string{}
	for _, c := range cats {
		names = append(names, c.Keywords...)
	}
	if max > 0 && len(names) > max {
		names = names[:max]
	}
	return names
}
