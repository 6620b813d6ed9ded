package commands

import (
	"context"
	"fmt"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/database"
	"ecobloom/internal/repositories"
	"ecobloom/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the default categories and plant catalogue",
	Long: `Creates the default categories, skipping any that already exist, then the
default plants when the catalogue is empty. Plants are tagged by resolving
their category keywords.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := cmd.Context()
		conn, err := database.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer conn.Close(ctx)
		if err := conn.Migrate(ctx); err != nil {
			return err
		}

		categories, plants, err := seedCatalog(ctx, conn.Store, log)
		if err != nil {
			return err
		}
		log.Infow("seed complete", "categories", categories, "plants", plants)
		return nil
	},
}

// seedCatalog returns how many categories and plants it created.
func seedCatalog(ctx context.Context, store *repositories.Store, log *zap.SugaredLogger) (int, int, error) {
	categoryService := services.NewCategoryService(store.Categories)
	var categories int
	for _, keywords := range seedCategories {
		if _, err := categoryService.Create(ctx, keywords); err != nil {
			if apperrors.Is(err, apperrors.KindConflict) {
				continue
			}
			return categories, 0, fmt.Errorf("seed category %v: %w", keywords, err)
		}
		categories++
	}

	existing, err := store.Plants.Count(ctx, repositories.PlantFilter{})
	if err != nil {
		return categories, 0, err
	}
	if existing > 0 {
		log.Infow("catalogue not empty, skipping plants", "plants", existing)
		return categories, 0, nil
	}

	plantService := services.NewPlantService(store.Plants, store.Categories, nil, 0, log)
	available := true
	var plants int
	for _, p := range seedPlants {
		name, price, image := p.name, p.price, p.image()
		_, err := plantService.Create(ctx, services.PlantInput{
			Name:       &name,
			Price:      &price,
			Available:  &available,
			ImageURL:   &image,
			Categories: map[string]interface{}{"categories": p.categories},
		})
		if err != nil {
			return categories, plants, fmt.Errorf("seed plant %q: %w", p.name, err)
		}
		plants++
	}
	return categories, plants, nil
}
