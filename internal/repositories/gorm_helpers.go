package repositories

import (
	"errors"
	"fmt"
	"strings"

	"ecobloom/internal/apperrors"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lowercase LIKE pattern matching term anywhere.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// gormError translates driver errors into the application taxonomy.
func gormError(err error, entity, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(entity + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict(entity + " already exists")
	default:
		return fmt.Errorf("failed to %s %s: %w", op, strings.ToLower(entity), err)
	}
}

func paginate(page Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page.Skip > 0 {
			db = db.Offset(int(page.Skip))
		}
		if page.Limit > 0 {
			db = db.Limit(int(page.Limit))
		}
		return db
	}
}

// NewGORMStore wires every GORM repository onto db.
func NewGORMStore(db *gorm.DB) *Store {
	return &Store{
		Categories: NewGORMCategoryRepository(db),
		Plants:     NewGORMPlantRepository(db),
		Orders:     NewGORMOrderRepository(db),
		Users:      NewGORMUserRepository(db),
		Contacts:   NewGORMContactRepository(db),
	}
}
