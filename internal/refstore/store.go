// Package refstore is the relational projection over the six entities: the
// durable owner of every row the matching pipeline touches. Grounded on the
// teacher's GORM model/repository layer (internal/db/models.go,
// internal/db/repositories/order_repository.go).
package refstore

import (
	"gorm.io/gorm"

	"go.uber.org/zap"

	"github.com/tradsys/venue/internal/models"
)

type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Migrate creates/updates the six tables. The spec treats SQL dialect and
// migration tooling as out of scope (§1); this is the minimal AutoMigrate
// call the teacher's own `internal/db` modules use for local/dev bring-up.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&models.Client{}, &models.SubAccount{}, &models.Market{},
		&models.Order{}, &models.Fill{}, &models.Position{},
	)
}
