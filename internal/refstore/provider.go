package refstore

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tradsys/venue/internal/config"
)

// NewDB opens the GORM/postgres connection every process shares one of. The
// AutoMigrate pass that brings up all six tables in a fresh environment runs
// in newStoreAndMigrate.
func NewDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.URL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func newStoreAndMigrate(db *gorm.DB, logger *zap.Logger) (*Store, error) {
	store := NewStore(db, logger)
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return store, nil
}

// Module supplies *gorm.DB and a migrated *Store to every cmd/* process.
var Module = fx.Options(
	fx.Provide(NewDB),
	fx.Provide(newStoreAndMigrate),
)
