package infra

import (
	"fmt"

	"farmledger/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection, migrates every model and applies the
// idempotent SQL patches AutoMigrate cannot express. With tracing enabled the
// otelgorm plugin records a span per statement.
func NewDatabase(dsn string, tracing bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if tracing {
		if err := db.Use(otelgorm.NewPlugin()); err != nil {
			log.Warn().Err(err).Msg("otelgorm plugin not installed; continuing without SQL tracing")
		}
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Company{},
		&model.Farmer{},
		&model.Animal{},
		&model.Group{},
		&model.AnimalGroup{},
		&model.RationComponent{},
		&model.RationTable{},
		&model.RationTableComponent{},
		&model.AnimalRationLog{},
		&model.ComponentChangeLog{},
		&model.RationTableLog{},
		&model.RationTableComponentLog{},
		&model.Weight{},
		&model.Slaughter{},
		&model.Vaccine{},
		&model.AnimalVaccineRecord{},
		&model.User{},
		&model.FeedCostRun{},
	}
}

// RunMigrations creates or updates the schema. Used by NewDatabase and by the
// integration suite.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that GORM tags cannot describe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// One active ration log per animal.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_animal_ration_logs_one_active
		    ON animal_ration_logs (animal_id)
		    WHERE is_active`,
		`CREATE INDEX IF NOT EXISTS idx_weights_animal_recent
		    ON weights (animal_id, recorded_at DESC)`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_weights_positive') THEN
		    ALTER TABLE weights ADD CONSTRAINT chk_weights_positive CHECK (weight > 0);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_ration_status') THEN
		    ALTER TABLE ration_components ADD CONSTRAINT chk_ration_status CHECK (status IN ('active','deleted'));
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
