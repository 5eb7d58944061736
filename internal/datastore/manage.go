package datastore

import (
	"time"

	"github.com/wildsnap/wildsnap-go/internal/errors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// slowQueryThreshold defines the duration after which a query is considered
// slow and logged at warn level.
const slowQueryThreshold = 1 * time.Second

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() gormlogger.Interface {
	return gormlogger.New(
		slogWriter{},
		gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// slogWriter adapts the datastore slog logger to gorm's logger.Writer.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	getLogger().Info("gorm", "msg", format, "args", args)
}

// performAutoMigration runs GORM auto-migration for all models.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	err := db.AutoMigrate(
		&Identification{},
		&Bird{},
		&BirdPhysicalCharacteristics{},
		&BirdHabitatRange{},
		&BirdMigrationPattern{},
		&BirdSeasonalAppearance{},
		&Animal{},
		&AnimalPhysicalCharacteristics{},
		&AnimalHabitatRange{},
		&AnimalMigrationPattern{},
		&AnimalSeasonalAppearance{},
	)
	if err != nil {
		return errors.Newf("failed to auto-migrate %s database: %w", dbType, err).
			Category(errors.CategoryDatabase).
			Component("datastore").
			Context("db_type", dbType).
			Build()
	}

	if debug {
		getLogger().Debug("auto-migration completed", "db_type", dbType, "connection", connectionInfo)
	}

	return nil
}
