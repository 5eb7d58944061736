// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"strings"

	"github.com/wildsnap/wildsnap-go/internal/conf"
	"github.com/wildsnap/wildsnap-go/internal/errors"
	"gorm.io/gorm"
)

// searchResultLimit caps the number of rows returned by name searches.
const searchResultLimit = 50

// Interface abstracts the underlying database implementation and defines
// the operations available to the rest of the application.
type Interface interface {
	Open() error
	Close() error

	// Identifications
	SaveIdentification(identification *Identification) error
	GetIdentification(id uint) (*Identification, error)
	GetRecentIdentifications(limit int) ([]Identification, error)

	// Birds
	CreateBird(bird *Bird) error
	GetBird(id uint) (*Bird, error)
	GetBirdDetails(id uint) (*Bird, error)
	ListBirds(limit, offset int) ([]Bird, error)
	SearchBirds(query string) ([]Bird, error)
	AddBirdPhysicalCharacteristics(c *BirdPhysicalCharacteristics) error
	AddBirdHabitatRange(r *BirdHabitatRange) error
	AddBirdMigrationPattern(p *BirdMigrationPattern) error
	AddBirdSeasonalAppearance(a *BirdSeasonalAppearance) error

	// Animals
	CreateAnimal(animal *Animal) error
	GetAnimal(id uint) (*Animal, error)
	GetAnimalDetails(id uint) (*Animal, error)
	ListAnimals(limit, offset int) ([]Animal, error)
	SearchAnimals(query string) ([]Animal, error)
	AddAnimalPhysicalCharacteristics(c *AnimalPhysicalCharacteristics) error
	AddAnimalHabitatRange(r *AnimalHabitatRange) error
	AddAnimalMigrationPattern(p *AnimalMigrationPattern) error
	AddAnimalSeasonalAppearance(a *AnimalSeasonalAppearance) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// checkOpen returns a configuration error when the store has not been opened.
func (ds *DataStore) checkOpen() error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Category(errors.CategoryDatabase).
			Component("datastore").
			Build()
	}
	return nil
}

// dbError wraps a gorm error with category and operation context. gorm's
// record-not-found is mapped onto the not-found category so callers can
// branch on it.
func dbError(err error, operation string) error {
	category := errors.CategoryDatabase
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category = errors.CategoryNotFound
	}
	return errors.New(err).
		Category(category).
		Component("datastore").
		Context("operation", operation).
		Build()
}

// likePattern builds the case-insensitive substring pattern used by searches.
func likePattern(query string) string {
	return "%" + strings.ToLower(query) + "%"
}
