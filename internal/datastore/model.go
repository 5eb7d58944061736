// model.go: this code defines the data model for the application
package datastore

import "time"

// Identification represents a single image identification performed by the
// external vision model. Records are immutable after creation; there is no
// update or delete path.
type Identification struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	ImageData          string    `gorm:"type:text" json:"imageData"` // submitted image as a base64 data URI
	PrimaryAnimal      string    `gorm:"not null;index:idx_identifications_primary" json:"primaryAnimal"`
	ScientificName     string    `json:"scientificName"`
	Confidence         int       `json:"confidence"`
	AlternativeResults string    `gorm:"type:text" json:"alternativeResults"` // JSON array of alternative guesses
	Facts              string    `gorm:"type:text" json:"facts"`              // JSON array of facts
	CreatedAt          time.Time `gorm:"index" json:"createdAt"`
}

// Bird represents a species entry in the bird reference database
type Bird struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CommonName     string    `gorm:"uniqueIndex;not null" json:"commonName"`
	ScientificName string    `gorm:"uniqueIndex;not null" json:"scientificName"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	PhysicalCharacteristics []BirdPhysicalCharacteristics `gorm:"foreignKey:BirdID;constraint:OnDelete:CASCADE" json:"physicalCharacteristics,omitempty"`
	HabitatRanges           []BirdHabitatRange            `gorm:"foreignKey:BirdID;constraint:OnDelete:CASCADE" json:"habitatRanges,omitempty"`
	MigrationPatterns       []BirdMigrationPattern        `gorm:"foreignKey:BirdID;constraint:OnDelete:CASCADE" json:"migrationPatterns,omitempty"`
	SeasonalAppearances     []BirdSeasonalAppearance      `gorm:"foreignKey:BirdID;constraint:OnDelete:CASCADE" json:"seasonalAppearances,omitempty"`
}

// BirdPhysicalCharacteristics describes a bird's physical traits
type BirdPhysicalCharacteristics struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	BirdID              uint   `gorm:"index;not null" json:"birdId"`
	Size                string `json:"size,omitempty"`
	Weight              string `json:"weight,omitempty"`
	Wingspan            string `json:"wingspan,omitempty"`
	PlumageColor        string `gorm:"not null" json:"plumageColor"`
	BillShape           string `json:"billShape,omitempty"`
	LegColor            string `json:"legColor,omitempty"`
	EyeColor            string `json:"eyeColor,omitempty"`
	DistinctiveFeatures string `json:"distinctiveFeatures,omitempty"`
}

// BirdHabitatRange describes where a bird species lives
type BirdHabitatRange struct {
	ID                   uint   `gorm:"primaryKey" json:"id"`
	BirdID               uint   `gorm:"index;not null" json:"birdId"`
	Habitat              string `gorm:"not null" json:"habitat"`
	Continents           string `gorm:"not null" json:"continents"`
	Countries            string `json:"countries,omitempty"`
	ElevationRange       string `json:"elevationRange,omitempty"`
	MapImageURL          string `json:"mapImageUrl,omitempty"`
	PreferredEnvironment string `json:"preferredEnvironment,omitempty"`
}

// BirdMigrationPattern describes a bird species' migration behavior
type BirdMigrationPattern struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	BirdID            uint   `gorm:"index;not null" json:"birdId"`
	MigrationType     string `gorm:"not null" json:"migrationType"` // e.g. "Full migrant", "Partial migrant", "Resident"
	BreedingRange     string `json:"breedingRange,omitempty"`
	WinteringRange    string `json:"winteringRange,omitempty"`
	MigrationSeasons  string `json:"migrationSeasons,omitempty"`
	MigrationRoutes   string `json:"migrationRoutes,omitempty"`
	StopoverSites     string `json:"stopoverSites,omitempty"`
	MigrationDistance string `json:"migrationDistance,omitempty"`
	MigrationMapURL   string `json:"migrationMapUrl,omitempty"`
}

// BirdSeasonalAppearance describes a bird's appearance in a given season
type BirdSeasonalAppearance struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	BirdID             uint   `gorm:"index;not null" json:"birdId"`
	Season             string `gorm:"not null" json:"season"` // free text, typically Spring/Summer/Fall/Winter
	PlumageDescription string `gorm:"not null" json:"plumageDescription"`
	BehavioralChanges  string `json:"behavioralChanges,omitempty"`
	SeasonalLocation   string `json:"seasonalLocation,omitempty"`
	SeasonalDiet       string `json:"seasonalDiet,omitempty"`
	ImageURL           string `json:"imageUrl,omitempty"`
}

// Animal represents a species entry in the general animal reference database
type Animal struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CommonName     string    `gorm:"uniqueIndex;not null" json:"commonName"`
	ScientificName string    `gorm:"uniqueIndex;not null" json:"scientificName"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	AnimalClass    string    `gorm:"not null" json:"animalClass"` // Mammal, Bird, Reptile, Amphibian, Fish, ...
	AnimalOrder    string    `json:"animalOrder,omitempty"`
	AnimalFamily   string    `json:"animalFamily,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	PhysicalCharacteristics []AnimalPhysicalCharacteristics `gorm:"foreignKey:AnimalID;constraint:OnDelete:CASCADE" json:"physicalCharacteristics,omitempty"`
	HabitatRanges           []AnimalHabitatRange            `gorm:"foreignKey:AnimalID;constraint:OnDelete:CASCADE" json:"habitatRanges,omitempty"`
	MigrationPatterns       []AnimalMigrationPattern        `gorm:"foreignKey:AnimalID;constraint:OnDelete:CASCADE" json:"migrationPatterns,omitempty"`
	SeasonalAppearances     []AnimalSeasonalAppearance      `gorm:"foreignKey:AnimalID;constraint:OnDelete:CASCADE" json:"seasonalAppearances,omitempty"`
}

// AnimalPhysicalCharacteristics describes an animal's physical traits
type AnimalPhysicalCharacteristics struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	AnimalID            uint      `gorm:"index;not null" json:"animalId"`
	Size                string    `json:"size,omitempty"`
	Weight              string    `json:"weight,omitempty"`
	BodyLength          string    `json:"bodyLength,omitempty"`
	ColorPattern        string    `gorm:"not null" json:"colorPattern"`
	Limbs               string    `json:"limbs,omitempty"`
	SpecialFeatures     string    `json:"specialFeatures,omitempty"`
	Lifespan            string    `json:"lifespan,omitempty"`
	DistinctiveFeatures string    `json:"distinctiveFeatures,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// AnimalHabitatRange describes where an animal species lives
type AnimalHabitatRange struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	AnimalID             uint      `gorm:"index;not null" json:"animalId"`
	Habitat              string    `gorm:"not null" json:"habitat"`
	Continents           string    `gorm:"not null" json:"continents"`
	Countries            string    `json:"countries,omitempty"`
	ElevationRange       string    `json:"elevationRange,omitempty"`
	PreferredEnvironment string    `json:"preferredEnvironment,omitempty"`
	MapImageURL          string    `json:"mapImageUrl,omitempty"`
	Temperature          string    `json:"temperature,omitempty"`
	Vegetation           string    `json:"vegetation,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// AnimalMigrationPattern describes an animal species' migration behavior
type AnimalMigrationPattern struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	AnimalID          uint      `gorm:"index;not null" json:"animalId"`
	MigrationType     string    `gorm:"not null" json:"migrationType"`
	BreedingRange     string    `json:"breedingRange,omitempty"`
	NonBreedingRange  string    `json:"nonBreedingRange,omitempty"`
	MigrationSeasons  string    `json:"migrationSeasons,omitempty"`
	MigrationRoutes   string    `json:"migrationRoutes,omitempty"`
	StopoverSites     string    `json:"stopoverSites,omitempty"`
	MigrationDistance string    `json:"migrationDistance,omitempty"`
	MigrationMapURL   string    `json:"migrationMapUrl,omitempty"`
	MigrationTriggers string    `json:"migrationTriggers,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// AnimalSeasonalAppearance describes an animal's appearance in a given season
type AnimalSeasonalAppearance struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	AnimalID              uint      `gorm:"index;not null" json:"animalId"`
	Season                string    `gorm:"not null" json:"season"`
	AppearanceDescription string    `gorm:"not null" json:"appearanceDescription"`
	BehavioralChanges     string    `json:"behavioralChanges,omitempty"`
	SeasonalLocation      string    `json:"seasonalLocation,omitempty"`
	SeasonalDiet          string    `json:"seasonalDiet,omitempty"`
	ActivityPattern       string    `json:"activityPattern,omitempty"`
	ImageURL              string    `json:"imageUrl,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}
