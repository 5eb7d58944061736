// animals.go: animal reference database endpoints
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wildsnap/wildsnap-go/internal/datastore"
	"github.com/wildsnap/wildsnap-go/internal/errors"
)

// AnimalRequest is the payload for creating an animal species entry.
type AnimalRequest struct {
	CommonName     string `json:"commonName" validate:"required"`
	ScientificName string `json:"scientificName" validate:"required"`
	Description    string `json:"description" validate:"required"`
	AnimalClass    string `json:"animalClass" validate:"required"`
	AnimalOrder    string `json:"animalOrder"`
	AnimalFamily   string `json:"animalFamily"`
	ImageURL       string `json:"imageUrl"`
}

// AnimalPhysicalCharacteristicsRequest is the payload for adding physical
// characteristics to an animal.
type AnimalPhysicalCharacteristicsRequest struct {
	Size                string `json:"size"`
	Weight              string `json:"weight"`
	BodyLength          string `json:"bodyLength"`
	ColorPattern        string `json:"colorPattern" validate:"required"`
	Limbs               string `json:"limbs"`
	SpecialFeatures     string `json:"specialFeatures"`
	Lifespan            string `json:"lifespan"`
	DistinctiveFeatures string `json:"distinctiveFeatures"`
}

// AnimalHabitatRangeRequest is the payload for adding a habitat range to an
// animal.
type AnimalHabitatRangeRequest struct {
	Habitat              string `json:"habitat" validate:"required"`
	Continents           string `json:"continents" validate:"required"`
	Countries            string `json:"countries"`
	ElevationRange       string `json:"elevationRange"`
	PreferredEnvironment string `json:"preferredEnvironment"`
	MapImageURL          string `json:"mapImageUrl"`
	Temperature          string `json:"temperature"`
	Vegetation           string `json:"vegetation"`
}

// AnimalMigrationPatternRequest is the payload for adding a migration
// pattern to an animal.
type AnimalMigrationPatternRequest struct {
	MigrationType     string `json:"migrationType" validate:"required"`
	BreedingRange     string `json:"breedingRange"`
	NonBreedingRange  string `json:"nonBreedingRange"`
	MigrationSeasons  string `json:"migrationSeasons"`
	MigrationRoutes   string `json:"migrationRoutes"`
	StopoverSites     string `json:"stopoverSites"`
	MigrationDistance string `json:"migrationDistance"`
	MigrationMapURL   string `json:"migrationMapUrl"`
	MigrationTriggers string `json:"migrationTriggers"`
}

// AnimalSeasonalAppearanceRequest is the payload for adding a seasonal
// appearance to an animal.
type AnimalSeasonalAppearanceRequest struct {
	Season                string `json:"season" validate:"required"`
	AppearanceDescription string `json:"appearanceDescription" validate:"required"`
	BehavioralChanges     string `json:"behavioralChanges"`
	SeasonalLocation      string `json:"seasonalLocation"`
	SeasonalDiet          string `json:"seasonalDiet"`
	ActivityPattern       string `json:"activityPattern"`
	ImageURL              string `json:"imageUrl"`
}

func (c *Controller) initAnimalRoutes() {
	c.Group.GET("/animals", c.ListAnimals)
	c.Group.GET("/animals/search", c.SearchAnimals)
	c.Group.GET("/animals/:id", c.GetAnimalDetails)
	c.Group.POST("/animals", c.CreateAnimal)
	c.Group.POST("/animals/:id/physical-characteristics", c.AddAnimalPhysicalCharacteristics)
	c.Group.POST("/animals/:id/habitat-ranges", c.AddAnimalHabitatRange)
	c.Group.POST("/animals/:id/migration-patterns", c.AddAnimalMigrationPattern)
	c.Group.POST("/animals/:id/seasonal-appearances", c.AddAnimalSeasonalAppearance)
}

// ListAnimals handles GET /api/animals with optional limit and offset.
func (c *Controller) ListAnimals(ctx echo.Context) error {
	limit, offset, err := parsePagination(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid pagination parameters",
		})
	}

	animals, err := c.DS.ListAnimals(limit, offset)
	if err != nil {
		return c.serverError(ctx, err, "Failed to fetch animals")
	}
	return ctx.JSON(http.StatusOK, animals)
}

// SearchAnimals handles GET /api/animals/search?q=. An empty query returns
// an empty list rather than an error.
func (c *Controller) SearchAnimals(ctx echo.Context) error {
	query := ctx.QueryParam("q")
	if query == "" {
		return ctx.JSON(http.StatusOK, []datastore.Animal{})
	}

	animals, err := c.DS.SearchAnimals(query)
	if err != nil {
		return c.serverError(ctx, err, "Failed to search animals")
	}
	return ctx.JSON(http.StatusOK, animals)
}

// GetAnimalDetails handles GET /api/animals/:id, returning the animal with
// all of its child records.
func (c *Controller) GetAnimalDetails(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid animal ID",
		})
	}

	animal, err := c.DS.GetAnimalDetails(id)
	if err != nil {
		if errors.CategoryOf(err) == errors.CategoryNotFound {
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"message": "Animal not found",
			})
		}
		return c.serverError(ctx, err, "Failed to fetch animal details")
	}
	return ctx.JSON(http.StatusOK, animal)
}

// CreateAnimal handles POST /api/animals.
func (c *Controller) CreateAnimal(ctx echo.Context) error {
	var req AnimalRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid animal data",
			"errors":  err.Error(),
		})
	}

	animal := &datastore.Animal{
		CommonName:     req.CommonName,
		ScientificName: req.ScientificName,
		Description:    req.Description,
		AnimalClass:    req.AnimalClass,
		AnimalOrder:    req.AnimalOrder,
		AnimalFamily:   req.AnimalFamily,
		ImageURL:       req.ImageURL,
	}
	if err := c.DS.CreateAnimal(animal); err != nil {
		return c.serverError(ctx, err, "Failed to create animal")
	}
	return ctx.JSON(http.StatusCreated, animal)
}

// AddAnimalPhysicalCharacteristics handles POST /api/animals/:id/physical-characteristics.
func (c *Controller) AddAnimalPhysicalCharacteristics(ctx echo.Context) error {
	animal, done := c.requireAnimal(ctx)
	if done {
		return nil
	}

	var req AnimalPhysicalCharacteristicsRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid physical characteristics data",
			"errors":  err.Error(),
		})
	}

	record := &datastore.AnimalPhysicalCharacteristics{
		AnimalID:            animal.ID,
		Size:                req.Size,
		Weight:              req.Weight,
		BodyLength:          req.BodyLength,
		ColorPattern:        req.ColorPattern,
		Limbs:               req.Limbs,
		SpecialFeatures:     req.SpecialFeatures,
		Lifespan:            req.Lifespan,
		DistinctiveFeatures: req.DistinctiveFeatures,
	}
	if err := c.DS.AddAnimalPhysicalCharacteristics(record); err != nil {
		return c.serverError(ctx, err, "Failed to add physical characteristics")
	}
	return ctx.JSON(http.StatusCreated, record)
}

// AddAnimalHabitatRange handles POST /api/animals/:id/habitat-ranges.
func (c *Controller) AddAnimalHabitatRange(ctx echo.Context) error {
	animal, done := c.requireAnimal(ctx)
	if done {
		return nil
	}

	var req AnimalHabitatRangeRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid habitat range data",
			"errors":  err.Error(),
		})
	}

	record := &datastore.AnimalHabitatRange{
		AnimalID:             animal.ID,
		Habitat:              req.Habitat,
		Continents:           req.Continents,
		Countries:            req.Countries,
		ElevationRange:       req.ElevationRange,
		PreferredEnvironment: req.PreferredEnvironment,
		MapImageURL:          req.MapImageURL,
		Temperature:          req.Temperature,
		Vegetation:           req.Vegetation,
	}
	if err := c.DS.AddAnimalHabitatRange(record); err != nil {
		return c.serverError(ctx, err, "Failed to add habitat range")
	}
	return ctx.JSON(http.StatusCreated, record)
}

// AddAnimalMigrationPattern handles POST /api/animals/:id/migration-patterns.
func (c *Controller) AddAnimalMigrationPattern(ctx echo.Context) error {
	animal, done := c.requireAnimal(ctx)
	if done {
		return nil
	}

	var req AnimalMigrationPatternRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid migration pattern data",
			"errors":  err.Error(),
		})
	}

	record := &datastore.AnimalMigrationPattern{
		AnimalID:          animal.ID,
		MigrationType:     req.MigrationType,
		BreedingRange:     req.BreedingRange,
		NonBreedingRange:  req.NonBreedingRange,
		MigrationSeasons:  req.MigrationSeasons,
		MigrationRoutes:   req.MigrationRoutes,
		StopoverSites:     req.StopoverSites,
		MigrationDistance: req.MigrationDistance,
		MigrationMapURL:   req.MigrationMapURL,
		MigrationTriggers: req.MigrationTriggers,
	}
	if err := c.DS.AddAnimalMigrationPattern(record); err != nil {
		return c.serverError(ctx, err, "Failed to add migration pattern")
	}
	return ctx.JSON(http.StatusCreated, record)
}

// AddAnimalSeasonalAppearance handles POST /api/animals/:id/seasonal-appearances.
func (c *Controller) AddAnimalSeasonalAppearance(ctx echo.Context) error {
	animal, done := c.requireAnimal(ctx)
	if done {
		return nil
	}

	var req AnimalSeasonalAppearanceRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid seasonal appearance data",
			"errors":  err.Error(),
		})
	}

	record := &datastore.AnimalSeasonalAppearance{
		AnimalID:              animal.ID,
		Season:                req.Season,
		AppearanceDescription: req.AppearanceDescription,
		BehavioralChanges:     req.BehavioralChanges,
		SeasonalLocation:      req.SeasonalLocation,
		SeasonalDiet:          req.SeasonalDiet,
		ActivityPattern:       req.ActivityPattern,
		ImageURL:              req.ImageURL,
	}
	if err := c.DS.AddAnimalSeasonalAppearance(record); err != nil {
		return c.serverError(ctx, err, "Failed to add seasonal appearance")
	}
	return ctx.JSON(http.StatusCreated, record)
}

// requireAnimal resolves the :id parameter to an existing animal. When it
// returns done=true the response has already been written.
func (c *Controller) requireAnimal(ctx echo.Context) (*datastore.Animal, bool) {
	id, err := parseIDParam(ctx)
	if err != nil {
		_ = ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid animal ID",
		})
		return nil, true
	}

	animal, err := c.DS.GetAnimal(id)
	if err != nil {
		if errors.CategoryOf(err) == errors.CategoryNotFound {
			_ = ctx.JSON(http.StatusNotFound, map[string]string{
				"message": "Animal not found",
			})
		} else {
			_ = c.serverError(ctx, err, "Failed to fetch animal")
		}
		return nil, true
	}
	return animal, false
}
