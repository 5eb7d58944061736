// birds.go: bird reference database endpoints
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wildsnap/wildsnap-go/internal/datastore"
	"github.com/wildsnap/wildsnap-go/internal/errors"
)

// BirdRequest is the payload for creating a bird species entry.
type BirdRequest struct {
	CommonName     string `json:"commonName" validate:"required"`
	ScientificName string `json:"scientificName" validate:"required"`
	Description    string `json:"description" validate:"required"`
	ImageURL       string `json:"imageUrl"`
}

// BirdPhysicalCharacteristicsRequest is the payload for adding physical
// characteristics to a bird.
type BirdPhysicalCharacteristicsRequest struct {
	Size                string `json:"size"`
	Weight              string `json:"weight"`
	Wingspan            string `json:"wingspan"`
	PlumageColor        string `json:"plumageColor" validate:"required"`
	BillShape           string `json:"billShape"`
	LegColor            string `json:"legColor"`
	EyeColor            string `json:"eyeColor"`
	DistinctiveFeatures string `json:"distinctiveFeatures"`
}

// BirdHabitatRangeRequest is the payload for adding a habitat range to a bird.
type BirdHabitatRangeRequest struct {
	Habitat              string `json:"habitat" validate:"required"`
	Continents           string `json:"continents" validate:"required"`
	Countries            string `json:"countries"`
	ElevationRange       string `json:"elevationRange"`
	MapImageURL          string `json:"mapImageUrl"`
	PreferredEnvironment string `json:"preferredEnvironment"`
}

// BirdMigrationPatternRequest is the payload for adding a migration pattern
// to a bird.
type BirdMigrationPatternRequest struct {
	MigrationType     string `json:"migrationType" validate:"required"`
	BreedingRange     string `json:"breedingRange"`
	WinteringRange    string `json:"winteringRange"`
	MigrationSeasons  string `json:"migrationSeasons"`
	MigrationRoutes   string `json:"migrationRoutes"`
	StopoverSites     string `json:"stopoverSites"`
	MigrationDistance string `json:"migrationDistance"`
	MigrationMapURL   string `json:"migrationMapUrl"`
}

// BirdSeasonalAppearanceRequest is the payload for adding a seasonal
// appearance to a bird.
type BirdSeasonalAppearanceRequest struct {
	Season             string `json:"season" validate:"required"`
	PlumageDescription string `json:"plumageDescription" validate:"required"`
	BehavioralChanges  string `json:"behavioralChanges"`
	SeasonalLocation   string `json:"seasonalLocation"`
	SeasonalDiet       string `json:"seasonalDiet"`
	ImageURL           string `json:"imageUrl"`
}

func (c *Controller) initBirdRoutes() {
	c.Group.GET("/birds", c.ListBirds)
	c.Group.GET("/birds/search", c.SearchBirds)
	c.Group.GET("/birds/:id", c.GetBirdDetails)
	c.Group.POST("/birds", c.CreateBird)
	c.Group.POST("/birds/:id/physical-characteristics", c.AddBirdPhysicalCharacteristics)
	c.Group.POST("/birds/:id/habitat-ranges", c.AddBirdHabitatRange)
	c.Group.POST("/birds/:id/migration-patterns", c.AddBirdMigrationPattern)
	c.Group.POST("/birds/:id/seasonal-appearances", c.AddBirdSeasonalAppearance)
}

// ListBirds handles GET /api/birds with optional limit and offset.
func (c *Controller) ListBirds(ctx echo.Context) error {
	limit, offset, err := parsePagination(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid pagination parameters",
		})
	}

	birds, err := c.DS.ListBirds(limit, offset)
	if err != nil {
		return c.serverError(ctx, err, "Failed to fetch birds")
	}
	return ctx.JSON(http.StatusOK, birds)
}

// SearchBirds handles GET /api/birds/search?q=. A missing query is an
// error here; the animal search treats it as an empty result instead.
func (c *Controller) SearchBirds(ctx echo.Context) error {
	query := ctx.QueryParam("q")
	if query == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Search query is required",
		})
	}

	birds, err := c.DS.SearchBirds(query)
	if err != nil {
		return c.serverError(ctx, err, "Failed to search birds")
	}
	return ctx.JSON(http.StatusOK, birds)
}

// GetBirdDetails handles GET /api/birds/:id, returning the bird with all of
// its child records.
func (c *Controller) GetBirdDetails(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid bird ID",
		})
	}

	bird, err := c.DS.GetBirdDetails(id)
	if err != nil {
		if errors.CategoryOf(err) == errors.CategoryNotFound {
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"message": "Bird not found",
			})
		}
		return c.serverError(ctx, err, "Failed to fetch bird details")
	}
	return ctx.JSON(http.StatusOK, bird)
}

// CreateBird handles POST /api/birds.
func (c *Controller) CreateBird(ctx echo.Context) error {
	var req BirdRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid bird data",
			"errors":  err.Error(),
		})
	}

	bird := &datastore.Bird{
		CommonName:     req.CommonName,
		ScientificName: req.ScientificName,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
	}
	if err := c.DS.CreateBird(bird); err != nil {
		return c.serverError(ctx, err, "Failed to create bird")
	}
	return ctx.JSON(http.StatusCreated, bird)
}

// AddBirdPhysicalCharacteristics handles POST /api/birds/:id/physical-characteristics.
func (c *Controller) AddBirdPhysicalCharacteristics(ctx echo.Context) error {
	bird, done := c.requireBird(ctx)
	if done {
		return nil
	}

	var req BirdPhysicalCharacteristicsRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid physical characteristics data",
			"errors":  err.Error(),
		})
	}

	record := &datastore.BirdPhysicalCharacteristics{
		BirdID:              bird.ID,
		Size:                req.Size,
		Weight:              req.Weight,
		Wingspan:            req.Wingspan,
		PlumageColor:        req.PlumageColor,
		BillShape:           req.BillShape,
		LegColor:            req.LegColor,
		EyeColor:            req.EyeColor,
		DistinctiveFeatures: req.DistinctiveFeatures,
	}
	if err := c.DS.AddBirdPhysicalCharacteristics(record); err != nil {
		return c.serverError(ctx, err, "Failed to add physical characteristics")
	}
	return ctx.JSON(http.StatusCreated, record)
}

// AddBirdHabitatRange handles POST /api/birds/:id/habitat-ranges.
func (c *Controller) AddBirdHabitatRange(ctx echo.Context) error {
	bird, done := c.requireBird(ctx)
	if done {
		return nil
	}

	var req BirdHabitatRangeRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid habitat range data",
			"errors":  err.Error(),
		})
	}

	record := &datastore.BirdHabitatRange{
		BirdID:               bird.ID,
		Habitat:              req.Habitat,
		Continents:           req.Continents,
		Countries:            req.Countries,
		ElevationRange:       req.ElevationRange,
		MapImageURL:          req.MapImageURL,
		PreferredEnvironment: req.PreferredEnvironment,
	}
	if err := c.DS.AddBirdHabitatRange(record); err != nil {
		return c.serverError(ctx, err, "Failed to add habitat range")
	}
	return ctx.JSON(http.StatusCreated, record)
}

// AddBirdMigrationPattern handles POST /api/birds/:id/migration-patterns.
func (c *Controller) AddBirdMigrationPattern(ctx echo.Context) error {
	bird, done := c.requireBird(ctx)
	if done {
		return nil
	}

	var req BirdMigrationPatternRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid migration pattern data",
			"errors":  err.Error(),
		})
	}

	record := &datastore.BirdMigrationPattern{
		BirdID:            bird.ID,
		MigrationType:     req.MigrationType,
		BreedingRange:     req.BreedingRange,
		WinteringRange:    req.WinteringRange,
		MigrationSeasons:  req.MigrationSeasons,
		MigrationRoutes:   req.MigrationRoutes,
		StopoverSites:     req.StopoverSites,
		MigrationDistance: req.MigrationDistance,
		MigrationMapURL:   req.MigrationMapURL,
	}
	if err := c.DS.AddBirdMigrationPattern(record); err != nil {
		return c.serverError(ctx, err, "Failed to add migration pattern")
	}
	return ctx.JSON(http.StatusCreated, record)
}

// AddBirdSeasonalAppearance handles POST /api/birds/:id/seasonal-appearances.
func (c *Controller) AddBirdSeasonalAppearance(ctx echo.Context) error {
	bird, done := c.requireBird(ctx)
	if done {
		return nil
	}

	var req BirdSeasonalAppearanceRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid seasonal appearance data",
			"errors":  err.Error(),
		})
	}

	record := &datastore.BirdSeasonalAppearance{
		BirdID:             bird.ID,
		Season:             req.Season,
		PlumageDescription: req.PlumageDescription,
		BehavioralChanges:  req.BehavioralChanges,
		SeasonalLocation:   req.SeasonalLocation,
		SeasonalDiet:       req.SeasonalDiet,
		ImageURL:           req.ImageURL,
	}
	if err := c.DS.AddBirdSeasonalAppearance(record); err != nil {
		return c.serverError(ctx, err, "Failed to add seasonal appearance")
	}
	return ctx.JSON(http.StatusCreated, record)
}

// requireBird resolves the :id parameter to an existing bird. When it
// returns done=true the response has already been written.
func (c *Controller) requireBird(ctx echo.Context) (*datastore.Bird, bool) {
	id, err := parseIDParam(ctx)
	if err != nil {
		_ = ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid bird ID",
		})
		return nil, true
	}

	bird, err := c.DS.GetBird(id)
	if err != nil {
		if errors.CategoryOf(err) == errors.CategoryNotFound {
			_ = ctx.JSON(http.StatusNotFound, map[string]string{
				"message": "Bird not found",
			})
		} else {
			_ = c.serverError(ctx, err, "Failed to fetch bird")
		}
		return nil, true
	}
	return bird, false
}

// parsePagination reads optional limit and offset query parameters.
func parsePagination(ctx echo.Context) (limit, offset int, err error) {
	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, errors.Newf("invalid limit %q", raw).
				Category(errors.CategoryValidation).
				Component("api").
				Build()
		}
	}
	if raw := ctx.QueryParam("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, errors.Newf("invalid offset %q", raw).
				Category(errors.CategoryValidation).
				Component("api").
				Build()
		}
	}
	return limit, offset, nil
}
