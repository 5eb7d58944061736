// identify.go: image identification endpoints
package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/wildsnap/wildsnap-go/internal/datastore"
	"github.com/wildsnap/wildsnap-go/internal/errors"
	"github.com/wildsnap/wildsnap-go/internal/vision"
)

const recentCacheKey = "recent_identifications"

// IdentifyResponse is returned on a successful identification.
type IdentifyResponse struct {
	ID     uint                        `json:"id"`
	Result vision.IdentificationResult `json:"result"`
}

// identifyErrorResponse is the single failure shape for the identify
// endpoint; the concrete cause travels in the error field.
type identifyErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Controller) initIdentifyRoutes() {
	identifyMiddleware := []echo.MiddlewareFunc{}
	if max := c.Settings.Vision.MaxUploadSize; max > 0 {
		// Cap the whole request body slightly above the image limit to
		// leave room for the multipart framing.
		identifyMiddleware = append(identifyMiddleware,
			middleware.BodyLimit(strconv.FormatInt(max+64*1024, 10)))
	}
	c.Group.POST("/identify", c.IdentifyImage, identifyMiddleware...)
	c.Group.GET("/identifications/recent", c.GetRecentIdentifications)
	c.Group.GET("/identifications/:id", c.GetIdentification)
}

// IdentifyImage handles POST /api/identify. The uploaded image is validated
// locally before the external vision model is contacted.
func (c *Controller) IdentifyImage(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "No image file provided",
		})
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Only image files are allowed",
		})
	}

	maxSize := c.Settings.Vision.MaxUploadSize
	if maxSize > 0 && fileHeader.Size > maxSize {
		return ctx.JSON(http.StatusRequestEntityTooLarge, map[string]string{
			"message": fmt.Sprintf("Image exceeds maximum size of %d bytes", maxSize),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.identifyError(ctx, errors.New(err).
			Component("api").
			Category(errors.CategoryImageUpload).
			Build())
	}
	defer func() { _ = file.Close() }()

	var reader io.Reader = file
	if maxSize > 0 {
		reader = io.LimitReader(file, maxSize+1)
	}
	imageData, err := io.ReadAll(reader)
	if err != nil {
		return c.identifyError(ctx, errors.New(err).
			Component("api").
			Category(errors.CategoryImageUpload).
			Build())
	}
	if maxSize > 0 && int64(len(imageData)) > maxSize {
		return ctx.JSON(http.StatusRequestEntityTooLarge, map[string]string{
			"message": fmt.Sprintf("Image exceeds maximum size of %d bytes", maxSize),
		})
	}

	result, err := c.Vision.Identify(ctx.Request().Context(), imageData, mimeType)
	if err != nil {
		return c.identifyError(ctx, err)
	}

	record, err := c.saveIdentification(imageData, mimeType, result)
	if err != nil {
		return c.identifyError(ctx, err)
	}

	c.recentCache.Flush()
	if c.Metrics != nil {
		c.Metrics.IdentifyRequests.WithLabelValues("success").Inc()
	}
	c.logger.Info("Image identified",
		"id", record.ID,
		"animal", result.PrimaryResult.Name,
		"confidence", result.PrimaryResult.Confidence,
	)

	return ctx.JSON(http.StatusOK, IdentifyResponse{ID: record.ID, Result: *result})
}

// saveIdentification persists the identification outcome together with the
// submitted image, stored as a base64 data URI.
func (c *Controller) saveIdentification(imageData []byte, mimeType string,
	result *vision.IdentificationResult) (*datastore.Identification, error) {

	alternatives := result.AlternativeResults
	if alternatives == nil {
		alternatives = []vision.SpeciesGuess{}
	}
	altJSON, err := json.Marshal(alternatives)
	if err != nil {
		return nil, errors.New(err).Component("api").Category(errors.CategoryGeneric).Build()
	}

	facts := result.Facts
	if facts == nil {
		facts = []string{}
	}
	factsJSON, err := json.Marshal(facts)
	if err != nil {
		return nil, errors.New(err).Component("api").Category(errors.CategoryGeneric).Build()
	}

	record := &datastore.Identification{
		ImageData: fmt.Sprintf("data:%s;base64,%s",
			mimeType, base64.StdEncoding.EncodeToString(imageData)),
		PrimaryAnimal:      result.PrimaryResult.Name,
		ScientificName:     result.PrimaryResult.ScientificName,
		Confidence:         int(math.Round(result.PrimaryResult.Confidence)),
		AlternativeResults: string(altJSON),
		Facts:              string(factsJSON),
	}
	if err := c.DS.SaveIdentification(record); err != nil {
		return nil, err
	}
	return record, nil
}

// identifyError maps any pipeline failure to the identify endpoint's error
// shape and logs the categorized cause.
func (c *Controller) identifyError(ctx echo.Context, err error) error {
	category := errors.CategoryOf(err)
	c.logger.Error("Identification failed",
		"request_id", ctx.Get("request_id"),
		"category", string(category),
		"error", err.Error(),
	)
	if c.Metrics != nil {
		c.Metrics.IdentifyRequests.WithLabelValues(string(category)).Inc()
	}
	return ctx.JSON(http.StatusInternalServerError, identifyErrorResponse{
		Message: "Failed to identify animal",
		Error:   err.Error(),
	})
}

// GetRecentIdentifications handles GET /api/identifications/recent. Results
// are briefly cached since the landing page polls this endpoint.
func (c *Controller) GetRecentIdentifications(ctx echo.Context) error {
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"message": "Invalid limit value",
			})
		}
		limit = parsed
	}

	cacheKey := recentCacheKey + ":" + strconv.Itoa(limit)
	if cached, found := c.recentCache.Get(cacheKey); found {
		return ctx.JSON(http.StatusOK, cached)
	}

	records, err := c.DS.GetRecentIdentifications(limit)
	if err != nil {
		return c.serverError(ctx, err, "Failed to fetch recent identifications")
	}

	c.recentCache.SetDefault(cacheKey, records)
	return ctx.JSON(http.StatusOK, records)
}

// GetIdentification handles GET /api/identifications/:id.
func (c *Controller) GetIdentification(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid identification ID",
		})
	}

	record, err := c.DS.GetIdentification(id)
	if err != nil {
		if errors.CategoryOf(err) == errors.CategoryNotFound {
			return ctx.JSON(http.StatusNotFound, map[string]string{
				"message": "Identification not found",
			})
		}
		return c.serverError(ctx, err, "Failed to fetch identification")
	}
	return ctx.JSON(http.StatusOK, record)
}

// parseIDParam reads the :id route parameter.
func parseIDParam(ctx echo.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// serverError logs a datastore or internal failure and returns a generic
// 500 payload.
func (c *Controller) serverError(ctx echo.Context, err error, message string) error {
	c.logger.Error(message,
		"request_id", ctx.Get("request_id"),
		"category", string(errors.CategoryOf(err)),
		"error", err.Error(),
	)
	return ctx.JSON(http.StatusInternalServerError, map[string]string{
		"message": message,
	})
}
