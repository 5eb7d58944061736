// Package vision implements the client for the external vision-language
// model used to identify species from images.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/wildsnap/wildsnap-go/internal/conf"
	"github.com/wildsnap/wildsnap-go/internal/errors"
	"github.com/wildsnap/wildsnap-go/internal/logging"
	"github.com/wildsnap/wildsnap-go/internal/observability"
	"golang.org/x/time/rate"
)

// Package-level logger specific to the vision service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
	closeLogger     func() error
	loggerOnce      sync.Once
)

func initLogger() {
	loggerOnce.Do(func() {
		logFilePath := filepath.Join("logs", "vision.log")
		serviceLevelVar.Set(slog.LevelDebug)

		var err error
		logger, closeLogger, err = logging.NewFileLogger(logFilePath, "vision", serviceLevelVar)
		if err != nil {
			log.Printf("Failed to initialize vision file logger at %s: %v. Service logging disabled.", logFilePath, err)
			fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
			logger = slog.New(fbHandler).With("service", "vision")
			closeLogger = func() error { return nil }
		}
	})
}

// Config holds the connection settings for the vision model API.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	RateLimitMS int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		Model:       "gemini-1.5-flash",
		BaseURL:     "https://generativelanguage.googleapis.com",
		Timeout:     60 * time.Second,
		RateLimitMS: 100,
	}
}

// ConfigFromSettings builds a client Config from the application settings.
func ConfigFromSettings(settings *conf.Settings) Config {
	return Config{
		APIKey:      settings.Vision.APIKey,
		Model:       settings.Vision.Model,
		BaseURL:     settings.Vision.BaseURL,
		Timeout:     settings.Vision.Timeout,
		RateLimitMS: settings.Vision.RateLimitMS,
	}
}

// Identifier is the interface the API layer depends on; satisfied by Client.
type Identifier interface {
	Identify(ctx context.Context, imageData []byte, mimeType string) (*IdentificationResult, error)
}

// Client calls the Gemini generateContent API to identify species in images.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	debug      bool
	prom       *observability.Metrics

	// Metrics
	metrics struct {
		apiCalls      int64
		apiErrors     int64
		totalDuration time.Duration
		mu            sync.RWMutex
	}
}

// NewClient creates a new vision model client. The metrics argument may be
// nil, in which case only the client's own counters are kept. A missing API
// key is not an error here: requests will fail at the external call,
// matching the upstream behavior.
func NewClient(config Config, metrics *observability.Metrics) *Client {
	initLogger()

	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.RateLimitMS == 0 {
		config.RateLimitMS = defaults.RateLimitMS
	}

	settings := conf.GetSettings()
	debug := settings != nil && settings.Debug

	client := &Client{
		config: config,
		prom:   metrics,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Duration(config.RateLimitMS)*time.Millisecond), 1),
		debug:   debug,
	}

	logger.Info("vision client initialized",
		"base_url", config.BaseURL,
		"model", config.Model,
		"timeout", config.Timeout,
		"rate_limit_ms", config.RateLimitMS,
		"api_key_configured", config.APIKey != "")

	return client
}

// Close cleans up client resources.
func (c *Client) Close() {
	logger.Info("closing vision client")
	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			log.Printf("Error closing vision logger: %v", err)
		}
	}
}

// Gemini generateContent wire types

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Identify sends the image and the fixed identification prompt to the model,
// extracts the JSON payload from the model's free-text answer and validates
// it against the structural contract. This is the sole suspension point of
// an identify request; the configured timeout bounds the call.
func (c *Client) Identify(ctx context.Context, imageData []byte, mimeType string) (*IdentificationResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Newf("rate limiter wait interrupted: %w", err).
			Category(errors.CategoryTimeout).
			Component("vision").
			Build()
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	payload := generateRequest{
		Contents: []requestContent{{
			Parts: []requestPart{
				{Text: identifyPrompt},
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(imageData),
				}},
			},
		}},
	}

	text, err := c.generateContent(reqCtx, &payload)
	if err != nil {
		return nil, err
	}

	result, err := parseIdentificationResult(extractJSON(text))
	if err != nil {
		preview := text
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		logger.Warn("model returned unusable response",
			"model", c.config.Model,
			"response_preview", preview,
			"error", err)
		return nil, err
	}

	logger.Info("identification succeeded",
		"model", c.config.Model,
		"primary", result.PrimaryResult.Name,
		"confidence", result.PrimaryResult.Confidence,
		"alternatives", len(result.AlternativeResults))

	return result, nil
}

// generateContent performs one generateContent API call and returns the
// concatenated text of the first candidate.
func (c *Client) generateContent(ctx context.Context, payload *generateRequest) (string, error) {
	start := time.Now()

	c.metrics.mu.Lock()
	c.metrics.apiCalls++
	c.metrics.mu.Unlock()
	if c.prom != nil {
		c.prom.VisionAPICalls.Inc()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Newf("failed to encode request: %w", err).
			Category(errors.CategoryGeneric).
			Component("vision").
			Build()
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.config.BaseURL, c.config.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.countError()
		return "", errors.Newf("failed to create HTTP request: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", url).
			Component("vision").
			Build()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	if c.debug {
		logger.Debug("vision API request",
			"url", url,
			"model", c.config.Model,
			"payload_bytes", len(body),
			"has_api_key", c.config.APIKey != "")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.countError()
		logger.Error("vision API request failed", "error", err, "url", url)
		return "", errors.Newf("HTTP request failed: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", url).
			Component("vision").
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		c.countError()
		return "", errors.Newf("failed to read response body: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", url).
			Context("status_code", resp.StatusCode).
			Component("vision").
			Build()
	}

	if resp.StatusCode >= 400 {
		c.countError()

		var ae apiError
		message := strings.TrimSpace(string(respBytes))
		if err := json.Unmarshal(respBytes, &ae); err == nil && ae.Error.Message != "" {
			message = ae.Error.Message
		}

		// Authentication failures point at configuration rather than the network
		if resp.StatusCode == 401 || resp.StatusCode == 403 {
			logger.Error("vision API authentication failed",
				"status_code", resp.StatusCode,
				"has_api_key", c.config.APIKey != "",
				"message", message)
		} else {
			logger.Warn("vision API error response",
				"status_code", resp.StatusCode,
				"message", message)
		}

		return "", errors.Newf("vision API error (status %d): %s", resp.StatusCode, message).
			Category(categoryForStatus(resp.StatusCode)).
			Context("status_code", resp.StatusCode).
			Component("vision").
			Build()
	}

	var gr generateResponse
	if err := json.Unmarshal(respBytes, &gr); err != nil {
		c.countError()
		return "", errors.Newf("failed to parse vision API envelope: %w", err).
			Category(errors.CategoryResponseParsing).
			Context("response_size", len(respBytes)).
			Component("vision").
			Build()
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		c.countError()
		return "", errors.Newf("vision API returned no candidates").
			Category(errors.CategoryResponseParsing).
			Component("vision").
			Build()
	}

	var sb strings.Builder
	for _, part := range gr.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	duration := time.Since(start)
	c.metrics.mu.Lock()
	c.metrics.totalDuration += duration
	c.metrics.mu.Unlock()
	if c.prom != nil {
		c.prom.VisionDuration.Observe(duration.Seconds())
	}

	if c.debug {
		logger.Debug("vision API response",
			"status_code", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
			"response_size", len(respBytes))
	}

	return sb.String(), nil
}

func (c *Client) countError() {
	c.metrics.mu.Lock()
	c.metrics.apiErrors++
	c.metrics.mu.Unlock()
	if c.prom != nil {
		c.prom.VisionAPIErrors.Inc()
	}
}

// Metrics represents vision client performance counters.
type Metrics struct {
	APICalls      int64         `json:"api_calls"`
	APIErrors     int64         `json:"api_errors"`
	TotalDuration time.Duration `json:"total_duration"`
	AvgDuration   time.Duration `json:"avg_duration"`
}

// GetMetrics returns current client metrics.
func (c *Client) GetMetrics() Metrics {
	c.metrics.mu.RLock()
	defer c.metrics.mu.RUnlock()

	metrics := Metrics{
		APICalls:      c.metrics.apiCalls,
		APIErrors:     c.metrics.apiErrors,
		TotalDuration: c.metrics.totalDuration,
	}
	if metrics.APICalls > 0 {
		metrics.AvgDuration = time.Duration(int64(metrics.TotalDuration) / metrics.APICalls)
	}
	return metrics
}

// categoryForStatus maps an HTTP status code onto an error category.
func categoryForStatus(statusCode int) errors.ErrorCategory {
	switch statusCode {
	case 401, 403:
		return errors.CategoryConfiguration
	case 429:
		return errors.CategoryLimit
	case 404:
		return errors.CategoryNotFound
	default:
		return errors.CategoryNetwork
	}
}
