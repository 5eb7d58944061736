package api

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jarcoal/httpmock"
	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/require"

	"github.com/wildsnap/wildsnap-go/internal/conf"
	"github.com/wildsnap/wildsnap-go/internal/datastore"
	"github.com/wildsnap/wildsnap-go/internal/vision"
)

const (
	visionBaseURL      = "https://vision.test"
	generateContentURL = visionBaseURL + "/v1beta/models/gemini-1.5-flash:generateContent"
)

// newTestController builds a controller backed by an in-memory database and
// an httpmock-intercepted vision client. Every external call the handlers
// make is visible through httpmock's call count.
func newTestController(t *testing.T) (*Controller, *echo.Echo) {
	t.Helper()

	settings := &conf.Settings{}
	settings.Main.Name = "WildSnapTest"
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = ":memory:"
	settings.Vision.MaxUploadSize = 5 * 1024 * 1024
	conf.SetTestSettings(settings)

	store := datastore.New(settings)
	require.NotNil(t, store)
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })

	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	visionClient := vision.NewClient(vision.Config{
		APIKey:      "test-key",
		Model:       "gemini-1.5-flash",
		BaseURL:     visionBaseURL,
		RateLimitMS: 1,
	}, nil)

	e := echo.New()
	e.Validator = &requestValidator{validate: validator.New()}

	c := &Controller{
		Echo:        e,
		DS:          store,
		Settings:    settings,
		Vision:      visionClient,
		recentCache: cache.New(30*time.Second, time.Minute),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	c.Group = e.Group("/api")
	c.initRoutes()

	return c, e
}

// modelReply wraps the given text in a generateContent response envelope.
func modelReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]any{{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
}

// registerModelReply makes the mocked vision endpoint answer with the given
// candidate text.
func registerModelReply(t *testing.T, text string) {
	t.Helper()
	responder, err := httpmock.NewJsonResponder(http.StatusOK, modelReply(text))
	require.NoError(t, err)
	httpmock.RegisterResponder(http.MethodPost, generateContentURL, responder)
}

// multipartUpload builds a multipart body with a single file part.
func multipartUpload(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

// doRequest runs the request through the full echo router.
func doRequest(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// postJSON performs a JSON POST against the router.
func postJSON(e *echo.Echo, path, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return doRequest(e, req)
}
