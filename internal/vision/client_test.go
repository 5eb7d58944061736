package vision

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wildsnap/wildsnap-go/internal/errors"
	"github.com/wildsnap/wildsnap-go/internal/observability"
)

const testBaseURL = "https://vision.test"

// newMockedClient returns a client whose transport is intercepted by httpmock.
func newMockedClient(t *testing.T) *Client {
	t.Helper()

	client := NewClient(Config{
		APIKey:      "test-key",
		Model:       "gemini-1.5-flash",
		BaseURL:     testBaseURL,
		RateLimitMS: 1,
	}, nil)

	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

const generateContentURL = testBaseURL + "/v1beta/models/gemini-1.5-flash:generateContent"

// modelReply builds a generateContent envelope whose candidate text is the
// given string.
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

func TestIdentifySuccess(t *testing.T) {
	client := newMockedClient(t)

	answer := `{"primaryResult":{"name":"Red Fox","scientificName":"Vulpes vulpes","confidence":92},` +
		`"alternativeResults":[{"name":"Coyote","confidence":10}],"facts":["Foxes are omnivores."]}`
	responder, err := httpmock.NewJsonResponder(http.StatusOK, modelReply(answer))
	require.NoError(t, err)
	httpmock.RegisterResponder(http.MethodPost, generateContentURL, responder)

	result, err := client.Identify(t.Context(), []byte("fake-image-bytes"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "Red Fox", result.PrimaryResult.Name)
	assert.Equal(t, "Vulpes vulpes", result.PrimaryResult.ScientificName)
	assert.InDelta(t, 92, result.PrimaryResult.Confidence, 0.001)
	require.Len(t, result.AlternativeResults, 1)
	assert.Equal(t, "Coyote", result.AlternativeResults[0].Name)
	assert.Equal(t, []string{"Foxes are omnivores."}, result.Facts)

	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestIdentifySendsPromptAndImage(t *testing.T) {
	client := newMockedClient(t)

	var captured generateRequest
	httpmock.RegisterResponder(http.MethodPost, generateContentURL,
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&captured))
			assert.Equal(t, "test-key", req.Header.Get("x-goog-api-key"))
			return httpmock.NewJsonResponse(http.StatusOK,
				modelReply(`{"primaryResult":{"name":"Gull","confidence":40}}`))
		})

	_, err := client.Identify(t.Context(), []byte("pixels"), "image/png")
	require.NoError(t, err)

	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 2)
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "Identify the animal in this image")
	require.NotNil(t, captured.Contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/png", captured.Contents[0].Parts[1].InlineData.MimeType)
	assert.NotEmpty(t, captured.Contents[0].Parts[1].InlineData.Data)
}

func TestIdentifyFencedResponse(t *testing.T) {
	client := newMockedClient(t)

	answer := "```json\n{\"primaryResult\":{\"name\":\"Red Fox\",\"confidence\":92}}\n```"
	responder, err := httpmock.NewJsonResponder(http.StatusOK, modelReply(answer))
	require.NoError(t, err)
	httpmock.RegisterResponder(http.MethodPost, generateContentURL, responder)

	result, err := client.Identify(t.Context(), []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "Red Fox", result.PrimaryResult.Name)
}

func TestIdentifyNonJSONAnswer(t *testing.T) {
	client := newMockedClient(t)

	responder, err := httpmock.NewJsonResponder(http.StatusOK, modelReply("I cannot identify this."))
	require.NoError(t, err)
	httpmock.RegisterResponder(http.MethodPost, generateContentURL, responder)

	_, err = client.Identify(t.Context(), []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryResponseParsing, errors.CategoryOf(err))
}

func TestIdentifySchemaViolation(t *testing.T) {
	client := newMockedClient(t)

	// Valid JSON, but the primary guess has no name
	responder, err := httpmock.NewJsonResponder(http.StatusOK, modelReply(`{"primaryResult":{"confidence":50}}`))
	require.NoError(t, err)
	httpmock.RegisterResponder(http.MethodPost, generateContentURL, responder)

	_, err = client.Identify(t.Context(), []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryValidation, errors.CategoryOf(err))
}

func TestIdentifyUpstreamErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantCategory errors.ErrorCategory
	}{
		{"server error", http.StatusInternalServerError, errors.CategoryNetwork},
		{"quota exceeded", http.StatusTooManyRequests, errors.CategoryLimit},
		{"bad API key", http.StatusForbidden, errors.CategoryConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockedClient(t)

			body := fmt.Sprintf(`{"error":{"code":%d,"message":"upstream says no","status":"ERROR"}}`, tt.status)
			httpmock.RegisterResponder(http.MethodPost, generateContentURL,
				httpmock.NewStringResponder(tt.status, body))

			_, err := client.Identify(t.Context(), []byte("img"), "image/jpeg")
			require.Error(t, err)
			assert.Equal(t, tt.wantCategory, errors.CategoryOf(err))
			assert.Contains(t, err.Error(), "upstream says no")
		})
	}
}

func TestIdentifyEmptyCandidates(t *testing.T) {
	client := newMockedClient(t)

	responder, err := httpmock.NewJsonResponder(http.StatusOK, map[string]any{"candidates": []any{}})
	require.NoError(t, err)
	httpmock.RegisterResponder(http.MethodPost, generateContentURL, responder)

	_, err = client.Identify(t.Context(), []byte("img"), "image/jpeg")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryResponseParsing, errors.CategoryOf(err))
}

func TestClientDefaults(t *testing.T) {
	client := NewClient(Config{APIKey: "k"}, nil)

	assert.Equal(t, DefaultConfig().BaseURL, client.config.BaseURL)
	assert.Equal(t, DefaultConfig().Model, client.config.Model)
	assert.Equal(t, DefaultConfig().Timeout, client.config.Timeout)
}

func TestMetricsTracking(t *testing.T) {
	client := newMockedClient(t)

	responder, err := httpmock.NewJsonResponder(http.StatusOK,
		modelReply(`{"primaryResult":{"name":"Gull","confidence":40}}`))
	require.NoError(t, err)
	httpmock.RegisterResponder(http.MethodPost, generateContentURL, responder)

	_, err = client.Identify(t.Context(), []byte("img"), "image/jpeg")
	require.NoError(t, err)

	metrics := client.GetMetrics()
	assert.Equal(t, int64(1), metrics.APICalls)
	assert.Equal(t, int64(0), metrics.APIErrors)
}

func TestPrometheusCollectorsTrackCalls(t *testing.T) {
	prom, err := observability.NewMetrics()
	require.NoError(t, err)

	client := NewClient(Config{
		APIKey:      "test-key",
		Model:       "gemini-1.5-flash",
		BaseURL:     testBaseURL,
		RateLimitMS: 1,
	}, prom)
	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	responder, err := httpmock.NewJsonResponder(http.StatusOK,
		modelReply(`{"primaryResult":{"name":"Gull","confidence":40}}`))
	require.NoError(t, err)
	httpmock.RegisterResponder(http.MethodPost, generateContentURL, responder)

	_, err = client.Identify(t.Context(), []byte("img"), "image/jpeg")
	require.NoError(t, err)

	// The exported collectors track the same counts as the client's own
	// metrics, so /metrics reflects real traffic.
	assert.Equal(t, float64(1), testutil.ToFloat64(prom.VisionAPICalls))
	assert.Equal(t, float64(0), testutil.ToFloat64(prom.VisionAPIErrors))
	assert.Equal(t, uint64(1), histogramSampleCount(t, prom.VisionDuration))

	httpmock.RegisterResponder(http.MethodPost, generateContentURL,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, `{"error":{"message":"overloaded"}}`))

	_, err = client.Identify(t.Context(), []byte("img"), "image/jpeg")
	require.Error(t, err)

	assert.Equal(t, float64(2), testutil.ToFloat64(prom.VisionAPICalls))
	assert.Equal(t, float64(1), testutil.ToFloat64(prom.VisionAPIErrors))
}

// histogramSampleCount reads the observation count out of a histogram.
func histogramSampleCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}
