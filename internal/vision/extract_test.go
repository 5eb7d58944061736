package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{"primaryResult":{"name":"Red Fox","scientificName":"Vulpes vulpes","confidence":92}}`

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "raw JSON passes through",
			input: sampleJSON,
			want:  sampleJSON,
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "\n  " + sampleJSON + "  \n",
			want:  sampleJSON,
		},
		{
			name:  "json-tagged fence",
			input: "```json\n" + sampleJSON + "\n```",
			want:  sampleJSON,
		},
		{
			name:  "bare fence",
			input: "```\n" + sampleJSON + "\n```",
			want:  sampleJSON,
		},
		{
			name:  "fence with leading prose",
			input: "Here is the identification:\n```json\n" + sampleJSON + "\n```\nLet me know if you need more.",
			want:  sampleJSON,
		},
		{
			name:  "plain text unchanged",
			input: "I cannot identify this.",
			want:  "I cannot identify this.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.input))
		})
	}
}

// Extraction must be fencing-agnostic: the same JSON parses identically
// with or without a markdown fence around it.
func TestExtractionFencingEquivalence(t *testing.T) {
	variants := []string{
		sampleJSON,
		"```json\n" + sampleJSON + "\n```",
		"```\n" + sampleJSON + "\n```",
	}

	var results []*IdentificationResult
	for _, v := range variants {
		result, err := parseIdentificationResult(extractJSON(v))
		require.NoError(t, err)
		results = append(results, result)
	}

	for i := 1; i < len(results); i++ {
		assert.Equal(t, results[0], results[i], "fenced and unfenced responses must parse identically")
	}
}

func TestParseIdentificationResult(t *testing.T) {
	t.Run("complete result", func(t *testing.T) {
		input := `{
			"primaryResult": {"name": "Red Fox", "scientificName": "Vulpes vulpes", "confidence": 92},
			"alternativeResults": [{"name": "Coyote", "confidence": 10}],
			"facts": ["Foxes are omnivores."]
		}`
		result, err := parseIdentificationResult(input)
		require.NoError(t, err)
		assert.Equal(t, "Red Fox", result.PrimaryResult.Name)
		assert.Equal(t, "Vulpes vulpes", result.PrimaryResult.ScientificName)
		assert.InDelta(t, 92, result.PrimaryResult.Confidence, 0.001)
		require.Len(t, result.AlternativeResults, 1)
		assert.Equal(t, "Coyote", result.AlternativeResults[0].Name)
		assert.Equal(t, []string{"Foxes are omnivores."}, result.Facts)
	})

	t.Run("alternatives and facts are optional", func(t *testing.T) {
		result, err := parseIdentificationResult(sampleJSON)
		require.NoError(t, err)
		assert.Empty(t, result.AlternativeResults)
		assert.Empty(t, result.Facts)
	})

	t.Run("not JSON at all", func(t *testing.T) {
		_, err := parseIdentificationResult("I cannot identify this.")
		require.Error(t, err)
	})

	t.Run("missing primaryResult", func(t *testing.T) {
		_, err := parseIdentificationResult(`{"facts":["a"]}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "primaryResult")
	})

	t.Run("missing primary name", func(t *testing.T) {
		_, err := parseIdentificationResult(`{"primaryResult":{"confidence":50}}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "primaryResult.name")
	})

	t.Run("empty primary name", func(t *testing.T) {
		_, err := parseIdentificationResult(`{"primaryResult":{"name":"  ","confidence":50}}`)
		require.Error(t, err)
	})

	t.Run("missing primary confidence", func(t *testing.T) {
		_, err := parseIdentificationResult(`{"primaryResult":{"name":"Red Fox"}}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "confidence")
	})

	t.Run("confidence must be a number", func(t *testing.T) {
		_, err := parseIdentificationResult(`{"primaryResult":{"name":"Red Fox","confidence":"high"}}`)
		require.Error(t, err)
	})

	t.Run("alternative missing confidence", func(t *testing.T) {
		input := `{"primaryResult":{"name":"Red Fox","confidence":92},"alternativeResults":[{"name":"Coyote"}]}`
		_, err := parseIdentificationResult(input)
		require.Error(t, err)
	})
}
