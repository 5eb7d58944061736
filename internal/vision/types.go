package vision

import (
	"encoding/json"
	"strings"

	"github.com/wildsnap/wildsnap-go/internal/errors"
)

// SpeciesGuess is a single species candidate with its confidence score.
type SpeciesGuess struct {
	Name           string  `json:"name"`
	ScientificName string  `json:"scientificName,omitempty"`
	Confidence     float64 `json:"confidence"`
}

// IdentificationResult is the validated identification returned by the model.
type IdentificationResult struct {
	PrimaryResult      SpeciesGuess   `json:"primaryResult"`
	AlternativeResults []SpeciesGuess `json:"alternativeResults,omitempty"`
	Facts              []string       `json:"facts,omitempty"`
}

// wireGuess mirrors SpeciesGuess with pointer fields so that missing
// required keys can be told apart from zero values.
type wireGuess struct {
	Name           *string  `json:"name"`
	ScientificName string   `json:"scientificName"`
	Confidence     *float64 `json:"confidence"`
}

// wireResult is the raw decoded shape of the model's JSON answer.
type wireResult struct {
	PrimaryResult      *wireGuess  `json:"primaryResult"`
	AlternativeResults []wireGuess `json:"alternativeResults"`
	Facts              []string    `json:"facts"`
}

// parseIdentificationResult decodes the extracted JSON and validates it
// against the structural contract. Any deviation fails the whole result;
// there is no partial success.
func parseIdentificationResult(jsonStr string) (*IdentificationResult, error) {
	var wire wireResult
	if err := json.Unmarshal([]byte(jsonStr), &wire); err != nil {
		return nil, errors.Newf("model response is not valid JSON: %w", err).
			Category(errors.CategoryResponseParsing).
			Component("vision").
			Build()
	}

	if wire.PrimaryResult == nil {
		return nil, errors.Newf("model response is missing primaryResult").
			Category(errors.CategoryValidation).
			Component("vision").
			Build()
	}
	if wire.PrimaryResult.Name == nil || strings.TrimSpace(*wire.PrimaryResult.Name) == "" {
		return nil, errors.Newf("model response is missing primaryResult.name").
			Category(errors.CategoryValidation).
			Component("vision").
			Build()
	}
	if wire.PrimaryResult.Confidence == nil {
		return nil, errors.Newf("model response is missing primaryResult.confidence").
			Category(errors.CategoryValidation).
			Component("vision").
			Build()
	}

	result := &IdentificationResult{
		PrimaryResult: SpeciesGuess{
			Name:           *wire.PrimaryResult.Name,
			ScientificName: wire.PrimaryResult.ScientificName,
			Confidence:     *wire.PrimaryResult.Confidence,
		},
		AlternativeResults: make([]SpeciesGuess, 0, len(wire.AlternativeResults)),
		Facts:              wire.Facts,
	}

	for i := range wire.AlternativeResults {
		alt := &wire.AlternativeResults[i]
		if alt.Name == nil || alt.Confidence == nil {
			return nil, errors.Newf("alternative result %d is missing name or confidence", i).
				Category(errors.CategoryValidation).
				Component("vision").
				Context("index", i).
				Build()
		}
		result.AlternativeResults = append(result.AlternativeResults, SpeciesGuess{
			Name:           *alt.Name,
			ScientificName: alt.ScientificName,
			Confidence:     *alt.Confidence,
		})
	}

	return result, nil
}
