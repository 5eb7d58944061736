package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildsnap/wildsnap-go/internal/datastore"
)

func createTestAnimal(t *testing.T, c *Controller, common, scientific string) *datastore.Animal {
	t.Helper()
	animal := &datastore.Animal{
		CommonName:     common,
		ScientificName: scientific,
		Description:    "A test species.",
		AnimalClass:    "Mammal",
	}
	require.NoError(t, c.DS.CreateAnimal(animal))
	return animal
}

func TestCreateAnimal(t *testing.T) {
	_, e := newTestController(t)

	rec := postJSON(e, "/api/animals",
		`{"commonName":"Red Fox","scientificName":"Vulpes vulpes","description":"A widely distributed canid.","animalClass":"Mammal"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var animal datastore.Animal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &animal))
	assert.NotZero(t, animal.ID)
	assert.Equal(t, "Red Fox", animal.CommonName)
}

func TestCreateAnimalMissingClass(t *testing.T) {
	_, e := newTestController(t)

	rec := postJSON(e, "/api/animals",
		`{"commonName":"Red Fox","scientificName":"Vulpes vulpes","description":"A canid."}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid animal data")
}

func TestSearchAnimalsEndpoint(t *testing.T) {
	c, e := newTestController(t)
	createTestAnimal(t, c, "Red Fox", "Vulpes vulpes")
	createTestAnimal(t, c, "Arctic Fox", "Vulpes lagopus")
	createTestAnimal(t, c, "Gray Wolf", "Canis lupus")

	rec := doRequest(e, httptest.NewRequest(http.MethodGet, "/api/animals/search?q=fox", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var animals []datastore.Animal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &animals))
	assert.Len(t, animals, 2)

	// Scientific names are searched too.
	rec = doRequest(e, httptest.NewRequest(http.MethodGet, "/api/animals/search?q=canis", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &animals))
	assert.Len(t, animals, 1)

	rec = doRequest(e, httptest.NewRequest(http.MethodGet, "/api/animals/search", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &animals))
	assert.Empty(t, animals)
}

func TestGetAnimalDetailsEndpoint(t *testing.T) {
	c, e := newTestController(t)
	animal := createTestAnimal(t, c, "Red Fox", "Vulpes vulpes")
	require.NoError(t, c.DS.AddAnimalPhysicalCharacteristics(&datastore.AnimalPhysicalCharacteristics{
		AnimalID:     animal.ID,
		ColorPattern: "Rusty red with white underside",
	}))

	rec := doRequest(e, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/animals/%d", animal.ID), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got datastore.Animal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.PhysicalCharacteristics, 1)
	assert.Equal(t, "Rusty red with white underside", got.PhysicalCharacteristics[0].ColorPattern)

	rec = doRequest(e, httptest.NewRequest(http.MethodGet, "/api/animals/9999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddAnimalChildRecords(t *testing.T) {
	c, e := newTestController(t)
	animal := createTestAnimal(t, c, "Caribou", "Rangifer tarandus")
	base := fmt.Sprintf("/api/animals/%d", animal.ID)

	rec := postJSON(e, base+"/physical-characteristics",
		`{"colorPattern":"Brown with pale neck","size":"Large"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(e, base+"/habitat-ranges",
		`{"habitat":"Tundra","continents":"North America, Europe, Asia"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(e, base+"/migration-patterns",
		`{"migrationType":"Full migrant","migrationDistance":"Up to 5000 km annually"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(e, base+"/seasonal-appearances",
		`{"season":"Winter","appearanceDescription":"Thicker pale coat"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	details, err := c.DS.GetAnimalDetails(animal.ID)
	require.NoError(t, err)
	assert.Len(t, details.PhysicalCharacteristics, 1)
	assert.Len(t, details.HabitatRanges, 1)
	assert.Len(t, details.MigrationPatterns, 1)
	assert.Len(t, details.SeasonalAppearances, 1)
}

func TestAddAnimalChildUnknownParent(t *testing.T) {
	_, e := newTestController(t)

	rec := postJSON(e, "/api/animals/424242/seasonal-appearances",
		`{"season":"Spring","appearanceDescription":"n/a"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
