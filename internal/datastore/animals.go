package datastore

// CreateAnimal inserts a new animal species entry.
func (ds *DataStore) CreateAnimal(animal *Animal) error {
	if err := ds.checkOpen(); err != nil {
		return err
	}

	if err := ds.DB.Create(animal).Error; err != nil {
		return dbError(err, "create_animal")
	}
	return nil
}

// GetAnimal retrieves an animal by ID without its child records.
func (ds *DataStore) GetAnimal(id uint) (*Animal, error) {
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	var animal Animal
	if err := ds.DB.First(&animal, id).Error; err != nil {
		return nil, dbError(err, "get_animal")
	}
	return &animal, nil
}

// GetAnimalDetails retrieves an animal with all of its related records preloaded.
func (ds *DataStore) GetAnimalDetails(id uint) (*Animal, error) {
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	var animal Animal
	err := ds.DB.
		Preload("PhysicalCharacteristics").
		Preload("HabitatRanges").
		Preload("MigrationPatterns").
		Preload("SeasonalAppearances").
		First(&animal, id).Error
	if err != nil {
		return nil, dbError(err, "get_animal_details")
	}
	return &animal, nil
}

// ListAnimals returns animals ordered by common name using limit/offset paging.
func (ds *DataStore) ListAnimals(limit, offset int) ([]Animal, error) {
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var animals []Animal
	if err := ds.DB.Order("common_name ASC").Limit(limit).Offset(offset).Find(&animals).Error; err != nil {
		return nil, dbError(err, "list_animals")
	}
	return animals, nil
}

// SearchAnimals performs a case-insensitive substring search over common and
// scientific names, capped at 50 results.
func (ds *DataStore) SearchAnimals(query string) ([]Animal, error) {
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	pattern := likePattern(query)
	var animals []Animal
	err := ds.DB.
		Where("LOWER(common_name) LIKE ? OR LOWER(scientific_name) LIKE ?", pattern, pattern).
		Order("common_name ASC").
		Limit(searchResultLimit).
		Find(&animals).Error
	if err != nil {
		return nil, dbError(err, "search_animals")
	}
	return animals, nil
}

// AddAnimalPhysicalCharacteristics attaches physical characteristics to an animal.
func (ds *DataStore) AddAnimalPhysicalCharacteristics(c *AnimalPhysicalCharacteristics) error {
	if err := ds.checkOpen(); err != nil {
		return err
	}

	if err := ds.DB.Create(c).Error; err != nil {
		return dbError(err, "add_animal_physical_characteristics")
	}
	return nil
}

// AddAnimalHabitatRange attaches a habitat range to an animal.
func (ds *DataStore) AddAnimalHabitatRange(r *AnimalHabitatRange) error {
	if err := ds.checkOpen(); err != nil {
		return err
	}

	if err := ds.DB.Create(r).Error; err != nil {
		return dbError(err, "add_animal_habitat_range")
	}
	return nil
}

// AddAnimalMigrationPattern attaches a migration pattern to an animal.
func (ds *DataStore) AddAnimalMigrationPattern(p *AnimalMigrationPattern) error {
	if err := ds.checkOpen(); err != nil {
		return err
	}

	if err := ds.DB.Create(p).Error; err != nil {
		return dbError(err, "add_animal_migration_pattern")
	}
	return nil
}

// AddAnimalSeasonalAppearance attaches a seasonal appearance to an animal.
func (ds *DataStore) AddAnimalSeasonalAppearance(a *AnimalSeasonalAppearance) error {
	if err := ds.checkOpen(); err != nil {
		return err
	}

	if err := ds.DB.Create(a).Error; err != nil {
		return dbError(err, "add_animal_seasonal_appearance")
	}
	return nil
}
