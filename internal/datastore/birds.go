package datastore

// CreateBird inserts a new bird species entry.
func (ds *DataStore) CreateBird(bird *Bird) error {
	if err := ds.checkOpen(); err != nil {
		return err
	}

	if err := ds.DB.Create(bird).Error; err != nil {
		return dbError(err, "create_bird")
	}
	return nil
}

// GetBird retrieves a bird by ID without its child records.
func (ds *DataStore) GetBird(id uint) (*Bird, error) {
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	var bird Bird
	if err := ds.DB.First(&bird, id).Error; err != nil {
		return nil, dbError(err, "get_bird")
	}
	return &bird, nil
}

// GetBirdDetails retrieves a bird with all of its related records preloaded.
func (ds *DataStore) GetBirdDetails(id uint) (*Bird, error) {
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	var bird Bird
	err := ds.DB.
		Preload("PhysicalCharacteristics").
		Preload("HabitatRanges").
		Preload("MigrationPatterns").
		Preload("SeasonalAppearances").
		First(&bird, id).Error
	if err != nil {
		return nil, dbError(err, "get_bird_details")
	}
	return &bird, nil
}

// ListBirds returns birds ordered by common name using limit/offset paging.
func (ds *DataStore) ListBirds(limit, offset int) ([]Bird, error) {
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var birds []Bird
	if err := ds.DB.Order("common_name ASC").Limit(limit).Offset(offset).Find(&birds).Error; err != nil {
		return nil, dbError(err, "list_birds")
	}
	return birds, nil
}

// SearchBirds performs a case-insensitive substring search over common and
// scientific names, capped at 50 results.
func (ds *DataStore) SearchBirds(query string) ([]Bird, error) {
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	pattern := likePattern(query)
	var birds []Bird
	err := ds.DB.
		Where("LOWER(common_name) LIKE ? OR LOWER(scientific_name) LIKE ?", pattern, pattern).
		Order("common_name ASC").
		Limit(searchResultLimit).
		Find(&birds).Error
	if err != nil {
		return nil, dbError(err, "search_birds")
	}
	return birds, nil
}

// AddBirdPhysicalCharacteristics attaches physical characteristics to a bird.
func (ds *DataStore) AddBirdPhysicalCharacteristics(c *BirdPhysicalCharacteristics) error {
	if err := ds.checkOpen(); err != nil {
		return err
	}

	if err := ds.DB.Create(c).Error; err != nil {
		return dbError(err, "add_bird_physical_characteristics")
	}
	return nil
}

// AddBirdHabitatRange attaches a habitat range to a bird.
func (ds *DataStore) AddBirdHabitatRange(r *BirdHabitatRange) error {
	if err := ds.checkOpen(); err != nil {
		return err
	}

	if err := ds.DB.Create(r).Error; err != nil {
		return dbError(err, "add_bird_habitat_range")
	}
	return nil
}

// AddBirdMigrationPattern attaches a migration pattern to a bird.
func (ds *DataStore) AddBirdMigrationPattern(p *BirdMigrationPattern) error {
	if err := ds.checkOpen(); err != nil {
		return err
	}

	if err := ds.DB.Create(p).Error; err != nil {
		return dbError(err, "add_bird_migration_pattern")
	}
	return nil
}

// AddBirdSeasonalAppearance attaches a seasonal appearance to a bird.
func (ds *DataStore) AddBirdSeasonalAppearance(a *BirdSeasonalAppearance) error {
	if err := ds.checkOpen(); err != nil {
		return err
	}

	if err := ds.DB.Create(a).Error; err != nil {
		return dbError(err, "add_bird_seasonal_appearance")
	}
	return nil
}
