package datastore

// SaveIdentification inserts a new identification record. Records are
// write-once: no update path exists.
func (ds *DataStore) SaveIdentification(identification *Identification) error {
	if err := ds.checkOpen(); err != nil {
		return err
	}

	if err := ds.DB.Create(identification).Error; err != nil {
		return dbError(err, "save_identification")
	}

	getLogger().Debug("identification saved",
		"id", identification.ID,
		"primary_animal", identification.PrimaryAnimal,
		"confidence", identification.Confidence)

	return nil
}

// GetIdentification retrieves a single identification record by ID.
func (ds *DataStore) GetIdentification(id uint) (*Identification, error) {
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	var identification Identification
	if err := ds.DB.First(&identification, id).Error; err != nil {
		return nil, dbError(err, "get_identification")
	}
	return &identification, nil
}

// GetRecentIdentifications returns the most recent identifications,
// newest first. A non-positive limit falls back to 3, matching the
// behavior of the recent-identifications endpoint.
func (ds *DataStore) GetRecentIdentifications(limit int) ([]Identification, error) {
	if err := ds.checkOpen(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 3
	}

	var identifications []Identification
	if err := ds.DB.Order("created_at DESC, id DESC").Limit(limit).Find(&identifications).Error; err != nil {
		return nil, dbError(err, "get_recent_identifications")
	}
	return identifications, nil
}
