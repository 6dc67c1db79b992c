package models

import "time"

// Outfit is a set of garments the user logged as worn together.
type Outfit struct {
	ID          string    `bson:"_id" json:"outfit_id"`
	Username    string    `bson:"username" json:"username"`
	ClothingIDs []string  `bson:"clothing_ids" json:"clothing_ids"`
	DateWorn    time.Time `bson:"date_worn" json:"timestamp"`
}

// WornRecord is one garment's appearance in a logged outfit.
type WornRecord struct {
	GarmentID string    `json:"clothing_id"`
	OutfitID  string    `json:"outfit_id"`
	DateWorn  time.Time `json:"date_worn"`
}

// WornRecords flattens the outfit into wear history rows.
func (o Outfit) WornRecords() []WornRecord {
	records := make([]WornRecord, 0, len(o.ClothingIDs))
	for _, id := range o.ClothingIDs {
		records = append(records, WornRecord{GarmentID: id, OutfitID: o.ID, DateWorn: o.DateWorn})
	}
	return records
}

// FlattenWornRecords expands every outfit into wear history rows.
func FlattenWornRecords(outfits []Outfit) []WornRecord {
	var records []WornRecord
	for _, o := range outfits {
		records = append(records, o.WornRecords()...)
	}
	return records
}
