package models

// Categories is the tag vocabulary shown by clients when labelling a garment.
type Categories struct {
	Type     []ClothingType             `json:"type"`
	Subtype  map[ClothingType][]Subtype `json:"subtype"`
	Fit      []Fit                      `json:"fit"`
	Occasion []Occasion                 `json:"occasion"`
	Precip   []Precip                   `json:"precip"`
	Weather  []Season                   `json:"weather"`
}

// AllCategories returns every enumeration value the API accepts.
func AllCategories() Categories {
	return Categories{
		Type:     ClothingTypes,
		Subtype:  AllowedSubtypes,
		Fit:      Fits,
		Occasion: Occasions,
		Precip:   Precips,
		Weather:  Seasons,
	}
}
