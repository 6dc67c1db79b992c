package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/raushankrgupta/threadline/colors"
)

// ErrInvalidGarment is wrapped by every garment validation failure.
var ErrInvalidGarment = errors.New("invalid garment")

// ClothingType is the slot a garment fills in an outfit.
type ClothingType string

const (
	TypeTop       ClothingType = "TOP"
	TypeBottom    ClothingType = "BOTTOM"
	TypeOuterwear ClothingType = "OUTERWEAR"
	TypeDress     ClothingType = "DRESS"
	TypeShoes     ClothingType = "SHOES"
)

// ClothingTypes lists the known types in display order.
var ClothingTypes = []ClothingType{TypeTop, TypeBottom, TypeOuterwear, TypeDress, TypeShoes}

// Subtype narrows a ClothingType (e.g. JEANS for BOTTOM).
type Subtype string

const (
	SubtypeActive     Subtype = "ACTIVE"
	SubtypeTShirt     Subtype = "T-SHIRT"
	SubtypePolo       Subtype = "POLO"
	SubtypeButtonDown Subtype = "BUTTON DOWN"
	SubtypeHoodie     Subtype = "HOODIE"
	SubtypeSweater    Subtype = "SWEATER"

	SubtypeJeans  Subtype = "JEANS"
	SubtypePants  Subtype = "PANTS"
	SubtypeShorts Subtype = "SHORTS"
	SubtypeSkirt  Subtype = "SKIRT"

	SubtypeJacket Subtype = "JACKET"
	SubtypeCoat   Subtype = "COAT"

	SubtypeMini Subtype = "MINI"
	SubtypeMidi Subtype = "MIDI"
	SubtypeMaxi Subtype = "MAXI"

	SubtypeSneakers      Subtype = "SNEAKERS"
	SubtypeBoots         Subtype = "BOOTS"
	SubtypeSandalsSlides Subtype = "SANDALS & SLIDES"
)

// AllowedSubtypes maps each clothing type to the subtypes it may carry.
var AllowedSubtypes = map[ClothingType][]Subtype{
	TypeTop:       {SubtypeActive, SubtypeTShirt, SubtypePolo, SubtypeButtonDown, SubtypeHoodie, SubtypeSweater},
	TypeBottom:    {SubtypeActive, SubtypeJeans, SubtypePants, SubtypeShorts, SubtypeSkirt},
	TypeOuterwear: {SubtypeJacket, SubtypeCoat},
	TypeDress:     {SubtypeMini, SubtypeMidi, SubtypeMaxi},
	TypeShoes:     {SubtypeActive, SubtypeSneakers, SubtypeBoots, SubtypeSandalsSlides},
}

// Fit describes how a garment sits on the body.
type Fit string

const (
	FitLoose  Fit = "LOOSE"
	FitFitted Fit = "FITTED"
	FitTight  Fit = "TIGHT"
)

var Fits = []Fit{FitLoose, FitFitted, FitTight}

// Occasion is the setting a garment is meant for.
type Occasion string

const (
	OccasionActive Occasion = "ACTIVE"
	OccasionCasual Occasion = "CASUAL"
	OccasionFormal Occasion = "FORMAL"
)

var Occasions = []Occasion{OccasionActive, OccasionCasual, OccasionFormal}

// Precip is the precipitation a garment is suitable for. PrecipNone means no constraint.
type Precip string

const (
	PrecipNone Precip = ""
	PrecipRain Precip = "RAIN"
	PrecipSnow Precip = "SNOW"
)

var Precips = []Precip{PrecipRain, PrecipSnow}

// Season tags when a garment is worn. Ranking only distinguishes winter from everything else.
type Season string

const (
	SeasonWinter Season = "WINTER"
	SeasonSpring Season = "SPRING"
	SeasonSummer Season = "SUMMER"
	SeasonFall   Season = "FALL"
)

var Seasons = []Season{SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall}

// IsWinter reports whether the season falls in the winter bucket.
func (s Season) IsWinter() bool {
	return s == SeasonWinter
}

// SameBucket reports whether two seasons share a weather bucket.
func (s Season) SameBucket(other Season) bool {
	return s.IsWinter() == other.IsWinter()
}

// Garment is a single clothing item in a user's wardrobe.
type Garment struct {
	ID             string            `bson:"_id" json:"id"`
	Username       string            `bson:"username" json:"username"`
	Type           ClothingType      `bson:"type" json:"type"`
	Subtype        Subtype           `bson:"subtype,omitempty" json:"subtype,omitempty"`
	Fit            Fit               `bson:"fit" json:"fit"`
	Occasion       Occasion          `bson:"occasion" json:"occasion"`
	PrimaryColor   *colors.Lab       `bson:"color,omitempty" json:"color,omitempty"`
	SecondaryColor *colors.Lab       `bson:"color_2nd,omitempty" json:"color_2nd,omitempty"`
	Layerable      bool              `bson:"layerable" json:"layerable"`
	Precip         Precip            `bson:"precip,omitempty" json:"precip,omitempty"`
	Season         Season            `bson:"season" json:"season"`
	ImageFilename  string            `bson:"img_filename" json:"img"`
	Tags           map[string]string `bson:"tags,omitempty" json:"tags,omitempty"`
	IsDeleted      bool              `bson:"is_deleted" json:"is_deleted"` // soft delete from declutter
	CreatedAt      time.Time         `bson:"created_at" json:"created_at"`
}

// Validate checks the enumerations and the subtype/type pairing.
func (g Garment) Validate() error {
	if g.Username == "" {
		return fmt.Errorf("%w: username required", ErrInvalidGarment)
	}
	allowed, ok := AllowedSubtypes[g.Type]
	if !ok {
		return fmt.Errorf("%w: unknown clothing type %q", ErrInvalidGarment, g.Type)
	}
	if g.Subtype != "" && !slices.Contains(allowed, g.Subtype) {
		return fmt.Errorf("%w: subtype %q not allowed for %s", ErrInvalidGarment, g.Subtype, g.Type)
	}
	if !slices.Contains(Fits, g.Fit) {
		return fmt.Errorf("%w: unknown fit %q", ErrInvalidGarment, g.Fit)
	}
	if !slices.Contains(Occasions, g.Occasion) {
		return fmt.Errorf("%w: unknown occasion %q", ErrInvalidGarment, g.Occasion)
	}
	if g.Precip != PrecipNone && !slices.Contains(Precips, g.Precip) {
		return fmt.Errorf("%w: unknown precip %q", ErrInvalidGarment, g.Precip)
	}
	if !slices.Contains(Seasons, g.Season) {
		return fmt.Errorf("%w: unknown season %q", ErrInvalidGarment, g.Season)
	}
	return nil
}

// ParseClothingType normalises user input such as "top" to TypeTop.
func ParseClothingType(s string) (ClothingType, error) {
	t := ClothingType(normalize(s))
	if _, ok := AllowedSubtypes[t]; !ok {
		return "", fmt.Errorf("%w: unknown clothing type %q", ErrInvalidGarment, s)
	}
	return t, nil
}

// ParsePrecip accepts "", "none", "rain" or "snow".
func ParsePrecip(s string) (Precip, error) {
	switch p := Precip(normalize(s)); p {
	case PrecipNone, "NONE":
		return PrecipNone, nil
	case PrecipRain, PrecipSnow:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown precip %q", ErrInvalidGarment, s)
	}
}

// ParseSeason accepts any of the four seasons, case-insensitively.
func ParseSeason(s string) (Season, error) {
	season := Season(normalize(s))
	if !slices.Contains(Seasons, season) {
		return "", fmt.Errorf("%w: unknown season %q", ErrInvalidGarment, s)
	}
	return season, nil
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
