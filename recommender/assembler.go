package recommender

import (
	"github.com/raushankrgupta/threadline/colors"
	"github.com/raushankrgupta/threadline/models"
)

// OutfitItem is one garment placed in a recommended outfit.
type OutfitItem struct {
	ID    string `json:"id"`
	Image string `json:"img"`
	// Layer is set on a top worn over a dress.
	Layer bool `json:"layer,omitempty"`
}

// Outfit maps each clothing type to the garment chosen for it.
type Outfit map[models.ClothingType]OutfitItem

// Kind reports the base the outfit was built on.
func (o Outfit) Kind() OutfitKind {
	if _, ok := o[models.TypeDress]; ok {
		return KindDress
	}
	return KindSeparates
}

func itemFor(c WeightedCandidate) OutfitItem {
	return OutfitItem{ID: c.Garment.ID, Image: c.Garment.ImageFilename}
}

// Assembler turns a Shortlist into outfits, consuming it as it goes.
type Assembler struct {
	cfg    Config
	policy AnchorPolicy
}

func NewAssembler(cfg Config, policy AnchorPolicy) *Assembler {
	return &Assembler{cfg: cfg.Normalize(), policy: policy}
}

func (a *Assembler) canDress(s Shortlist) bool {
	return s.Len(models.TypeDress) > 0 && s.Len(models.TypeShoes) > 0
}

func (a *Assembler) canSeparates(s Shortlist) bool {
	return s.Len(models.TypeTop) > 0 && s.Len(models.TypeBottom) > 0 && s.Len(models.TypeShoes) > 0
}

// Assemble builds outfits until the shortlist can no longer form a base or
// MaxOutfits is reached. Every garment is used at most once.
func (a *Assembler) Assemble(s Shortlist) []Outfit {
	outfits := make([]Outfit, 0, a.cfg.MaxOutfits)
	for len(outfits) < a.cfg.MaxOutfits {
		dress, separates := a.canDress(s), a.canSeparates(s)

		var kind OutfitKind
		switch {
		case dress && separates:
			kind = a.policy.Choose()
		case dress:
			kind = KindDress
		case separates:
			kind = KindSeparates
		default:
			return outfits
		}

		if kind == KindDress {
			outfits = append(outfits, a.dressOutfit(s))
		} else {
			outfits = append(outfits, a.separatesOutfit(s))
		}
	}
	return outfits
}

func (a *Assembler) dressOutfit(s Shortlist) Outfit {
	anchor, _ := s.Pop(models.TypeDress)
	outfit := Outfit{models.TypeDress: itemFor(anchor)}
	color := anchor.Garment.PrimaryColor

	a.matchInto(s, outfit, models.TypeShoes, color)
	for _, t := range s.Types() {
		switch t {
		case models.TypeTop, models.TypeBottom, models.TypeDress, models.TypeShoes:
			continue
		}
		a.matchInto(s, outfit, t, color)
	}

	if a.cfg.Layering {
		a.layerTop(s, outfit, color)
	}
	return outfit
}

func (a *Assembler) separatesOutfit(s Shortlist) Outfit {
	anchor, _ := s.Pop(models.TypeTop)
	outfit := Outfit{models.TypeTop: itemFor(anchor)}
	color := anchor.Garment.PrimaryColor

	a.matchInto(s, outfit, models.TypeBottom, color)
	a.matchInto(s, outfit, models.TypeShoes, color)
	for _, t := range s.Types() {
		switch t {
		case models.TypeTop, models.TypeBottom, models.TypeDress, models.TypeShoes:
			continue
		}
		a.matchInto(s, outfit, t, color)
	}
	return outfit
}

// matchInto consumes the best color match of type t, if any, into outfit.
func (a *Assembler) matchInto(s Shortlist, outfit Outfit, t models.ClothingType, anchor *colors.Lab) {
	i, ok := BestMatch(s[t], anchor)
	if !ok {
		return
	}
	outfit[t] = itemFor(s.Take(t, i))
}

// layerTop adds the best-matching layerable top over a dress.
func (a *Assembler) layerTop(s Shortlist, outfit Outfit, anchor *colors.Lab) {
	var (
		layerable []WeightedCandidate
		index     []int
	)
	for i, c := range s[models.TypeTop] {
		if c.Garment.Layerable {
			layerable = append(layerable, c)
			index = append(index, i)
		}
	}
	i, ok := BestMatch(layerable, anchor)
	if !ok {
		return
	}
	item := itemFor(s.Take(models.TypeTop, index[i]))
	item.Layer = true
	outfit[models.TypeTop] = item
}
