package recommender

import "math/rand/v2"

// OutfitKind is the base an outfit is built on.
type OutfitKind int

const (
	KindSeparates OutfitKind = iota // TOP + BOTTOM + SHOES
	KindDress                       // DRESS + SHOES
)

func (k OutfitKind) String() string {
	if k == KindDress {
		return "dress"
	}
	return "separates"
}

// AnchorPolicy picks the outfit kind when the shortlist can build either.
type AnchorPolicy interface {
	Choose() OutfitKind
}

// RandomPolicy picks a dress outfit with probability DressProbability.
type RandomPolicy struct {
	Rng              *rand.Rand
	DressProbability float64
}

func (p *RandomPolicy) Choose() OutfitKind {
	if p.Rng.Float64() < p.DressProbability {
		return KindDress
	}
	return KindSeparates
}

// AlternatePolicy alternates between kinds, starting with separates.
type AlternatePolicy struct {
	next OutfitKind
}

func (p *AlternatePolicy) Choose() OutfitKind {
	k := p.next
	if k == KindDress {
		p.next = KindSeparates
	} else {
		p.next = KindDress
	}
	return k
}

// FixedPolicy always picks the same kind.
type FixedPolicy OutfitKind

func (p FixedPolicy) Choose() OutfitKind {
	return OutfitKind(p)
}

// NewAnchorPolicy builds the policy named in cfg.AnchorPolicy.
func NewAnchorPolicy(cfg Config, rng *rand.Rand) AnchorPolicy {
	switch cfg.AnchorPolicy {
	case PolicyAlternate:
		return &AlternatePolicy{}
	case PolicySeparates:
		return FixedPolicy(KindSeparates)
	case PolicyDress:
		return FixedPolicy(KindDress)
	default:
		return &RandomPolicy{Rng: rng, DressProbability: cfg.DressProbability}
	}
}
