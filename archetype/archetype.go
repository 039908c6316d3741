package archetype

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrUnknownTier = errors.New("unknown tier")
	ErrDuplicate   = errors.New("duplicate archetype")
	ErrInvalid     = errors.New("invalid archetype")
)

// Family groups archetypes that share collision shape and orientation rules
type Family int

const (
	// FamilyOrb is a round body, collision by radius
	FamilyOrb Family = iota
	// FamilyShard is a small fast spinning body
	FamilyShard
	// FamilyBarrier is an elongated bar laid along its direction of travel
	FamilyBarrier
	// FamilyGate is a pair of posts laid perpendicular to travel with an opening between them
	FamilyGate
)

func (f Family) String() string {
	switch f {
	case FamilyOrb:
		return "orb"
	case FamilyShard:
		return "shard"
	case FamilyBarrier:
		return "barrier"
	case FamilyGate:
		return "gate"
	default:
		return "unknown"
	}
}

// OrientPerpendicular reports whether the family faces across its travel direction
func (f Family) OrientPerpendicular() bool {
	return f == FamilyGate
}

// Shape is the per-instance geometry an archetype constructor fills in
// Values are at scale 1.0; the scheduler multiplies by the rolled scale
type Shape struct {
	Family Family
	// Radius is the body radius; for gates the post radius; for barriers the half thickness
	Radius float64
	// Length is the barrier length or the gate post separation
	Length float64
	// Spin is the rotation rate in degrees per second
	Spin float64
	// SpeedScale multiplies the scheduler's rolled speed
	SpeedScale float64
}

// Constructor fills a zeroed Shape for a new instance
type Constructor func(s *Shape)

// Archetype is an immutable obstacle class descriptor
type Archetype struct {
	ID      string
	Tier    Tier
	Family  Family
	Dynamic bool
	Build   Constructor
}

// Construct returns the canonical shape for this archetype
func (a *Archetype) Construct() Shape {
	s := Shape{Family: a.Family, SpeedScale: 1}
	if a.Build != nil {
		a.Build(&s)
	}
	s.Family = a.Family
	if s.SpeedScale <= 0 {
		s.SpeedScale = 1
	}
	return s
}

func (a *Archetype) validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalid)
	}
	if !a.Tier.Valid() {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, a.ID, a.Tier)
	}
	if a.Build == nil {
		return fmt.Errorf("%w: %s: nil constructor", ErrInvalid, a.ID)
	}
	return nil
}

// ProceduralID returns the registry id used for a synthesized archetype
func ProceduralID(tier Tier, family Family) string {
	return "procedural-" + tier.String() + "-" + family.String()
}

// Procedural synthesizes a dynamic archetype of the given tier and family
// Shape grows with tier so a synthesized VeryHard obstacle is never gentler than Hard
func Procedural(tier Tier, family Family, rng *rand.Rand) *Archetype {
	level := float64(tier)
	jitter := 0.85 + 0.3*rng.Float64()

	return &Archetype{
		ID:      ProceduralID(tier, family),
		Tier:    tier,
		Family:  family,
		Dynamic: true,
		Build: func(s *Shape) {
			switch family {
			case FamilyOrb:
				s.Radius = (0.6 + 0.15*level) * jitter
			case FamilyShard:
				s.Radius = 0.35 * jitter
				s.Spin = 180 + 90*level
				s.SpeedScale = 1.2 + 0.1*level
			case FamilyBarrier:
				s.Radius = 0.25
				s.Length = (2.0 + 0.5*level) * jitter
				s.Spin = 20 * level
			case FamilyGate:
				s.Radius = 0.35
				s.Length = (2.6 - 0.2*level) * jitter
			}
		},
	}
}
