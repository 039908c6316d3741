package archetype

import (
	"fmt"
	"math/rand"
	"sort"
)

// Registry maps archetype ids to descriptors, populated at startup
// Synthesized procedural archetypes are cached by id but never count as templates for their tier
type Registry struct {
	byID   map[string]*Archetype
	byTier [TierCount][]*Archetype
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Archetype)}
}

// Register adds a template archetype
func (r *Registry) Register(a *Archetype) error {
	if a == nil {
		return fmt.Errorf("%w: nil", ErrInvalid)
	}
	if err := a.validate(); err != nil {
		return err
	}
	if _, exists := r.byID[a.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, a.ID)
	}
	r.byID[a.ID] = a
	r.byTier[a.Tier] = append(r.byTier[a.Tier], a)
	return nil
}

// MustRegister panics on registration error, for static tables
func (r *Registry) MustRegister(archetypes ...*Archetype) *Registry {
	for _, a := range archetypes {
		if err := r.Register(a); err != nil {
			panic(err)
		}
	}
	return r
}

// Get returns the archetype for id, including synthesized ones
func (r *Registry) Get(id string) (*Archetype, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// ByTier returns the templates registered for exactly tier
func (r *Registry) ByTier(t Tier) []*Archetype {
	if !t.Valid() {
		return nil
	}
	return r.byTier[t]
}

// CountTier returns the template count for tier
func (r *Registry) CountTier(t Tier) int {
	return len(r.ByTier(t))
}

// UpTo returns every template with tier <= t, easiest first
func (r *Registry) UpTo(t Tier) []*Archetype {
	var out []*Archetype
	for tier := TierEasy; tier <= t && tier.Valid(); tier++ {
		out = append(out, r.byTier[tier]...)
	}
	return out
}

// Synthesize returns a procedural archetype of tier, creating and caching it on first use
func (r *Registry) Synthesize(tier Tier, rng *rand.Rand) *Archetype {
	families := [...]Family{FamilyOrb, FamilyShard, FamilyBarrier, FamilyGate}
	family := families[rng.Intn(len(families))]
	id := ProceduralID(tier, family)
	if a, ok := r.byID[id]; ok {
		return a
	}
	a := Procedural(tier, family, rng)
	r.byID[id] = a
	return a
}

// Len returns the number of templates
func (r *Registry) Len() int {
	n := 0
	for _, list := range r.byTier {
		n += len(list)
	}
	return n
}

// IDs returns all known ids in sorted order
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultRegistry returns the stock archetype table
// VeryHard is left empty on purpose; it is always synthesized
func DefaultRegistry() *Registry {
	return NewRegistry().MustRegister(
		&Archetype{ID: "pebble", Tier: TierEasy, Family: FamilyOrb, Build: func(s *Shape) {
			s.Radius = 0.4
		}},
		&Archetype{ID: "boulder", Tier: TierEasy, Family: FamilyOrb, Build: func(s *Shape) {
			s.Radius = 0.8
			s.SpeedScale = 0.8
		}},
		&Archetype{ID: "shard", Tier: TierMedium, Family: FamilyShard, Build: func(s *Shape) {
			s.Radius = 0.3
			s.Spin = 240
			s.SpeedScale = 1.3
		}},
		&Archetype{ID: "bar", Tier: TierMedium, Family: FamilyBarrier, Build: func(s *Shape) {
			s.Radius = 0.2
			s.Length = 2.2
		}},
		&Archetype{ID: "gate", Tier: TierHard, Family: FamilyGate, Build: func(s *Shape) {
			s.Radius = 0.35
			s.Length = 2.4
		}},
		&Archetype{ID: "spinner", Tier: TierHard, Family: FamilyBarrier, Build: func(s *Shape) {
			s.Radius = 0.2
			s.Length = 2.8
			s.Spin = 90
		}},
	)
}
