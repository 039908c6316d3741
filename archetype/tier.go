// Package archetype defines obstacle classes and the registry the spawn scheduler draws from
package archetype

import (
	"fmt"
	"strings"
)

// Tier is the ordered difficulty classification gating which archetypes may spawn
type Tier int

const (
	TierEasy Tier = iota
	TierMedium
	TierHard
	TierVeryHard

	TierCount = int(TierVeryHard) + 1
)

var tierNames = [TierCount]string{"easy", "medium", "hard", "very_hard"}

func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// Valid reports whether t is one of the four defined tiers
func (t Tier) Valid() bool {
	return t >= TierEasy && t <= TierVeryHard
}

// ParseTier resolves a tier name, case-insensitive; "veryhard" and "very-hard" are accepted
func ParseTier(s string) (Tier, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if key == "veryhard" {
		key = "very_hard"
	}
	for i, name := range tierNames {
		if name == key {
			return Tier(i), nil
		}
	}
	return TierEasy, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// MarshalText implements encoding.TextMarshaler
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
