package status

import "sync/atomic"

// Registry groups metrics by kind
type Registry struct {
	Bools   *Map[atomic.Bool]
	Ints    *Map[atomic.Int64]
	Floats  *Map[Float]
	Strings *Map[Text]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   newMap[atomic.Bool](),
		Ints:    newMap[atomic.Int64](),
		Floats:  newMap[Float](),
		Strings: newMap[Text](),
	}
}

// Len returns the metric count across kinds
func (r *Registry) Len() int {
	return r.Bools.Len() + r.Ints.Len() + r.Floats.Len() + r.Strings.Len()
}

// Snapshot copies every current value into a flat map, keys are unique across kinds by convention
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.Len())
	r.Bools.Range(func(k string, p *atomic.Bool) { out[k] = p.Load() })
	r.Ints.Range(func(k string, p *atomic.Int64) { out[k] = p.Load() })
	r.Floats.Range(func(k string, p *Float) { out[k] = p.Load() })
	r.Strings.Range(func(k string, p *Text) { out[k] = p.Load() })
	return out
}
