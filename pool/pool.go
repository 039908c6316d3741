package pool

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lixenwraith/orbit-runner/archetype"
	"github.com/lixenwraith/orbit-runner/parameter"
)

// Detacher removes a handle from safety tracking before it is recycled
// Implemented by safety.Analyzer
type Detacher interface {
	UnregisterObstacle(h Handle)
}

// Config bounds the idle queue per archetype
type Config struct {
	// DefaultMax applies to archetypes without an override; 0 disables pooling
	DefaultMax int `mapstructure:"default_max" json:"default_max" jsonschema:"minimum=0"`
	// MaxPerArchetype overrides DefaultMax by archetype id
	MaxPerArchetype map[string]int `mapstructure:"max_per_archetype" json:"max_per_archetype,omitempty"`
}

// DefaultConfig returns the stock pool bounds
func DefaultConfig() Config {
	return Config{DefaultMax: parameter.PoolMaxPerArchetype}
}

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid pool config")

// Validate rejects negative bounds
func (c Config) Validate() error {
	if c.DefaultMax < 0 {
		return fmt.Errorf("%w: default_max must be non-negative", ErrInvalid)
	}
	for id, n := range c.MaxPerArchetype {
		if n < 0 {
			return fmt.Errorf("%w: max_per_archetype[%s] must be non-negative", ErrInvalid, id)
		}
	}
	return nil
}

// MaxFor returns the idle bound for an archetype id
func (c Config) MaxFor(id string) int {
	if n, ok := c.MaxPerArchetype[id]; ok {
		return n
	}
	return c.DefaultMax
}

// Stats counts pool traffic since creation
type Stats struct {
	Constructed uint64 `json:"constructed"`
	Reused      uint64 `json:"reused"`
	Released    uint64 `json:"released"`
	Discarded   uint64 `json:"discarded"`
}

type slot struct {
	obs   Obstacle
	gen   uint32
	inUse bool
}

// Pool is the obstacle arena
// Pointers returned by Get stay valid until the next Acquire
type Pool struct {
	cfg    Config
	logger *zap.Logger

	slots     []slot
	freeSlots []uint32

	// idle holds released slot indices per archetype id, FIFO
	idle        map[string][]uint32
	outstanding map[string]int
	active      int

	detacher Detacher
	stats    Stats
}

// New creates an empty pool
func New(cfg Config, logger *zap.Logger) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultMax < 0 {
		cfg.DefaultMax = 0
	}
	return &Pool{
		cfg:         cfg,
		logger:      logger,
		idle:        make(map[string][]uint32),
		outstanding: make(map[string]int),
	}
}

// SetDetacher wires the safety analyzer; called once by the composition root
func (p *Pool) SetDetacher(d Detacher) {
	p.detacher = d
}

// Acquire hands out a fresh instance of a, reusing a released one of the same archetype when available
// The instance is Active with a neutral transform and movement disabled
func (p *Pool) Acquire(a *archetype.Archetype) Handle {
	var idx uint32
	if queue := p.idle[a.ID]; len(queue) > 0 {
		idx = queue[0]
		p.idle[a.ID] = queue[1:]
		p.stats.Reused++
	} else {
		idx = p.allocSlot()
		s := &p.slots[idx]
		s.obs = Obstacle{Archetype: a, Shape: a.Construct()}
		p.stats.Constructed++
	}

	s := &p.slots[idx]
	s.inUse = true
	s.obs.resetFresh()
	s.obs.State = StateActive
	p.outstanding[a.ID]++
	p.active++

	return Handle{Index: idx, Gen: s.gen}
}

func (p *Pool) allocSlot() uint32 {
	if n := len(p.freeSlots); n > 0 {
		idx := p.freeSlots[n-1]
		p.freeSlots = p.freeSlots[:n-1]
		return idx
	}
	p.slots = append(p.slots, slot{gen: 1})
	return uint32(len(p.slots) - 1)
}

// Release returns an active instance to its archetype queue, or discards it when the queue is full
// Stale, pooled or unknown handles are ignored; returns true when the instance was released
func (p *Pool) Release(h Handle) bool {
	o, ok := p.Get(h)
	if !ok || o.State != StateActive {
		return false
	}
	s := &p.slots[h.Index]
	o.State = StateDestroying

	if p.detacher != nil {
		p.detacher.UnregisterObstacle(h)
	}
	o.Registered = false
	o.stopTimers()
	o.Velocity.X, o.Velocity.Y = 0, 0
	o.Moving = false

	// Bump generation so every outstanding copy of h goes stale
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}

	id := o.Archetype.ID
	p.outstanding[id]--
	p.active--
	p.stats.Released++

	if len(p.idle[id]) >= p.cfg.MaxFor(id) {
		p.stats.Discarded++
		p.logger.Debug("pool full, discarding instance",
			zap.String("archetype", id),
			zap.Int("pooled", len(p.idle[id])),
		)
		s.obs = Obstacle{}
		s.inUse = false
		p.freeSlots = append(p.freeSlots, h.Index)
		return true
	}

	o.State = StatePooled
	s.inUse = false
	p.idle[id] = append(p.idle[id], h.Index)
	return true
}

// Get returns the instance for a live handle
func (p *Pool) Get(h Handle) (*Obstacle, bool) {
	if h.IsZero() || int(h.Index) >= len(p.slots) {
		return nil, false
	}
	s := &p.slots[h.Index]
	if !s.inUse || s.gen != h.Gen {
		return nil, false
	}
	return &s.obs, true
}

// Valid reports whether h still addresses an active instance
func (p *Pool) Valid(h Handle) bool {
	o, ok := p.Get(h)
	return ok && o.State == StateActive
}

// Each visits active instances in slot order until fn returns false
// fn may Release the visited handle
func (p *Pool) Each(fn func(h Handle, o *Obstacle) bool) {
	for i := 0; i < len(p.slots); i++ {
		s := &p.slots[i]
		if !s.inUse || s.obs.State != StateActive {
			continue
		}
		if !fn(Handle{Index: uint32(i), Gen: s.gen}, &s.obs) {
			return
		}
	}
}

// ActiveHandles appends every active handle to dst
func (p *Pool) ActiveHandles(dst []Handle) []Handle {
	p.Each(func(h Handle, _ *Obstacle) bool {
		dst = append(dst, h)
		return true
	})
	return dst
}

// ReleaseAll releases every active instance, calling before on each first
func (p *Pool) ReleaseAll(before func(h Handle, o *Obstacle)) int {
	handles := p.ActiveHandles(nil)
	n := 0
	for _, h := range handles {
		if o, ok := p.Get(h); ok && before != nil {
			before(h, o)
		}
		if p.Release(h) {
			n++
		}
	}
	return n
}

// ActiveCount returns the number of outstanding instances across archetypes
func (p *Pool) ActiveCount() int { return p.active }

// Outstanding returns the active count for one archetype
func (p *Pool) Outstanding(id string) int { return p.outstanding[id] }

// PooledCount returns the idle queue length for one archetype
func (p *Pool) PooledCount(id string) int { return len(p.idle[id]) }

// TotalPooled returns idle instances across archetypes
func (p *Pool) TotalPooled() int {
	n := 0
	for _, q := range p.idle {
		n += len(q)
	}
	return n
}

// Stats returns traffic counters
func (p *Pool) Stats() Stats { return p.stats }
