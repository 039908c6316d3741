package engine

import (
	"github.com/lixenwraith/orbit-runner/pool"
	"github.com/lixenwraith/orbit-runner/vmath"
)

// ObstacleView is a read-only copy of one live obstacle
type ObstacleView struct {
	Handle    pool.Handle `json:"handle"`
	Archetype string      `json:"archetype"`
	Family    string      `json:"family"`
	Position  vmath.Vec2  `json:"position"`
	Rotation  float64     `json:"rotation"`
	Radius    float64     `json:"radius"`
	Length    float64     `json:"length,omitempty"`
	Forced    bool        `json:"forced,omitempty"`
	Blocking  bool        `json:"blocking,omitempty"`
}

// PlayerView is a read-only copy of the player
type PlayerView struct {
	Angle        float64    `json:"angle"`
	Position     vmath.Vec2 `json:"position"`
	Radius       float64    `json:"radius"`
	Invulnerable bool       `json:"invulnerable,omitempty"`
}

// Snapshot is an immutable view of one tick, safe to hand to other goroutines
type Snapshot struct {
	Tick        int64   `json:"tick"`
	Session     int     `json:"session"`
	Elapsed     float64 `json:"elapsed"`
	Score       float64 `json:"score"`
	Over        bool    `json:"over"`
	OrbitRadius float64 `json:"orbit_radius"`

	Player    PlayerView     `json:"player"`
	Obstacles []ObstacleView `json:"obstacles"`

	Tier          string  `json:"tier"`
	Phase         string  `json:"phase"`
	Wave          string  `json:"wave"`
	Danger        bool    `json:"danger,omitempty"`
	BreathingRoom float64 `json:"breathing_room,omitempty"`
	FreeArc       float64 `json:"free_arc"`
}

// Snapshot copies the current state
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:        s.tick,
		Session:     s.session,
		Elapsed:     s.elapsed,
		Score:       s.score,
		Over:        s.over,
		OrbitRadius: s.player.OrbitRadius(),
		Player: PlayerView{
			Angle:        s.player.Angle(),
			Position:     s.player.Position(),
			Radius:       s.player.BodyRadius(),
			Invulnerable: s.player.Invulnerable(),
		},
		Obstacles:     make([]ObstacleView, 0, s.pool.ActiveCount()),
		Tier:          s.tracker.Tier().String(),
		Phase:         s.scheduler.Phase().String(),
		Wave:          s.wave.StateName(),
		Danger:        s.monitor.Danger(),
		BreathingRoom: s.monitor.BreathingRoom().Remaining(),
		FreeArc:       s.safety.LargestFreeArc(),
	}

	s.pool.Each(func(h pool.Handle, o *pool.Obstacle) bool {
		snap.Obstacles = append(snap.Obstacles, ObstacleView{
			Handle:    h,
			Archetype: o.Archetype.ID,
			Family:    o.Shape.Family.String(),
			Position:  o.Position,
			Rotation:  o.Rotation,
			Radius:    o.Radius(),
			Length:    o.Length(),
			Forced:    o.Forced,
			Blocking:  o.Registered && s.safety.InBand(o.Position),
		})
		return true
	})
	return snap
}
