package event

import (
	"github.com/lixenwraith/orbit-runner/archetype"
	"github.com/lixenwraith/orbit-runner/pool"
	"github.com/lixenwraith/orbit-runner/vmath"
)

// ClearReason explains why an obstacle left play
type ClearReason int

const (
	ClearOffScreen ClearReason = iota
	ClearCollision
	ClearForced
)

func (r ClearReason) String() string {
	switch r {
	case ClearOffScreen:
		return "off_screen"
	case ClearCollision:
		return "collision"
	case ClearForced:
		return "force_cleared"
	default:
		return "unknown"
	}
}

// SessionPayload carries session counters at lifecycle edges
type SessionPayload struct {
	Session int     `json:"session"`
	Elapsed float64 `json:"elapsed"`
	Score   float64 `json:"score"`
}

// ObstacleSpawnedPayload describes a freshly launched obstacle
type ObstacleSpawnedPayload struct {
	Handle      pool.Handle    `json:"handle"`
	Archetype   string         `json:"archetype"`
	Tier        archetype.Tier `json:"tier"`
	Position    vmath.Vec2     `json:"position"`
	Velocity    vmath.Vec2     `json:"velocity"`
	Scale       float64        `json:"scale"`
	TargetAngle float64        `json:"target_angle"`
	Forced      bool           `json:"forced"`
	Procedural  bool           `json:"procedural"`
}

// ObstacleClearedPayload describes an obstacle returning to its pool
type ObstacleClearedPayload struct {
	Handle    pool.Handle `json:"handle"`
	Archetype string      `json:"archetype"`
	Reason    ClearReason `json:"reason"`
	Position  vmath.Vec2  `json:"position"`
}

// TierPayload carries a newly unlocked tier
type TierPayload struct {
	Tier archetype.Tier `json:"tier"`
}

// NearMissPayload carries the player position at the close call
type NearMissPayload struct {
	PlayerPosition vmath.Vec2  `json:"player_position"`
	Distance       float64     `json:"distance"`
	Obstacle       pool.Handle `json:"obstacle"`
}

// BreathingRoomPayload carries the suspension length
type BreathingRoomPayload struct {
	Duration float64 `json:"duration"`
}

// DangerPayload carries the crowding state
type DangerPayload struct {
	Active bool `json:"active"`
	Nearby int  `json:"nearby"`
}

// WavePayload describes a danger wave
type WavePayload struct {
	Wave   int  `json:"wave"`
	Forced bool `json:"forced"`
	Count  int  `json:"count"`
}

// PlayerHitPayload describes a collision
type PlayerHitPayload struct {
	Obstacle  pool.Handle `json:"obstacle"`
	Archetype string      `json:"archetype"`
	Fatal     bool        `json:"fatal"`
}
