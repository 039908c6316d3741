package event

// EventType represents the type of engine event
type EventType int

const (
	// EventNone is the zero value and is never published
	EventNone EventType = iota

	// === Session ===

	// EventSessionStarted marks the first tick of a session
	// Trigger: Simulation.Start | Payload: *SessionPayload
	EventSessionStarted

	// EventGameOver marks the player being consumed outside a grace window
	// Trigger: collision step | Payload: *SessionPayload
	EventGameOver

	// EventRevived marks the revive flow completing
	// Trigger: Simulation.Revive | Payload: *SessionPayload
	EventRevived

	// === Obstacles ===

	// EventObstacleSpawned is emitted once per spawned instance
	// Trigger: spawn.Scheduler | Payload: *ObstacleSpawnedPayload
	EventObstacleSpawned

	// EventObstacleCleared is emitted once per released instance
	// Trigger: off-screen cull, collision, forced clear | Payload: *ObstacleClearedPayload
	EventObstacleCleared

	// EventTierUnlocked signals a new difficulty tier became spawnable
	// Trigger: difficulty tracker | Payload: *TierPayload
	EventTierUnlocked

	// === Pacing ===

	// EventNearMiss signals a close call between player and obstacle
	// Trigger: nearmiss.Monitor | Payload: *NearMissPayload
	EventNearMiss

	// EventBreathingRoomStarted signals spawn suspension began
	// Trigger: nearmiss.Monitor | Payload: *BreathingRoomPayload
	EventBreathingRoomStarted

	// EventBreathingRoomEnded signals spawn suspension ended
	// Trigger: nearmiss.Monitor | Payload: *BreathingRoomPayload
	EventBreathingRoomEnded

	// EventDangerChanged signals the crowding throttle toggled
	// Trigger: nearmiss.Monitor | Payload: *DangerPayload
	EventDangerChanged

	// === Danger Wave ===

	// EventWaveWarning telegraphs an incoming burst
	// Trigger: wave.Trigger | Payload: *WavePayload
	EventWaveWarning

	// EventWaveStarted marks the first forced spawn of a burst
	// Trigger: wave.Trigger | Payload: *WavePayload
	EventWaveStarted

	// EventWaveEnded marks the burst finishing and cooldown starting
	// Trigger: wave.Trigger | Payload: *WavePayload
	EventWaveEnded

	// === Player ===

	// EventPlayerHit signals a collision, whether or not it ended the session
	// Trigger: collision step | Payload: *PlayerHitPayload
	EventPlayerHit

	eventTypeCount
)

// GameEvent is a single queued engine event
type GameEvent struct {
	Type    EventType
	Payload any
	Tick    int64
}

var typeNames = [eventTypeCount]string{
	EventNone:                 "None",
	EventSessionStarted:       "SessionStarted",
	EventGameOver:             "GameOver",
	EventRevived:              "Revived",
	EventObstacleSpawned:      "ObstacleSpawned",
	EventObstacleCleared:      "ObstacleCleared",
	EventTierUnlocked:         "TierUnlocked",
	EventNearMiss:             "NearMiss",
	EventBreathingRoomStarted: "BreathingRoomStarted",
	EventBreathingRoomEnded:   "BreathingRoomEnded",
	EventDangerChanged:        "DangerChanged",
	EventWaveWarning:          "WaveWarning",
	EventWaveStarted:          "WaveStarted",
	EventWaveEnded:            "WaveEnded",
	EventPlayerHit:            "PlayerHit",
}

// String returns the registry name of the event type
func (t EventType) String() string {
	if t < 0 || t >= eventTypeCount {
		return "Unknown"
	}
	return typeNames[t]
}

// AllTypes returns every publishable event type in declaration order
func AllTypes() []EventType {
	types := make([]EventType, 0, eventTypeCount-1)
	for t := EventNone + 1; t < eventTypeCount; t++ {
		types = append(types, t)
	}
	return types
}
