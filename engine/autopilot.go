package engine

import (
	"math"

	"github.com/lixenwraith/orbit-runner/vmath"
)

// Autopilot steers the player toward the middle of the widest free corridor
// Used by headless hosts to produce sessions that resemble real play
type Autopilot struct {
	// Deadband is the bearing error in degrees below which no input is applied
	Deadband float64
	// Gain is the bearing error in degrees that maps to full steering
	Gain float64
	// Evade is the distance at which the nearest obstacle overrides the corridor target
	Evade float64
}

// DefaultAutopilot returns a pilot tuned for the stock orbit
func DefaultAutopilot() Autopilot {
	return Autopilot{Deadband: 2, Gain: 30, Evade: 2.5}
}

// Drive sets the simulation steering for the current tick
func (a Autopilot) Drive(s *Simulation) {
	if !s.Running() || s.Over() {
		s.Steer(0)
		return
	}
	s.Steer(a.steer(s))
}

func (a Autopilot) steer(s *Simulation) float64 {
	angle := s.player.Angle()

	if threat, ok := a.nearestThreat(s); ok {
		// Move away from the obstacle bearing
		diff := vmath.AngleDiff(angle, threat)
		if diff >= 0 {
			return -1
		}
		return 1
	}

	if s.safety.Registered() == 0 {
		return 0
	}
	diff := vmath.AngleDiff(angle, s.safety.FindLargestFreeGap())
	if math.Abs(diff) < a.Deadband {
		return 0
	}
	return vmath.Clamp(diff/a.Gain, -1, 1)
}

func (a Autopilot) nearestThreat(s *Simulation) (float64, bool) {
	pos := s.player.Position()
	best := a.Evade
	bearing, found := 0.0, false
	for _, angle := range s.safety.BlockedAngles() {
		d := vmath.Distance(pos, vmath.PointOnCircle(angle, s.player.OrbitRadius()))
		if d < best {
			best, bearing, found = d, angle, true
		}
	}
	return bearing, found
}
