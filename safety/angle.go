package safety

import (
	"sort"

	"go.uber.org/zap"

	"github.com/lixenwraith/orbit-runner/parameter"
	"github.com/lixenwraith/orbit-runner/vmath"
)

// Method records which stage of FindSafeAngle produced the answer
type Method int

const (
	MethodPreferred Method = iota
	MethodFan
	MethodGapEdge
	MethodFallback
)

func (m Method) String() string {
	switch m {
	case MethodPreferred:
		return "preferred"
	case MethodFan:
		return "fan"
	case MethodGapEdge:
		return "gap_edge"
	case MethodFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Resolution is a chosen convergence angle and how it was found
type Resolution struct {
	Angle  float64
	Method Method
	// Safe is false only for the saturated fallback
	Safe bool
}

// Stats counts query outcomes
type Stats struct {
	Preferred uint64 `json:"preferred"`
	Fan       uint64 `json:"fan"`
	GapEdge   uint64 `json:"gap_edge"`
	Fallback  uint64 `json:"fallback"`
	Pruned    uint64 `json:"pruned"`
}

// IsSafe is the two-stage test against an explicit blocked set
// Stage 1 rejects candidates closer than blockAngle to any blocked bearing
// Stage 2 adds the candidate to the set and requires the widest remaining free arc to reach minFreeArc
func IsSafe(blocked []float64, candidate float64, cfg Config) bool {
	const eps = parameter.SafetyAngleEpsilon
	candidate = vmath.NormalizeAngle(candidate)
	for _, b := range blocked {
		if vmath.AngularDistance(candidate, b) < cfg.ObstacleBlockAngle-eps {
			return false
		}
	}
	with := make([]float64, len(blocked), len(blocked)+1)
	copy(with, blocked)
	with = append(with, candidate)
	return vmath.LargestFreeArc(with, cfg.ObstacleBlockAngle) >= cfg.MinFreeArcAngle-eps
}

// HasTraversableGap reports whether the blocked set alone leaves a corridor of at least MinFreeArcAngle
func HasTraversableGap(blocked []float64, cfg Config) bool {
	return vmath.LargestFreeArc(blocked, cfg.ObstacleBlockAngle) >= cfg.MinFreeArcAngle-parameter.SafetyAngleEpsilon
}

// IsAngleSafe tests a candidate bearing against the current obstacle field
func (a *Analyzer) IsAngleSafe(candidate float64) bool {
	return IsSafe(a.BlockedAngles(), candidate, a.cfg)
}

// FindSafeAngle returns a convergence bearing near preferred; it always returns an angle
func (a *Analyzer) FindSafeAngle(preferred float64) float64 {
	return a.Resolve(preferred).Angle
}

// Resolve runs the full search: preferred, fixed fan, gap edges, then largest gap midpoint
func (a *Analyzer) Resolve(preferred float64) Resolution {
	blocked := a.BlockedAngles()
	res := resolve(blocked, preferred, a.cfg)

	switch res.Method {
	case MethodPreferred:
		a.stats.Preferred++
	case MethodFan:
		a.stats.Fan++
	case MethodGapEdge:
		a.stats.GapEdge++
	case MethodFallback:
		a.stats.Fallback++
		a.logger.Warn("orbit saturated, using largest gap",
			zap.Float64("preferred", preferred),
			zap.Float64("angle", res.Angle),
			zap.Int("blocked", len(blocked)),
		)
	}
	return res
}

func resolve(blocked []float64, preferred float64, cfg Config) Resolution {
	preferred = vmath.NormalizeAngle(preferred)
	if IsSafe(blocked, preferred, cfg) {
		return Resolution{Angle: preferred, Method: MethodPreferred, Safe: true}
	}

	for _, off := range parameter.SafetyFanOffsets {
		c := vmath.NormalizeAngle(preferred + off)
		if IsSafe(blocked, c, cfg) {
			return Resolution{Angle: c, Method: MethodFan, Safe: true}
		}
	}

	// A safe bearing, if one exists, can always be slid to BlockAngle from a gap boundary
	// without shrinking the corridor left behind, so the edges are a complete probe set
	for _, c := range gapEdgeCandidates(blocked, preferred, cfg.ObstacleBlockAngle) {
		if IsSafe(blocked, c, cfg) {
			return Resolution{Angle: c, Method: MethodGapEdge, Safe: true}
		}
	}

	return Resolution{Angle: largestGapMidpoint(blocked, preferred), Method: MethodFallback}
}

// gapEdgeCandidates returns the bearings BlockAngle inside each gap boundary, nearest to preferred first
func gapEdgeCandidates(blocked []float64, preferred, blockAngle float64) []float64 {
	gaps := vmath.CircularGaps(blocked)
	out := make([]float64, 0, 2*len(gaps))
	for _, g := range gaps {
		if g.Length < 2*blockAngle-parameter.SafetyAngleEpsilon {
			continue
		}
		out = append(out,
			vmath.NormalizeAngle(g.Start+blockAngle),
			vmath.NormalizeAngle(g.End-blockAngle),
		)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return vmath.AngularDistance(out[i], preferred) < vmath.AngularDistance(out[j], preferred)
	})
	return out
}

func largestGapMidpoint(blocked []float64, preferred float64) float64 {
	g, ok := vmath.LargestGap(blocked)
	if !ok {
		return preferred
	}
	return g.Midpoint()
}

// FindLargestFreeGap returns the midpoint of the widest gap between blocked bearings
// With nothing blocked every bearing is equivalent and 0 is returned
func (a *Analyzer) FindLargestFreeGap() float64 {
	return largestGapMidpoint(a.BlockedAngles(), 0)
}

// LargestFreeArc returns the widest current corridor in degrees
func (a *Analyzer) LargestFreeArc() float64 {
	return vmath.LargestFreeArc(a.BlockedAngles(), a.cfg.ObstacleBlockAngle)
}
