package vmath

import "sort"

// ArcGap is the angular span between two consecutive blocked bearings
// Start is normalized; End may be reported past 360 for the wrap-around gap
type ArcGap struct {
	Start  float64
	End    float64
	Length float64
}

// Midpoint returns the normalized bearing halfway through the gap
func (g ArcGap) Midpoint() float64 {
	return NormalizeAngle(g.Start + g.Length/2)
}

// FreeArc returns the traversable part of a gap once each bounding bearing
// claims halfWidth on its side, clamped at zero
func (g ArcGap) FreeArc(halfWidth float64) float64 {
	free := g.Length - 2*halfWidth
	if free < 0 {
		return 0
	}
	return free
}

// SortedAngles returns a normalized, ascending copy of angles
func SortedAngles(angles []float64) []float64 {
	sorted := make([]float64, len(angles))
	for i, a := range angles {
		sorted[i] = NormalizeAngle(a)
	}
	sort.Float64s(sorted)
	return sorted
}

// CircularGaps returns every gap between consecutive blocked bearings,
// including the wrap-around gap from the last back to the first
// Returns nil for an empty set; a single bearing yields one full-circle gap
func CircularGaps(blocked []float64) []ArcGap {
	if len(blocked) == 0 {
		return nil
	}
	sorted := SortedAngles(blocked)
	n := len(sorted)
	gaps := make([]ArcGap, 0, n)
	for i := 0; i < n-1; i++ {
		gaps = append(gaps, ArcGap{
			Start:  sorted[i],
			End:    sorted[i+1],
			Length: sorted[i+1] - sorted[i],
		})
	}
	last, first := sorted[n-1], sorted[0]
	gaps = append(gaps, ArcGap{
		Start:  last,
		End:    first + FullCircle,
		Length: first + FullCircle - last,
	})
	return gaps
}

// gapTieTolerance absorbs trig rounding so equal gaps tie deterministically
const gapTieTolerance = 1e-9

// LargestGap returns the widest circular gap; ties resolve to the earliest in sorted order
// ok is false for an empty set
func LargestGap(blocked []float64) (gap ArcGap, ok bool) {
	gaps := CircularGaps(blocked)
	if len(gaps) == 0 {
		return ArcGap{}, false
	}
	best := gaps[0]
	for _, g := range gaps[1:] {
		if g.Length > best.Length+gapTieTolerance {
			best = g
		}
	}
	return best, true
}

// LargestFreeArc returns the widest traversable arc given per-bearing half width
// An empty set is a fully free circle
func LargestFreeArc(blocked []float64, halfWidth float64) float64 {
	if len(blocked) == 0 {
		return FullCircle
	}
	best := 0.0
	for _, g := range CircularGaps(blocked) {
		if free := g.FreeArc(halfWidth); free > best {
			best = free
		}
	}
	return best
}
