package player

import "math"

// safe runs fn and returns def if fn panics. Vendor calls on a player that
// lacks the capability (nil interface, unimplemented method) end up here.
func safe[T any](def T, fn func() T) (v T) {
	defer func() {
		if recover() != nil {
			v = def
		}
	}()
	return fn()
}

// finite replaces NaN and infinities with 0.
func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// unit normalizes a 0..100 volume scale into [0,1].
func unit(percent float64) float64 {
	v := finite(percent) / 100
	return math.Max(0, math.Min(1, v))
}

// clamp01 bounds an already normalized volume.
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, finite(v)))
}

// try runs fn and discards any panic.
func try(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
