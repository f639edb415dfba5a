package motion

import "math"

// RootMotionMaxDelta is the teleport detection threshold in subject-local
// units. When the per-tick root offset change exceeds this value the
// motion has wrapped (loop reset) or been switched, and the delta is
// suppressed so the actor's world transform does not jump.
const RootMotionMaxDelta = 2.0

// RootMotionDelta computes the root offset change between two consecutive
// ticks of the same playing motion, for gameplay code that moves the
// actor's world transform from authored root offsets (dash travel,
// jump arcs).
//
// Loop resets and motion switches produce a large discontinuity between
// prev and cur; those deltas are reported as zero.
func RootMotionDelta(prev, cur Vec3) Vec3 {
	d := cur.Sub(prev)
	if math.Abs(d.X) > RootMotionMaxDelta ||
		math.Abs(d.Y) > RootMotionMaxDelta ||
		math.Abs(d.Z) > RootMotionMaxDelta {
		return Vec3{}
	}
	return d
}
