package motion

import "math"

// SampleTime converts an unbounded playback time into the time actually
// sampled from the asset. Looping assets wrap at Duration; non-looping
// assets clamp to [0, Duration].
func (a *MotionAsset) SampleTime(t float64) float64 {
	if a.Loop && a.Duration > 0 {
		t = math.Mod(t, a.Duration)
		if t < 0 {
			t += a.Duration
		}
		return t
	}
	if t < 0 {
		return 0
	}
	if t > a.Duration {
		return a.Duration
	}
	return t
}

// Evaluate computes the interpolated pose of the asset at playback time t.
//
// Inside an interval [k[i].Time, k[i+1].Time] every joint rotation and the
// root offset are interpolated component-wise with
// alpha = (t - t_i) / (t_{i+1} - t_i); a zero-length interval uses alpha 0.
// For t at or before the first keyframe, or at or after the last, the
// boundary keyframe pose is returned unchanged — no extrapolation.
//
// Evaluate is a pure function of its inputs. It assumes the asset passed
// Validate; assets are checked at the registry boundary, never here.
func Evaluate(a *MotionAsset, t float64) Pose {
	kfs := a.Keyframes
	if len(kfs) == 0 {
		return Pose{}
	}
	if len(kfs) == 1 || t <= kfs[0].Time {
		return kfs[0].Pose
	}
	last := len(kfs) - 1
	if t >= kfs[last].Time {
		return kfs[last].Pose
	}

	// Binary search for the first keyframe with Time > t.
	// After the boundary checks above, 0 < hi <= last always holds.
	lo, hi := 0, last
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if kfs[mid].Time <= t {
			lo = mid
		} else {
			hi = mid
		}
	}

	k0, k1 := kfs[lo], kfs[hi]
	span := k1.Time - k0.Time
	if span <= 0 {
		// Duplicate timestamps are legal (non-decreasing): hold the
		// earlier sample for the degenerate interval.
		return k0.Pose
	}
	alpha := (t - k0.Time) / span
	return LerpPose(k0.Pose, k1.Pose, alpha)
}
