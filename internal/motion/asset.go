package motion

import (
	"errors"
	"fmt"
)

// ErrInvalidKeyframeOrder reports a motion asset whose keyframe times are
// negative or decreasing. Assets are validated when they are registered;
// the evaluator never sees a malformed asset.
var ErrInvalidKeyframeOrder = errors.New("keyframe times must be non-negative and non-decreasing")

// Keyframe is one authored pose sample at a specific playback time.
type Keyframe struct {
	// Time is the sample time in seconds from the start of the motion.
	Time float64

	// Pose is the full skeleton pose at this sample.
	Pose Pose
}

// MotionAsset is an ordered, time-stamped sequence of pose samples
// together with playback metadata.
//
// Assets are plain data: the evaluator and synthesizer never mutate them,
// and a registered asset may be shared read-only by any number of playback
// managers.
type MotionAsset struct {
	// Name uniquely identifies the asset within a registry.
	Name string

	// Duration is the total playback length in seconds.
	// Must be >= the last keyframe time; the gap (if any) holds the
	// final pose until the motion finishes.
	Duration float64

	// Loop indicates whether playback wraps around at Duration.
	// Non-looping motions hold their last keyframe pose once finished.
	Loop bool

	// Keyframes is the ordered sample sequence.
	Keyframes []Keyframe

	// JointPriorities is optional per-joint authoring metadata.
	// It is parsed and carried for tooling but not read by the blend
	// algorithm: blending is always whole-pose.
	JointPriorities map[JointID]int
}

// Validate checks the structural invariants of the asset.
// Returns ErrInvalidKeyframeOrder (wrapped with context) when keyframe
// times are negative or decreasing, and a plain error for an empty
// keyframe list or a duration shorter than the last keyframe.
//
// Registries call this at registration time so that evaluation-time code
// can treat every registered asset as well-formed.
func (a *MotionAsset) Validate() error {
	if len(a.Keyframes) == 0 {
		return fmt.Errorf("motion '%s' has no keyframes", a.Name)
	}

	prev := -1.0
	for i, kf := range a.Keyframes {
		if kf.Time < 0 {
			return fmt.Errorf("motion '%s' keyframe %d has negative time %.4f: %w",
				a.Name, i, kf.Time, ErrInvalidKeyframeOrder)
		}
		if kf.Time < prev {
			return fmt.Errorf("motion '%s' keyframe %d time %.4f precedes %.4f: %w",
				a.Name, i, kf.Time, prev, ErrInvalidKeyframeOrder)
		}
		prev = kf.Time
	}

	if a.Duration < prev {
		return fmt.Errorf("motion '%s' duration %.4f is shorter than last keyframe time %.4f",
			a.Name, a.Duration, prev)
	}
	return nil
}

// Clone returns a deep copy of the asset.
// The synthesizer derives new assets from copies so that base assets in a
// shared registry are never touched.
func (a *MotionAsset) Clone() *MotionAsset {
	out := &MotionAsset{
		Name:     a.Name,
		Duration: a.Duration,
		Loop:     a.Loop,
	}
	out.Keyframes = make([]Keyframe, len(a.Keyframes))
	copy(out.Keyframes, a.Keyframes)
	if a.JointPriorities != nil {
		out.JointPriorities = make(map[JointID]int, len(a.JointPriorities))
		for j, p := range a.JointPriorities {
			out.JointPriorities[j] = p
		}
	}
	return out
}
