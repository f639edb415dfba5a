package motion

import (
	"fmt"

	"github.com/tanema/gween/ease"
)

// This file implements the motion synthesizer: pure functions that derive
// new motion assets from existing ones. Derived assets are used for
// momentum-scaled landings and dash-stop recoveries, where the depth and
// duration of the recovery depend on the incoming motion.
//
// Determinism: identical inputs always produce identical output, so
// callers may cache derived assets if they wish. The synthesizer itself
// never caches and never mutates its inputs.

// Derive builds a new asset from base by remapping keyframe times and
// adding per-joint rotation offsets.
//
//   - timeRemap must have one entry per base keyframe, non-negative and
//     non-decreasing; it becomes the derived asset's keyframe times.
//   - additions maps a joint to one rotation offset per keyframe, added
//     component-wise to the base values. Joints absent from the map are
//     copied unchanged. A nil additions map only remaps times.
//
// The derived asset is named name, keeps the base loop flag, and its
// duration is the last remapped time (or the base duration when it is
// longer after remapping).
func Derive(base *MotionAsset, name string, additions map[JointID][]Rotation, timeRemap []float64) (*MotionAsset, error) {
	if len(timeRemap) != len(base.Keyframes) {
		return nil, fmt.Errorf("derive '%s': timeRemap has %d entries, base has %d keyframes",
			name, len(timeRemap), len(base.Keyframes))
	}
	for joint, offsets := range additions {
		if len(offsets) != len(base.Keyframes) {
			return nil, fmt.Errorf("derive '%s': joint %s has %d offsets, base has %d keyframes",
				name, joint, len(offsets), len(base.Keyframes))
		}
	}

	out := base.Clone()
	out.Name = name
	for i := range out.Keyframes {
		out.Keyframes[i].Time = timeRemap[i]
		for joint, offsets := range additions {
			for axis := 0; axis < 3; axis++ {
				out.Keyframes[i].Pose.Joints[joint][axis] += offsets[i][axis]
			}
		}
	}
	if n := len(out.Keyframes); n > 0 && out.Keyframes[n-1].Time > out.Duration {
		out.Duration = out.Keyframes[n-1].Time
	}

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("derive '%s': %w", name, err)
	}
	return out, nil
}

// TemplateBuilder builds a motion asset for a given intensity in [0, 1].
// Implementations must be deterministic and monotonic: both the duration
// and the joint-value magnitudes of the result grow with intensity.
type TemplateBuilder func(intensity float64) *MotionAsset

// ScaleByIntensity clamps intensity to [0, 1] and invokes the builder.
// It exists so policy code has a single entry point with the clamping
// contract in one place.
func ScaleByIntensity(build TemplateBuilder, intensity float64) *MotionAsset {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	return build(intensity)
}

// IntensityTemplate is a parametric motion template: a neutral start pose
// sinking to a peak pose at the midpoint and recovering to neutral.
// Build produces the concrete asset for one intensity value, with the
// easing curve shaping how fast depth and duration grow.
//
// Used for momentum-scaled landing and dash-stop recoveries: a soft
// landing is a short shallow dip, a hard landing a long deep crouch.
type IntensityTemplate struct {
	// Name of the derived asset. Build appends nothing; callers that
	// need distinct names per tier bake the tier into Name first.
	Name string

	// BaseDuration is the duration at intensity 0.
	BaseDuration float64

	// DurationRange is the extra duration added at intensity 1.
	DurationRange float64

	// PeakJoints holds the full-intensity rotation of each affected
	// joint at the template midpoint.
	PeakJoints map[JointID]Rotation

	// PeakRoot is the full-intensity root offset at the midpoint
	// (e.g. the crouch sink of a landing).
	PeakRoot Vec3

	// Ease shapes intensity before scaling. nil means linear.
	// Any monotonic gween easing function preserves the monotonicity
	// contract of ScaleByIntensity.
	Ease ease.TweenFunc
}

// Build constructs the asset for the given intensity (assumed in [0, 1];
// go through ScaleByIntensity for clamping).
func (tpl *IntensityTemplate) Build(intensity float64) *MotionAsset {
	eased := intensity
	if tpl.Ease != nil {
		eased = float64(tpl.Ease(float32(intensity), 0, 1, 1))
	}

	duration := tpl.BaseDuration + tpl.DurationRange*eased
	mid := Pose{Root: tpl.PeakRoot.Scale(eased)}
	for joint, rot := range tpl.PeakJoints {
		for axis := 0; axis < 3; axis++ {
			mid.Joints[joint][axis] = rot[axis] * eased
		}
	}

	return &MotionAsset{
		Name:     tpl.Name,
		Duration: duration,
		Loop:     false,
		Keyframes: []Keyframe{
			{Time: 0, Pose: Pose{}},
			{Time: duration * 0.5, Pose: mid},
			{Time: duration, Pose: Pose{}},
		},
	}
}

// Builder adapts the template to the TemplateBuilder contract.
func (tpl *IntensityTemplate) Builder() TemplateBuilder {
	return tpl.Build
}
