package motion

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func landingTemplate() *IntensityTemplate {
	return &IntensityTemplate{
		Name:          "land_recover",
		BaseDuration:  0.15,
		DurationRange: 0.45,
		PeakJoints: map[JointID]Rotation{
			JointKneeL: {-70, 0, 0},
			JointKneeR: {-70, 0, 0},
			JointWaist: {30, 0, 0},
		},
		PeakRoot: Vec3{Y: -0.4},
		Ease:     ease.OutQuad,
	}
}

// TestDerive_AddsOffsetsAndRemapsTimes verifies the additive derivation
// contract: remapped times, base+offset joint values, untouched base.
func TestDerive_AddsOffsetsAndRemapsTimes(t *testing.T) {
	base := testAsset()
	baseCopy := base.Clone()

	additions := map[JointID][]Rotation{
		JointElbowR: {{5, 0, 0}, {10, 0, 0}, {15, 0, 0}},
		JointHead:   {{0, 1, 0}, {0, 2, 0}, {0, 3, 0}},
	}
	remap := []float64{0, 0.8, 2.0}

	derived, err := Derive(base, "derived", additions, remap)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	if derived.Name != "derived" {
		t.Errorf("Expected name 'derived', got '%s'", derived.Name)
	}
	for i, want := range remap {
		if derived.Keyframes[i].Time != want {
			t.Errorf("keyframe %d: time %.2f, want %.2f", i, derived.Keyframes[i].Time, want)
		}
	}
	if derived.Duration != 2.0 {
		t.Errorf("Expected duration extended to last remapped time 2.0, got %.2f", derived.Duration)
	}

	// base elbow_r X values are 0, 60, 90
	wantElbow := []float64{5, 70, 105}
	for i, want := range wantElbow {
		got := derived.Keyframes[i].Pose.Joints[JointElbowR][0]
		if math.Abs(got-want) > floatTol {
			t.Errorf("keyframe %d: elbow_r X=%.2f, want %.2f", i, got, want)
		}
	}
	wantHead := []float64{1, 2, 3}
	for i, want := range wantHead {
		got := derived.Keyframes[i].Pose.Joints[JointHead][1]
		if math.Abs(got-want) > floatTol {
			t.Errorf("keyframe %d: head Y=%.2f, want %.2f", i, got, want)
		}
	}

	// The base asset must be untouched.
	for i := range base.Keyframes {
		if base.Keyframes[i].Time != baseCopy.Keyframes[i].Time ||
			!poseEqual(base.Keyframes[i].Pose, baseCopy.Keyframes[i].Pose, 0) {
			t.Fatal("Derive mutated the base asset")
		}
	}
}

// TestDerive_RejectsBadInputs verifies length and monotonicity validation.
func TestDerive_RejectsBadInputs(t *testing.T) {
	base := testAsset()

	if _, err := Derive(base, "bad", nil, []float64{0, 0.5}); err == nil {
		t.Error("Expected error for timeRemap length mismatch")
	}
	if _, err := Derive(base, "bad", nil, []float64{0, 0.8, 0.4}); err == nil {
		t.Error("Expected error for decreasing timeRemap")
	}
	if _, err := Derive(base, "bad",
		map[JointID][]Rotation{JointHead: {{1, 0, 0}}},
		[]float64{0, 0.5, 1.0}); err == nil {
		t.Error("Expected error for additions length mismatch")
	}
}

// TestDerive_Deterministic verifies that identical inputs produce
// identical output (derived motions may be cached by callers).
func TestDerive_Deterministic(t *testing.T) {
	base := testAsset()
	additions := map[JointID][]Rotation{JointWaist: {{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}}
	remap := []float64{0, 0.5, 1.2}

	a, err := Derive(base, "d", additions, remap)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	b, err := Derive(base, "d", additions, remap)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	for i := range a.Keyframes {
		if a.Keyframes[i].Time != b.Keyframes[i].Time ||
			!poseEqual(a.Keyframes[i].Pose, b.Keyframes[i].Pose, 0) {
			t.Fatal("Derive is not deterministic")
		}
	}
}

// TestScaleByIntensity_Monotonic verifies that duration and joint-value
// magnitudes both grow monotonically with intensity.
func TestScaleByIntensity_Monotonic(t *testing.T) {
	tpl := landingTemplate()
	build := tpl.Builder()

	prevDuration := -1.0
	prevDepth := -1.0
	for _, intensity := range []float64{0, 0.1, 0.3, 0.5, 0.7, 0.9, 1.0} {
		asset := ScaleByIntensity(build, intensity)
		if err := asset.Validate(); err != nil {
			t.Fatalf("intensity %.1f: invalid asset: %v", intensity, err)
		}

		if asset.Duration < prevDuration {
			t.Errorf("intensity %.1f: duration %.3f decreased from %.3f", intensity, asset.Duration, prevDuration)
		}
		mid := asset.Keyframes[1].Pose
		depth := math.Abs(mid.Root.Y)
		if depth < prevDepth {
			t.Errorf("intensity %.1f: crouch depth %.3f decreased from %.3f", intensity, depth, prevDepth)
		}
		prevDuration = asset.Duration
		prevDepth = depth
	}
}

// TestScaleByIntensity_ClampsInput verifies the [0, 1] clamping contract.
func TestScaleByIntensity_ClampsInput(t *testing.T) {
	tpl := landingTemplate()
	build := tpl.Builder()

	lo := ScaleByIntensity(build, -2.0)
	zero := ScaleByIntensity(build, 0)
	if lo.Duration != zero.Duration {
		t.Error("intensity below 0 should clamp to 0")
	}

	hi := ScaleByIntensity(build, 5.0)
	one := ScaleByIntensity(build, 1.0)
	if hi.Duration != one.Duration {
		t.Error("intensity above 1 should clamp to 1")
	}
}

// TestIntensityTemplate_StartsAndEndsNeutral verifies the recovery shape:
// neutral first and last keyframes with the dip at the midpoint.
func TestIntensityTemplate_StartsAndEndsNeutral(t *testing.T) {
	asset := landingTemplate().Build(0.8)

	var neutral Pose
	if !poseEqual(asset.Keyframes[0].Pose, neutral, floatTol) {
		t.Error("Recovery should start from the neutral pose")
	}
	if !poseEqual(asset.Keyframes[2].Pose, neutral, floatTol) {
		t.Error("Recovery should end at the neutral pose")
	}
	if asset.Keyframes[1].Pose.Root.Y >= 0 {
		t.Error("Recovery midpoint should sink the root")
	}
	if asset.Loop {
		t.Error("Recovery motions must not loop")
	}
}
