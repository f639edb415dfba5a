package motion

import (
	"errors"
	"testing"
)

// TestValidate_KeyframeOrder verifies the registration-time keyframe
// invariants: non-negative, non-decreasing times and a duration covering
// the last sample.
func TestValidate_KeyframeOrder(t *testing.T) {
	tests := []struct {
		name      string
		asset     MotionAsset
		wantErr   bool
		wantOrder bool // expect ErrInvalidKeyframeOrder specifically
	}{
		{
			name: "valid ordered keyframes",
			asset: MotionAsset{Name: "ok", Duration: 1.0,
				Keyframes: []Keyframe{{Time: 0}, {Time: 0.5}, {Time: 1.0}}},
		},
		{
			name: "duplicate times are allowed",
			asset: MotionAsset{Name: "dup", Duration: 1.0,
				Keyframes: []Keyframe{{Time: 0}, {Time: 0.5}, {Time: 0.5}}},
		},
		{
			name: "negative time",
			asset: MotionAsset{Name: "neg", Duration: 1.0,
				Keyframes: []Keyframe{{Time: -0.1}, {Time: 0.5}}},
			wantErr: true, wantOrder: true,
		},
		{
			name: "decreasing time",
			asset: MotionAsset{Name: "dec", Duration: 1.0,
				Keyframes: []Keyframe{{Time: 0}, {Time: 0.6}, {Time: 0.4}}},
			wantErr: true, wantOrder: true,
		},
		{
			name:    "no keyframes",
			asset:   MotionAsset{Name: "empty", Duration: 1.0},
			wantErr: true,
		},
		{
			name: "duration shorter than last keyframe",
			asset: MotionAsset{Name: "short", Duration: 0.3,
				Keyframes: []Keyframe{{Time: 0}, {Time: 0.5}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.asset.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantOrder && !errors.Is(err, ErrInvalidKeyframeOrder) {
				t.Errorf("Expected ErrInvalidKeyframeOrder, got %v", err)
			}
		})
	}
}

// TestClone_IsDeep verifies that mutating a clone leaves the base asset
// untouched (the synthesizer relies on this).
func TestClone_IsDeep(t *testing.T) {
	base := &MotionAsset{
		Name:     "base",
		Duration: 1.0,
		Keyframes: []Keyframe{
			{Time: 0},
			{Time: 1.0},
		},
		JointPriorities: map[JointID]int{JointHead: 2},
	}

	clone := base.Clone()
	clone.Keyframes[0].Pose.Joints[JointHead] = Rotation{99, 0, 0}
	clone.Keyframes[1].Time = 0.2
	clone.JointPriorities[JointHead] = 7

	if base.Keyframes[0].Pose.Joints[JointHead][0] != 0 {
		t.Error("Clone shares keyframe pose storage with base")
	}
	if base.Keyframes[1].Time != 1.0 {
		t.Error("Clone shares keyframe slice with base")
	}
	if base.JointPriorities[JointHead] != 2 {
		t.Error("Clone shares joint priority map with base")
	}
}

// TestParseJoint_RoundTrip verifies the fixed joint table round-trips
// through name parsing.
func TestParseJoint_RoundTrip(t *testing.T) {
	for j := JointID(0); j < JointCount; j++ {
		got, ok := ParseJoint(j.String())
		if !ok || got != j {
			t.Errorf("ParseJoint(%q) = (%v, %v), want (%v, true)", j.String(), got, ok, j)
		}
	}
	if _, ok := ParseJoint("tail"); ok {
		t.Error("ParseJoint should reject names outside the skeleton")
	}
}
