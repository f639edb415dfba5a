// Package motion provides the data structures and evaluation routines for
// keyframed skeletal motion used by the basketball simulation.
// A motion asset is an ordered sequence of time-stamped pose samples;
// evaluation interpolates between the two bracketing samples to produce
// the pose applied to an actor on a given frame.
package motion

// JointID identifies a joint of the player skeleton.
// The joint set is fixed at compile time: motion files may only rotate
// joints listed here, and unknown joint names are ignored during parsing
// rather than treated as errors.
type JointID int

const (
	JointHead JointID = iota
	JointNeck
	JointChest
	JointWaist
	JointShoulderL
	JointShoulderR
	JointElbowL
	JointElbowR
	JointWristL
	JointWristR
	JointHipL
	JointHipR
	JointKneeL
	JointKneeR
	JointAnkleL
	JointAnkleR

	// JointCount is the number of skeleton joints.
	// Pose stores one rotation per joint in a fixed-size array indexed
	// by JointID, so this must stay the last entry in the enumeration.
	JointCount
)

// jointNames maps JointID to the name used in motion data files.
var jointNames = [JointCount]string{
	JointHead:      "head",
	JointNeck:      "neck",
	JointChest:     "chest",
	JointWaist:     "waist",
	JointShoulderL: "shoulder_l",
	JointShoulderR: "shoulder_r",
	JointElbowL:    "elbow_l",
	JointElbowR:    "elbow_r",
	JointWristL:    "wrist_l",
	JointWristR:    "wrist_r",
	JointHipL:      "hip_l",
	JointHipR:      "hip_r",
	JointKneeL:     "knee_l",
	JointKneeR:     "knee_r",
	JointAnkleL:    "ankle_l",
	JointAnkleR:    "ankle_r",
}

// String returns the data-file name of the joint.
func (j JointID) String() string {
	if j < 0 || j >= JointCount {
		return "unknown"
	}
	return jointNames[j]
}

// ParseJoint resolves a data-file joint name to its JointID.
// Returns false for names outside the fixed skeleton.
func ParseJoint(name string) (JointID, bool) {
	for id, n := range jointNames {
		if n == name {
			return JointID(id), true
		}
	}
	return 0, false
}

// Rotation is a 3-axis joint rotation in degrees (X, Y, Z order).
// Degrees match the convention of the authored motion data; convert to
// radians only at the rendering boundary.
type Rotation [3]float64

// Vec3 is a translation in subject-local space.
// Used for the root offset of a pose (jump arcs, dash travel, crouch sink).
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Scale returns v scaled by s component-wise.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Pose is a single posed instant of the skeleton: one rotation per joint
// plus an optional root-position offset. Joints not touched by a motion
// stay at their zero rotation.
type Pose struct {
	// Joints holds the rotation of every skeleton joint, indexed by JointID.
	Joints [JointCount]Rotation

	// Root is the root-position offset of this pose.
	// Zero when the motion does not move the subject's root.
	Root Vec3
}

// LerpPose linearly interpolates every joint rotation and the root offset
// between a and b. alpha is clamped to [0, 1]: alpha=0 returns a,
// alpha=1 returns b.
func LerpPose(a, b Pose, alpha float64) Pose {
	if alpha <= 0 {
		return a
	}
	if alpha >= 1 {
		return b
	}

	var out Pose
	for j := JointID(0); j < JointCount; j++ {
		for axis := 0; axis < 3; axis++ {
			av := a.Joints[j][axis]
			bv := b.Joints[j][axis]
			out.Joints[j][axis] = av + (bv-av)*alpha
		}
	}
	out.Root = Vec3{
		X: a.Root.X + (b.Root.X-a.Root.X)*alpha,
		Y: a.Root.Y + (b.Root.Y-a.Root.Y)*alpha,
		Z: a.Root.Z + (b.Root.Z-a.Root.Z)*alpha,
	}
	return out
}

// ScaleRoot returns a copy of p with the root offset multiplied by s.
// Joint rotations are unchanged. Used for charge-scaled jump height.
func (p Pose) ScaleRoot(s float64) Pose {
	p.Root = p.Root.Scale(s)
	return p
}
