package motion

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Motion data files are YAML documents describing one asset each:
//
//	name: jump
//	duration: 0.6
//	loop: false
//	joint_priorities:
//	  knee_l: 2
//	keyframes:
//	  - time: 0.0
//	    joints:
//	      knee_l: [-40, 0, 0]
//	    root: {x: 0, y: 0.2, z: 0}
//
// Joint names outside the fixed skeleton are ignored with a warning value
// returned to the caller, matching the contract that unknown joints are
// data noise, not errors.

// motionFile mirrors the YAML document structure.
type motionFile struct {
	Name            string          `yaml:"name"`
	Duration        float64         `yaml:"duration"`
	Loop            bool            `yaml:"loop"`
	JointPriorities map[string]int  `yaml:"joint_priorities"`
	Keyframes       []keyframeEntry `yaml:"keyframes"`
}

type keyframeEntry struct {
	Time   float64               `yaml:"time"`
	Joints map[string][3]float64 `yaml:"joints"`
	Root   *rootEntry            `yaml:"root"`
}

type rootEntry struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// ParseMotion parses one motion data document.
// Returns the asset plus the list of joint names that were ignored
// because they are not part of the skeleton. The asset is validated
// before being returned.
func ParseMotion(data []byte) (*MotionAsset, []string, error) {
	var file motionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse motion data: %w", err)
	}
	if file.Name == "" {
		return nil, nil, fmt.Errorf("motion data has no name field")
	}

	asset := &MotionAsset{
		Name:     file.Name,
		Duration: file.Duration,
		Loop:     file.Loop,
	}

	var ignored []string
	seenIgnored := make(map[string]bool)

	for _, entry := range file.Keyframes {
		kf := Keyframe{Time: entry.Time}
		for name, rot := range entry.Joints {
			joint, ok := ParseJoint(name)
			if !ok {
				if !seenIgnored[name] {
					seenIgnored[name] = true
					ignored = append(ignored, name)
				}
				continue
			}
			kf.Pose.Joints[joint] = Rotation(rot)
		}
		if entry.Root != nil {
			kf.Pose.Root = Vec3{X: entry.Root.X, Y: entry.Root.Y, Z: entry.Root.Z}
		}
		asset.Keyframes = append(asset.Keyframes, kf)
	}

	for name, prio := range file.JointPriorities {
		joint, ok := ParseJoint(name)
		if !ok {
			if !seenIgnored[name] {
				seenIgnored[name] = true
				ignored = append(ignored, name)
			}
			continue
		}
		if asset.JointPriorities == nil {
			asset.JointPriorities = make(map[JointID]int)
		}
		asset.JointPriorities[joint] = prio
	}

	// An authored duration of 0 means "ends at the last keyframe".
	if n := len(asset.Keyframes); n > 0 && asset.Duration < asset.Keyframes[n-1].Time {
		if asset.Duration == 0 {
			asset.Duration = asset.Keyframes[n-1].Time
		}
	}

	if err := asset.Validate(); err != nil {
		return nil, ignored, err
	}
	return asset, ignored, nil
}

// ParseMotionFile reads and parses a motion data file from disk.
func ParseMotionFile(path string) (*MotionAsset, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read motion file '%s': %w", path, err)
	}
	asset, ignored, err := ParseMotion(data)
	if err != nil {
		return nil, ignored, fmt.Errorf("motion file '%s': %w", path, err)
	}
	return asset, ignored, nil
}
