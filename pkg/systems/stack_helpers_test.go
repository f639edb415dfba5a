package systems

import (
	"testing"

	"github.com/decker502/bball/internal/motion"
	"github.com/decker502/bball/pkg/components"
	"github.com/decker502/bball/pkg/config"
	"github.com/decker502/bball/pkg/ecs"
)

// 测试辅助：构建带标准测试动作集的注册表与系统栈

// buildTestRegistry 构建测试注册表
//
// 动作集：
//   - idle: 循环，默认动作，blend=0.15，可打断
//   - walk: 循环，blend=0.2，可打断
//   - jump: 非循环 0.6s，blend=0.1，不可打断
//   - shoot_3pt: 非循环 0.5s，blend=0.05，不可打断
//   - stance: 循环，blend=0.1，可打断
func buildTestRegistry(t *testing.T) *motion.Registry {
	t.Helper()
	r := motion.NewRegistry()

	poseAt := func(joint motion.JointID, deg float64, rootY float64) motion.Pose {
		var p motion.Pose
		p.Joints[joint] = motion.Rotation{deg, 0, 0}
		p.Root = motion.Vec3{Y: rootY}
		return p
	}

	register := func(name string, duration float64, loop bool, cfg motion.PlaybackConfig, joint motion.JointID, peak, rootY float64) {
		asset := &motion.MotionAsset{
			Name:     name,
			Duration: duration,
			Loop:     loop,
			Keyframes: []motion.Keyframe{
				{Time: 0, Pose: poseAt(joint, 0, 0)},
				{Time: duration / 2, Pose: poseAt(joint, peak, rootY)},
				{Time: duration, Pose: poseAt(joint, 0, 0)},
			},
		}
		if err := r.Register(asset, cfg); err != nil {
			t.Fatalf("注册测试动作 %s 失败: %v", name, err)
		}
	}

	register("idle", 1.2, true,
		motion.PlaybackConfig{IsDefault: true, BlendDuration: 0.15, Interruptible: true},
		motion.JointChest, 4, 0)
	register("walk", 0.8, true,
		motion.PlaybackConfig{BlendDuration: 0.2, Interruptible: true},
		motion.JointHipL, 30, 0)
	register("jump", 0.6, false,
		motion.PlaybackConfig{BlendDuration: 0.1, Interruptible: false},
		motion.JointKneeL, -60, 1.0)
	register("shoot_3pt", 0.5, false,
		motion.PlaybackConfig{BlendDuration: 0.05, Interruptible: false},
		motion.JointShoulderR, 120, 0)
	register("stance", 1.0, true,
		motion.PlaybackConfig{BlendDuration: 0.1, Interruptible: true},
		motion.JointWaist, 15, 0)

	return r
}

const testPhaseYAML = `
version: "1.0"
actions:
  shoot_3pt:
    motion: shoot_3pt
    startup: 0.2
    active: 0.1
    recovery: 0.2
    priority: 3
  jump:
    motion: jump
    startup: 0.08
    active: 0.4
    recovery: 0.12
    priority: 4
    position_scale_from_charge: true
    variants:
      thresholds:
        - max_charge: 0.05
          intensity: 0.25
        - max_charge: 0.2
          intensity: 0.6
      default_intensity: 1.0
  land:
    motion: idle
    startup: 0.0
    active: 0.05
    recovery: 0.3
    priority: 5
    variants:
      thresholds:
        - max_charge: 0.3
          intensity: 0.3
      default_intensity: 1.0
  stance:
    motion: stance
    startup: 0.1
    active: -1
    recovery: 0.15
    priority: 1
  pass:
    motion: walk
    startup: 0.15
    active: 0.05
    recovery: 0.1
    priority: 3
    interruptible_startup: false
`

// testStack 测试用的完整系统栈
type testStack struct {
	em       *ecs.EntityManager
	registry *motion.Registry
	phases   *config.ActionPhaseManager
	playback *PlaybackSystem
	actions  *ActionPhaseSystem
}

// newTestStack 构建系统栈并创建一个已在播放默认动作的球员实体
func newTestStack(t *testing.T) (*testStack, ecs.EntityID) {
	t.Helper()

	em := ecs.NewEntityManager()
	registry := buildTestRegistry(t)
	phases, err := config.ParseActionPhaseConfig([]byte(testPhaseYAML))
	if err != nil {
		t.Fatalf("解析测试阶段配置失败: %v", err)
	}

	policy := NewPriorityPolicy(phases)
	playback := NewPlaybackSystem(em, registry, policy)
	actions := NewActionPhaseSystem(em, phases, playback, policy, NewVariantPolicy())

	id := em.CreateEntity()
	ecs.AddComponent(em, id, components.NewPlaybackComponent())
	if !playback.PlayDefault(id) {
		t.Fatal("初始 PlayDefault 失败")
	}

	return &testStack{em: em, registry: registry, phases: phases, playback: playback, actions: actions}, id
}

// tick 以动作层先行的规定顺序推进一帧
func (ts *testStack) tick(dt float64) {
	ts.actions.Update(dt)
	ts.playback.Update(dt)
}
