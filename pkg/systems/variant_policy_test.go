package systems

import (
	"testing"

	"github.com/decker502/bball/internal/motion"
	"github.com/decker502/bball/pkg/types"
)

// TestVariantPolicyDefaults 默认策略自带落地与急停模板
func TestVariantPolicyDefaults(t *testing.T) {
	p := NewVariantPolicy()

	if !p.Has(types.ActionLand) {
		t.Error("默认策略应有 land 模板")
	}
	if !p.Has(types.ActionDash) {
		t.Error("默认策略应有 dash 模板")
	}
	if p.Has(types.ActionShoot3pt) {
		t.Error("shoot_3pt 不应有变体模板")
	}
}

// TestVariantPolicyBuild 合成的派生资产合法且随强度单调增长
func TestVariantPolicyBuild(t *testing.T) {
	p := NewVariantPolicy()

	soft := p.Build(types.ActionLand, 0.2)
	hard := p.Build(types.ActionLand, 1.0)
	if soft == nil || hard == nil {
		t.Fatal("land 模板应能合成资产")
	}
	if err := soft.Validate(); err != nil {
		t.Errorf("合成资产应合法: %v", err)
	}

	// 单调性：动量越大，恢复越长、下蹲越深
	if soft.Duration >= hard.Duration {
		t.Errorf("时长应随强度增长: soft=%.3f hard=%.3f", soft.Duration, hard.Duration)
	}
	softDip := soft.Keyframes[1].Pose.Root.Y
	hardDip := hard.Keyframes[1].Pose.Root.Y
	if softDip <= hardDip {
		// 下蹲是负向位移，硬着陆更深（更负）
		t.Errorf("下蹲深度应随强度增长: soft=%.3f hard=%.3f", softDip, hardDip)
	}

	// 非循环，首尾回到中立姿势
	if soft.Loop {
		t.Error("恢复动作不应循环")
	}
	if soft.Keyframes[0].Pose != (motion.Pose{}) || soft.Keyframes[len(soft.Keyframes)-1].Pose != (motion.Pose{}) {
		t.Error("恢复动作应从中立姿势开始并回到中立姿势")
	}
}

// TestVariantPolicyDeterministic 相同输入产生相同输出
func TestVariantPolicyDeterministic(t *testing.T) {
	p := NewVariantPolicy()

	a := p.Build(types.ActionDash, 0.7)
	b := p.Build(types.ActionDash, 0.7)
	if a == nil || b == nil {
		t.Fatal("dash 模板应能合成资产")
	}
	if a.Duration != b.Duration || len(a.Keyframes) != len(b.Keyframes) {
		t.Fatal("相同强度应合成相同资产")
	}
	for i := range a.Keyframes {
		if a.Keyframes[i].Time != b.Keyframes[i].Time || a.Keyframes[i].Pose != b.Keyframes[i].Pose {
			t.Fatalf("关键帧 %d 不一致", i)
		}
	}
}

// TestVariantPolicyIntensityClamped 强度超出 [0,1] 被夹紧
func TestVariantPolicyIntensityClamped(t *testing.T) {
	p := NewVariantPolicy()

	over := p.Build(types.ActionLand, 3.0)
	full := p.Build(types.ActionLand, 1.0)
	if over.Duration != full.Duration {
		t.Errorf("强度 >1 应夹紧到 1: got %.3f, want %.3f", over.Duration, full.Duration)
	}

	under := p.Build(types.ActionLand, -0.5)
	zero := p.Build(types.ActionLand, 0)
	if under.Duration != zero.Duration {
		t.Errorf("强度 <0 应夹紧到 0: got %.3f, want %.3f", under.Duration, zero.Duration)
	}
}

// TestVariantPolicyOverride 模板可替换与移除
func TestVariantPolicyOverride(t *testing.T) {
	p := NewVariantPolicy()

	custom := &motion.IntensityTemplate{
		Name:         "custom_land",
		BaseDuration: 0.2,
		PeakJoints: map[motion.JointID]motion.Rotation{
			motion.JointWaist: {45, 0, 0},
		},
	}
	p.Override(types.ActionLand, custom.Builder())

	asset := p.Build(types.ActionLand, 1.0)
	if asset == nil || asset.Name != "custom_land" {
		t.Errorf("覆盖后应合成自定义模板: got %v", asset)
	}

	p.Override(types.ActionLand, nil)
	if p.Has(types.ActionLand) {
		t.Error("nil 覆盖应移除模板")
	}
	if p.Build(types.ActionLand, 1.0) != nil {
		t.Error("移除后 Build 应返回 nil")
	}
}
