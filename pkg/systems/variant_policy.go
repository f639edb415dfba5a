package systems

import (
	"log"

	"github.com/decker502/bball/internal/motion"
	"github.com/decker502/bball/pkg/types"
	"github.com/tanema/gween/ease"
)

// VariantPolicy 动量缩放变体选择策略
//
// 位于合成器与动作状态机之上的薄策略层：把连续输入量（蓄力时间、
// 冲刺加速度比）经配置的固定阈值映射成离散强度档位，再交给
// 合成器生成该动作实例实际绑定的派生资产。
//
// 每种动作的模板构建器可以单独覆盖，替换策略不需要触碰求值器、
// 合成器、注册表或状态机
type VariantPolicy struct {
	// builders 按动作类型索引的模板构建器
	builders map[types.ActionKind]motion.TemplateBuilder
}

// NewVariantPolicy 创建带默认模板的变体策略
//
// 默认提供两个动量缩放模板：
//   - land: 落地恢复（下蹲深度与时长随落地动量增长）
//   - dash: 急停恢复（前倾幅度与刹车时长随冲刺速度增长）
func NewVariantPolicy() *VariantPolicy {
	p := &VariantPolicy{
		builders: make(map[types.ActionKind]motion.TemplateBuilder),
	}

	landing := &motion.IntensityTemplate{
		Name:          "land_recover",
		BaseDuration:  0.15,
		DurationRange: 0.45,
		PeakJoints: map[motion.JointID]motion.Rotation{
			motion.JointKneeL: {-70, 0, 0},
			motion.JointKneeR: {-70, 0, 0},
			motion.JointWaist: {30, 0, 0},
		},
		PeakRoot: motion.Vec3{Y: -0.4},
		Ease:     ease.OutQuad,
	}
	p.builders[types.ActionLand] = landing.Builder()

	dashStop := &motion.IntensityTemplate{
		Name:          "dash_stop",
		BaseDuration:  0.1,
		DurationRange: 0.3,
		PeakJoints: map[motion.JointID]motion.Rotation{
			motion.JointWaist: {20, 0, 0},
			motion.JointKneeL: {-35, 0, 0},
			motion.JointKneeR: {-35, 0, 0},
		},
		PeakRoot: motion.Vec3{Y: -0.15, Z: 0.1},
		Ease:     ease.OutCubic,
	}
	p.builders[types.ActionDash] = dashStop.Builder()

	return p
}

// Override 替换指定动作类型的模板构建器
// builder 为 nil 时移除该动作的变体合成（回退到注册表资产）
func (p *VariantPolicy) Override(kind types.ActionKind, builder motion.TemplateBuilder) {
	if builder == nil {
		delete(p.builders, kind)
		return
	}
	p.builders[kind] = builder
}

// Has 是否为该动作类型配置了模板构建器
func (p *VariantPolicy) Has(kind types.ActionKind) bool {
	_, ok := p.builders[kind]
	return ok
}

// Build 为该动作实例合成强度缩放的派生资产
// 没有对应模板时返回 nil（调用方回退到注册表资产并记录日志）
func (p *VariantPolicy) Build(kind types.ActionKind, intensity float64) *motion.MotionAsset {
	builder, ok := p.builders[kind]
	if !ok {
		return nil
	}
	asset := motion.ScaleByIntensity(builder, intensity)
	if err := asset.Validate(); err != nil {
		// 模板实现错误；不让非法资产进入播放层
		log.Printf("[VariantPolicy] template for '%s' produced invalid asset: %v", kind, err)
		return nil
	}
	return asset
}
