package components

import (
	"github.com/decker502/bball/internal/motion"
)

// BlendState 进行中的动作切换混合状态
// 切换动作时把切换瞬间正在生效的姿势快照下来，
// 在新动作的 blendDuration 内与新动作的求值结果做线性交叉淡化
type BlendState struct {
	// FromPose 混合起点姿势（切换瞬间的快照）
	// 如果切换发生在另一次混合进行中，快照取当时的混合结果，
	// 保证连续切换不会跳变
	FromPose motion.Pose

	// Elapsed 混合已进行时间（秒）
	Elapsed float64

	// Duration 混合总时长（秒），来自新动作的 PlaybackConfig
	// 进度 p = Elapsed / Duration，p >= 1 时混合结束并清除本状态
	Duration float64
}

// PlaybackComponent 动作播放状态组件（纯数据）
//
// 每个球员实体一个，由 PlaybackSystem 独占修改。
// 动作资产本身存放在共享只读的 motion.Registry 中，
// 本组件只持有"当前播放到哪里"的运行时状态。
type PlaybackComponent struct {
	// ==========================================================================
	// 当前动作 (Current Motion)
	// ==========================================================================

	// CurrentMotion 当前播放的动作名称（注册表中的名字）
	// 空字符串表示尚未播放任何动作
	CurrentMotion string

	// OverrideAsset 动作资产覆盖（用于程序合成的派生动作）
	// 非 nil 时播放此资产而不查注册表；派生动作是每次动作实例
	// 临时合成的，不写入共享注册表（注册表启动后只读）
	OverrideAsset *motion.MotionAsset

	// OverrideConfig 覆盖资产对应的播放配置
	// 仅在 OverrideAsset 非 nil 时有效
	OverrideConfig motion.PlaybackConfig

	// ==========================================================================
	// 播放进度 (Playback Progress)
	// ==========================================================================

	// CurrentTime 当前播放时间（秒），每帧累加 deltaTime
	// 非循环动作播放完毕后不重置，以便外部观察到 IsPlaying()==false
	CurrentTime float64

	// Finished 非循环动作是否已播放完毕
	// 循环动作永远为 false
	Finished bool

	// RootScale 根位移缩放系数（默认 1.0）
	// 用于蓄力缩放的跳跃高度：PlayWithPositionScale 设置
	RootScale float64

	// ==========================================================================
	// 混合与根运动 (Blend & Root Motion)
	// ==========================================================================

	// Blend 进行中的混合，nil 表示没有混合
	Blend *BlendState

	// LastRoot 上一帧的根位移（用于根运动增量计算）
	LastRoot motion.Vec3

	// HasLastRoot LastRoot 是否有效
	// 切换动作后第一帧为 false，避免跨动作的瞬移增量
	HasLastRoot bool

	// RootDelta 本帧的根运动增量（由 PlaybackSystem 每帧更新）
	// 玩法层用它驱动球员世界坐标的冲刺位移、跳跃弧线
	RootDelta motion.Vec3
}

// NewPlaybackComponent 创建初始播放状态
func NewPlaybackComponent() *PlaybackComponent {
	return &PlaybackComponent{
		RootScale: 1.0,
	}
}
