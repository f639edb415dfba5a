package systems

import (
	"log"

	"github.com/decker502/bball/internal/motion"
	"github.com/decker502/bball/pkg/components"
	"github.com/decker502/bball/pkg/ecs"
)

// BusyReporter 上层消费者（动作状态机）的占用查询接口
// 播放系统在消费者报告"忙"期间抑制自身的默认动作回退，
// 避免外部驱动的阶段流程被回退打断
type BusyReporter interface {
	Busy(id ecs.EntityID) bool
}

// PlaybackSystem 动作播放系统
//
// 负责每个球员实体的播放状态推进：
//   - 动作切换（含不可打断动作的拒绝语义）
//   - 切换时的定时交叉淡化混合
//   - 非循环动作的完成标记与默认动作回退
//   - 根运动增量计算
//
// 动作资产存放在共享只读的 motion.Registry；本系统只修改
// 各实体自己的 PlaybackComponent，单线程逐帧驱动
type PlaybackSystem struct {
	entityManager *ecs.EntityManager
	registry      *motion.Registry
	policy        *PriorityPolicy
	busyReporter  BusyReporter
}

// NewPlaybackSystem 创建动作播放系统
//
// 参数：
//   - em: 实体管理器
//   - registry: 动作注册表（构建完成后只读）
//   - policy: 统一优先级仲裁策略
func NewPlaybackSystem(em *ecs.EntityManager, registry *motion.Registry, policy *PriorityPolicy) *PlaybackSystem {
	return &PlaybackSystem{
		entityManager: em,
		registry:      registry,
		policy:        policy,
	}
}

// SetBusyReporter 注入上层占用查询（通常是 ActionPhaseSystem）
func (s *PlaybackSystem) SetBusyReporter(r BusyReporter) {
	s.busyReporter = r
}

// Registry 返回共享的动作注册表（调试接口）
func (s *PlaybackSystem) Registry() *motion.Registry {
	return s.registry
}

// ==================================================================
// 播放 API (Playback APIs)
// ==================================================================

// Play 切换到指定名称的动作
//
// 语义（严格遵循，玩法平衡依赖这些规则）：
//   - name 已经是当前动作：幂等空操作，返回 true
//   - name 未注册：记录日志，当前动作不变，返回 false
//   - 当前动作未播完且 interruptible=false 且未强制：拒绝，返回 false
//   - 其余情况：快照当前生效姿势作为混合起点，从 0 开始播放新动作，
//     按新动作配置的 blendDuration 交叉淡化
func (s *PlaybackSystem) Play(id ecs.EntityID, name string, force bool) bool {
	return s.playInternal(id, name, 1.0, force)
}

// PlayWithPositionScale 与 Play 相同，但根位移按 scale 缩放
// 用于蓄力跳跃：相同的跳跃动作，根位移弧线按蓄力比例放大
func (s *PlaybackSystem) PlayWithPositionScale(id ecs.EntityID, name string, scale float64, force bool) bool {
	return s.playInternal(id, name, scale, force)
}

func (s *PlaybackSystem) playInternal(id ecs.EntityID, name string, scale float64, force bool) bool {
	comp, ok := ecs.GetComponent[*components.PlaybackComponent](s.entityManager, id)
	if !ok {
		return false
	}

	// 幂等：重复 Play 当前动作是空操作
	// force 例外：强制重播同名动作从头开始（抢占后同类动作重启、
	// 新的蓄力缩放要生效）
	if !force && comp.OverrideAsset == nil && comp.CurrentMotion == name {
		return true
	}

	asset, err := s.registry.Get(name)
	if err != nil {
		// 未注册动作：可恢复错误，当前动作保持不变
		log.Printf("[PlaybackSystem] Play rejected: %v", err)
		return false
	}
	cfg, _ := s.registry.Config(name)

	if !s.canSwitch(comp, force) {
		return false
	}

	s.beginMotion(id, comp, name, nil, cfg, scale, asset)
	return true
}

// PlayAsset 播放程序合成的派生动作（不经过注册表）
//
// 派生动作是每个动作实例临时合成的（动量缩放的落地、急停），
// 不写入启动后只读的共享注册表
func (s *PlaybackSystem) PlayAsset(id ecs.EntityID, asset *motion.MotionAsset, cfg motion.PlaybackConfig, force bool) bool {
	comp, ok := ecs.GetComponent[*components.PlaybackComponent](s.entityManager, id)
	if !ok || asset == nil {
		return false
	}
	if err := asset.Validate(); err != nil {
		log.Printf("[PlaybackSystem] PlayAsset rejected: %v", err)
		return false
	}
	if !s.canSwitch(comp, force) {
		return false
	}

	s.beginMotion(id, comp, asset.Name, asset, cfg, 1.0, asset)
	return true
}

// PlayDefault 回退到注册表的默认动作
// 没有注册默认动作时静默失败返回 false（这是调用方的配置错误，
// 不是运行时故障）
func (s *PlaybackSystem) PlayDefault(id ecs.EntityID) bool {
	defaultName := s.registry.DefaultName()
	if defaultName == "" {
		return false
	}
	return s.Play(id, defaultName, false)
}

// canSwitch 咨询统一仲裁策略能否从当前动作切走
func (s *PlaybackSystem) canSwitch(comp *components.PlaybackComponent, force bool) bool {
	currentCfg, playing, ok := s.currentConfig(comp)
	if !ok {
		return true // 尚未播放任何动作
	}
	return s.policy.CanSwitchMotion(currentCfg, playing, force)
}

// currentConfig 返回当前动作的播放配置与"是否还在播放"
func (s *PlaybackSystem) currentConfig(comp *components.PlaybackComponent) (motion.PlaybackConfig, bool, bool) {
	asset := s.currentAsset(comp)
	if asset == nil {
		return motion.PlaybackConfig{}, false, false
	}
	var cfg motion.PlaybackConfig
	if comp.OverrideAsset != nil {
		cfg = comp.OverrideConfig
	} else {
		cfg, _ = s.registry.Config(comp.CurrentMotion)
	}
	playing := asset.Loop || !comp.Finished
	return cfg, playing, true
}

// beginMotion 执行实际切换：快照混合起点、重置播放状态
func (s *PlaybackSystem) beginMotion(id ecs.EntityID, comp *components.PlaybackComponent,
	name string, override *motion.MotionAsset, cfg motion.PlaybackConfig, scale float64, newAsset *motion.MotionAsset) {

	fromPose, hasFrom := s.snapshotPose(id, comp)

	comp.CurrentMotion = name
	comp.OverrideAsset = override
	comp.OverrideConfig = cfg
	comp.CurrentTime = 0
	comp.Finished = false
	comp.RootScale = scale
	comp.HasLastRoot = false
	comp.RootDelta = motion.Vec3{}

	if cfg.BlendDuration > 0 && hasFrom {
		comp.Blend = &components.BlendState{
			FromPose: fromPose,
			Elapsed:  0,
			Duration: cfg.BlendDuration,
		}
	} else {
		comp.Blend = nil
	}

	log.Printf("[PlaybackSystem] entity=%d play '%s' (scale=%.2f, blend=%.2fs)", id, name, scale, cfg.BlendDuration)
}

// snapshotPose 取切换瞬间正在生效的姿势作为混合起点
// 优先用当前动作的求值结果（含进行中的混合），没有任何缓存输出时
// 回退到外部主体已应用的姿势
func (s *PlaybackSystem) snapshotPose(id ecs.EntityID, comp *components.PlaybackComponent) (motion.Pose, bool) {
	if s.currentAsset(comp) != nil {
		return s.computePose(comp), true
	}
	if subj, ok := ecs.GetComponent[*components.SubjectComponent](s.entityManager, id); ok && subj.Subject != nil {
		return subj.Subject.CurrentAppliedPose(), true
	}
	return motion.Pose{}, false
}

// ==================================================================
// 每帧推进 (Per-frame Update)
// ==================================================================

// Update 推进所有实体的播放状态
func (s *PlaybackSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.PlaybackComponent](s.entityManager) {
		s.TickEntity(id, deltaTime)
	}
}

// TickEntity 推进单个实体的播放状态
//
// 推进逻辑：
//   - currentTime += deltaTime（已完成的非循环动作不再累加，
//     时间停在结束处以便外部观察 IsPlaying()==false）
//   - 推进进行中的混合（封顶在 blendDuration）
//   - 非循环动作到达 duration 时标记完成，时间不重置
//   - 完成后若上层不忙则回退默认动作；上层报告"忙"期间
//     绝不自行回退（外部状态机正在驱动流程）
func (s *PlaybackSystem) TickEntity(id ecs.EntityID, deltaTime float64) {
	comp, ok := ecs.GetComponent[*components.PlaybackComponent](s.entityManager, id)
	if !ok {
		return
	}
	asset := s.currentAsset(comp)
	if asset == nil {
		return
	}

	if !comp.Finished {
		comp.CurrentTime += deltaTime
		if !asset.Loop && comp.CurrentTime >= asset.Duration {
			comp.CurrentTime = asset.Duration
			comp.Finished = true
			log.Printf("[PlaybackSystem] entity=%d motion '%s' finished", id, comp.CurrentMotion)
		}
	}

	if comp.Blend != nil {
		comp.Blend.Elapsed += deltaTime
		if comp.Blend.Elapsed >= comp.Blend.Duration {
			comp.Blend = nil
		}
	}

	// 默认动作回退：仅在没有外部流程占用时触发
	if comp.Finished && !s.consumerBusy(id) {
		if def := s.registry.DefaultName(); def != "" && (comp.OverrideAsset != nil || comp.CurrentMotion != def) {
			s.PlayDefault(id)
			asset = s.currentAsset(comp)
			if asset == nil {
				return
			}
		}
	}

	// 根运动增量（循环重置的瞬移被抑制为 0）
	root := s.computePose(comp).Root
	if comp.HasLastRoot {
		comp.RootDelta = motion.RootMotionDelta(comp.LastRoot, root)
	} else {
		comp.RootDelta = motion.Vec3{}
	}
	comp.LastRoot = root
	comp.HasLastRoot = true
}

func (s *PlaybackSystem) consumerBusy(id ecs.EntityID) bool {
	return s.busyReporter != nil && s.busyReporter.Busy(id)
}

// ==================================================================
// 查询 API (Query APIs)
// ==================================================================

// IsPlaying 当前动作是否仍在播放
// 循环动作永远为 true；非循环动作在 currentTime < duration 期间为 true
func (s *PlaybackSystem) IsPlaying(id ecs.EntityID) bool {
	comp, ok := ecs.GetComponent[*components.PlaybackComponent](s.entityManager, id)
	if !ok {
		return false
	}
	asset := s.currentAsset(comp)
	if asset == nil {
		return false
	}
	return asset.Loop || !comp.Finished
}

// CurrentMotionName 当前动作名称，尚未播放时返回空字符串
func (s *PlaybackSystem) CurrentMotionName(id ecs.EntityID) string {
	comp, ok := ecs.GetComponent[*components.PlaybackComponent](s.entityManager, id)
	if !ok {
		return ""
	}
	return comp.CurrentMotion
}

// ComputedPose 返回当前帧的混合插值姿势
//
// 没有混合时直接求值当前动作；混合进行中按进度 p 在快照姿势与
// 新动作求值结果之间逐关节、逐根位移分量线性插值
func (s *PlaybackSystem) ComputedPose(id ecs.EntityID) motion.Pose {
	comp, ok := ecs.GetComponent[*components.PlaybackComponent](s.entityManager, id)
	if !ok {
		return motion.Pose{}
	}
	return s.computePose(comp)
}

// RootDelta 本帧的根运动增量
func (s *PlaybackSystem) RootDelta(id ecs.EntityID) motion.Vec3 {
	comp, ok := ecs.GetComponent[*components.PlaybackComponent](s.entityManager, id)
	if !ok {
		return motion.Vec3{}
	}
	return comp.RootDelta
}

func (s *PlaybackSystem) currentAsset(comp *components.PlaybackComponent) *motion.MotionAsset {
	if comp.OverrideAsset != nil {
		return comp.OverrideAsset
	}
	if comp.CurrentMotion == "" {
		return nil
	}
	asset, err := s.registry.Get(comp.CurrentMotion)
	if err != nil {
		return nil
	}
	return asset
}

func (s *PlaybackSystem) computePose(comp *components.PlaybackComponent) motion.Pose {
	asset := s.currentAsset(comp)
	if asset == nil {
		return motion.Pose{}
	}

	pose := motion.Evaluate(asset, asset.SampleTime(comp.CurrentTime))
	if comp.RootScale != 1.0 {
		pose = pose.ScaleRoot(comp.RootScale)
	}

	if comp.Blend == nil {
		return pose
	}
	if comp.Blend.Duration <= 0 || comp.Blend.Elapsed >= comp.Blend.Duration {
		comp.Blend = nil
		return pose
	}
	p := comp.Blend.Elapsed / comp.Blend.Duration
	return motion.LerpPose(comp.Blend.FromPose, pose, p)
}
