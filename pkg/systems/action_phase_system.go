package systems

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/bball/internal/motion"
	"github.com/decker502/bball/pkg/components"
	"github.com/decker502/bball/pkg/config"
	"github.com/decker502/bball/pkg/ecs"
	"github.com/decker502/bball/pkg/types"
)

// ErrActionBusy 动作请求被拒绝：球员已有同级或更高优先级的动作在进行。
// 预期内的可恢复错误，调用方自行决定下一帧重试还是放弃
var ErrActionBusy = errors.New("actor is busy with an equal or higher priority action")

// ActionHandle 动作实例句柄
// 带代数校验：实例结束后旧句柄自动失效，不会误操作后续实例
type ActionHandle struct {
	Entity     ecs.EntityID
	Generation uint64
}

// RequestOptions 动作请求的可选参数
type RequestOptions struct {
	// Charge 连续输入量（蓄力时间、冲刺加速度比），用于变体档位选择
	Charge float64

	// Force 跳过优先级仲裁强制执行（剧本化定位动作）
	Force bool
}

// ActionPhaseSystem 动作阶段状态机系统
//
// 每个球员一个动作实例，阶段流转 idle → startup → active → recovery → idle，
// 全部用累计时间与配置阈值比较推进（见 TickEntity），不使用宿主定时器。
//
// 本系统驱动 PlaybackSystem（请求播放动作绑定的资产）但不拥有动作数据；
// 同时通过 BusyReporter 接口向播放层报告占用，抑制其默认回退
type ActionPhaseSystem struct {
	entityManager *ecs.EntityManager
	phases        *config.ActionPhaseManager
	playback      *PlaybackSystem
	policy        *PriorityPolicy
	variants      *VariantPolicy

	// gameTime 累计游戏时间（秒），命令时间戳用
	gameTime float64
}

// NewActionPhaseSystem 创建动作阶段状态机系统
// 创建时自动把自己注册为播放系统的占用查询源
func NewActionPhaseSystem(em *ecs.EntityManager, phases *config.ActionPhaseManager,
	playback *PlaybackSystem, policy *PriorityPolicy, variants *VariantPolicy) *ActionPhaseSystem {

	s := &ActionPhaseSystem{
		entityManager: em,
		phases:        phases,
		playback:      playback,
		policy:        policy,
		variants:      variants,
	}
	playback.SetBusyReporter(s)
	return s
}

// Busy 实现 BusyReporter：该实体是否有非 idle 的动作实例
func (s *ActionPhaseSystem) Busy(id ecs.EntityID) bool {
	comp, ok := ecs.GetComponent[*components.ActionComponent](s.entityManager, id)
	return ok && comp.Busy()
}

// ==================================================================
// 动作请求 (Action Requests)
// ==================================================================

// RequestAction 请求执行动作（无蓄力、非强制的便捷入口）
func (s *ActionPhaseSystem) RequestAction(id ecs.EntityID, kind types.ActionKind) (ActionHandle, error) {
	return s.RequestActionWith(id, kind, RequestOptions{})
}

// RequestActionWith 请求执行动作
//
// 仲裁规则：
//   - 球员空闲：直接开始
//   - 已有动作进行中：新动作优先级严格大于当前动作才能抢占
//     （相同优先级维持现有动作），否则返回 ErrActionBusy；
//     被拒绝的请求不排队，调用方立即得到结果
//   - 抢占成功：当前实例触发 OnInterrupt("preempted")，新动作强制播放
//
// 成功时实例进入 startup 阶段，阶段计时从 0 开始
func (s *ActionPhaseSystem) RequestActionWith(id ecs.EntityID, kind types.ActionKind, opts RequestOptions) (ActionHandle, error) {
	entry, ok := s.phases.Get(kind)
	if !ok {
		return ActionHandle{}, fmt.Errorf("action '%s' has no phase config", kind)
	}

	comp, ok := ecs.GetComponent[*components.ActionComponent](s.entityManager, id)
	if !ok {
		comp = &components.ActionComponent{}
		ecs.AddComponent(s.entityManager, id, comp)
	}

	preempting := false
	if comp.Busy() {
		if !opts.Force && !s.policy.CanPreempt(kind, comp.Kind) {
			return ActionHandle{}, fmt.Errorf("action '%s' rejected (current '%s' phase=%s): %w",
				kind, comp.Kind, comp.Phase, ErrActionBusy)
		}
		// 抢占：当前实例被打断，永远不会再触发 OnActive/OnComplete
		s.finishInstance(comp, "preempted")
		preempting = true
	}

	comp.Kind = kind
	comp.Priority = entry.Priority
	comp.StartupTime = entry.Startup
	comp.ActiveTime = entry.Active
	comp.RecoveryTime = entry.Recovery
	comp.InterruptibleStartup = entry.StartupInterruptible()
	comp.Phase = components.PhaseStartup
	comp.PhaseElapsed = 0
	comp.Generation++
	comp.ActiveFired = false
	comp.OnActive = nil
	comp.OnComplete = nil
	comp.OnInterrupt = nil

	s.bindMotion(id, kind, entry, opts, preempting)

	log.Printf("[ActionPhaseSystem] entity=%d action '%s' started (startup=%.2fs, priority=%d, charge=%.3f)",
		id, kind, entry.Startup, entry.Priority, opts.Charge)
	return ActionHandle{Entity: id, Generation: comp.Generation}, nil
}

// bindMotion 播放该动作实例绑定的动作资产
//
// 有变体配置时先经策略合成派生资产；蓄力缩放根位移的动作
// （跳跃高度）改用 PlayWithPositionScale
func (s *ActionPhaseSystem) bindMotion(id ecs.EntityID, kind types.ActionKind,
	entry *config.ActionPhaseEntryConfig, opts RequestOptions, preempting bool) {

	// 动作层已裁决切换合法：抢占与剧本动作强制播放
	force := preempting || opts.Force

	if intensity, tiered := entry.IntensityFor(opts.Charge); tiered {
		if asset := s.variants.Build(kind, intensity); asset != nil {
			cfg := motion.PlaybackConfig{
				BlendDuration: s.blendDurationOf(entry.Motion),
				Interruptible: entry.StartupInterruptible(),
			}
			if !s.playback.PlayAsset(id, asset, cfg, force) {
				log.Printf("[ActionPhaseSystem] entity=%d derived motion for '%s' rejected", id, kind)
			}
			return
		}
		// 档位存在但没有模板：回退注册表资产
		log.Printf("[ActionPhaseSystem] no variant template for '%s', falling back to motion '%s'", kind, entry.Motion)
		if entry.ScalesPositionFromCharge() {
			if !s.playback.PlayWithPositionScale(id, entry.Motion, positionScale(intensity), force) {
				log.Printf("[ActionPhaseSystem] entity=%d motion '%s' rejected", id, entry.Motion)
			}
			return
		}
	}

	if !s.playback.Play(id, entry.Motion, force) {
		log.Printf("[ActionPhaseSystem] entity=%d motion '%s' rejected", id, entry.Motion)
	}
}

// positionScale 把档位强度映射为根位移缩放
// 最低档也保留一半高度，避免轻点跳跃退化成原地蹬腿
func positionScale(intensity float64) float64 {
	return 0.5 + 0.5*intensity
}

func (s *ActionPhaseSystem) blendDurationOf(motionName string) float64 {
	cfg, err := s.playback.Registry().Config(motionName)
	if err != nil {
		return 0
	}
	return cfg.BlendDuration
}

// ==================================================================
// 回调注册 (Callback Registration)
// ==================================================================

// SetOnActive 注册进入生效阶段的回调（出球、开启判定窗口）
// 句柄过期（实例已结束）时返回 false
func (s *ActionPhaseSystem) SetOnActive(h ActionHandle, fn func()) bool {
	comp := s.liveInstance(h)
	if comp == nil {
		return false
	}
	comp.OnActive = fn
	return true
}

// SetOnComplete 注册后摇自然结束的回调
func (s *ActionPhaseSystem) SetOnComplete(h ActionHandle, fn func()) bool {
	comp := s.liveInstance(h)
	if comp == nil {
		return false
	}
	comp.OnComplete = fn
	return true
}

// SetOnInterrupt 注册被打断的回调
func (s *ActionPhaseSystem) SetOnInterrupt(h ActionHandle, fn func(cause string)) bool {
	comp := s.liveInstance(h)
	if comp == nil {
		return false
	}
	comp.OnInterrupt = fn
	return true
}

// liveInstance 校验句柄仍指向进行中的实例
func (s *ActionPhaseSystem) liveInstance(h ActionHandle) *components.ActionComponent {
	comp, ok := ecs.GetComponent[*components.ActionComponent](s.entityManager, h.Entity)
	if !ok || comp.Generation != h.Generation || !comp.Busy() {
		return nil
	}
	return comp
}

// ==================================================================
// 打断 (Interrupt)
// ==================================================================

// Interrupt 打断进行中的动作实例
//
// 只允许打断前摇阶段（且该动作配置为前摇可打断）和无限长的
// 生效阶段（防守姿态没有自然结束点）。其余阶段的打断是
// 返回 false 的空操作。幂等：对已结束实例的句柄重复调用安全
//
// 成功打断：实例直接回到 idle，触发 OnInterrupt(cause)，
// 该实例的 OnActive/OnComplete 永远不会再触发
func (s *ActionPhaseSystem) Interrupt(h ActionHandle, cause string) bool {
	comp := s.liveInstance(h)
	if comp == nil {
		return false
	}

	interruptible := (comp.Phase == components.PhaseStartup && comp.InterruptibleStartup) ||
		(comp.Phase == components.PhaseActive && comp.ContinuousActive())
	if !interruptible {
		return false
	}

	log.Printf("[ActionPhaseSystem] entity=%d action '%s' interrupted in %s (cause=%s)",
		h.Entity, comp.Kind, comp.Phase, cause)
	s.finishInstance(comp, cause)

	// 回到默认动作；当前动作不可打断时让它播完，
	// 播放层的回退会在它结束后接手
	s.playback.PlayDefault(h.Entity)
	return true
}

// InterruptActor 按实体打断当前动作（调试与剧本接口）
func (s *ActionPhaseSystem) InterruptActor(id ecs.EntityID, cause string) bool {
	comp, ok := ecs.GetComponent[*components.ActionComponent](s.entityManager, id)
	if !ok || !comp.Busy() {
		return false
	}
	return s.Interrupt(ActionHandle{Entity: id, Generation: comp.Generation}, cause)
}

// finishInstance 以打断方式结束实例（不触发 OnActive/OnComplete）
func (s *ActionPhaseSystem) finishInstance(comp *components.ActionComponent, cause string) {
	onInterrupt := comp.OnInterrupt
	comp.Phase = components.PhaseIdle
	comp.PhaseElapsed = 0
	comp.OnActive = nil
	comp.OnComplete = nil
	comp.OnInterrupt = nil
	if onInterrupt != nil {
		onInterrupt(cause)
	}
}

// ==================================================================
// 每帧推进 (Per-frame Update)
// ==================================================================

// Update 处理动作命令并推进所有实体的动作实例
// 必须先于 PlaybackSystem.Update 调用：本帧发生的阶段转换
// （及其驱动的动作切换）要反映在本帧读取的姿势里
func (s *ActionPhaseSystem) Update(deltaTime float64) {
	s.gameTime += deltaTime
	s.processActionCommands()
	for _, id := range ecs.GetEntitiesWith1[*components.ActionComponent](s.entityManager) {
		s.TickEntity(id, deltaTime)
	}
}

// TickEntity 推进单个实体的动作实例
//
// 所有"等待 N 秒再做 X"都表达为"累计时间跨过 N 的那一帧做 X"，
// 大步长的 deltaTime 会级联跨越多个阶段，溢出时间结转到下一阶段，
// 回调按阶段顺序在同一帧内依次触发
func (s *ActionPhaseSystem) TickEntity(id ecs.EntityID, deltaTime float64) {
	comp, ok := ecs.GetComponent[*components.ActionComponent](s.entityManager, id)
	if !ok || comp.Phase == components.PhaseIdle {
		return
	}

	comp.PhaseElapsed += deltaTime

	for comp.Phase != components.PhaseIdle {
		switch comp.Phase {
		case components.PhaseStartup:
			if comp.PhaseElapsed < comp.StartupTime {
				return
			}
			comp.PhaseElapsed -= comp.StartupTime
			comp.Phase = components.PhaseActive
			if !comp.ActiveFired {
				comp.ActiveFired = true
				if comp.OnActive != nil {
					comp.OnActive()
				}
			}

		case components.PhaseActive:
			if comp.ContinuousActive() || comp.PhaseElapsed < comp.ActiveTime {
				return
			}
			comp.PhaseElapsed -= comp.ActiveTime
			comp.Phase = components.PhaseRecovery

		case components.PhaseRecovery:
			if comp.PhaseElapsed < comp.RecoveryTime {
				return
			}
			// 后摇自然结束：实例销毁，球员可接受新动作，
			// 播放层恢复正常的默认回退行为
			onComplete := comp.OnComplete
			kind := comp.Kind
			comp.Phase = components.PhaseIdle
			comp.PhaseElapsed = 0
			comp.OnActive = nil
			comp.OnComplete = nil
			comp.OnInterrupt = nil
			if onComplete != nil {
				onComplete()
			}
			log.Printf("[ActionPhaseSystem] entity=%d action '%s' completed", id, kind)
			s.playback.PlayDefault(id)
			return
		}
	}
}

// ==================================================================
// 命令处理 (Command Processing)
// ==================================================================

// processActionCommands 处理所有待执行的动作命令
//
// 组件驱动的请求通道：玩法系统添加 ActionCommandComponent，
// 本系统在 Update 开头执行并标记 Processed。执行失败也标记，
// 避免无限重试；拒绝结果记录在 Rejected 供调用方检查
func (s *ActionPhaseSystem) processActionCommands() {
	for _, id := range ecs.GetEntitiesWith1[*components.ActionCommandComponent](s.entityManager) {
		cmd, ok := ecs.GetComponent[*components.ActionCommandComponent](s.entityManager, id)
		if !ok || cmd.Processed {
			continue
		}

		_, err := s.RequestActionWith(id, cmd.Kind, RequestOptions{Charge: cmd.Charge, Force: cmd.Force})
		cmd.Timestamp = s.gameTime
		cmd.Processed = true
		cmd.Rejected = err != nil
		if err != nil && !errors.Is(err, ErrActionBusy) {
			log.Printf("[ActionPhaseSystem] command failed: entity=%d kind=%s err=%v", id, cmd.Kind, err)
		}
	}
}

// ==================================================================
// 查询 API (Query APIs)
// ==================================================================

// Phase 当前动作阶段（没有实例时为 idle）
func (s *ActionPhaseSystem) Phase(id ecs.EntityID) components.ActionPhase {
	comp, ok := ecs.GetComponent[*components.ActionComponent](s.entityManager, id)
	if !ok {
		return components.PhaseIdle
	}
	return comp.Phase
}

// CurrentKind 当前动作类型（没有实例时为 ActionUnknown）
func (s *ActionPhaseSystem) CurrentKind(id ecs.EntityID) types.ActionKind {
	comp, ok := ecs.GetComponent[*components.ActionComponent](s.entityManager, id)
	if !ok || !comp.Busy() {
		return types.ActionUnknown
	}
	return comp.Kind
}
