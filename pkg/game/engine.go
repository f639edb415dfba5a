package game

import (
	"fmt"
	"log"

	"github.com/decker502/bball/internal/motion"
	"github.com/decker502/bball/pkg/components"
	"github.com/decker502/bball/pkg/config"
	"github.com/decker502/bball/pkg/ecs"
	"github.com/decker502/bball/pkg/systems"
	"github.com/decker502/bball/pkg/types"
)

// Engine 动作引擎门面
//
// 把注册表、播放系统、动作状态机、仲裁策略和变体策略组装成一个
// 单线程逐帧驱动的整体，供玩法代码与展示工具使用。所有依赖在
// 构造时显式注入，没有全局单例。
//
// 每帧调用顺序固定：动作状态机先推进（本帧的阶段转换要反映在
// 本帧的姿势里），然后播放系统推进，最后把求值姿势应用到各球员
// 的外部主体
type Engine struct {
	entityManager *ecs.EntityManager
	registry      *motion.Registry
	phases        *config.ActionPhaseManager
	playback      *systems.PlaybackSystem
	actions       *systems.ActionPhaseSystem
}

// NewEngine 用已构建好的注册表和阶段配置组装引擎
func NewEngine(registry *motion.Registry, phases *config.ActionPhaseManager) *Engine {
	em := ecs.NewEntityManager()
	policy := systems.NewPriorityPolicy(phases)
	playback := systems.NewPlaybackSystem(em, registry, policy)
	actions := systems.NewActionPhaseSystem(em, phases, playback, policy, systems.NewVariantPolicy())

	return &Engine{
		entityManager: em,
		registry:      registry,
		phases:        phases,
		playback:      playback,
		actions:       actions,
	}
}

// NewEngineFromConfig 从 YAML 配置文件组装引擎
//
// 参数：
//   - catalogPath: 动作目录配置（motion_catalog.yaml）
//   - phasesPath: 动作阶段配置（action_phases.yaml）
func NewEngineFromConfig(catalogPath, phasesPath string) (*Engine, error) {
	registry, err := config.LoadMotionCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load motion catalog: %w", err)
	}
	phases, err := config.NewActionPhaseManager(phasesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load action phase config: %w", err)
	}
	log.Printf("[Engine] loaded %d motions, %d action kinds", len(registry.Names()), len(phases.Kinds()))
	return NewEngine(registry, phases), nil
}

// ==================================================================
// 球员管理 (Actor Management)
// ==================================================================

// CreateActor 创建球员实体并开始播放默认动作
//
// subject 是外部可摆姿势主体（渲染骨骼），可为 nil（纯逻辑场景）
func (e *Engine) CreateActor(subject components.PoseSubject) ecs.EntityID {
	id := e.entityManager.CreateEntity()
	ecs.AddComponent(e.entityManager, id, components.NewPlaybackComponent())
	ecs.AddComponent(e.entityManager, id, &components.SubjectComponent{Subject: subject})

	if !e.playback.PlayDefault(id) {
		log.Printf("[Engine] actor %d created without default motion (none registered)", id)
	}
	return id
}

// RemoveActor 标记销毁球员实体（本帧结束时移除）
func (e *Engine) RemoveActor(id ecs.EntityID) {
	e.entityManager.DestroyEntity(id)
}

// ==================================================================
// 动作接口 (Action APIs)
// ==================================================================

// RequestAction 请求球员执行动作
func (e *Engine) RequestAction(id ecs.EntityID, kind types.ActionKind) (systems.ActionHandle, error) {
	return e.actions.RequestAction(id, kind)
}

// RequestActionWith 带蓄力/强制选项的动作请求
func (e *Engine) RequestActionWith(id ecs.EntityID, kind types.ActionKind, opts systems.RequestOptions) (systems.ActionHandle, error) {
	return e.actions.RequestActionWith(id, kind, opts)
}

// Interrupt 打断动作实例（见 ActionPhaseSystem.Interrupt 的允许规则）
func (e *Engine) Interrupt(h systems.ActionHandle, cause string) bool {
	return e.actions.Interrupt(h, cause)
}

// InterruptActor 按实体打断当前动作
func (e *Engine) InterruptActor(id ecs.EntityID, cause string) bool {
	return e.actions.InterruptActor(id, cause)
}

// PlayMotion 绕过动作状态机直接切换动作（展示工具用）
func (e *Engine) PlayMotion(id ecs.EntityID, name string, force bool) bool {
	return e.playback.Play(id, name, force)
}

// ==================================================================
// 每帧推进 (Per-frame Update)
// ==================================================================

// Update 推进一帧
//
// 顺序：动作状态机 → 播放系统 → 应用姿势到外部主体 → 清理销毁实体
func (e *Engine) Update(deltaTime float64) {
	e.actions.Update(deltaTime)
	e.playback.Update(deltaTime)
	e.applyPoses()
	e.entityManager.RemoveMarkedEntities()
}

// applyPoses 把本帧求值的姿势推给各球员的外部主体
func (e *Engine) applyPoses() {
	for _, id := range ecs.GetEntitiesWith2[*components.PlaybackComponent, *components.SubjectComponent](e.entityManager) {
		subj, ok := ecs.GetComponent[*components.SubjectComponent](e.entityManager, id)
		if !ok || subj.Subject == nil {
			continue
		}
		subj.Subject.ApplyPose(e.playback.ComputedPose(id))
	}
}

// ==================================================================
// 查询 API (Query APIs)
// ==================================================================

// Pose 球员当前帧的混合插值姿势
func (e *Engine) Pose(id ecs.EntityID) motion.Pose {
	return e.playback.ComputedPose(id)
}

// MotionName 球员当前动作名称
func (e *Engine) MotionName(id ecs.EntityID) string {
	return e.playback.CurrentMotionName(id)
}

// RootDelta 球员本帧的根运动增量
func (e *Engine) RootDelta(id ecs.EntityID) motion.Vec3 {
	return e.playback.RootDelta(id)
}

// Phase 球员当前动作阶段
func (e *Engine) Phase(id ecs.EntityID) components.ActionPhase {
	return e.actions.Phase(id)
}

// CurrentKind 球员当前动作类型
func (e *Engine) CurrentKind(id ecs.EntityID) types.ActionKind {
	return e.actions.CurrentKind(id)
}

// Registry 共享动作注册表
func (e *Engine) Registry() *motion.Registry {
	return e.registry
}

// Phases 动作阶段配置
func (e *Engine) Phases() *config.ActionPhaseManager {
	return e.phases
}

// Actions 动作状态机系统（回调注册等低层接口）
func (e *Engine) Actions() *systems.ActionPhaseSystem {
	return e.actions
}

// Playback 播放系统（低层接口）
func (e *Engine) Playback() *systems.PlaybackSystem {
	return e.playback
}

// EntityManager 实体管理器（测试与工具用）
func (e *Engine) EntityManager() *ecs.EntityManager {
	return e.entityManager
}
