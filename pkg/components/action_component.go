package components

import (
	"github.com/decker502/bball/pkg/types"
)

// ActionPhase 动作阶段
// 状态机流转：Idle → Startup → Active → Recovery → Idle
type ActionPhase int

const (
	// PhaseIdle 空闲（没有动作实例，可接受新动作请求）
	PhaseIdle ActionPhase = iota

	// PhaseStartup 前摇（起手阶段，默认可被打断）
	PhaseStartup

	// PhaseActive 生效（出手/判定窗口；进入瞬间触发 OnActive 回调，
	// 球的释放、盖帽判定窗口的开启都发生在这一刻）
	PhaseActive

	// PhaseRecovery 后摇（收招硬直，结束后回到 Idle 并触发 OnComplete）
	PhaseRecovery
)

// String 返回阶段的字符串表示（用于日志和调试接口）
func (p ActionPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStartup:
		return "startup"
	case PhaseActive:
		return "active"
	case PhaseRecovery:
		return "recovery"
	default:
		return "invalid"
	}
}

// ActionComponent 动作实例组件（纯数据）
//
// 球员请求动作成功后创建，每帧由 ActionPhaseSystem 推进，
// 后摇结束或被打断时回到 Idle。一个实体同时最多一个动作实例。
//
// 生命周期回调的触发保证：
//   - OnActive 每个实例恰好触发一次（跨过 startup 阈值的那一帧）
//   - OnComplete 与 OnInterrupt 互斥，各自最多触发一次
//   - 被打断的实例永远不会再触发 OnActive / OnComplete
type ActionComponent struct {
	// ==========================================================================
	// 动作定义 (Action Definition)
	// ==========================================================================

	// Kind 动作类型
	Kind types.ActionKind

	// Priority 动作优先级（来自配置，数值大者可抢占小者）
	Priority int

	// StartupTime 前摇时长（秒）
	StartupTime float64

	// ActiveTime 生效时长（秒）
	// 负值表示无限长（如防守姿态，直到被显式打断或切换）
	ActiveTime float64

	// RecoveryTime 后摇时长（秒）
	RecoveryTime float64

	// InterruptibleStartup 前摇阶段是否允许被 Interrupt 打断
	InterruptibleStartup bool

	// ==========================================================================
	// 运行时状态 (Runtime State)
	// ==========================================================================

	// Phase 当前阶段
	Phase ActionPhase

	// PhaseElapsed 当前阶段已经过的时间（秒）
	// 只用累计时间与配置阈值比较来推进阶段，不使用任何宿主定时器
	PhaseElapsed float64

	// Generation 实例代数
	// 每次创建新实例递增；ActionHandle 用它识别过期句柄
	Generation uint64

	// ActiveFired OnActive 是否已触发（保证恰好一次）
	ActiveFired bool

	// ==========================================================================
	// 生命周期回调 (Lifecycle Callbacks)
	// ==========================================================================

	// OnActive 进入生效阶段的回调（出球、开启判定窗口）
	OnActive func()

	// OnComplete 后摇自然结束的回调
	OnComplete func()

	// OnInterrupt 被打断的回调，参数为打断原因
	OnInterrupt func(cause string)
}

// Busy 是否处于非 Idle 阶段
// PlaybackSystem 据此抑制自身的默认动作回退
func (a *ActionComponent) Busy() bool {
	return a.Phase != PhaseIdle
}

// ContinuousActive 生效阶段是否无限长
func (a *ActionComponent) ContinuousActive() bool {
	return a.ActiveTime < 0
}
