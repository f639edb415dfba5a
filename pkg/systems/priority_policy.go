package systems

import (
	"github.com/decker502/bball/internal/motion"
	"github.com/decker502/bball/pkg/config"
	"github.com/decker502/bball/pkg/types"
)

// PriorityPolicy 统一的优先级仲裁策略
//
// 动作层（能否抢占正在进行的动作）和播放层（能否替换未播完的
// 不可打断动作）都咨询同一个策略对象，保证两层不会各自散落
// 布尔值和数字字面量而产生分歧
type PriorityPolicy struct {
	phases *config.ActionPhaseManager
}

// NewPriorityPolicy 创建仲裁策略
func NewPriorityPolicy(phases *config.ActionPhaseManager) *PriorityPolicy {
	return &PriorityPolicy{phases: phases}
}

// PriorityOf 查询动作类型的优先级
// 未配置的动作优先级为 0（最低）
func (p *PriorityPolicy) PriorityOf(kind types.ActionKind) int {
	entry, ok := p.phases.Get(kind)
	if !ok {
		return 0
	}
	return entry.Priority
}

// CanPreempt 判断新动作能否抢占当前动作
// 简单全序：严格大于才能抢占，相同优先级维持现有动作
func (p *PriorityPolicy) CanPreempt(incoming, current types.ActionKind) bool {
	return p.PriorityOf(incoming) > p.PriorityOf(current)
}

// CanSwitchMotion 判断播放层能否从当前动作切走
//
// 参数：
//   - currentCfg: 当前动作的播放配置
//   - playingUnfinished: 当前动作是否还在播放中（未自然结束）
//   - force: 调用方是否要求强制切换（高优先级抢占、剧本动作）
func (p *PriorityPolicy) CanSwitchMotion(currentCfg motion.PlaybackConfig, playingUnfinished, force bool) bool {
	if force {
		return true
	}
	if !playingUnfinished {
		return true
	}
	return currentCfg.Interruptible
}
