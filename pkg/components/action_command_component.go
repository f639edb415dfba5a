package components

import (
	"github.com/decker502/bball/pkg/types"
)

// ActionCommandComponent 动作请求命令组件(纯数据)
//
// 设计目的:
//
//	解除玩法控制层与动作状态机的直接耦合，动作请求通过 ECS 组件机制传递
//
// 生命周期:
//  1. 玩法系统（输入、AI）添加此组件到球员实体
//  2. ActionPhaseSystem 在 Update() 开头查询并执行命令
//  3. 执行后标记 Processed = true
//  4. 命令被拒绝（ErrActionBusy）时只记录 Rejected，调用方下一帧可重试
//
// 注意事项:
//   - 一个实体同时只应有一个未处理命令(后续命令会覆盖前一个)
//   - 需要同帧拿到结果（句柄、错误）的调用方应直接使用
//     ActionPhaseSystem.RequestAction，命令组件是异步便利通道
type ActionCommandComponent struct {
	// Kind 请求的动作类型
	Kind types.ActionKind

	// Charge 连续输入量（蓄力时间、冲刺加速度比等）
	// 变体策略据此选择派生动作的强度档位；0 表示无蓄力
	Charge float64

	// Force 是否强制执行（跳过优先级仲裁，用于剧本化的定位动作）
	Force bool

	// Processed 是否已被 ActionPhaseSystem 处理
	Processed bool

	// Rejected 命令是否被拒绝（动作占用且优先级不足）
	// Processed 为 true 后有效
	Rejected bool

	// Timestamp 命令被处理时的游戏时间(秒)，ActionPhaseSystem 填写，调试用
	Timestamp float64
}
