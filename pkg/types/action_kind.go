// Package types 定义共享的基础类型
package types

// ActionKind 定义玩家动作的类型
// 每种动作绑定一个动作阶段配置和一个基础动作资产（见 data/action_phases.yaml）
type ActionKind string

const (
	// ActionUnknown 未知动作类型
	ActionUnknown ActionKind = ""

	// 移动类动作
	ActionWalk ActionKind = "walk" // 行走
	ActionDash ActionKind = "dash" // 冲刺
	ActionJump ActionKind = "jump" // 跳跃
	ActionLand ActionKind = "land" // 落地恢复（动量缩放的派生动作）

	// 进攻类动作
	ActionShoot3pt ActionKind = "shoot_3pt" // 三分投篮
	ActionShootMid ActionKind = "shoot_mid" // 中距离投篮
	ActionLayup    ActionKind = "layup"     // 上篮
	ActionDunk     ActionKind = "dunk"      // 扣篮
	ActionPass     ActionKind = "pass"      // 传球

	// 防守类动作
	ActionBlock  ActionKind = "block"  // 盖帽
	ActionSteal  ActionKind = "steal"  // 抢断
	ActionStance ActionKind = "stance" // 防守姿态（active 阶段无限长）

	// 定位剧情动作
	ActionJumpBall ActionKind = "jump_ball" // 跳球
)

// String 返回动作类型的字符串表示
func (k ActionKind) String() string {
	if k == ActionUnknown {
		return "unknown"
	}
	return string(k)
}
