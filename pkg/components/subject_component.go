package components

import (
	"github.com/decker502/bball/internal/motion"
)

// PoseSubject 可摆姿势的外部协作者（骨骼 + 根变换）
// 渲染、物理等表现层实现此接口；核心每帧把求值出的姿势应用给它
type PoseSubject interface {
	// ApplyPose 设置关节旋转与根位移（供渲染使用）
	ApplyPose(pose motion.Pose)

	// CurrentAppliedPose 返回当前已应用的姿势
	// 没有缓存的求值结果时用它作为混合快照的种子
	CurrentAppliedPose() motion.Pose
}

// SubjectComponent 目标主体组件（纯数据）
// 持有外部可摆姿势主体的引用；主体不属于核心，核心只通过
// PoseSubject 接口与它交互
type SubjectComponent struct {
	// Subject 外部主体，可为 nil（纯逻辑测试场景）
	Subject PoseSubject
}
