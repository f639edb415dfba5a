// verify_blend - 动作混合验证程序
// 无头运行：加载 data/ 配置，在动作切换时逐帧采样姿势，
// 核对混合端点、姿势连续性与不可打断动作的拒绝语义
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/decker502/bball/internal/motion"
	"github.com/decker502/bball/pkg/game"
)

// ========== 验证报告结构 ==========

type ValidationReport struct {
	TestName string
	Passed   bool
	Message  string
}

var validationReports []ValidationReport

func addReport(testName string, passed bool, message string) {
	validationReports = append(validationReports, ValidationReport{
		TestName: testName,
		Passed:   passed,
		Message:  message,
	})
	status := "✗ FAIL"
	if passed {
		status = "✓ PASS"
	}
	log.Printf("%s | %-30s | %s", status, testName, message)
}

func printFinalReport() {
	log.Println("\n========================================")
	log.Println("         验证报告摘要")
	log.Println("========================================")

	passCount := 0
	for _, r := range validationReports {
		status := "✗"
		if r.Passed {
			status = "✓"
			passCount++
		}
		log.Printf("%s | %-30s | %s", status, r.TestName, r.Message)
	}

	log.Println("========================================")
	log.Printf("总计: %d 通过, %d 失败", passCount, len(validationReports)-passCount)

	if passCount == len(validationReports) {
		log.Println("🎉 所有验证通过！")
	} else {
		log.Println("⚠️  部分验证失败")
		os.Exit(1)
	}
}

// ========== 姿势度量 ==========

// poseDistance 两个姿势之间的最大单关节角度差（度）
func poseDistance(a, b motion.Pose) float64 {
	maxDiff := 0.0
	for j := motion.JointID(0); j < motion.JointCount; j++ {
		for axis := 0; axis < 3; axis++ {
			if d := math.Abs(a.Joints[j][axis] - b.Joints[j][axis]); d > maxDiff {
				maxDiff = d
			}
		}
	}
	return maxDiff
}

const tickStep = 1.0 / 60.0

// maxJointSpeed 连续性阈值：混合期间任何关节单帧变化不应超过此角度。
// 硬切（blend=0）时典型跳变是几十度，混合应把它摊平到每帧几度
const maxJointSpeed = 15.0

func main() {
	dataDir := flag.String("data", "data", "配置目录")
	fromMotion := flag.String("from", "walk", "切换前的动作")
	toMotion := flag.String("to", "stance", "切换后的动作")
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ltime)

	log.Printf("====== 动作混合验证 ======")
	log.Printf("切换: %s → %s", *fromMotion, *toMotion)
	log.Println()

	// 1. 加载配置并组装引擎
	log.Println(">>> 步骤 1: 加载配置")
	engine, err := game.NewEngineFromConfig(
		filepath.Join(*dataDir, "motion_catalog.yaml"),
		filepath.Join(*dataDir, "action_phases.yaml"),
	)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	registry := engine.Registry()
	for _, name := range []string{*fromMotion, *toMotion} {
		if !registry.Has(name) {
			log.Fatalf("动作 '%s' 未注册", name)
		}
	}
	toCfg, _ := registry.Config(*toMotion)
	addReport("配置加载", true, fmt.Sprintf("目标混合时长 %.2fs", toCfg.BlendDuration))

	// 2. 播放起始动作并推进到稳定状态
	actor := engine.CreateActor(nil)
	if !engine.PlayMotion(actor, *fromMotion, false) {
		log.Fatalf("播放 '%s' 失败", *fromMotion)
	}
	for i := 0; i < 30; i++ {
		engine.Update(tickStep)
	}
	beforeSwitch := engine.Pose(actor)

	// 3. 切换并核对混合起点
	log.Println("\n>>> 步骤 2: 切换动作并采样混合")
	if !engine.PlayMotion(actor, *toMotion, false) {
		log.Fatalf("切换到 '%s' 失败", *toMotion)
	}
	atSwitch := engine.Pose(actor)
	startDiff := poseDistance(beforeSwitch, atSwitch)
	addReport("混合起点", startDiff < 1e-6,
		fmt.Sprintf("切换瞬间姿势差 %.4f 度", startDiff))

	// 4. 逐帧采样：混合期间姿势连续
	maxStep := 0.0
	prev := atSwitch
	steps := int(toCfg.BlendDuration/tickStep) + 30
	for i := 0; i < steps; i++ {
		engine.Update(tickStep)
		cur := engine.Pose(actor)
		if d := poseDistance(prev, cur); d > maxStep {
			maxStep = d
		}
		prev = cur
	}
	addReport("姿势连续性", maxStep <= maxJointSpeed,
		fmt.Sprintf("最大单帧关节变化 %.2f 度（阈值 %.0f）", maxStep, maxJointSpeed))

	// 5. 混合结束后应为目标动作的纯求值
	finalName := engine.MotionName(actor)
	addReport("混合终点", finalName == *toMotion,
		fmt.Sprintf("当前动作 '%s'", finalName))

	// 6. 不可打断动作的拒绝语义
	log.Println("\n>>> 步骤 3: 不可打断动作拒绝")
	if !engine.PlayMotion(actor, "jump", true) {
		log.Fatalf("强制播放 jump 失败")
	}
	engine.Update(tickStep)
	if engine.PlayMotion(actor, *fromMotion, false) {
		addReport("不可打断拒绝", false, "jump 播放中竟被切走")
	} else {
		addReport("不可打断拒绝", true, "jump 播放中拒绝非强制切换")
	}
	if got := engine.MotionName(actor); got == "jump" {
		addReport("拒绝后状态", true, "当前动作保持 jump")
	} else {
		addReport("拒绝后状态", false, fmt.Sprintf("当前动作 '%s'", got))
	}

	// 播完后自动回退默认动作
	jumpAsset, _ := registry.Get("jump")
	for t := 0.0; t < jumpAsset.Duration+0.5; t += tickStep {
		engine.Update(tickStep)
	}
	def := registry.DefaultName()
	if got := engine.MotionName(actor); got == def {
		addReport("播完回退", true, fmt.Sprintf("回到 '%s'", def))
	} else {
		addReport("播完回退", false, fmt.Sprintf("当前 '%s'，期望 '%s'", got, def))
	}

	printFinalReport()
}
