// 动作展示程序：加载 data/ 配置，用火柴人骨架实时预览
// 动作播放、混合切换与动作阶段流转
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"path/filepath"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/quasilyte/gdata/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/decker502/bball/internal/motion"
	"github.com/decker502/bball/pkg/components"
	"github.com/decker502/bball/pkg/ecs"
	"github.com/decker502/bball/pkg/game"
	"github.com/decker502/bball/pkg/systems"
	"github.com/decker502/bball/pkg/types"
)

const (
	screenWidth  = 960
	screenHeight = 640

	// worldScale 世界单位到屏幕像素的换算
	worldScale = 110.0
)

// 骨架段长度（世界单位）
const (
	spineLen    = 0.55
	neckLen     = 0.12
	headRadius  = 0.13
	upperArmLen = 0.32
	forearmLen  = 0.3
	thighLen    = 0.45
	shinLen     = 0.45
)

// stickFigure 火柴人主体：实现 PoseSubject，缓存每帧应用的姿势
type stickFigure struct {
	pose motion.Pose
}

func (f *stickFigure) ApplyPose(p motion.Pose)         { f.pose = p }
func (f *stickFigure) CurrentAppliedPose() motion.Pose { return f.pose }

// jointPoint 骨架关节的屏幕坐标
type jointPoint struct {
	x, y float32
}

// skeletonLayout 由姿势做正向运动学得到的骨架布局（侧视图）
// 关节的 X 轴旋转是矢状面角度，沿骨链累加
type skeletonLayout struct {
	points map[motion.JointID]jointPoint
	pelvis jointPoint
	head   jointPoint
}

// solveSkeleton 把姿势解算成屏幕坐标
// originX/originY 是骨盆中立位置；根偏移的 Z 为水平前进、Y 为竖直
func solveSkeleton(pose motion.Pose, originX, originY float64) *skeletonLayout {
	deg := math.Pi / 180.0

	pelvisX := originX + pose.Root.Z*worldScale
	pelvisY := originY - pose.Root.Y*worldScale

	// extend 沿方向角 angle（0 = 竖直向下，正角向前）延伸骨段
	extend := func(x, y, angle, length float64) (float64, float64) {
		return x + math.Sin(angle)*length*worldScale,
			y + math.Cos(angle)*length*worldScale
	}

	layout := &skeletonLayout{
		points: make(map[motion.JointID]jointPoint),
		pelvis: jointPoint{float32(pelvisX), float32(pelvisY)},
	}
	set := func(j motion.JointID, x, y float64) {
		layout.points[j] = jointPoint{float32(x), float32(y)}
	}

	rot := func(j motion.JointID) float64 { return pose.Joints[j][0] * deg }

	// 脊柱向上：waist 前倾使躯干前俯
	spineAngle := math.Pi + rot(motion.JointWaist) // π = 竖直向上
	chestX, chestY := extend(pelvisX, pelvisY, spineAngle, spineLen)
	set(motion.JointChest, chestX, chestY)

	neckAngle := spineAngle + rot(motion.JointChest)
	neckX, neckY := extend(chestX, chestY, neckAngle, neckLen)
	set(motion.JointNeck, neckX, neckY)

	headAngle := neckAngle + rot(motion.JointNeck) + rot(motion.JointHead)
	headX, headY := extend(neckX, neckY, headAngle, headRadius*2)
	layout.head = jointPoint{float32(headX), float32(headY)}

	// 手臂从肩点（胸口）向下垂，肩角正值向前抬臂
	arm := func(shoulder, elbow, wrist motion.JointID) {
		upperAngle := rot(shoulder)
		ex, ey := extend(chestX, chestY, upperAngle, upperArmLen)
		set(shoulder, chestX, chestY)
		set(elbow, ex, ey)
		lowerAngle := upperAngle + rot(elbow)
		wx, wy := extend(ex, ey, lowerAngle, forearmLen)
		set(wrist, wx, wy)
	}
	arm(motion.JointShoulderL, motion.JointElbowL, motion.JointWristL)
	arm(motion.JointShoulderR, motion.JointElbowR, motion.JointWristR)

	// 腿从骨盆向下，髋角正值向前抬腿，膝角负值后屈
	leg := func(hip, knee, ankle motion.JointID) {
		thighAngle := rot(hip)
		kx, ky := extend(pelvisX, pelvisY, thighAngle, thighLen)
		set(hip, pelvisX, pelvisY)
		set(knee, kx, ky)
		shinAngle := thighAngle - rot(knee) // 膝负角向后弯
		ax, ay := extend(kx, ky, shinAngle, shinLen)
		set(ankle, ax, ay)
	}
	leg(motion.JointHipL, motion.JointKneeL, motion.JointAnkleL)
	leg(motion.JointHipR, motion.JointKneeR, motion.JointAnkleR)

	return layout
}

// ==========================================================================
// 展示程序主体
// ==========================================================================

type ShowcaseGame struct {
	engine   *game.Engine
	settings *game.SettingsManager
	figure   *stickFigure
	actor    ecs.EntityID

	actionKinds []types.ActionKind
	actionIdx   int
	motionNames []string
	motionIdx   int

	// 蓄力输入：按住空格的时长
	charging   bool
	chargeTime float64

	lastHandle  systems.ActionHandle
	lastEvent   string
	rootTrail   []jointPoint
	totalTravel float64

	// 相机竖直偏移的缓动跟随
	cameraTween *gween.Tween
	cameraY     float32
	cameraGoal  float32
}

func NewShowcaseGame(engine *game.Engine, settings *game.SettingsManager) *ShowcaseGame {
	figure := &stickFigure{}
	g := &ShowcaseGame{
		engine:   engine,
		settings: settings,
		figure:   figure,
	}
	g.actor = engine.CreateActor(figure)

	g.actionKinds = engine.Phases().Kinds()
	sort.Slice(g.actionKinds, func(i, j int) bool { return g.actionKinds[i] < g.actionKinds[j] })
	g.motionNames = engine.Registry().Names()
	return g
}

func (g *ShowcaseGame) Update() error {
	s := g.settings.GetSettings()

	g.handleInput(s)

	dt := (1.0 / 60.0) * s.PlaybackSpeed
	if s.Paused {
		dt = 0
	}
	if g.charging {
		g.chargeTime += 1.0 / 60.0
	}

	g.engine.Update(dt)

	// 相机跟随根偏移的竖直分量（跳跃弧线），用缓动避免硬跟随
	rootY := float32(g.figure.pose.Root.Y * worldScale * 0.35)
	if math.Abs(float64(rootY-g.cameraGoal)) > 1 {
		g.cameraTween = gween.New(g.cameraY, rootY, 0.3, ease.OutQuad)
		g.cameraGoal = rootY
	}
	if g.cameraTween != nil {
		v, done := g.cameraTween.Update(1.0 / 60.0)
		g.cameraY = v
		if done {
			g.cameraTween = nil
		}
	}

	// 根运动轨迹
	if s.ShowRootMotion && dt > 0 {
		delta := g.engine.RootDelta(g.actor)
		g.totalTravelAdd(delta)
		layout := solveSkeleton(g.figure.pose, g.originX(), g.originY())
		g.rootTrail = append(g.rootTrail, layout.pelvis)
		if len(g.rootTrail) > 180 {
			g.rootTrail = g.rootTrail[1:]
		}
	}
	return nil
}

func (g *ShowcaseGame) totalTravelAdd(d motion.Vec3) {
	g.totalTravel += math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

func (g *ShowcaseGame) handleInput(s *game.ViewerSettings) {
	// 动作类型选择
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.actionIdx = (g.actionIdx + 1) % len(g.actionKinds)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.actionIdx--
		if g.actionIdx < 0 {
			g.actionIdx = len(g.actionKinds) - 1
		}
	}

	// 空格蓄力请求动作：按下开始蓄力，松开按蓄力时长请求
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.charging = true
		g.chargeTime = 0
	}
	if g.charging && inpututil.IsKeyJustReleased(ebiten.KeySpace) {
		g.charging = false
		kind := g.actionKinds[g.actionIdx]
		h, err := g.engine.RequestActionWith(g.actor, kind,
			systems.RequestOptions{Charge: g.chargeTime})
		if err != nil {
			g.lastEvent = fmt.Sprintf("拒绝: %v", err)
		} else {
			g.lastHandle = h
			g.lastEvent = fmt.Sprintf("%s (charge=%.2f)", kind, g.chargeTime)
			g.engine.Actions().SetOnActive(h, func() {
				g.lastEvent = fmt.Sprintf("%s → active", kind)
			})
			g.engine.Actions().SetOnComplete(h, func() {
				g.lastEvent = fmt.Sprintf("%s 完成", kind)
			})
			g.engine.Actions().SetOnInterrupt(h, func(cause string) {
				g.lastEvent = fmt.Sprintf("%s 被打断 (%s)", kind, cause)
			})
		}
	}

	// I 打断当前动作
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		if !g.engine.InterruptActor(g.actor, "user") {
			g.lastEvent = "打断被拒绝"
		}
	}

	// Tab 绕过状态机直接循环切换动作（观察混合）
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.motionIdx = (g.motionIdx + 1) % len(g.motionNames)
		name := g.motionNames[g.motionIdx]
		if !g.engine.PlayMotion(g.actor, name, false) {
			g.lastEvent = fmt.Sprintf("切换 '%s' 被拒绝", name)
		} else {
			g.lastEvent = fmt.Sprintf("直接播放 '%s'", name)
		}
	}

	// 播放控制与显示开关
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.settings.SetPaused(!s.Paused)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.settings.SetPlaybackSpeed(s.PlaybackSpeed + 0.25)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.settings.SetPlaybackSpeed(s.PlaybackSpeed - 0.25)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.settings.SetShowSkeleton(!s.ShowSkeleton)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.settings.SetShowJointNames(!s.ShowJointNames)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.settings.SetShowRootMotion(!s.ShowRootMotion)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF4) {
		g.settings.SetShowPhaseBar(!s.ShowPhaseBar)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := g.settings.Save(); err != nil {
			g.lastEvent = fmt.Sprintf("保存设置失败: %v", err)
		} else {
			g.lastEvent = "设置已保存"
		}
	}
}

func (g *ShowcaseGame) originX() float64 { return screenWidth * 0.5 }
func (g *ShowcaseGame) originY() float64 {
	return screenHeight*0.68 + float64(g.cameraY)
}

func (g *ShowcaseGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 28, G: 32, B: 40, A: 255})
	s := g.settings.GetSettings()

	// 地面线
	groundY := float32(screenHeight * 0.68)
	vector.StrokeLine(screen, 0, groundY+float32(thighLen+shinLen)*worldScale,
		screenWidth, groundY+float32(thighLen+shinLen)*worldScale,
		1, color.RGBA{70, 80, 90, 255}, true)

	layout := solveSkeleton(g.figure.pose, g.originX(), g.originY())

	if s.ShowRootMotion {
		for _, p := range g.rootTrail {
			vector.DrawFilledCircle(screen, p.x, p.y, 1.5, color.RGBA{90, 140, 220, 160}, true)
		}
	}

	if s.ShowSkeleton {
		g.drawSkeleton(screen, layout)
	}
	if s.ShowJointNames {
		g.drawJointNames(screen, layout)
	}
	if s.ShowPhaseBar {
		g.drawPhaseBar(screen)
	}

	g.drawHUD(screen, s)
}

// 骨架连线定义
var bonePairs = [][2]motion.JointID{
	{motion.JointChest, motion.JointNeck},
	{motion.JointShoulderL, motion.JointElbowL},
	{motion.JointElbowL, motion.JointWristL},
	{motion.JointShoulderR, motion.JointElbowR},
	{motion.JointElbowR, motion.JointWristR},
	{motion.JointHipL, motion.JointKneeL},
	{motion.JointKneeL, motion.JointAnkleL},
	{motion.JointHipR, motion.JointKneeR},
	{motion.JointKneeR, motion.JointAnkleR},
}

func (g *ShowcaseGame) drawSkeleton(screen *ebiten.Image, layout *skeletonLayout) {
	boneColor := color.RGBA{230, 230, 235, 255}
	stroke := func(a, b jointPoint, w float32) {
		vector.StrokeLine(screen, a.x, a.y, b.x, b.y, w, boneColor, true)
	}

	// 躯干与头
	chest := layout.points[motion.JointChest]
	stroke(layout.pelvis, chest, 3)
	stroke(chest, layout.points[motion.JointNeck], 3)
	vector.StrokeCircle(screen, layout.head.x, layout.head.y,
		float32(headRadius)*worldScale, 2.5, boneColor, true)

	for _, pair := range bonePairs {
		stroke(layout.points[pair[0]], layout.points[pair[1]], 2.5)
	}

	// 关节点
	for _, p := range layout.points {
		vector.DrawFilledCircle(screen, p.x, p.y, 3, color.RGBA{250, 170, 60, 255}, true)
	}
}

func (g *ShowcaseGame) drawJointNames(screen *ebiten.Image, layout *skeletonLayout) {
	for j := motion.JointID(0); j < motion.JointCount; j++ {
		p, ok := layout.points[j]
		if !ok {
			continue
		}
		ebitenutil.DebugPrintAt(screen, j.String(), int(p.x)+5, int(p.y)-5)
	}
}

// drawPhaseBar 动作阶段进度条：前摇/生效/后摇分段着色
func (g *ShowcaseGame) drawPhaseBar(screen *ebiten.Image) {
	phase := g.engine.Phase(g.actor)
	if phase == components.PhaseIdle {
		return
	}

	kind := g.engine.CurrentKind(g.actor)
	entry, ok := g.engine.Phases().Get(kind)
	if !ok {
		return
	}

	const barX, barY, barW, barH = 280, 600, 400, 14
	active := entry.Active
	if entry.ContinuousActive() {
		active = 0.5 // 无限生效段画定长示意
	}
	total := entry.Startup + active + entry.Recovery
	if total <= 0 {
		return
	}

	segs := []struct {
		dur float64
		clr color.RGBA
		on  bool
	}{
		{entry.Startup, color.RGBA{210, 180, 60, 255}, phase == components.PhaseStartup},
		{active, color.RGBA{200, 70, 70, 255}, phase == components.PhaseActive},
		{entry.Recovery, color.RGBA{80, 150, 220, 255}, phase == components.PhaseRecovery},
	}
	x := float32(barX)
	for _, seg := range segs {
		w := float32(seg.dur / total * barW)
		clr := seg.clr
		if !seg.on {
			clr = color.RGBA{clr.R / 3, clr.G / 3, clr.B / 3, 255}
		}
		vector.DrawFilledRect(screen, x, barY, w, barH, clr, true)
		x += w
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s · %s", kind, phase), barX, barY-18)
}

func (g *ShowcaseGame) drawHUD(screen *ebiten.Image, s *game.ViewerSettings) {
	info := "=== 篮球动作展示 ===\n"
	info += fmt.Sprintf("动作: %s | 阶段: %s\n", g.engine.MotionName(g.actor), g.engine.Phase(g.actor))
	info += fmt.Sprintf("选中动作: %s (%d/%d)\n",
		g.actionKinds[g.actionIdx], g.actionIdx+1, len(g.actionKinds))
	if g.charging {
		info += fmt.Sprintf("蓄力中: %.2fs\n", g.chargeTime)
	}
	if g.lastEvent != "" {
		info += fmt.Sprintf("事件: %s\n", g.lastEvent)
	}
	info += fmt.Sprintf("速度: %.2fx%s | 累计根位移: %.1f\n",
		s.PlaybackSpeed, pausedSuffix(s.Paused), g.totalTravel)
	info += "\n操作:\n"
	info += "  ← →   : 选择动作类型\n"
	info += "  空格   : 按住蓄力，松开请求动作\n"
	info += "  I      : 打断当前动作\n"
	info += "  Tab    : 直接切换动作(观察混合)\n"
	info += "  P - =  : 暂停 / 调速\n"
	info += "  F1~F4  : 骨架/关节名/轨迹/阶段条\n"
	info += "  F5     : 保存设置\n"
	ebitenutil.DebugPrint(screen, info)
}

func pausedSuffix(paused bool) string {
	if paused {
		return " (已暂停)"
	}
	return ""
}

func (g *ShowcaseGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	dataDir := flag.String("data", "data", "配置目录")
	flag.Parse()

	engine, err := game.NewEngineFromConfig(
		filepath.Join(*dataDir, "motion_catalog.yaml"),
		filepath.Join(*dataDir, "action_phases.yaml"),
	)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// gdata 打开失败不致命：设置退化为仅内存
	gdataManager, err := gdata.Open(gdata.Config{AppName: "bball_showcase"})
	if err != nil {
		log.Printf("[main] Warning: gdata unavailable: %v", err)
		gdataManager = nil
	}
	settings, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		log.Printf("[main] Warning: settings load failed: %v", err)
	}

	showcase := NewShowcaseGame(engine, settings)

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("篮球动作展示")
	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}
	if err := ebiten.RunGame(showcase); err != nil {
		log.Fatal(err)
	}
}
