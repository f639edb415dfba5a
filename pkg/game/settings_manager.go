package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ViewerSettings 动作展示工具的查看设置
// 注意：这些设置是全局的，不绑定到特定球员
type ViewerSettings struct {
	// 播放设置
	PlaybackSpeed float64 `yaml:"playbackSpeed"` // 播放速度倍率 0.1 ~ 4.0
	Paused        bool    `yaml:"paused"`        // 启动时是否暂停

	// 显示设置
	ShowSkeleton   bool `yaml:"showSkeleton"`   // 显示骨骼连线
	ShowJointNames bool `yaml:"showJointNames"` // 显示关节名称标签
	ShowRootMotion bool `yaml:"showRootMotion"` // 显示根运动轨迹
	ShowPhaseBar   bool `yaml:"showPhaseBar"`   // 显示动作阶段进度条
	Fullscreen     bool `yaml:"fullscreen"`     // 启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		PlaybackSpeed:  1.0,
		Paused:         false,
		ShowSkeleton:   true,
		ShowJointNames: false,
		ShowRootMotion: true,
		ShowPhaseBar:   true,
		Fullscreen:     false,
	}
}

// SettingsManager 设置管理器
// 负责查看设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	// 检查设置文件是否存在
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		// 文件不存在，使用默认设置
		sm.settings = DefaultSettings()
		return nil
	}

	// 从 gdata 加载数据
	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		// 文件存在但加载失败，使用默认设置
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 反序列化 YAML 数据
	var loadedSettings ViewerSettings
	if err := yaml.Unmarshal(data, &loadedSettings); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = &loadedSettings
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
//
// 返回：
//   - error: 如果序列化或保存失败返回错误
func (sm *SettingsManager) Save() error {
	// 降级模式：无法持久化，但不报错
	if sm.gdataManager == nil {
		return nil
	}

	// 序列化设置为 YAML
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// 保存到 gdata
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
//
// 返回：
//   - *ViewerSettings: 当前设置实例
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetPlaybackSpeed 设置播放速度倍率
//
// 速度值会被限制在 0.1 ~ 4.0 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
//
// 参数：
//   - speed: 播放速度倍率 (0.1 ~ 4.0)
func (sm *SettingsManager) SetPlaybackSpeed(speed float64) {
	sm.settings.PlaybackSpeed = clampSpeed(speed)
}

// SetPaused 设置启动时暂停
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetPaused(paused bool) {
	sm.settings.Paused = paused
}

// SetShowSkeleton 设置骨骼连线显示开关
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetShowSkeleton(show bool) {
	sm.settings.ShowSkeleton = show
}

// SetShowJointNames 设置关节名称标签显示开关
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetShowJointNames(show bool) {
	sm.settings.ShowJointNames = show
}

// SetShowRootMotion 设置根运动轨迹显示开关
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetShowRootMotion(show bool) {
	sm.settings.ShowRootMotion = show
}

// SetShowPhaseBar 设置阶段进度条显示开关
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetShowPhaseBar(show bool) {
	sm.settings.ShowPhaseBar = show
}

// SetFullscreen 设置全屏模式
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// clampSpeed 将播放速度限制在 0.1 ~ 4.0 范围内
func clampSpeed(speed float64) float64 {
	if speed < 0.1 {
		return 0.1
	}
	if speed > 4.0 {
		return 4.0
	}
	return speed
}
