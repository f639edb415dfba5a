package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/decker502/bball/pkg/types"
	"gopkg.in/yaml.v3"
)

// ActionPhaseFile 动作阶段配置文件的顶层结构
// 对应 data/action_phases.yaml
type ActionPhaseFile struct {
	Version string                            `yaml:"version"`
	Actions map[string]ActionPhaseEntryConfig `yaml:"actions"`
}

// ActionPhaseEntryConfig 单个动作类型的阶段配置
type ActionPhaseEntryConfig struct {
	// Motion 绑定的动作资产名称（注册表中的名字）
	Motion string `yaml:"motion"`

	// Startup 前摇时长（秒）
	Startup float64 `yaml:"startup"`

	// Active 生效时长（秒）
	// -1 表示无限长（防守姿态等持续性动作）
	Active float64 `yaml:"active"`

	// Recovery 后摇时长（秒）
	Recovery float64 `yaml:"recovery"`

	// Priority 动作优先级，数值大者可抢占小者，相同优先级维持现有动作
	Priority int `yaml:"priority"`

	// InterruptibleStartup 前摇是否可被打断
	// nil = 默认 true
	InterruptibleStartup *bool `yaml:"interruptible_startup,omitempty"`

	// PositionScaleFromCharge 是否用蓄力量缩放根位移
	// 用于蓄力跳跃高度；nil = 默认 false
	PositionScaleFromCharge *bool `yaml:"position_scale_from_charge,omitempty"`

	// Variants 动量/蓄力档位配置（可选）
	// 存在时该动作的实际资产由变体策略合成
	Variants *VariantConfig `yaml:"variants,omitempty"`
}

// VariantConfig 强度档位配置
// 把连续输入量（蓄力时间、冲刺加速度比）映射到离散强度档位
type VariantConfig struct {
	// Thresholds 按 MaxCharge 升序排列的档位表
	// 第一个 charge < MaxCharge 的条目生效
	Thresholds []VariantTier `yaml:"thresholds"`

	// DefaultIntensity 超出所有档位时使用的强度（通常为 1.0）
	DefaultIntensity float64 `yaml:"default_intensity"`
}

// VariantTier 单个强度档位
type VariantTier struct {
	// MaxCharge 本档位的输入量上限（秒或比率，随动作而定）
	MaxCharge float64 `yaml:"max_charge"`

	// Intensity 本档位对应的合成强度，范围 [0, 1]
	Intensity float64 `yaml:"intensity"`
}

// ActionPhaseManager 动作阶段配置管理器
// 负责加载和查询每种动作的阶段时长、优先级和变体档位。
// 显式构造、依赖注入，不使用包级可变单例
type ActionPhaseManager struct {
	file    *ActionPhaseFile
	actions map[types.ActionKind]*ActionPhaseEntryConfig
	mu      sync.RWMutex
}

// NewActionPhaseManager 从配置文件创建管理器
//
// 参数：
//   - configPath: 配置文件路径（如 "data/action_phases.yaml"）
//
// 返回：
//   - *ActionPhaseManager: 管理器实例
//   - error: 加载或解析错误
func NewActionPhaseManager(configPath string) (*ActionPhaseManager, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read action phase config '%s': %w", configPath, err)
	}
	return ParseActionPhaseConfig(data)
}

// ParseActionPhaseConfig 从 YAML 数据解析管理器（测试入口）
func ParseActionPhaseConfig(data []byte) (*ActionPhaseManager, error) {
	file := &ActionPhaseFile{}
	if err := yaml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("failed to parse action phase config: %w", err)
	}
	if len(file.Actions) == 0 {
		return nil, fmt.Errorf("action phase config has no actions defined")
	}

	m := &ActionPhaseManager{
		file:    file,
		actions: make(map[types.ActionKind]*ActionPhaseEntryConfig, len(file.Actions)),
	}
	for name := range file.Actions {
		entry := file.Actions[name]
		if entry.Motion == "" {
			return nil, fmt.Errorf("action '%s' has no motion binding", name)
		}
		if entry.Startup < 0 || entry.Recovery < 0 {
			return nil, fmt.Errorf("action '%s' has negative phase duration", name)
		}
		m.actions[types.ActionKind(name)] = &entry
	}
	return m, nil
}

// Get 查询指定动作类型的阶段配置
//
// 返回：
//   - config: 阶段配置
//   - found: 是否在配置中定义了该动作
func (m *ActionPhaseManager) Get(kind types.ActionKind) (*ActionPhaseEntryConfig, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.actions[kind]
	return entry, ok
}

// Kinds 返回所有已配置的动作类型（调试接口）
func (m *ActionPhaseManager) Kinds() []types.ActionKind {
	m.mu.RLock()
	defer m.mu.RUnlock()
	kinds := make([]types.ActionKind, 0, len(m.actions))
	for k := range m.actions {
		kinds = append(kinds, k)
	}
	return kinds
}

// StartupInterruptible 前摇是否可打断（应用 nil 默认值 true）
func (e *ActionPhaseEntryConfig) StartupInterruptible() bool {
	if e.InterruptibleStartup == nil {
		return true
	}
	return *e.InterruptibleStartup
}

// ScalesPositionFromCharge 是否用蓄力量缩放根位移（nil 默认 false）
func (e *ActionPhaseEntryConfig) ScalesPositionFromCharge() bool {
	if e.PositionScaleFromCharge == nil {
		return false
	}
	return *e.PositionScaleFromCharge
}

// ContinuousActive 生效阶段是否无限长
func (e *ActionPhaseEntryConfig) ContinuousActive() bool {
	return e.Active < 0
}

// IntensityFor 根据连续输入量查询合成强度
// 没有变体配置时返回 (0, false)
func (e *ActionPhaseEntryConfig) IntensityFor(charge float64) (float64, bool) {
	if e.Variants == nil {
		return 0, false
	}
	for _, tier := range e.Variants.Thresholds {
		if charge < tier.MaxCharge {
			return tier.Intensity, true
		}
	}
	return e.Variants.DefaultIntensity, true
}
