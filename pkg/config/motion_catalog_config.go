package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/decker502/bball/internal/motion"
	"gopkg.in/yaml.v3"
)

// MotionCatalogFile 动作目录配置文件的顶层结构
// 对应 data/motion_catalog.yaml：列出所有动作数据文件
// 及其逐动作的播放配置
type MotionCatalogFile struct {
	Version string `yaml:"version"`

	// MotionDir 动作数据文件所在目录（相对于配置文件所在目录）
	MotionDir string `yaml:"motion_dir"`

	// Motions 目录条目列表
	Motions []MotionCatalogEntry `yaml:"motions"`
}

// MotionCatalogEntry 单个动作的目录条目
type MotionCatalogEntry struct {
	// File 动作数据文件名（如 "jump.yaml"）
	File string `yaml:"file"`

	// IsDefault 是否为默认动作（整个目录只允许一个）
	IsDefault bool `yaml:"is_default"`

	// BlendDuration 切入此动作时的混合时长（秒），0 表示硬切
	BlendDuration float64 `yaml:"blend_duration"`

	// Interruptible 播放中是否可被其他动作替换
	// nil = 默认 true
	Interruptible *bool `yaml:"interruptible,omitempty"`
}

// LoadMotionCatalog 加载动作目录配置并构建只读的动作注册表
//
// 参数：
//   - configPath: 目录配置文件路径（如 "data/motion_catalog.yaml"）
//
// 返回：
//   - *motion.Registry: 构建完成的注册表（之后只读，可跨球员共享）
//   - error: 配置解析、动作文件解析或注册错误
//
// 被数据文件忽略的未知关节名只记录警告日志，不视为错误
func LoadMotionCatalog(configPath string) (*motion.Registry, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read motion catalog '%s': %w", configPath, err)
	}

	file := &MotionCatalogFile{}
	if err := yaml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("failed to parse motion catalog '%s': %w", configPath, err)
	}
	if len(file.Motions) == 0 {
		return nil, fmt.Errorf("motion catalog '%s' lists no motions", configPath)
	}

	baseDir := filepath.Dir(configPath)
	motionDir := filepath.Join(baseDir, file.MotionDir)

	registry := motion.NewRegistry()
	for _, entry := range file.Motions {
		asset, ignored, err := motion.ParseMotionFile(filepath.Join(motionDir, entry.File))
		if err != nil {
			return nil, fmt.Errorf("motion catalog entry '%s': %w", entry.File, err)
		}
		if len(ignored) > 0 {
			log.Printf("[MotionCatalog] Warning: motion '%s' ignores unknown joints %v", asset.Name, ignored)
		}

		cfg := motion.PlaybackConfig{
			IsDefault:     entry.IsDefault,
			BlendDuration: entry.BlendDuration,
			Interruptible: entry.InterruptibleOrDefault(),
		}
		if err := registry.Register(asset, cfg); err != nil {
			return nil, fmt.Errorf("motion catalog entry '%s': %w", entry.File, err)
		}
	}

	log.Printf("[MotionCatalog] ✅ Loaded %d motions (default='%s')", len(file.Motions), registry.DefaultName())
	return registry, nil
}

// InterruptibleOrDefault 应用 nil 默认值 true
func (e *MotionCatalogEntry) InterruptibleOrDefault() bool {
	if e.Interruptible == nil {
		return true
	}
	return *e.Interruptible
}
