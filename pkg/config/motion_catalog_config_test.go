package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/bball/internal/motion"
)

// writeCatalogFixture 在临时目录下生成目录配置和动作数据文件
func writeCatalogFixture(t *testing.T, catalogYAML string, motions map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "motions"), 0o755); err != nil {
		t.Fatalf("创建动作目录失败: %v", err)
	}
	for name, content := range motions {
		if err := os.WriteFile(filepath.Join(dir, "motions", name), []byte(content), 0o644); err != nil {
			t.Fatalf("写入动作文件失败: %v", err)
		}
	}
	path := filepath.Join(dir, "motion_catalog.yaml")
	if err := os.WriteFile(path, []byte(catalogYAML), 0o644); err != nil {
		t.Fatalf("写入目录配置失败: %v", err)
	}
	return path
}

const idleMotionYAML = `
name: idle
duration: 1.2
loop: true
keyframes:
  - time: 0.0
  - time: 1.2
`

const jumpMotionYAML = `
name: jump
duration: 0.6
loop: false
keyframes:
  - time: 0.0
  - time: 0.3
    root: {y: 1.0}
  - time: 0.6
`

// TestLoadMotionCatalog_BuildsRegistry 测试目录加载构建注册表
func TestLoadMotionCatalog_BuildsRegistry(t *testing.T) {
	catalog := `
version: "1.0"
motion_dir: motions
motions:
  - file: idle.yaml
    is_default: true
    blend_duration: 0.15
  - file: jump.yaml
    blend_duration: 0.1
    interruptible: false
`
	path := writeCatalogFixture(t, catalog, map[string]string{
		"idle.yaml": idleMotionYAML,
		"jump.yaml": jumpMotionYAML,
	})

	registry, err := LoadMotionCatalog(path)
	if err != nil {
		t.Fatalf("加载目录失败: %v", err)
	}

	if registry.DefaultName() != "idle" {
		t.Errorf("期望默认动作 idle, got '%s'", registry.DefaultName())
	}

	jumpCfg, err := registry.Config("jump")
	if err != nil {
		t.Fatalf("查询 jump 配置失败: %v", err)
	}
	if jumpCfg.Interruptible {
		t.Error("jump 显式配置了 interruptible: false")
	}
	if jumpCfg.BlendDuration != 0.1 {
		t.Errorf("jump blend_duration=%.2f, 期望 0.1", jumpCfg.BlendDuration)
	}

	idleCfg, _ := registry.Config("idle")
	if !idleCfg.Interruptible {
		t.Error("interruptible 省略时默认应为 true")
	}

	jumpAsset, err := registry.Get("jump")
	if err != nil || jumpAsset.Duration != 0.6 || jumpAsset.Loop {
		t.Errorf("jump 资产解析错误: %+v, err=%v", jumpAsset, err)
	}
}

// TestLoadMotionCatalog_DuplicateDefault 测试第二个默认动作被拒绝
func TestLoadMotionCatalog_DuplicateDefault(t *testing.T) {
	catalog := `
motion_dir: motions
motions:
  - file: idle.yaml
    is_default: true
  - file: jump.yaml
    is_default: true
`
	path := writeCatalogFixture(t, catalog, map[string]string{
		"idle.yaml": idleMotionYAML,
		"jump.yaml": jumpMotionYAML,
	})

	_, err := LoadMotionCatalog(path)
	if !errors.Is(err, motion.ErrDuplicateDefault) {
		t.Errorf("期望 ErrDuplicateDefault, got %v", err)
	}
}

// TestLoadMotionCatalog_MissingPieces 测试缺失文件与空目录的错误路径
func TestLoadMotionCatalog_MissingPieces(t *testing.T) {
	// 引用不存在的动作文件
	catalog := `
motion_dir: motions
motions:
  - file: ghost.yaml
`
	path := writeCatalogFixture(t, catalog, nil)
	if _, err := LoadMotionCatalog(path); err == nil {
		t.Error("期望缺失动作文件返回错误")
	}

	// 空目录
	empty := writeCatalogFixture(t, `version: "1.0"`, nil)
	if _, err := LoadMotionCatalog(empty); err == nil {
		t.Error("期望空目录返回错误")
	}

	// 配置文件不存在
	if _, err := LoadMotionCatalog(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("期望缺失配置文件返回错误")
	}
}
