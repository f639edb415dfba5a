package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// TestNewSettingsManagerDegraded nil 存储管理器的降级模式
func TestNewSettingsManagerDegraded(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("降级模式创建不应报错: %v", err)
	}

	s := sm.GetSettings()
	if s.PlaybackSpeed != 1.0 {
		t.Errorf("默认播放速度应为 1.0: got %.2f", s.PlaybackSpeed)
	}
	if !s.ShowSkeleton {
		t.Error("默认应显示骨骼连线")
	}
	if s.ShowJointNames {
		t.Error("默认不应显示关节名称")
	}

	// 降级模式下保存不报错
	if err := sm.Save(); err != nil {
		t.Errorf("降级模式 Save 不应报错: %v", err)
	}
}

// TestSetPlaybackSpeedClamped 播放速度被限制在 0.1 ~ 4.0
func TestSetPlaybackSpeedClamped(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	tests := []struct {
		input float64
		want  float64
	}{
		{1.5, 1.5},
		{0.0, 0.1},
		{-2.0, 0.1},
		{10.0, 4.0},
		{4.0, 4.0},
	}
	for _, tt := range tests {
		sm.SetPlaybackSpeed(tt.input)
		if got := sm.GetSettings().PlaybackSpeed; got != tt.want {
			t.Errorf("SetPlaybackSpeed(%.1f) = %.2f, want %.2f", tt.input, got, tt.want)
		}
	}
}

// TestSettingsSetters 布尔设置项的开关
func TestSettingsSetters(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	sm.SetShowSkeleton(false)
	sm.SetShowJointNames(true)
	sm.SetShowRootMotion(false)
	sm.SetShowPhaseBar(false)
	sm.SetPaused(true)
	sm.SetFullscreen(true)

	s := sm.GetSettings()
	if s.ShowSkeleton || !s.ShowJointNames || s.ShowRootMotion || s.ShowPhaseBar {
		t.Error("显示设置未正确更新")
	}
	if !s.Paused || !s.Fullscreen {
		t.Error("播放/窗口设置未正确更新")
	}
}

// TestSettingsSaveLoad 保存后重新加载设置应一致
func TestSettingsSaveLoad(t *testing.T) {
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "test_viewer_settings",
	})
	if err != nil {
		t.Fatalf("创建 gdata Manager 失败: %v", err)
	}

	sm, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("创建设置管理器失败: %v", err)
	}

	sm.SetPlaybackSpeed(0.5)
	sm.SetShowJointNames(true)
	sm.SetShowSkeleton(false)
	if err := sm.Save(); err != nil {
		t.Fatalf("保存设置失败: %v", err)
	}

	// 新管理器实例应加载到相同设置
	sm2, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("创建第二个管理器失败: %v", err)
	}
	s := sm2.GetSettings()
	if s.PlaybackSpeed != 0.5 {
		t.Errorf("播放速度应为 0.5: got %.2f", s.PlaybackSpeed)
	}
	if !s.ShowJointNames || s.ShowSkeleton {
		t.Error("显示设置未正确持久化")
	}
}

// TestSettingsYAMLRoundTrip 设置的 YAML 序列化字段完整
func TestSettingsYAMLRoundTrip(t *testing.T) {
	original := &ViewerSettings{
		PlaybackSpeed:  2.0,
		Paused:         true,
		ShowSkeleton:   false,
		ShowJointNames: true,
		ShowRootMotion: false,
		ShowPhaseBar:   true,
		Fullscreen:     true,
	}

	data, err := yaml.Marshal(original)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}

	var loaded ViewerSettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("反序列化失败: %v", err)
	}
	if loaded != *original {
		t.Errorf("往返后设置不一致: got %+v, want %+v", loaded, original)
	}
}
