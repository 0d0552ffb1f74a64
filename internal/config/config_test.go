// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"cradle-host/internal/issue"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.SharedStores) != 0 {
		t.Errorf("expected default shared stores to be empty, got %v", cfg.SharedStores)
	}

	if cfg.GlobalFallbackCache != "" {
		t.Errorf("expected default global fallback cache to be empty, got %q", cfg.GlobalFallbackCache)
	}

	if cfg.AdditionalDeps != "" {
		t.Errorf("expected default additional deps to be empty, got %q", cfg.AdditionalDeps)
	}

	if len(cfg.ProbeOrder) != 0 {
		t.Errorf("expected default probe order to be empty, got %v", cfg.ProbeOrder)
	}

	if len(cfg.Frameworks) != 0 {
		t.Errorf("expected default frameworks to be empty, got %v", cfg.Frameworks)
	}

	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME lookup is Linux-specific")
	}

	testXDGPath := "/tmp/test-xdg-config"
	t.Setenv("XDG_CONFIG_HOME", testXDGPath)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}

	expected := filepath.Join(testXDGPath, AppName)
	if dir != expected {
		t.Errorf("ConfigDir() = %s, want %s", dir, expected)
	}
}

func TestConfigDirOverride(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDirOverride(tmpDir)
	defer Reset()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if dir != tmpDir {
		t.Errorf("ConfigDir() = %s, want override %s", dir, tmpDir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "empty config",
			cfg:  Config{},
		},
		{
			name: "full probe order",
			cfg: Config{ProbeOrder: []string{
				"bundle_virtual", "shared_store", "additional_manifest_dir", "global_fallback_cache",
			}},
		},
		{
			name:    "unknown probe source",
			cfg:     Config{ProbeOrder: []string{"own_directory"}},
			wantErr: ErrInvalidProbeOrder,
		},
		{
			name:    "duplicate probe source",
			cfg:     Config{ProbeOrder: []string{"shared_store", "shared_store"}},
			wantErr: ErrInvalidProbeOrder,
		},
		{
			name: "complete framework entry",
			cfg: Config{Frameworks: []FrameworkEntry{
				{Name: "Base.App", Dir: "/opt/frameworks/base"},
			}},
		},
		{
			name:    "framework entry without name",
			cfg:     Config{Frameworks: []FrameworkEntry{{Dir: "/opt/frameworks/base"}}},
			wantErr: ErrInvalidFrameworkEntry,
		},
		{
			name:    "framework entry without dir",
			cfg:     Config{Frameworks: []FrameworkEntry{{Name: "Base.App"}}},
			wantErr: ErrInvalidFrameworkEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppName)

	SetConfigDirOverride(configDir)
	defer Reset()

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}

	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Errorf("EnsureConfigDir() did not create directory %s", configDir)
	}
}

func TestLoadAndSave(t *testing.T) {
	Reset()

	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppName)

	SetConfigDirOverride(configDir)
	defer Reset()

	cfg := &Config{
		SharedStores:        []string{"/opt/store/one", "/opt/store/two"},
		GlobalFallbackCache: "/var/cache/cradle",
		AdditionalDeps:      "/opt/extras/extra.deps.cue",
		ProbeOrder:          []string{"shared_store", "global_fallback_cache"},
		Frameworks: []FrameworkEntry{
			{Name: "Base.App", Dir: "/opt/frameworks/base"},
		},
		UI: UIConfig{Verbose: true},
	}

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	loaded, path, err := LoadWithPath()
	if err != nil {
		t.Fatalf("LoadWithPath() returned error: %v", err)
	}

	expectedPath := filepath.Join(configDir, ConfigFileName+"."+ConfigFileExt)
	if path != expectedPath {
		t.Errorf("config path = %s, want %s", path, expectedPath)
	}

	if len(loaded.SharedStores) != 2 || loaded.SharedStores[0] != "/opt/store/one" {
		t.Errorf("SharedStores = %v", loaded.SharedStores)
	}
	if loaded.GlobalFallbackCache != "/var/cache/cradle" {
		t.Errorf("GlobalFallbackCache = %q", loaded.GlobalFallbackCache)
	}
	if loaded.AdditionalDeps != "/opt/extras/extra.deps.cue" {
		t.Errorf("AdditionalDeps = %q", loaded.AdditionalDeps)
	}
	if len(loaded.ProbeOrder) != 2 || loaded.ProbeOrder[0] != "shared_store" {
		t.Errorf("ProbeOrder = %v", loaded.ProbeOrder)
	}
	if len(loaded.Frameworks) != 1 || loaded.Frameworks[0].Name != "Base.App" {
		t.Errorf("Frameworks = %v", loaded.Frameworks)
	}
	if !loaded.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	Reset()

	SetConfigDirOverride(t.TempDir())
	defer Reset()

	cfg, path, err := LoadWithPath()
	if err != nil {
		t.Fatalf("LoadWithPath() returned error: %v", err)
	}
	if path != "" {
		t.Errorf("config path = %q, want empty when no file exists", path)
	}
	if len(cfg.SharedStores) != 0 || cfg.GlobalFallbackCache != "" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_ExplicitPathOverride(t *testing.T) {
	Reset()
	defer Reset()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "custom.cue")
	content := "global_fallback_cache: \"/var/cache/cradle\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	SetConfigFilePathOverride(cfgPath)

	cfg, path, err := LoadWithPath()
	if err != nil {
		t.Fatalf("LoadWithPath() returned error: %v", err)
	}
	if path != cfgPath {
		t.Errorf("config path = %s, want %s", path, cfgPath)
	}
	if cfg.GlobalFallbackCache != "/var/cache/cradle" {
		t.Errorf("GlobalFallbackCache = %q", cfg.GlobalFallbackCache)
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	Reset()
	defer Reset()

	SetConfigFilePathOverride(filepath.Join(t.TempDir(), "nope.cue"))

	_, err := Load()
	if err == nil {
		t.Fatal("Load() = nil, want error for missing explicit config file")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error type = %T, want *issue.ActionableError", err)
	}
	if !ae.HasSuggestions() {
		t.Error("expected suggestions on the load failure")
	}
}

func TestLoad_InvalidCUE(t *testing.T) {
	Reset()
	defer Reset()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "broken.cue")
	if err := os.WriteFile(cfgPath, []byte("shared_stores: [42]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	SetConfigFilePathOverride(cfgPath)

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want schema violation error")
	}
}

func TestLoad_InvalidProbeOrderInFile(t *testing.T) {
	Reset()
	defer Reset()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.cue")
	content := "probe_order: [\"own_directory\"]\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	SetConfigFilePathOverride(cfgPath)

	_, err := Load()
	if !errors.Is(err, ErrInvalidProbeOrder) {
		t.Fatalf("Load() = %v, want ErrInvalidProbeOrder", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	Reset()

	SetConfigDirOverride(t.TempDir())
	defer Reset()

	t.Setenv("CRADLE_GLOBAL_FALLBACK_CACHE", "/env/cache")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.GlobalFallbackCache != "/env/cache" {
		t.Errorf("GlobalFallbackCache = %q, want env-supplied /env/cache", cfg.GlobalFallbackCache)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppName)

	SetConfigDirOverride(configDir)
	defer Reset()

	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() returned error: %v", err)
	}

	cfgPath := filepath.Join(configDir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config file was not created: %v", err)
	}

	// A second call must not clobber an existing file.
	if err := os.WriteFile(cfgPath, []byte("ui: {verbose: true}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() returned error: %v", err)
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "verbose: true") {
		t.Error("CreateDefaultConfig() overwrote an existing config file")
	}
}

func TestGenerateCUE(t *testing.T) {
	cfg := &Config{
		SharedStores:        []string{"/opt/store"},
		GlobalFallbackCache: "/var/cache/cradle",
		ProbeOrder:          []string{"shared_store"},
		Frameworks:          []FrameworkEntry{{Name: "Base.App", Dir: "/opt/base"}},
		UI:                  UIConfig{Verbose: true},
	}

	out := GenerateCUE(cfg)

	for _, want := range []string{
		`"/opt/store"`,
		`global_fallback_cache: "/var/cache/cradle"`,
		`"shared_store"`,
		`{name: "Base.App", dir: "/opt/base"}`,
		"verbose: true",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("GenerateCUE() output missing %q:\n%s", want, out)
		}
	}
}
