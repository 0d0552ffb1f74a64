// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"testing"

	"cradle-host/internal/config"
	"cradle-host/internal/launch"
	"cradle-host/internal/resolver"
	"cradle-host/pkg/types"
)

func TestAppSimpleName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		app  string
		want string
	}{
		{"myapp.dll", "myapp"},
		{"dir/myapp.dll", "myapp"},
		{"myapp", "myapp"},
		{"My.App.dll", "My.App"},
		{".hidden", ".hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.app, func(t *testing.T) {
			t.Parallel()
			if got := appSimpleName(tt.app); got != tt.want {
				t.Errorf("appSimpleName(%q) = %q, want %q", tt.app, got, tt.want)
			}
		})
	}
}

func TestLaunchFlags_Build(t *testing.T) {
	t.Parallel()

	t.Run("framework flags parse as name=dir", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		f := launchFlags{
			appRoot:    dir,
			app:        "myapp.dll",
			hostMode:   string(launch.HostModeApp),
			frameworks: []string{"Base.App=" + dir},
		}

		args, _, _, err := f.build(config.DefaultConfig())
		if err != nil {
			t.Fatalf("build() error: %v", err)
		}

		if len(args.Frameworks) != 1 {
			t.Fatalf("Frameworks count = %d, want 1", len(args.Frameworks))
		}
		if args.Frameworks[0].Name != "Base.App" {
			t.Errorf("framework name = %q", args.Frameworks[0].Name)
		}
		if args.Frameworks[0].Dir != types.FilesystemPath(dir) {
			t.Errorf("framework dir = %q", args.Frameworks[0].Dir)
		}
	})

	t.Run("malformed framework flag is rejected", func(t *testing.T) {
		t.Parallel()
		f := launchFlags{
			appRoot:    t.TempDir(),
			hostMode:   string(launch.HostModeApp),
			frameworks: []string{"missing-separator"},
		}

		if _, _, _, err := f.build(config.DefaultConfig()); err == nil {
			t.Fatal("build() should reject framework flag without '='")
		}
	})

	t.Run("deps path defaults next to the app", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		f := launchFlags{
			appRoot:  dir,
			app:      "myapp.dll",
			hostMode: string(launch.HostModeApp),
		}

		args, _, _, err := f.build(config.DefaultConfig())
		if err != nil {
			t.Fatalf("build() error: %v", err)
		}

		want := dir + "/myapp.deps.cue"
		if string(args.DepsPath) != want {
			t.Errorf("DepsPath = %q, want %q", args.DepsPath, want)
		}
	})

	t.Run("config fills in unset values", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		cfg := config.DefaultConfig()
		cfg.SharedStores = []string{"/opt/store"}
		cfg.GlobalFallbackCache = "/var/cache/cradle"
		cfg.AdditionalDeps = "/extra/more.deps.cue"

		f := launchFlags{
			appRoot:  dir,
			hostMode: string(launch.HostModeApp),
		}

		args, _, _, err := f.build(cfg)
		if err != nil {
			t.Fatalf("build() error: %v", err)
		}

		if len(args.SharedStores) != 1 || args.SharedStores[0] != "/opt/store" {
			t.Errorf("SharedStores = %v", args.SharedStores)
		}
		if args.GlobalFallbackCache != "/var/cache/cradle" {
			t.Errorf("GlobalFallbackCache = %q", args.GlobalFallbackCache)
		}
		if args.AdditionalDepsList != "/extra/more.deps.cue" {
			t.Errorf("AdditionalDepsList = %q", args.AdditionalDepsList)
		}
	})

	t.Run("flags override config", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		cfg := config.DefaultConfig()
		cfg.SharedStores = []string{"/opt/config-store"}

		f := launchFlags{
			appRoot:      dir,
			hostMode:     string(launch.HostModeApp),
			sharedStores: []string{"/opt/flag-store"},
		}

		args, _, _, err := f.build(cfg)
		if err != nil {
			t.Fatalf("build() error: %v", err)
		}

		if len(args.SharedStores) != 1 || args.SharedStores[0] != "/opt/flag-store" {
			t.Errorf("SharedStores = %v, want flag value only", args.SharedStores)
		}
	})

	t.Run("invalid host mode is rejected", func(t *testing.T) {
		t.Parallel()
		f := launchFlags{
			appRoot:  t.TempDir(),
			hostMode: "daemon",
		}

		_, _, _, err := f.build(config.DefaultConfig())
		if !errors.Is(err, launch.ErrInvalidHostMode) {
			t.Fatalf("build() error = %v, want ErrInvalidHostMode", err)
		}
	})

	t.Run("invalid probe order is rejected", func(t *testing.T) {
		t.Parallel()
		f := launchFlags{
			appRoot:    t.TempDir(),
			hostMode:   string(launch.HostModeApp),
			probeOrder: []string{"own_directory"},
		}

		_, _, _, err := f.build(config.DefaultConfig())
		if !errors.Is(err, resolver.ErrInvalidProbeSource) {
			t.Fatalf("build() error = %v, want ErrInvalidProbeSource", err)
		}
	})
}
