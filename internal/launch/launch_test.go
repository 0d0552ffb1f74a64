// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"errors"
	"path/filepath"
	"testing"

	"cradle-host/pkg/types"
)

func TestHostMode_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode HostMode
		want bool
	}{
		{"apphost", HostModeApp, true},
		{"libhost", HostModeLib, true},
		{"muxer", HostModeMuxer, true},
		{"empty is invalid", HostMode(""), false},
		{"unknown is invalid", HostMode("daemon"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, errs := tt.mode.IsValid()
			if ok != tt.want {
				t.Errorf("HostMode(%q).IsValid() = %v, want %v", tt.mode, ok, tt.want)
			}
			if !tt.want {
				if len(errs) == 0 {
					t.Fatal("IsValid() returned no errors for an invalid mode")
				}
				if !errors.Is(errs[0], ErrInvalidHostMode) {
					t.Errorf("error should wrap ErrInvalidHostMode, got: %v", errs[0])
				}
			}
		})
	}
}

func TestArgs_Validate(t *testing.T) {
	t.Parallel()

	appRoot := types.FilesystemPath(t.TempDir())

	tests := []struct {
		name    string
		args    Args
		wantErr bool
	}{
		{
			name: "minimal apphost",
			args: Args{AppRoot: appRoot, HostMode: HostModeApp},
		},
		{
			name: "libhost needs no app root",
			args: Args{HostMode: HostModeLib},
		},
		{
			name:    "apphost without app root",
			args:    Args{HostMode: HostModeApp},
			wantErr: true,
		},
		{
			name:    "invalid host mode",
			args:    Args{AppRoot: appRoot, HostMode: HostMode("daemon")},
			wantErr: true,
		},
		{
			name: "framework without name",
			args: Args{
				AppRoot:    appRoot,
				HostMode:   HostModeApp,
				Frameworks: []FrameworkReference{{Name: " ", Dir: "/fx"}},
			},
			wantErr: true,
		},
		{
			name: "framework without dir",
			args: Args{
				AppRoot:    appRoot,
				HostMode:   HostModeApp,
				Frameworks: []FrameworkReference{{Name: "Base.App", Dir: ""}},
			},
			wantErr: true,
		},
		{
			name: "complete framework-dependent args",
			args: Args{
				AppRoot:  appRoot,
				HostMode: HostModeApp,
				Frameworks: []FrameworkReference{
					{Name: "Base.App", Dir: types.FilesystemPath("/usr/share/base/1.0")},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.args.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestArgs_Validate_MissingAppRoot(t *testing.T) {
	t.Parallel()

	missing := types.FilesystemPath(filepath.Join(t.TempDir(), "gone"))

	args := Args{AppRoot: missing, HostMode: HostModeApp}
	err := args.Validate()
	if !errors.Is(err, ErrInvalidAppRoot) {
		t.Fatalf("Validate() = %v, want ErrInvalidAppRoot", err)
	}

	var ar *InvalidAppRootError
	if !errors.As(err, &ar) {
		t.Fatalf("error type = %T", err)
	}
	if ar.Path != missing {
		t.Errorf("path = %q, want %q", ar.Path, missing)
	}

	// Libhost mode never derives an application directory, so an unset
	// root stays acceptable there.
	lib := Args{HostMode: HostModeLib}
	if err := lib.Validate(); err != nil {
		t.Errorf("libhost Validate() = %v, want nil", err)
	}
}

func TestArgs_IsFrameworkDependent(t *testing.T) {
	t.Parallel()

	selfContained := Args{AppRoot: "/app", HostMode: HostModeApp}
	if selfContained.IsFrameworkDependent() {
		t.Error("IsFrameworkDependent() = true without frameworks")
	}

	layered := Args{
		AppRoot:    "/app",
		HostMode:   HostModeApp,
		Frameworks: []FrameworkReference{{Name: "Base.App", Dir: "/fx"}},
	}
	if !layered.IsFrameworkDependent() {
		t.Error("IsFrameworkDependent() = false with a framework layer")
	}
}
