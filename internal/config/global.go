// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride allows tests to override the config directory.
// This is necessary because os.UserHomeDir() doesn't reliably respect
// the HOME environment variable on all platforms (e.g., macOS in CI).
var configDirOverride string

// configFilePathOverride is set from the --config flag and takes
// precedence over directory-based lookup.
var configFilePathOverride string

// Reset clears overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
	configFilePathOverride = ""
}

// SetConfigDirOverride sets a custom config directory path.
// Primarily intended for testing, to bypass os.UserHomeDir().
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride sets an explicit config file path, bypassing
// directory-based lookup entirely.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}

// Load loads the host configuration. Precedence: defaults, then the
// config file, then CRADLE_* environment variables.
func Load() (*Config, error) {
	cfg, _, err := load()
	return cfg, err
}

// LoadWithPath loads the host configuration and also reports which config
// file (if any) supplied it.
func LoadWithPath() (*Config, string, error) {
	return load()
}
