package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags, using the
// process command line.
func Load() (*Config, error) {
	return LoadWith(cliFlags)
}

// LoadWith is Load with an explicit flag set.
func LoadWith(f *Flags) (*Config, error) {
	cfg := Default()

	configPath := f.Config
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	f.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Render = cfg.Render.Clamp()
	return cfg, nil
}

// Validate rejects settings the viewer cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Viewer.ObjectsDir == "" {
		errs = append(errs, errors.New("objects_dir is empty"))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip range [%g, %g] is invalid", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %g is outside (0, 180)", c.Camera.FovDegrees))
	}
	if c.Camera.Up.Len() == 0 {
		errs = append(errs, errors.New("camera up vector is zero"))
	}
	return errors.Join(errs...)
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "celview")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "celview")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "celview")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "celview")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
