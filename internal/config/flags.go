package config

import "flag"

// Flags are the command-line overrides. Zero values leave the config alone.
type Flags struct {
	Config     string
	Debug      bool
	Objects    string
	Resources  string
	Model      string
	Windowed   bool
	Fullscreen bool
	Width      int
	Height     int
	Async      bool
}

// RegisterFlags defines the standard flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Objects, "objects", "", "Directory listed for .obj models")
	fs.StringVar(&f.Resources, "resources", "", "Resource directory (shader overrides)")
	fs.StringVar(&f.Model, "model", "", "Model to open first")
	fs.BoolVar(&f.Windowed, "windowed", false, "Run in windowed mode")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.BoolVar(&f.Async, "async", false, "Load models in the background")
	return f
}

var cliFlags = RegisterFlags(flag.CommandLine)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return cliFlags.Config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Objects != "" {
		cfg.Viewer.ObjectsDir = f.Objects
	}
	if f.Resources != "" {
		cfg.Viewer.ResourcesDir = f.Resources
	}
	if f.Model != "" {
		cfg.Viewer.DefaultModel = f.Model
	}
	if f.Windowed {
		cfg.Window.Fullscreen = false
	}
	if f.Fullscreen {
		cfg.Window.Fullscreen = true
	}
	if f.Width > 0 {
		cfg.Window.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Window.Height = f.Height
	}
	if f.Async {
		cfg.Viewer.AsyncLoad = true
	}
}
