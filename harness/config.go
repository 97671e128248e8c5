package harness

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joeycumines/logiface"
)

// Config is the file form of the harness options, e.g.
//
//	[looper]
//	paused = true
//
//	[log]
//	level = "debug"
//
//	[manifest]
//	path = "AndroidManifest.xml"
//
//	[application]
//	package = "com.example"
type Config struct {
	Looper      LooperConfig      `toml:"looper"`
	Log         LogConfig         `toml:"log"`
	Manifest    ManifestConfig    `toml:"manifest"`
	Application ApplicationConfig `toml:"application"`
}

// LooperConfig configures the main looper.
type LooperConfig struct {
	// Paused starts the looper paused.
	Paused bool `toml:"paused"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is a logiface level name, e.g. "info" or "debug". Empty or
	// "disabled" disables logging.
	Level string `toml:"level"`
}

// ManifestConfig locates the AndroidManifest.xml.
type ManifestConfig struct {
	// Path is resolved relative to the config file, when loaded from one.
	Path string `toml:"path"`
}

// ApplicationConfig configures the application.
type ApplicationConfig struct {
	Package string `toml:"package"`
}

// levelAliases maps alternate spellings onto logiface level names.
var levelAliases = map[string]logiface.Level{
	`error`:       logiface.LevelError,
	`warn`:        logiface.LevelWarning,
	`information`: logiface.LevelInformational,
	`critical`:    logiface.LevelCritical,
	`emergency`:   logiface.LevelEmergency,
}

// LoadConfig reads and validates the TOML config file at path.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("harness: config %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, fmt.Errorf("harness: config %s: %w", path, err)
	}
	if cfg.Manifest.Path != "" && !filepath.IsAbs(cfg.Manifest.Path) {
		cfg.Manifest.Path = filepath.Join(filepath.Dir(path), cfg.Manifest.Path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("harness: config %s: %w", path, err)
	}
	return &cfg, nil
}

// ParseConfig decodes and validates a TOML config document.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("harness: config: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, fmt.Errorf("harness: config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("harness: config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if strings.ContainsAny(c.Application.Package, " \t\n/") {
		return fmt.Errorf("invalid application package %q", c.Application.Package)
	}
	return nil
}

// Options converts the config to harness options. Logs, if enabled, are
// written to logOutput as JSON.
func (c *Config) Options(logOutput io.Writer) ([]Option, error) {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithPausedLooper(c.Looper.Paused)}
	if level.Enabled() && logOutput != nil {
		opts = append(opts, WithLogger(NewLogger(logOutput, level)))
	}
	if c.Application.Package != "" {
		opts = append(opts, WithPackageName(c.Application.Package))
	}
	if c.Manifest.Path != "" {
		opts = append(opts, WithManifest(c.Manifest.Path))
	}
	return opts, nil
}

// ParseLevel parses a level name, as returned by logiface.Level.String, or
// one of a few common aliases. The empty string is LevelDisabled.
func ParseLevel(s string) (logiface.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return logiface.LevelDisabled, nil
	}
	if level, ok := levelAliases[s]; ok {
		return level, nil
	}
	for level := logiface.LevelDisabled; level <= logiface.LevelTrace; level++ {
		if level.String() == s {
			return level, nil
		}
	}
	return logiface.LevelDisabled, fmt.Errorf("invalid log level %q", s)
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, 0, len(undecoded))
	for _, k := range undecoded {
		keys = append(keys, k.String())
	}
	slices.Sort(keys)
	return errors.New("unknown keys: " + strings.Join(keys, ", "))
}
