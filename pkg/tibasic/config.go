package tibasic

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config models the tibasic.yaml configuration file.
type Config struct {
	// Path is the absolute path the configuration was read from, if any.
	Path string `yaml:"-"`

	Interactive InteractiveConfig `yaml:"interactive"`
	Log         LogConfig         `yaml:"log"`
	Debug       DebugFlags        `yaml:"debug"`
	// Programs maps program names to source files loaded at start-up.
	// Relative paths resolve against the configuration file's directory.
	Programs map[string]string `yaml:"programs"`
}

// InteractiveConfig configures the interactive console.
type InteractiveConfig struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	Color       bool   `yaml:"color"`
}

// LogConfig configures diagnostics logging.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DebugFlags is the on-disk form of DebugConfig.
type DebugFlags struct {
	Lex        bool `yaml:"lex"`
	Preprocess bool `yaml:"preprocess"`
	Parse      bool `yaml:"parse"`
	Dump       bool `yaml:"dump"`
}

// DebugConfig converts the flags for use by a Calculator.
func (d DebugFlags) DebugConfig() DebugConfig {
	return DebugConfig{
		Lex:        d.Lex,
		Preprocess: d.Preprocess,
		Parse:      d.Parse,
		Dump:       d.Dump,
	}
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Interactive: InteractiveConfig{
			Prompt: "> ",
			Color:  true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Programs: map[string]string{},
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return cfg, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return cfg, err
	}
	defer file.Close()

	if err := cfg.decode(file); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.Path = abs
	return cfg, cfg.Validate()
}

func (cfg *Config) decode(r io.Reader) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if cfg.Programs == nil {
		cfg.Programs = map[string]string{}
	}
	return nil
}

// Validate checks the log level and the names of preloaded programs.
func (cfg Config) Validate() error {
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("config: log level %q: %w", cfg.Log.Level, err)
	}
	for name, source := range cfg.Programs {
		if err := ValidateProgramName(name); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if strings.TrimSpace(source) == "" {
			return fmt.Errorf("config: program %s has no source file", name)
		}
	}
	return nil
}

// LoadPrograms loads every configured program into calc, in name order.
func (cfg Config) LoadPrograms(calc *Calculator) error {
	names := make([]string, 0, len(cfg.Programs))
	for name := range cfg.Programs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		source := cfg.Programs[name]
		if !filepath.IsAbs(source) && cfg.Path != "" {
			source = filepath.Join(filepath.Dir(cfg.Path), source)
		}
		text, err := os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("config: program %s: %w", name, err)
		}
		if err := calc.LoadProgram(name, string(text)); err != nil {
			return fmt.Errorf("config: program %s: %w", name, err)
		}
	}
	return nil
}
