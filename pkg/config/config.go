package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"

	"github.com/jungletek/vms-storage-calc/pkg/estimator"
)

const (
	ProgramName       = "vms-storage-calc"
	Version           = "vms-storage-calc 1.2.0"
	DefaultConfigFile = "config.json"
	DefaultEnvFile    = ".env"
	DefaultDays       = 30
	DefaultLogLevel   = "warn"
)

// ErrHelp is returned when -h/--help was requested
var ErrHelp = arg.ErrHelp

// ErrVersion is returned when --version was requested
var ErrVersion = arg.ErrVersion

// ConfigError represents configuration errors
type ConfigError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("config error: %s (field: %s, value: %v)", e.Message, e.Field, e.Value)
}

// Config represents the application configuration
type Config struct {
	ReferenceFPS   float64   `json:"referenceFps"`
	DefaultDays    float64   `json:"defaultDays"`
	TableBitrates  []float64 `json:"tableBitrates"`
	TableDurations []float64 `json:"tableDurations"`
	LogLevel       string    `json:"logLevel"`
	OutPath        string    `json:"outPath"`
	JSON           bool      `json:"json"`

	Args   *Args `json:"-"`
	parser *arg.Parser
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		ReferenceFPS: estimator.DefaultReferenceFPS,
		DefaultDays:  DefaultDays,
		LogLevel:     DefaultLogLevel,
	}
}

// ParseCfg builds the configuration from .env, config.json and argv (without the program name).
// Precedence is flags, then environment, then config.json, then defaults.
func ParseCfg(argv []string) (*Config, error) {
	if err := loadEnv(DefaultEnvFile); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", DefaultEnvFile, err)
	}

	var args Args
	parser, err := arg.NewParser(arg.Config{Program: ProgramName}, &args)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	cfg.Args = &args
	cfg.parser = parser

	if err := parser.Parse(argv); err != nil {
		if errors.Is(err, arg.ErrHelp) || errors.Is(err, arg.ErrVersion) {
			return cfg, err
		}
		return nil, err
	}

	path, required := args.ConfigPath, true
	if path == "" {
		path, required = DefaultConfigFile, false
	}
	if err := readConfig(path, required, cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyArgs(cfg, &args)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges of configured values
func (c *Config) Validate() error {
	if !positive(c.ReferenceFPS) {
		return ConfigError{Field: "referenceFps", Value: c.ReferenceFPS, Message: "reference fps must be a positive number"}
	}
	if !positive(c.DefaultDays) {
		return ConfigError{Field: "defaultDays", Value: c.DefaultDays, Message: "default days must be a positive number"}
	}
	for _, b := range c.TableBitrates {
		if !positive(b) {
			return ConfigError{Field: "tableBitrates", Value: b, Message: "table bitrates must be positive"}
		}
	}
	for _, d := range c.TableDurations {
		if !positive(d) {
			return ConfigError{Field: "tableDurations", Value: d, Message: "table durations must be positive"}
		}
	}
	return nil
}

// Subcommand returns the selected subcommand struct, or nil
func (c *Config) Subcommand() interface{} {
	if c.parser == nil {
		return nil
	}
	return c.parser.Subcommand()
}

// WriteHelp prints usage for the selected subcommand
func (c *Config) WriteHelp(w io.Writer) {
	if c.parser != nil {
		c.parser.WriteHelp(w)
	}
}

// readConfig merges a JSON config file into cfg. A missing optional file is not an error.
func readConfig(path string, required bool, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	return json.Unmarshal(data, cfg)
}

// loadEnv loads KEY=value pairs without overriding variables already set
func loadEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func applyArgs(cfg *Config, args *Args) {
	if args.ReferenceFPS != nil {
		cfg.ReferenceFPS = *args.ReferenceFPS
	}
	if args.LogLevel != "" {
		cfg.LogLevel = args.LogLevel
	}
	if args.OutPath != "" {
		cfg.OutPath = args.OutPath
	}
	if args.JSON {
		cfg.JSON = true
	}
}

// RequirePositive returns a ConfigError unless v is a finite number greater than zero
func RequirePositive(field string, v float64) error {
	if !positive(v) {
		return ConfigError{Field: field, Value: v, Message: field + " must be a positive number"}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
