package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CORPUSPLAN_LOG_LEVEL.
const EnvPrefix = "CORPUSPLAN"

// Settings holds the runtime configuration of the tools. Plan inputs live
// in plan files, not here.
type Settings struct {
	Simulation SimulationSettings `mapstructure:"simulation"`
	Log        LogSettings        `mapstructure:"log"`
	Server     ServerSettings     `mapstructure:"server"`
	Report     ReportSettings     `mapstructure:"report"`
}

// SimulationSettings configures the Monte Carlo engine.
type SimulationSettings struct {
	Seed             uint64 `mapstructure:"seed"`
	Workers          int    `mapstructure:"workers"` // 0 means GOMAXPROCS
	ProgressInterval int    `mapstructure:"progress_interval"`
}

// LogSettings configures the zerolog sinks.
type LogSettings struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"` // empty disables the file sink
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ReportSettings configures report export.
type ReportSettings struct {
	Dir string `mapstructure:"dir"`
}

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "corpusplan")
	}
	return filepath.Join(home, ".config", "corpusplan")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.seed", uint64(20240917))
	v.SetDefault("simulation.workers", 0)
	v.SetDefault("simulation.progress_interval", 500)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("report.dir", ".")
}

// LoadSettings reads corpusplan.yaml from the working directory or the
// per-user config directory, then applies CORPUSPLAN_* environment
// overrides. A .env file in the working directory is loaded first. An
// explicit file must exist; a missing default file is not an error.
func LoadSettings(file string) (*Settings, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("corpusplan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validating settings: %w", err)
	}
	return &s, nil
}

// Validate checks the settings values.
func (s *Settings) Validate() error {
	var problems []string
	if s.Simulation.Workers < 0 {
		problems = append(problems, "simulation.workers cannot be negative")
	}
	if s.Simulation.ProgressInterval <= 0 {
		problems = append(problems, "simulation.progress_interval must be positive")
	}
	switch strings.ToLower(s.Log.Level) {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not a known level", s.Log.Level))
	}
	if s.Log.MaxSizeMB <= 0 {
		problems = append(problems, "log.max_size_mb must be positive")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
