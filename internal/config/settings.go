package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. WEALTHSIM_WORKERS.
const EnvPrefix = "WEALTHSIM"

// Settings are the application level knobs that are not part of a scenario.
type Settings struct {
	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// Workers bounds the number of trajectories simulated in parallel.
	Workers int `mapstructure:"workers"`
	// OutputDir receives report files.
	OutputDir string `mapstructure:"output_dir"`
	// Format is the default report format.
	Format string `mapstructure:"format"`
	// Simulations overrides n_simulations when positive.
	Simulations int `mapstructure:"simulations"`
	// DataDir holds historical CSV series for calibration.
	DataDir string `mapstructure:"data_dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("output_dir", ".")
	v.SetDefault("format", "console")
	v.SetDefault("simulations", 0)
	v.SetDefault("data_dir", "")
}

// LoadSettings reads settings from an optional file, then the environment.
// An empty path searches for wealthsim.yaml in the working directory.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("wealthsim")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if s.Workers < 1 {
		s.Workers = 1
	}
	if s.Simulations < 0 {
		return nil, fmt.Errorf("simulations cannot be negative, got %d", s.Simulations)
	}
	return &s, nil
}
