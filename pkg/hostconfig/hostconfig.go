// Package hostconfig defines the host's runtime configuration and wires
// it to both viper (config file/env) and cobra persistent flags, the way
// the teacher corpus binds CLI settings.
package hostconfig

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Settings is the full set of tunables the daemon and CLI read.
type Settings struct {
	SampleRate       float64
	BufferFrames     int
	CatalogPaths     []string
	LogLevel         string
	LogFilePath      string
	MetricsAddr      string
	DefaultInputBus  int32
	DefaultOutputBus int32
}

// Defaults returns the baseline Settings before flags/env are applied.
func Defaults() *Settings {
	return &Settings{
		SampleRate:       48000,
		BufferFrames:     256,
		LogLevel:         "info",
		MetricsAddr:      ":9090",
		DefaultInputBus:  2,
		DefaultOutputBus: 2,
	}
}

// BindFlags registers persistent flags on cmd and binds them through
// viper, so config file, environment, and flag values all resolve
// through the same Settings struct.
func BindFlags(cmd *cobra.Command, s *Settings) error {
	cmd.PersistentFlags().Float64Var(&s.SampleRate, "sample-rate", viper.GetFloat64("sample_rate"), "audio sample rate in Hz")
	cmd.PersistentFlags().IntVar(&s.BufferFrames, "buffer-frames", viper.GetInt("buffer_frames"), "process block size in frames")
	cmd.PersistentFlags().StringSliceVar(&s.CatalogPaths, "catalog-path", viper.GetStringSlice("catalog_paths"), "plugin catalog search paths")
	cmd.PersistentFlags().StringVar(&s.LogLevel, "log-level", viper.GetString("log_level"), "log level: trace, debug, info, warn, error, fatal")
	cmd.PersistentFlags().StringVar(&s.LogFilePath, "log-file", viper.GetString("log_file"), "rotating log file path, empty for stderr")
	cmd.PersistentFlags().StringVar(&s.MetricsAddr, "metrics-addr", viper.GetString("metrics_addr"), "Prometheus metrics listen address")

	if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	return nil
}

// Load reads a config file (if present) into viper ahead of BindFlags,
// following the convention that flags override file values which
// override Defaults.
func Load(configPath string) error {
	if configPath == "" {
		return nil
	}
	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", configPath, err)
	}
	return nil
}
