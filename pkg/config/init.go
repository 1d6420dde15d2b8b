package config

import (
	"time"

	"github.com/spf13/viper"
)

// Settings holds all configuration values
type Settings struct {
	// Provider configuration
	Provider string

	// Ollama configuration
	Ollama struct {
		DefaultModel string
		Timeout      int
		Host         string
	}

	// Logging configuration
	Logging struct {
		File    string
		Persist bool
		Level   string
	}

	// Reveal configuration controls step pacing while streaming
	Reveal struct {
		MinStepMillis    int
		MinReadingMillis int
		Expanded         bool
	}

	// Replay configuration for capture playback
	Replay struct {
		Path        string
		DelayMillis int
	}

	// ConfigFile stores the path to the config file used
	ConfigFile string
}

// Global settings instance
var Global *Settings

// Init initializes the configuration system
func Init(cfgFile string) error {
	Global = &Settings{}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		Global.ConfigFile = cfgFile
	} else {
		viper.AddConfigPath("./.fathom")
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
		Global.ConfigFile = ".fathom/settings.yaml"
	}

	setDefaults()

	viper.AutomaticEnv()
	viper.BindEnv("ollama.host", "OLLAMA_HOST")
	viper.BindEnv("ollama.default_model", "OLLAMA_DEFAULT_MODEL")

	// Config file is optional; defaults cover everything
	_ = viper.ReadInConfig()

	return Load()
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("provider", "ollama")

	viper.SetDefault("ollama.default_model", "qwen3:latest")
	viper.SetDefault("ollama.timeout", 90)
	viper.SetDefault("ollama.host", "http://localhost:11434")

	viper.SetDefault("logging.log_file", "system.log")
	viper.SetDefault("logging.persist", false)
	viper.SetDefault("logging.level", "info")

	viper.SetDefault("reveal.min_step_millis", 1000)
	viper.SetDefault("reveal.min_reading_millis", 1000)
	viper.SetDefault("reveal.expanded", false)

	viper.SetDefault("replay.path", "")
	viper.SetDefault("replay.delay_millis", 0)
}

// Load loads configuration from viper into the Settings struct
func Load() error {
	Global.Provider = viper.GetString("provider")

	Global.Ollama.DefaultModel = viper.GetString("ollama.default_model")
	Global.Ollama.Timeout = viper.GetInt("ollama.timeout")
	Global.Ollama.Host = viper.GetString("ollama.host")

	Global.Logging.File = viper.GetString("logging.log_file")
	Global.Logging.Persist = viper.GetBool("logging.persist")
	Global.Logging.Level = viper.GetString("logging.level")

	Global.Reveal.MinStepMillis = viper.GetInt("reveal.min_step_millis")
	Global.Reveal.MinReadingMillis = viper.GetInt("reveal.min_reading_millis")
	Global.Reveal.Expanded = viper.GetBool("reveal.expanded")

	Global.Replay.Path = viper.GetString("replay.path")
	Global.Replay.DelayMillis = viper.GetInt("replay.delay_millis")

	return nil
}

// Get returns the global settings, initializing an empty instance if the
// config system has not been set up (tests, library use).
func Get() *Settings {
	if Global == nil {
		Global = &Settings{}
		setDefaults()
		_ = Load()
	}
	return Global
}

// MinStepDuration returns the minimum on-screen duration for a revealed
// step.
func (s *Settings) MinStepDuration() time.Duration {
	return time.Duration(s.Reveal.MinStepMillis) * time.Millisecond
}

// MinReadingDuration returns the minimum on-screen duration for the
// reading phase of a split search step.
func (s *Settings) MinReadingDuration() time.Duration {
	return time.Duration(s.Reveal.MinReadingMillis) * time.Millisecond
}

// ReplayDelay returns the delay between replayed packets.
func (s *Settings) ReplayDelay() time.Duration {
	return time.Duration(s.Replay.DelayMillis) * time.Millisecond
}
