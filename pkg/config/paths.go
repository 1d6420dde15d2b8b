package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// BaseSettingsDir returns the directory holding the active config file.
// Log files and captures default to living next to it.
func BaseSettingsDir() string {
	if configPath := viper.GetString("config.path"); configPath != "" {
		return configPath
	}

	return filepath.Dir(viper.ConfigFileUsed())
}

// BuildSettingsPath resolves a file name relative to the settings
// directory.
func BuildSettingsPath(target string) string {
	return filepath.Join(BaseSettingsDir(), target)
}
