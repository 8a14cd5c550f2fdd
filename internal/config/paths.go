package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the user-level config file path, following the XDG
// Base Directory Specification (~/.config/forgebee/config.yml on Linux).
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "forgebee", "config.yml"), nil
}

// ProjectConfigPath returns the project-level config file path, relative to
// the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".forgebee", "config.yml")
}

// ProjectConfigDir returns the project-level config directory.
func ProjectConfigDir() string {
	return ".forgebee"
}

// LegacyProjectConfigPath returns the deprecated JSON project config path.
func LegacyProjectConfigPath() string {
	return filepath.Join(".forgebee", "config.json")
}
