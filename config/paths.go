package config

import (
	"os"
	"path/filepath"
)

const AppName = "parityshell"

func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".config", AppName)

	// Ensure the directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return configDir, nil
}

func GetClientConfigFile() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "client.yaml"), nil
}

// GetSettingsDBPath returns the path of the local settings database.
func GetSettingsDBPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "settings.db"), nil
}

// GetDefaultSocketPath returns the wallet daemon's default IPC socket.
func GetDefaultSocketPath() (string, error) {
	return filepath.Join(os.TempDir(), "parity-daemon.sock"), nil
}
