package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// ClientConfig holds the connection settings for the wallet daemon.
type ClientConfig struct {
	// DaemonAddress accepts unix:///path/to/socket.sock or tcp://host:port.
	DaemonAddress string `yaml:"daemon_address"`
	// AuthTokenName is the keyring entry holding the token for TCP daemons.
	AuthTokenName string `yaml:"auth_token_name,omitempty"`
}

func DefaultClientConfig() ClientConfig {
	socketPath, err := GetDefaultSocketPath()
	if err != nil {
		socketPath = filepath.Join(os.TempDir(), "parity-daemon.sock")
	}
	return ClientConfig{
		DaemonAddress: "unix://" + socketPath,
	}
}

func LoadClientConfig() (ClientConfig, error) {
	configFile, err := GetClientConfigFile()
	if err != nil {
		return ClientConfig{}, err
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("read client config: %w", err)
	}

	var cfg ClientConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("parse client config: %w", err)
	}

	if cfg.DaemonAddress == "" {
		cfg.DaemonAddress = DefaultClientConfig().DaemonAddress
	}

	return cfg, nil
}

func SaveClientConfig(cfg ClientConfig) error {
	configFile, err := GetClientConfigFile()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode client config: %w", err)
	}

	return os.WriteFile(configFile, data, 0644)
}

// EnsureClientConfigExists writes a commented default config on first use.
func EnsureClientConfigExists() error {
	configFile, err := GetClientConfigFile()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		cfg := DefaultClientConfig()
		defaultConfig := fmt.Sprintf(`# Wallet daemon connection.
# Accepted forms:
#   unix:///path/to/socket.sock
#   tcp://hostname:port   (requires an auth token in the system keyring)
daemon_address: %q

# Keyring entry name for the TCP auth token. Leave empty for unix sockets.
# auth_token_name: "daemon-auth-token"
`, cfg.DaemonAddress)

		if err := os.WriteFile(configFile, []byte(defaultConfig), 0644); err != nil {
			return err
		}
	}

	return nil
}

// WatchClientConfig reloads the client config whenever the file changes and
// passes the result to onChange. It blocks until ctx is done.
func WatchClientConfig(ctx context.Context, onChange func(ClientConfig)) error {
	configFile, err := GetClientConfigFile()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file so editors that replace the
	// file (rename + create) keep being observed.
	if err := watcher.Add(filepath.Dir(configFile)); err != nil {
		return fmt.Errorf("watch config directory: %w", err)
	}

	var lastModTime time.Time
	if stat, err := os.Stat(configFile); err == nil {
		lastModTime = stat.ModTime()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(configFile) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			stat, err := os.Stat(configFile)
			if err != nil {
				continue
			}
			if !stat.ModTime().After(lastModTime) {
				continue
			}
			lastModTime = stat.ModTime()

			// Let the writer finish before reading.
			time.Sleep(100 * time.Millisecond)

			cfg, err := LoadClientConfig()
			if err != nil {
				log.Printf("Error reloading client config: %v", err)
				continue
			}
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Config watcher error: %v", err)
		}
	}
}
