package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func withTempHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestEnsureClientConfigExists(t *testing.T) {
	withTempHome(t)

	if err := EnsureClientConfigExists(); err != nil {
		t.Fatalf("EnsureClientConfigExists failed: %v", err)
	}

	cfg, err := LoadClientConfig()
	if err != nil {
		t.Fatalf("LoadClientConfig failed: %v", err)
	}
	if cfg.DaemonAddress == "" {
		t.Error("Expected default daemon address in generated config")
	}

	// Running again must not overwrite an existing file.
	cfg.DaemonAddress = "tcp://example:8545"
	if err := SaveClientConfig(cfg); err != nil {
		t.Fatalf("SaveClientConfig failed: %v", err)
	}
	if err := EnsureClientConfigExists(); err != nil {
		t.Fatalf("EnsureClientConfigExists failed: %v", err)
	}

	reloaded, err := LoadClientConfig()
	if err != nil {
		t.Fatalf("LoadClientConfig failed: %v", err)
	}
	if reloaded.DaemonAddress != "tcp://example:8545" {
		t.Errorf("Expected saved address to survive, got %q", reloaded.DaemonAddress)
	}
}

func TestLoadClientConfigDefaultsAddress(t *testing.T) {
	withTempHome(t)

	configFile, err := GetClientConfigFile()
	if err != nil {
		t.Fatalf("GetClientConfigFile failed: %v", err)
	}
	if err := os.WriteFile(configFile, []byte("auth_token_name: my-token\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadClientConfig()
	if err != nil {
		t.Fatalf("LoadClientConfig failed: %v", err)
	}
	if cfg.DaemonAddress != DefaultClientConfig().DaemonAddress {
		t.Errorf("Expected default address, got %q", cfg.DaemonAddress)
	}
	if cfg.AuthTokenName != "my-token" {
		t.Errorf("Expected auth token name to load, got %q", cfg.AuthTokenName)
	}
}

func TestWatchClientConfig(t *testing.T) {
	withTempHome(t)

	if err := EnsureClientConfigExists(); err != nil {
		t.Fatalf("EnsureClientConfigExists failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan ClientConfig, 1)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- WatchClientConfig(ctx, func(cfg ClientConfig) {
			select {
			case changes <- cfg:
			default:
			}
		})
	}()

	// Give the watcher time to register before mutating the file.
	time.Sleep(200 * time.Millisecond)

	if err := SaveClientConfig(ClientConfig{DaemonAddress: "tcp://example:8545"}); err != nil {
		t.Fatalf("SaveClientConfig failed: %v", err)
	}

	select {
	case cfg := <-changes:
		if cfg.DaemonAddress != "tcp://example:8545" {
			t.Errorf("Expected reloaded address, got %q", cfg.DaemonAddress)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watcher did not report the config change")
	}

	cancel()
	if err := <-watchErr; err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
