package cli

import (
	"errors"
	"fmt"
	"strings"

	"parityshell/config"
	"parityshell/internal/credentials"
	"parityshell/internal/rpc"
	"parityshell/internal/settings"
)

// OpenSettings opens the local settings database at its default location.
func OpenSettings() (settings.Store, error) {
	dbPath, err := config.GetSettingsDBPath()
	if err != nil {
		return nil, err
	}
	return settings.Open(dbPath)
}

// ConnectDaemon dials the wallet daemon named by the client config. For TCP
// daemons the auth token is pulled from the system keyring.
func ConnectDaemon() (*rpc.Client, error) {
	if err := config.EnsureClientConfigExists(); err != nil {
		return nil, err
	}

	cfg, err := config.LoadClientConfig()
	if err != nil {
		return nil, err
	}

	return connectWith(cfg)
}

func connectWith(cfg config.ClientConfig) (*rpc.Client, error) {
	var token string
	if strings.HasPrefix(cfg.DaemonAddress, "tcp://") {
		var err error
		token, err = credentials.GetDaemonToken(cfg.AuthTokenName)
		if err != nil {
			if errors.Is(err, credentials.ErrNotFound) {
				return nil, fmt.Errorf("no auth token stored; run 'pshell token set' first")
			}
			return nil, err
		}
	}

	return rpc.NewClientWithAuth(cfg.DaemonAddress, token)
}
