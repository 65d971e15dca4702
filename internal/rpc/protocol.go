package rpc

import (
	"encoding/json"
	"fmt"
)

// Methods exposed by the wallet daemon that this client consumes.
const (
	MethodListVaults      = "parity_listVaults"
	MethodAllAccountsInfo = "parity_allAccountsInfo"
)

type request struct {
	Version string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type response struct {
	Version string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object returned by the daemon.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("daemon error %d: %s", e.Code, e.Message)
}

// AccountInfo describes one address known to the daemon. UUID is set only
// for locally-managed accounts; externally-tracked addresses leave it empty.
type AccountInfo struct {
	Name string         `json:"name,omitempty"`
	UUID string         `json:"uuid,omitempty"`
	Meta map[string]any `json:"meta,omitempty"`
}
