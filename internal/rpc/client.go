package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultCallTimeout = 10 * time.Second

// AccountClient is the slice of the daemon API consumed by first-run state.
type AccountClient interface {
	ListVaults(ctx context.Context) ([]string, error)
	AllAccountsInfo(ctx context.Context) (map[string]AccountInfo, error)
}

// Client speaks newline-delimited JSON-RPC to the wallet daemon.
type Client struct {
	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Scanner
}

// NewClient connects to the wallet daemon via Unix socket or TCP.
// address formats:
//   - unix:///path/to/socket.sock
//   - tcp://hostname:port
//   - /path/to/socket.sock (legacy, assumes unix socket)
func NewClient(address string) (*Client, error) {
	return NewClientWithAuth(address, "")
}

// NewClientWithAuth connects with optional authentication. TCP daemons
// require a token handshake before accepting calls.
func NewClientWithAuth(address, authToken string) (*Client, error) {
	var network, addr string

	switch {
	case strings.HasPrefix(address, "unix://"):
		network = "unix"
		addr = strings.TrimPrefix(address, "unix://")
	case strings.HasPrefix(address, "tcp://"):
		network = "tcp"
		addr = strings.TrimPrefix(address, "tcp://")
	default:
		// Legacy format - assume unix socket
		network = "unix"
		addr = address
	}

	conn, err := net.DialTimeout(network, addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}

	if network == "tcp" {
		if err := performAuthHandshake(conn, authToken); err != nil {
			conn.Close()
			return nil, fmt.Errorf("authentication failed: %w", err)
		}
	}

	return newClientConn(conn), nil
}

func newClientConn(conn net.Conn) *Client {
	reader := bufio.NewScanner(conn)

	// Account listings can be large; raise the line limit to 1MB.
	buf := make([]byte, 0, 64*1024)
	reader.Buffer(buf, 1024*1024)

	return &Client{conn: conn, reader: reader}
}

// performAuthHandshake sends the auth token and waits for confirmation
func performAuthHandshake(conn net.Conn, token string) error {
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	defer conn.SetDeadline(time.Time{})

	authMsg := fmt.Sprintf("AUTH %s\n", token)
	if _, err := conn.Write([]byte(authMsg)); err != nil {
		return fmt.Errorf("failed to send auth token: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read auth response: %w", err)
		}
		return fmt.Errorf("no auth response from daemon")
	}

	reply := strings.TrimSpace(scanner.Text())
	if reply != "OK" {
		return fmt.Errorf("auth rejected: %s", reply)
	}

	return nil
}

func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// call performs one request/response exchange. The connection carries calls
// in lockstep, so concurrent callers serialize on the client mutex.
func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	req := request{
		Version: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	}
	if params == nil {
		req.Params = []any{}
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	deadline := time.Now().Add(defaultCallTimeout)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(deadline)
	if _, err := c.conn.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", method, err)
	}

	c.conn.SetReadDeadline(deadline)
	if !c.reader.Scan() {
		if err := c.reader.Err(); err != nil {
			return fmt.Errorf("read %s: %w", method, err)
		}
		return fmt.Errorf("no response from daemon")
	}
	c.conn.SetDeadline(time.Time{})

	var resp response
	if err := json.Unmarshal(c.reader.Bytes(), &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.ID != req.ID {
		return fmt.Errorf("response id mismatch: sent %s, got %s", req.ID, resp.ID)
	}
	if resp.Error != nil {
		return resp.Error
	}

	if out != nil {
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}

	return nil
}

// ListVaults returns the names of all vaults known to the daemon.
func (c *Client) ListVaults(ctx context.Context) ([]string, error) {
	var vaults []string
	if err := c.call(ctx, MethodListVaults, nil, &vaults); err != nil {
		return nil, err
	}
	return vaults, nil
}

// AllAccountsInfo returns metadata for every address the daemon knows,
// keyed by address.
func (c *Client) AllAccountsInfo(ctx context.Context) (map[string]AccountInfo, error) {
	var infos map[string]AccountInfo
	if err := c.call(ctx, MethodAllAccountsInfo, nil, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}
