package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dotblox/codewall/internal/logging"
	"github.com/dotblox/codewall/internal/runner"
)

// ErrRemote wraps failures reported by the bridge in a response.
var ErrRemote = errors.New("bridge reported an error")

var requestSeq atomic.Uint64

// Client runs scripts on a remote bridge. It implements runner.Runner.
type Client struct {
	url    string
	dialer *websocket.Dialer
}

// NewClient creates a client for addr, given as host, host:port or a full
// ws:// URL.
func NewClient(addr string) *Client {
	return &Client{
		url: BridgeURL(addr),
		dialer: &websocket.Dialer{
			HandshakeTimeout: 5 * time.Second,
		},
	}
}

// URL returns the websocket URL the client dials.
func (c *Client) URL() string {
	return c.url
}

// BridgeURL normalizes a bridge address into a websocket URL.
func BridgeURL(addr string) string {
	if strings.Contains(addr, "://") {
		return addr
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, strconv.Itoa(DefaultPort))
	}
	return "ws://" + addr + Endpoint
}

// Run sends script to the bridge and waits for the result. A connection is
// opened for every run.
func (c *Client) Run(ctx context.Context, script runner.Script) (*runner.Result, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bridge %s: %w", c.url, err)
	}
	defer func() { _ = conn.Close() }()

	// Unblock reads when the caller gives up.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	req := Request{
		ID:       strconv.FormatUint(requestSeq.Add(1), 10),
		Type:     TypeRun,
		Path:     script.Path,
		Language: string(script.Language),
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return nil, err
	}
	if err := conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	logging.Debug("Sent run request",
		zap.String("id", req.ID),
		zap.String("path", req.Path),
	)

	var resp Response
	if err := conn.ReadJSON(&resp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.ID != req.ID {
		return nil, fmt.Errorf("response id %q does not match request %q", resp.ID, req.ID)
	}
	if !resp.OK {
		return nil, fmt.Errorf("%w: %s", ErrRemote, resp.Error)
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return resp.Result(script.Language), nil
}
