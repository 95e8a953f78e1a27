package bridge

import (
	"context"
	"errors"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"

	"github.com/dotblox/codewall/internal/runner"
)

type fakeRunner struct {
	output string
	code   int
	err    error
	got    chan runner.Script
}

func (f *fakeRunner) Run(ctx context.Context, script runner.Script) (*runner.Result, error) {
	if f.got != nil {
		f.got <- script
	}
	if f.err != nil {
		return nil, f.err
	}
	return &runner.Result{
		Language: script.Language,
		Output:   f.output,
		ExitCode: f.code,
		Duration: 25 * time.Millisecond,
	}, nil
}

func startBridge(t *testing.T, r runner.Runner) (*Server, string) {
	t.Helper()
	srv, err := New(&Config{}, r)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + Endpoint
}

func TestClientRun(t *testing.T) {
	fake := &fakeRunner{output: "hello\n", code: 3, got: make(chan runner.Script, 1)}
	_, url := startBridge(t, fake)

	client := NewClient(url)
	script := runner.Script{Path: "/scripts/tool.mel", Language: runner.MEL}
	result, err := client.Run(context.Background(), script)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := <-fake.got; got != script {
		t.Errorf("server ran %+v, want %+v", got, script)
	}
	if result.Output != "hello\n" || result.ExitCode != 3 || result.Language != runner.MEL {
		t.Errorf("Run() = %+v", result)
	}
	if result.Duration != 25*time.Millisecond {
		t.Errorf("Duration = %v", result.Duration)
	}
}

func TestClientRunRemoteError(t *testing.T) {
	_, url := startBridge(t, &fakeRunner{err: runner.ErrUnsupportedLanguage})

	_, err := NewClient(url).Run(context.Background(), runner.Script{Path: "a.py", Language: runner.Python})
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("Run() error = %v, want ErrRemote", err)
	}
	if !strings.Contains(err.Error(), runner.ErrUnsupportedLanguage.Error()) {
		t.Errorf("error %q does not carry the remote message", err)
	}
}

func TestClientDialFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()

	if _, err := NewClient(addr).Run(context.Background(), runner.Script{Path: "a.py"}); err == nil {
		t.Fatal("Run() against a closed port succeeded")
	}
}

func TestServerRejectsBadRequests(t *testing.T) {
	_, url := startBridge(t, &fakeRunner{})

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer func() { _ = conn.Close() }()

	tests := []struct {
		name    string
		message string
		wantID  string
	}{
		{"malformed json", `{"id":`, ""},
		{"unknown type", `{"id":"7","type":"eval","path":"a.py"}`, "7"},
		{"missing path", `{"id":"8","type":"run"}`, "8"},
		{"not a script", `{"id":"9","type":"run","path":"notes.txt"}`, "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.message)); err != nil {
				t.Fatal(err)
			}
			var resp Response
			if err := conn.ReadJSON(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.OK || resp.Error == "" || resp.ID != tt.wantID {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestServerShutdownClosesConnections(t *testing.T) {
	srv, url := startBridge(t, &fakeRunner{})

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer func() { _ = conn.Close() }()

	deadline := time.Now().Add(2 * time.Second)
	for srv.ActiveConnections() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("connection was never tracked")
		}
		time.Sleep(10 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if n := srv.ActiveConnections(); n != 0 {
		t.Errorf("ActiveConnections() = %d after shutdown", n)
	}
}

func TestNewRequiresRunner(t *testing.T) {
	if _, err := New(&Config{}, nil); err == nil {
		t.Error("New() without runner succeeded")
	}
}

func TestBridgeURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"localhost", "ws://localhost:7011/ws"},
		{"10.0.0.2:9000", "ws://10.0.0.2:9000/ws"},
		{"ws://maya-box:1234/ws", "ws://maya-box:1234/ws"},
		{"::1", "ws://[::1]:7011/ws"},
	}

	for _, tt := range tests {
		if got := BridgeURL(tt.addr); got != tt.want {
			t.Errorf("BridgeURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestRequestScript(t *testing.T) {
	script, err := Request{Type: TypeRun, Path: "/x/tool.PY"}.Script()
	if err != nil || script.Language != runner.Python {
		t.Errorf("detected script = %+v, %v", script, err)
	}

	script, err = Request{Type: TypeRun, Path: "/x/tool.txt", Language: "mel"}.Script()
	if err != nil || script.Language != runner.MEL {
		t.Errorf("explicit language = %+v, %v", script, err)
	}
}

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantIP   string
		wantPort int
	}{
		{
			name: "ipv4 bridge",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "maya-01"},
				HostName:      "maya-01.local.",
				Port:          9000,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.20")},
				Text:          []string{"path=/ws", "proto=1"},
			},
			wantIP:   "192.168.1.20",
			wantPort: 9000,
		},
		{
			name: "ipv6 only, default port",
			entry: &zeroconf.ServiceEntry{
				HostName: "maya-02.local.",
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantIP:   "fe80::1",
			wantPort: DefaultPort,
		},
		{
			name:    "no address",
			entry:   &zeroconf.ServiceEntry{HostName: "ghost.local."},
			wantNil: true,
		},
		{
			name:    "nil entry",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := parseServiceEntry(tt.entry)
			if tt.wantNil {
				if host != nil {
					t.Errorf("parseServiceEntry() = %+v, want nil", host)
				}
				return
			}
			if host == nil {
				t.Fatal("parseServiceEntry() = nil")
			}
			if host.IP != tt.wantIP || host.Port != tt.wantPort {
				t.Errorf("host = %s:%d, want %s:%d", host.IP, host.Port, tt.wantIP, tt.wantPort)
			}
		})
	}

	host := parseServiceEntry(tests[0].entry)
	if host.Metadata["path"] != "/ws" || host.Instance != "maya-01" {
		t.Errorf("metadata = %v, instance = %q", host.Metadata, host.Instance)
	}
	if host.Address() != "192.168.1.20:9000" {
		t.Errorf("Address() = %q", host.Address())
	}
}
