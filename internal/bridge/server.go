package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/dotblox/codewall/internal/logging"
	"github.com/dotblox/codewall/internal/runner"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// Config holds the bridge server configuration
type Config struct {
	Host string
	Port int

	// Advertise registers the bridge over mDNS so that clients can find it
	// with a Scanner.
	Advertise bool
	Instance  string // mDNS instance name, defaults to the hostname
}

// Server accepts websocket connections and runs the scripts they request.
type Server struct {
	config      *Config
	runner      runner.Runner
	upgrader    websocket.Upgrader
	httpServer  *http.Server
	listener    net.Listener
	mdns        *zeroconf.Server
	wg          sync.WaitGroup
	mu          sync.Mutex
	activeConns map[string]*websocket.Conn
}

// New creates a bridge server that runs scripts on r.
func New(config *Config, r runner.Runner) (*Server, error) {
	if r == nil {
		return nil, errors.New("bridge server needs a runner")
	}
	if config.Port == 0 {
		config.Port = DefaultPort
	}

	s := &Server{
		config:      config,
		runner:      r,
		activeConns: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc(Endpoint, s.handleWebSocket)
	s.httpServer = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	return s, nil
}

// Handler returns the HTTP handler serving the websocket endpoint.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the address the server listens on, once started.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Listen binds the listening socket and registers the mDNS service when
// advertising is enabled.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	if s.config.Advertise {
		port := listener.Addr().(*net.TCPAddr).Port
		if err := s.advertise(port); err != nil {
			_ = listener.Close()
			return err
		}
	}

	logging.Info("Bridge listening for connections", zap.String("addr", s.Addr()))
	return nil
}

// Serve handles connections until the listener is closed.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("bridge server is not listening")
	}
	err := s.httpServer.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Start listens and serves, blocking until an interrupt signal or an error.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping bridge...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

func (s *Server) advertise(port int) error {
	instance := s.config.Instance
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			host = "codewall"
		}
		instance = host
	}

	text := []string{"path=" + Endpoint, "proto=1"}
	mdns, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, text, nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	s.mdns = mdns
	logging.Info("Bridge advertised over mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("Websocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}
	remoteAddr := conn.RemoteAddr().String()

	s.wg.Add(1)
	s.mu.Lock()
	s.activeConns[remoteAddr] = conn
	s.mu.Unlock()

	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		delete(s.activeConns, remoteAddr)
		s.mu.Unlock()
		logging.LogConnection(remoteAddr, "connection_closed")
		s.wg.Done()
	}()

	logging.LogConnection(remoteAddr, "connection_accepted")
	conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("Connection closed with error",
					zap.String("remote_addr", remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
		logging.LogBridgeMessage(remoteAddr, "received", data)

		resp := s.handleMessage(r.Context(), data)

		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := conn.WriteJSON(resp); err != nil {
			logging.Error("Failed to send response",
				zap.String("remote_addr", remoteAddr),
				zap.Error(err),
			)
			return
		}
	}
}

// handleMessage decodes one request and runs it. Every failure is reported
// back to the client in the response.
func (s *Server) handleMessage(ctx context.Context, data []byte) Response {
	req, err := decodeRequest(data)
	if err != nil {
		return Response{Error: err.Error(), ExitCode: -1}
	}
	resp := Response{ID: req.ID, ExitCode: -1}

	script, err := req.Script()
	if err != nil {
		resp.Error = err.Error()
		return resp
	}

	start := time.Now()
	result, err := s.runner.Run(ctx, script)
	resp.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		resp.Error = err.Error()
		return resp
	}

	resp.OK = true
	resp.ExitCode = result.ExitCode
	resp.Output = result.Output
	if result.Duration > 0 {
		resp.DurationMS = result.Duration.Milliseconds()
	}
	return resp
}

// Shutdown stops accepting connections, closes the active ones and waits for
// their handlers to return.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down bridge...")

	if s.mdns != nil {
		s.mdns.Shutdown()
		s.mdns = nil
	}

	// Hijacked websocket connections are not tracked by http.Server.
	if err := s.httpServer.Shutdown(ctx); err != nil {
		logging.Error("Error closing listener", zap.Error(err))
	}

	s.mu.Lock()
	for addr, conn := range s.activeConns {
		logging.Info("Closing active connection", zap.String("remote_addr", addr))
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
		return ctx.Err()
	}

	logging.Sync()
	return nil
}

// ActiveConnections returns the number of connected clients.
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}
