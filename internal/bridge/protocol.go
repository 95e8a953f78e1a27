package bridge

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dotblox/codewall/internal/runner"
)

const (
	// TypeRun asks the bridge to run a script file.
	TypeRun = "run"

	// Endpoint is the websocket path served by the bridge.
	Endpoint = "/ws"

	// DefaultPort is the port the bridge listens on when none is given.
	DefaultPort = 7011
)

// Request is sent by a client for every script run.
type Request struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
}

// Response answers a Request with the same ID.
type Response struct {
	ID         string `json:"id"`
	OK         bool   `json:"ok"`
	ExitCode   int    `json:"exit_code"`
	Output     string `json:"output,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// Script converts the request into a runnable script. The language is taken
// from the request when given and detected from the extension otherwise.
func (r Request) Script() (runner.Script, error) {
	if r.Type != TypeRun {
		return runner.Script{}, fmt.Errorf("unknown request type %q", r.Type)
	}
	if r.Path == "" {
		return runner.Script{}, fmt.Errorf("request %s has no path", r.ID)
	}
	if r.Language == "" {
		return runner.NewScript(r.Path)
	}
	return runner.Script{Path: r.Path, Language: runner.Language(r.Language)}, nil
}

// Result converts the response into a runner result.
func (r Response) Result(lang runner.Language) *runner.Result {
	return &runner.Result{
		Language: lang,
		Output:   r.Output,
		ExitCode: r.ExitCode,
		Duration: time.Duration(r.DurationMS) * time.Millisecond,
	}
}

func decodeRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("invalid request: %w", err)
	}
	return req, nil
}
