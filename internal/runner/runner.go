package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dotblox/codewall/internal/logging"
)

// Language is a script dialect Code Wall knows how to run.
type Language string

const (
	Python Language = "python"
	MEL    Language = "mel"
)

// PathPlaceholder in a command argument is replaced by the script path.
// When no argument contains it, the path is appended.
const PathPlaceholder = "{path}"

var (
	// ErrNotScript is returned for files that are neither Python nor MEL.
	ErrNotScript = errors.New("not a runnable script")
	// ErrUnsupportedLanguage is returned when no command is configured for a language.
	ErrUnsupportedLanguage = errors.New("no command configured for language")
)

// DetectLanguage maps a file extension to a Language.
func DetectLanguage(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return Python, true
	case ".mel":
		return MEL, true
	default:
		return "", false
	}
}

// Ext returns the file extension of scripts in l. Unknown languages map to
// the Python extension.
func (l Language) Ext() string {
	if l == MEL {
		return ".mel"
	}
	return ".py"
}

// ParseLanguage maps a language name to a Language.
func ParseLanguage(name string) (Language, error) {
	switch Language(strings.ToLower(name)) {
	case Python, "py":
		return Python, nil
	case MEL:
		return MEL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
	}
}

// Script is a file queued for execution.
type Script struct {
	Path     string   `json:"path"`
	Language Language `json:"language"`
}

// NewScript builds a Script from a path, detecting its language.
func NewScript(path string) (Script, error) {
	lang, ok := DetectLanguage(path)
	if !ok {
		return Script{}, fmt.Errorf("%w: %s", ErrNotScript, path)
	}
	return Script{Path: path, Language: lang}, nil
}

// Result is the outcome of a script run.
type Result struct {
	Language Language
	Output   string
	ExitCode int
	Duration time.Duration
}

// Err returns a non-nil error when the script exited unsuccessfully.
func (r *Result) Err() error {
	if r == nil || r.ExitCode == 0 {
		return nil
	}
	return fmt.Errorf("script exited with status %d", r.ExitCode)
}

// Runner executes scripts.
type Runner interface {
	Run(ctx context.Context, script Script) (*Result, error)
}

// LocalRunner runs scripts with local interpreters.
type LocalRunner struct {
	Commands map[Language][]string
}

// NewLocalRunner creates a LocalRunner. An empty command disables a language.
func NewLocalRunner(python, mel []string) *LocalRunner {
	commands := make(map[Language][]string)
	if len(python) > 0 {
		commands[Python] = python
	}
	if len(mel) > 0 {
		commands[MEL] = mel
	}
	return &LocalRunner{Commands: commands}
}

// Run implements Runner. A non-zero exit is reported through Result.ExitCode,
// not the error.
func (r *LocalRunner) Run(ctx context.Context, script Script) (*Result, error) {
	command := r.Commands[script.Language]
	if len(command) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, script.Language)
	}

	args := expandArgs(command[1:], script.Path)
	cmd := exec.CommandContext(ctx, command[0], args...)
	cmd.Dir = filepath.Dir(script.Path)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	logging.Info("Running script",
		zap.String("path", script.Path),
		zap.String("language", string(script.Language)),
		zap.Strings("command", append([]string{command[0]}, args...)),
	)

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Language: script.Language,
		Output:   out.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return nil, fmt.Errorf("failed to start %s: %w", command[0], err)
	}

	logging.Debug("Script finished",
		zap.String("path", script.Path),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func expandArgs(args []string, path string) []string {
	expanded := make([]string, 0, len(args)+1)
	replaced := false
	for _, arg := range args {
		if strings.Contains(arg, PathPlaceholder) {
			arg = strings.ReplaceAll(arg, PathPlaceholder, filepath.ToSlash(path))
			replaced = true
		}
		expanded = append(expanded, arg)
	}
	if !replaced {
		expanded = append(expanded, path)
	}
	return expanded
}
