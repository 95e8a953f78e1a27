package wall

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// EditorCommand returns the command that opens path in the user's editor:
// $VISUAL, then $EDITOR, then the system opener. Editor variables may carry
// arguments ("code --wait").
func EditorCommand(path string) *exec.Cmd {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return exec.Command(fields[0], append(fields[1:], path)...)
		}
	}
	return OpenCommand(path)
}

// OpenCommand returns the command that shows path in the system file browser
// or default application.
func OpenCommand(path string) *exec.Cmd {
	args := openArgs(runtime.GOOS, path)
	return exec.Command(args[0], args[1:]...)
}

func openArgs(goos, path string) []string {
	switch goos {
	case "windows":
		return []string{"explorer", strings.ReplaceAll(path, "/", `\`)}
	case "darwin":
		return []string{"open", path}
	default:
		return []string{"xdg-open", path}
	}
}
