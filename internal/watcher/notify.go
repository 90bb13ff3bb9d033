package watcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// Notify sends a desktop notification for the given alert. On macOS it uses
// osascript, on Linux notify-send. Anywhere else, or when the tool fails, the
// alert is printed to stderr.
func Notify(alert Alert) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(
			`display notification %q with title "revibe" subtitle %q`,
			alert.Message, alert.Title,
		)
		return notifyExec(alert, "osascript", "-e", script)
	case "linux":
		return notifyExec(alert, "notify-send", "revibe: "+alert.Title, alert.Message)
	default:
		return notifyFallback(os.Stderr, alert)
	}
}

func notifyExec(alert Alert, name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return notifyFallback(os.Stderr, alert)
	}
	if err := exec.Command(name, args...).Run(); err != nil {
		return notifyFallback(os.Stderr, alert)
	}
	return nil
}

// notifyFallback prints the alert as a single line.
func notifyFallback(w io.Writer, alert Alert) error {
	_, err := fmt.Fprintf(w, "[%s] %s: %s\n", alert.Level, alert.Title, alert.Message)
	return err
}
