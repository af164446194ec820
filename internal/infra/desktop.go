package infra

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/grokdesk/grokdesk/internal/domain"
	"github.com/grokdesk/grokdesk/internal/policy"
)

// ExecDesktop implements domain.Desktop by shelling out to the platform's
// standard tools. Everything is fire-and-forget: a missing tool degrades
// to a logged warning, never a user-visible error.
type ExecDesktop struct {
	goos   string
	logger *zap.Logger
}

// NewExecDesktop creates a desktop adapter for the current platform.
func NewExecDesktop(logger *zap.Logger) *ExecDesktop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecDesktop{goos: runtime.GOOS, logger: logger}
}

// OpenExternal opens url in the OS default browser. Only http(s) URLs are
// ever handed to the OS; anything else is refused here as a last line of
// defense regardless of what the caller checked.
func (d *ExecDesktop) OpenExternal(url string) error {
	if !policy.IsHTTPURL(url) {
		return fmt.Errorf("refusing to open non-http(s) url externally: %q", url)
	}

	var cmd *exec.Cmd
	switch d.goos {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open external browser: %w", err)
	}
	// Detach; the browser outlives us and we never wait on it.
	go func() { _ = cmd.Wait() }()
	return nil
}

// Notify shows a system notification. Activation callbacks require an event
// loop the exec tools do not provide, so onActivate is ignored here; hosts
// with native notification support supply their own Desktop.
func (d *ExecDesktop) Notify(title, body string, onActivate func()) error {
	_ = onActivate

	var cmd *exec.Cmd
	switch d.goos {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		cmd = exec.Command("osascript", "-e", script)
	case "windows":
		return nil // No portable exec path; silently skipped.
	default:
		cmd = exec.Command("notify-send", title, body)
	}

	if err := cmd.Start(); err != nil {
		d.logger.Debug("notification tool unavailable", zap.Error(err))
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// WriteClipboard puts text on the system clipboard.
func (d *ExecDesktop) WriteClipboard(text string) error {
	var cmd *exec.Cmd
	switch d.goos {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "windows":
		cmd = exec.Command("clip")
	default:
		cmd = exec.Command("xclip", "-selection", "clipboard")
	}
	cmd.Stdin = strings.NewReader(text)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}
	return nil
}

// Ensure ExecDesktop implements domain.Desktop.
var _ domain.Desktop = (*ExecDesktop)(nil)
