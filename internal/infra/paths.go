// Package infra implements infrastructure concerns (persistence, locking,
// OS shell integration).
package infra

import (
	"os"
	"path/filepath"
	"strings"
)

// Paths resolves the per-user locations the shell persists into.
// All state lives under a single application data directory.
type Paths struct {
	dataDir string
}

// NewPaths resolves the default per-user data directory
// (os.UserConfigDir()/grokdesk), falling back to a dot-directory in $HOME.
func NewPaths() *Paths {
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		return &Paths{dataDir: filepath.Join(home, ".grokdesk")}
	}
	return &Paths{dataDir: filepath.Join(base, "grokdesk")}
}

// NewPathsWithDataDir uses a fixed data directory (config override, tests).
func NewPathsWithDataDir(dir string) *Paths {
	return &Paths{dataDir: dir}
}

// Ensure creates the data directory if missing.
func (p *Paths) Ensure() error {
	return os.MkdirAll(p.dataDir, 0o700)
}

// DataDir returns the application data directory.
func (p *Paths) DataDir() string { return p.dataDir }

// RestorePath is the restore-state record file.
func (p *Paths) RestorePath() string { return filepath.Join(p.dataDir, "restore.json") }

// LockPath is the single-instance lock file.
func (p *Paths) LockPath() string { return filepath.Join(p.dataDir, "instance.lock") }

// SocketPath is the second-instance signal socket.
func (p *Paths) SocketPath() string { return filepath.Join(p.dataDir, "instance.sock") }

// AuditPath is the policy-decision audit database.
func (p *Paths) AuditPath() string { return filepath.Join(p.dataDir, "audit.db") }

// LogPath is the application log file.
func (p *Paths) LogPath() string { return filepath.Join(p.dataDir, "grokdesk.log") }

// ConfigPath is the optional user configuration file.
func (p *Paths) ConfigPath() string { return filepath.Join(p.dataDir, "config.yaml") }

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
