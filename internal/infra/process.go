package infra

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/grokdesk/grokdesk/internal/domain"
)

// ProcessManagerImpl implements domain.ProcessManager using gopsutil.
type ProcessManagerImpl struct{}

// NewProcessManager creates a new process manager.
func NewProcessManager() domain.ProcessManager {
	return &ProcessManagerImpl{}
}

// IsRunning checks if a PID exists and is running.
func (pm *ProcessManagerImpl) IsRunning(pid int) bool {
	ok, err := process.PidExists(int32(pid))
	return err == nil && ok
}

// CurrentPID returns the current process PID.
func (pm *ProcessManagerImpl) CurrentPID() int {
	return os.Getpid()
}

// Ensure ProcessManagerImpl implements domain.ProcessManager.
var _ domain.ProcessManager = (*ProcessManagerImpl)(nil)
