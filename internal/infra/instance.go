package infra

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/grokdesk/grokdesk/internal/domain"
)

// FlockGate implements domain.InstanceGate with an OS-level file lock plus
// a unix socket for the second-instance signal. The flock is the only
// mutual-exclusion primitive across launches; no in-process locking is
// involved. It is held for the process lifetime and released implicitly
// at exit.
type FlockGate struct {
	lockPath string
	sockPath string

	processManager domain.ProcessManager
	logger         *zap.Logger

	lockFile *os.File
	listener net.Listener
	signals  chan struct{}
}

// NewFlockGate creates a gate over the given lock and socket paths.
func NewFlockGate(lockPath, sockPath string, pm domain.ProcessManager, logger *zap.Logger) *FlockGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FlockGate{
		lockPath:       lockPath,
		sockPath:       sockPath,
		processManager: pm,
		logger:         logger,
		signals:        make(chan struct{}, 4),
	}
}

// Acquire attempts the instance lock. On success the caller becomes the
// primary: the PID is recorded in the lock file and the signal socket is
// opened. On failure the running primary is signalled over the socket and
// the caller must terminate without running application logic.
func (g *FlockGate) Acquire() (bool, error) {
	f, err := os.OpenFile(g.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return false, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		if err != syscall.EWOULDBLOCK && err != syscall.EAGAIN {
			return false, fmt.Errorf("failed to acquire lock: %w", err)
		}
		g.signalPrimary()
		return false, nil
	}

	g.lockFile = f
	g.recordOwner()

	if err := g.listen(); err != nil {
		// The lock is held; a primary without a signal socket still works,
		// it just cannot observe second launches.
		g.logger.Warn("second-instance socket unavailable", zap.Error(err))
	}
	return true, nil
}

// SecondInstance delivers one signal per launch attempt observed while this
// process holds the lock.
func (g *FlockGate) SecondInstance() <-chan struct{} {
	return g.signals
}

// Close shuts down the signal socket. The flock itself is left to die with
// the process.
func (g *FlockGate) Close() error {
	if g.listener != nil {
		err := g.listener.Close()
		g.listener = nil
		os.Remove(g.sockPath)
		return err
	}
	return nil
}

// recordOwner writes the primary PID into the lock file for diagnostics.
func (g *FlockGate) recordOwner() {
	pid := g.processManager.CurrentPID()
	_ = g.lockFile.Truncate(0)
	_, _ = g.lockFile.WriteAt([]byte(strconv.Itoa(pid)), 0)
}

// lockOwner reads the PID recorded by the current lock holder.
func (g *FlockGate) lockOwner() (int, bool) {
	data, err := os.ReadFile(g.lockPath)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// listen opens the signal socket. Holding the flock proves no other primary
// is alive, so a leftover socket file is stale and safe to remove.
func (g *FlockGate) listen() error {
	os.Remove(g.sockPath)

	ln, err := net.Listen("unix", g.sockPath)
	if err != nil {
		return err
	}
	g.listener = ln

	go g.acceptLoop(ln)
	return nil
}

// acceptLoop turns each incoming connection into one second-instance signal.
func (g *FlockGate) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Close()

		select {
		case g.signals <- struct{}{}:
		default:
			// A pending signal already queued; coalesce.
		}
	}
}

// signalPrimary notifies the lock holder that a second launch was attempted.
// The dial itself is the signal; no payload is needed.
func (g *FlockGate) signalPrimary() {
	conn, err := net.DialTimeout("unix", g.sockPath, 2*time.Second)
	if err != nil {
		if pid, ok := g.lockOwner(); ok && !g.processManager.IsRunning(pid) {
			g.logger.Warn("lock held but owner is gone; primary may be mid-exit",
				zap.Int("owner_pid", pid))
		} else {
			g.logger.Warn("could not signal primary", zap.Error(err))
		}
		return
	}
	conn.Close()
}

// Ensure FlockGate implements domain.InstanceGate.
var _ domain.InstanceGate = (*FlockGate)(nil)
