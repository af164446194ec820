package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/grokdesk/grokdesk/internal/domain"
)

// FileRestoreStore implements domain.RestoreStore as a single JSON record
// on local disk. Restore is best-effort by design: every I/O or parse
// failure degrades to "no state" and is at most logged at debug level.
type FileRestoreStore struct {
	path   string
	logger *zap.Logger
	now    func() time.Time
}

// NewFileRestoreStore creates a store persisting at path.
func NewFileRestoreStore(path string, logger *zap.Logger) *FileRestoreStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileRestoreStore{path: path, logger: logger, now: time.Now}
}

// Write overwrites the record with url and the current timestamp.
func (s *FileRestoreStore) Write(url string) {
	state := domain.RestoreState{RestoreURL: url, TS: s.now().Unix()}
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Debug("restore state marshal failed", zap.Error(err))
		return
	}
	if err := s.atomicWrite(data); err != nil {
		s.logger.Debug("restore state write failed", zap.Error(err))
	}
}

// Read returns the pending restore URL if the record exists and has the
// expected shape. It never errors and never clears.
func (s *FileRestoreStore) Read() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}

	var state domain.RestoreState
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Debug("restore state unreadable", zap.Error(err))
		return "", false
	}
	if state.RestoreURL == "" {
		return "", false
	}
	return state.RestoreURL, true
}

// Clear deletes the record. A missing record is not an error.
func (s *FileRestoreStore) Clear() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Debug("restore state clear failed", zap.Error(err))
	}
}

// atomicWrite writes the record via temp file + rename so a crash mid-write
// never leaves a truncated record behind.
func (s *FileRestoreStore) atomicWrite(data []byte) error {
	tmpPath := fmt.Sprintf("%s.%d.tmp", s.path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Ensure FileRestoreStore implements domain.RestoreStore.
var _ domain.RestoreStore = (*FileRestoreStore)(nil)
