package loudml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultLockTimeout is the default timeout for acquiring file locks.
const DefaultLockTimeout = 30 * time.Second

const (
	indexFile    = "index.json"
	modelsDir    = "models"
	artifactFile = "model.json"
	stateFile    = "state.json"
)

// modelIndex represents the contents of the index.json file.
// It is the authoritative record of which models exist and in which
// order they were created.
type modelIndex struct {
	// NextSeq is the sequence number assigned to the next created model.
	// It only grows, so deleting a model never reorders the others.
	NextSeq uint64 `json:"next_seq"`

	// Models lists persisted models in ascending Seq order.
	Models []indexEntry `json:"models"`
}

// indexEntry represents a single model in the index.
type indexEntry struct {
	// Name is the model name.
	Name string `json:"name"`

	// Type is the model type tag at creation time.
	Type string `json:"type"`

	// Seq is the creation sequence number.
	Seq uint64 `json:"seq"`

	// CreatedAt is when the model was created.
	CreatedAt time.Time `json:"created_at"`
}

// find returns the position of name in the index, or -1.
func (idx *modelIndex) find(name string) int {
	for i, e := range idx.Models {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// add appends a new entry with the next sequence number.
func (idx *modelIndex) add(name, modelType string, now time.Time) indexEntry {
	idx.NextSeq++
	e := indexEntry{Name: name, Type: modelType, Seq: idx.NextSeq, CreatedAt: now}
	idx.Models = append(idx.Models, e)
	return e
}

// remove deletes name from the index and reports whether it was present.
func (idx *modelIndex) remove(name string) bool {
	i := idx.find(name)
	if i < 0 {
		return false
	}
	idx.Models = append(idx.Models[:i], idx.Models[i+1:]...)
	return true
}

// indexMutation describes one read-modify-write of the index. All three
// steps run while the index lock is held.
type indexMutation struct {
	// apply changes the index. An error aborts without writing anything.
	apply func(idx *modelIndex) error

	// commit, if set, runs after the new index is written.
	commit func() error

	// abort, if set, runs when apply succeeded but the index write failed.
	abort func()
}

// storageInterface defines operations for local filesystem management.
// Implemented by *storage for production and fakes in tests.
type storageInterface interface {
	// loadIndex reads and parses the index.json file.
	loadIndex() (*modelIndex, error)

	// mutateIndex performs one locked read-modify-write of the index.
	mutateIndex(m indexMutation) error

	// modelPath returns the absolute path to a model's artifact directory.
	modelPath(name string) string

	// readArtifact returns the raw artifact bytes for a model.
	readArtifact(name string) ([]byte, error)

	// writeArtifact atomically writes the artifact for a model.
	writeArtifact(name string, data []byte) error

	// readState returns the stored trained state, or nil if there is none.
	readState(name string) ([]byte, error)

	// writeState atomically stores state verbatim. Nil state removes it.
	writeState(name string, state []byte) error

	// removeArtifact removes a model's artifact directory.
	removeArtifact(name string) error
}

// storage handles all local filesystem operations.
// Implements storageInterface.
type storage struct {
	// baseDir is the root directory owned by this storage.
	baseDir string

	// lockTimeout is the maximum duration to wait for file lock acquisition.
	lockTimeout time.Duration

	// indexMu protects concurrent in-process access to index.json.
	indexMu sync.RWMutex
}

// Ensure storage implements storageInterface.
var _ storageInterface = (*storage)(nil)

// envVarName constructs an environment variable name from the app name.
// Converts appName to uppercase and appends "_MODELS_DIR".
// Example: envVarName("loudml") returns "LOUDML_MODELS_DIR".
func envVarName(appName string) string {
	return strings.ToUpper(appName) + "_MODELS_DIR"
}

// resolveDataDir picks the storage root.
// Priority: env var > Config.DataDir > platform default
func resolveDataDir(cfg Config) (string, error) {
	if cfg.AppName != "" {
		if envDir := os.Getenv(envVarName(cfg.AppName)); envDir != "" {
			return envDir, nil
		}
	}
	if cfg.DataDir != "" {
		return cfg.DataDir, nil
	}
	defaultDir, err := getDefaultDataDir(cfg.AppName)
	if err != nil {
		return "", fmt.Errorf("failed to get default data dir: %w", err)
	}
	return defaultDir, nil
}

// newStorage creates a new storage instance rooted at baseDir.
func newStorage(baseDir string, lockTimeout time.Duration) (*storage, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving %s: %v", ErrStorageError, baseDir, err)
	}

	s := &storage{baseDir: abs, lockTimeout: lockTimeout}

	if err := s.ensureDir(filepath.Join(abs, modelsDir)); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return s, nil
}

func (s *storage) indexPath() string {
	return filepath.Join(s.baseDir, indexFile)
}

// loadIndex reads and parses the index.json file.
// Returns an empty index if the file doesn't exist.
func (s *storage) loadIndex() (*modelIndex, error) {
	s.indexMu.RLock()
	defer s.indexMu.RUnlock()

	return s.readIndexFile()
}

func (s *storage) readIndexFile() (*modelIndex, error) {
	data, err := os.ReadFile(s.indexPath())
	if os.IsNotExist(err) {
		return &modelIndex{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageError, err)
	}

	var idx modelIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %v", ErrStorageError, indexFile, err)
	}

	return &idx, nil
}

// mutateIndex re-reads index.json under an exclusive lock, applies the
// mutation and atomically writes the result.
// Uses cross-process file locking so a racing writer sees the committed state.
func (s *storage) mutateIndex(m indexMutation) error {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	lock, err := newFileLock(s.indexPath()+".lock", s.lockTimeout)
	if err != nil {
		return fmt.Errorf("%w: failed to create lock: %v", ErrStorageError, err)
	}
	if err := lock.Lock(); err != nil {
		lock.Unlock()
		return fmt.Errorf("%w: failed to acquire lock: %v", ErrStorageError, err)
	}
	defer lock.Unlock()

	idx, err := s.readIndexFile()
	if err != nil {
		return err
	}

	if err := m.apply(idx); err != nil {
		return err
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err == nil {
		err = s.atomicWrite(s.indexPath(), data)
	} else {
		err = fmt.Errorf("%w: failed to marshal index: %v", ErrStorageError, err)
	}
	if err != nil {
		if m.abort != nil {
			m.abort()
		}
		return err
	}

	if m.commit != nil {
		return m.commit()
	}
	return nil
}

// atomicWrite writes data to a file using write-then-rename for atomicity.
// The temp file name is unique per call so concurrent writers never share it.
func (s *storage) atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrStorageError, err)
	}

	// Write to temp file first
	tmp := path + ".tmp-" + uuid.NewString()
	if err := writeSynced(tmp, data); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: failed to write temp file: %v", ErrStorageError, err)
	}

	// Atomic rename
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // cleanup on failure
		return fmt.Errorf("%w: failed to rename temp file: %v", ErrStorageError, err)
	}

	return nil
}

// writeSynced writes data and flushes it to stable storage before closing.
func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// modelPath returns the absolute path to a model's artifact directory.
func (s *storage) modelPath(name string) string {
	return filepath.Join(s.baseDir, modelsDir, name)
}

// readArtifact returns the raw artifact bytes for a model.
// A missing artifact is reported as a storage error that also matches
// os.ErrNotExist, so callers can tell it apart from a read failure.
func (s *storage) readArtifact(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.modelPath(name), artifactFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: artifact of model %s is missing: %w", ErrStorageError, name, os.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageError, err)
	}
	return data, nil
}

// writeArtifact atomically writes the artifact for a model.
func (s *storage) writeArtifact(name string, data []byte) error {
	return s.atomicWrite(filepath.Join(s.modelPath(name), artifactFile), data)
}

// readState returns the state file bytes exactly as written.
func (s *storage) readState(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.modelPath(name), stateFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageError, err)
	}
	return data, nil
}

// writeState stores state next to the artifact without re-encoding it.
// A nil state removes any state file left by an earlier model of that name.
func (s *storage) writeState(name string, state []byte) error {
	path := filepath.Join(s.modelPath(name), stateFile)
	if state == nil {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: failed to remove stale state: %v", ErrStorageError, err)
		}
		return nil
	}
	return s.atomicWrite(path, state)
}

// ensureDir creates a directory and all parent directories if they don't exist.
func (s *storage) ensureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %v", ErrStorageError, path, err)
	}
	return nil
}

// removeArtifact removes a model's artifact directory and all its contents.
func (s *storage) removeArtifact(name string) error {
	if err := os.RemoveAll(s.modelPath(name)); err != nil {
		return fmt.Errorf("%w: failed to remove model directory: %v", ErrStorageError, err)
	}
	return nil
}
