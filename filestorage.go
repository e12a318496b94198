package loudml

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// fileStorage is the concrete implementation of the Storage interface.
// It keeps no cache: every call reads the index from disk.
type fileStorage struct {
	// root is the absolute storage root directory.
	root string

	// registry decodes persisted models by type tag.
	registry *Registry

	// logger receives diagnostic messages. May be nil.
	logger Logger

	// storage handles local filesystem operations.
	storage storageInterface
}

// CreateModel persists m under m.Name().
// The artifact is written before the index entry is committed, so a crash
// in between leaves an orphan artifact that List and Exists never report.
func (s *fileStorage) CreateModel(ctx context.Context, m Model) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := m.Serialize()
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return err
		}
		return &ValidationError{Reason: fmt.Sprintf("cannot serialize model %s: %v", m.Name(), err)}
	}
	if err := ValidateModelName(data.Name); err != nil {
		return err
	}
	if data.Type == "" {
		return invalidField("type", "must not be empty")
	}
	if data.Type != m.Type() {
		return invalidField("type", "record is tagged %q but model type is %q", data.Type, m.Type())
	}

	// State is stored verbatim in its own file; the encoder would reformat it.
	var state []byte
	if len(data.State) > 0 {
		state = data.State
	}
	data.State = nil

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal model %s: %v", ErrStorageError, data.Name, err)
	}

	return s.storage.mutateIndex(indexMutation{
		apply: func(idx *modelIndex) error {
			if idx.find(data.Name) >= 0 {
				return fmt.Errorf("%w: %s", ErrModelExists, data.Name)
			}
			if err := s.storage.writeArtifact(data.Name, raw); err != nil {
				return err
			}
			if err := s.storage.writeState(data.Name, state); err != nil {
				return err
			}
			e := idx.add(data.Name, data.Type, time.Now().UTC())
			s.debug("model created", "name", e.Name, "type", e.Type, "seq", e.Seq)
			return nil
		},
		abort: func() {
			// Index was not committed; drop the orphan.
			if err := s.storage.removeArtifact(data.Name); err != nil {
				s.warn("failed to remove orphan artifact", "name", data.Name, "error", err)
			}
		},
	})
}

// ModelExists reports whether a model named name is persisted.
func (s *fileStorage) ModelExists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	idx, err := s.storage.loadIndex()
	if err != nil {
		return false, fmt.Errorf("loading index: %w", err)
	}
	return idx.find(name) >= 0, nil
}

// ListModels returns persisted model names in creation order.
func (s *fileStorage) ListModels(ctx context.Context) ([]string, error) {
	infos, err := s.ListModelInfo(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names, nil
}

// ListModelInfo returns index metadata for every model in creation order.
func (s *fileStorage) ListModelInfo(ctx context.Context) ([]ModelInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx, err := s.storage.loadIndex()
	if err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}

	infos := make([]ModelInfo, 0, len(idx.Models))
	for _, e := range idx.Models {
		infos = append(infos, ModelInfo{
			Name:      e.Name,
			Type:      e.Type,
			Seq:       e.Seq,
			CreatedAt: e.CreatedAt,
			Path:      s.storage.modelPath(e.Name),
		})
	}
	return infos, nil
}

// GetModelData returns the raw persisted record without decoding it.
func (s *fileStorage) GetModelData(ctx context.Context, name string) (ModelData, error) {
	if err := ctx.Err(); err != nil {
		return ModelData{}, err
	}

	idx, err := s.storage.loadIndex()
	if err != nil {
		return ModelData{}, fmt.Errorf("loading index: %w", err)
	}
	if idx.find(name) < 0 {
		return ModelData{}, fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}

	raw, err := s.storage.readArtifact(name)
	if errors.Is(err, os.ErrNotExist) {
		// A concurrent delete may have won since the index was read.
		if idx, ierr := s.storage.loadIndex(); ierr == nil && idx.find(name) < 0 {
			return ModelData{}, fmt.Errorf("%w: %s", ErrModelNotFound, name)
		}
	}
	if err != nil {
		return ModelData{}, err
	}

	var data ModelData
	if err := json.Unmarshal(raw, &data); err != nil {
		return ModelData{}, fmt.Errorf("%w: corrupt artifact for %s: %v", ErrStorageError, name, err)
	}
	if data.Name != name {
		return ModelData{}, fmt.Errorf("%w: artifact for %s is named %q", ErrStorageError, name, data.Name)
	}

	state, err := s.storage.readState(name)
	if err != nil {
		return ModelData{}, err
	}
	if state != nil {
		data.State = state
	}

	return data, nil
}

// LoadModel reconstructs a persisted model through the registry.
func (s *fileStorage) LoadModel(ctx context.Context, name string) (Model, error) {
	data, err := s.GetModelData(ctx, name)
	if err != nil {
		return nil, err
	}

	m, err := s.registry.Decode(data)
	if err != nil {
		if errors.Is(err, ErrUnsupportedModelType) {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
		return nil, fmt.Errorf("%w: decoding model %s: %v", ErrStorageError, name, err)
	}

	s.debug("model loaded", "name", name, "type", data.Type)
	return m, nil
}

// DeleteModel removes a persisted model.
// The index entry is committed first, then the artifact is removed while
// the index lock is still held.
func (s *fileStorage) DeleteModel(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.storage.mutateIndex(indexMutation{
		apply: func(idx *modelIndex) error {
			if !idx.remove(name) {
				return fmt.Errorf("%w: %s", ErrModelNotFound, name)
			}
			return nil
		},
		commit: func() error {
			return s.storage.removeArtifact(name)
		},
	})
	if err != nil {
		return err
	}

	s.debug("model deleted", "name", name)
	return nil
}

// Root returns the absolute storage root directory.
func (s *fileStorage) Root() string {
	return s.root
}

func (s *fileStorage) debug(msg string, keysAndValues ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, keysAndValues...)
	}
}

func (s *fileStorage) warn(msg string, keysAndValues ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, keysAndValues...)
	}
}
