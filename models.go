package loudml

import (
	"context"
	"errors"
)

// Storage persists model definitions under a root directory.
// All methods are safe for concurrent use within one process.
type Storage interface {
	// CreateModel persists m under m.Name().
	// Returns ErrModelExists if a model with that name is already persisted.
	CreateModel(ctx context.Context, m Model) error

	// ModelExists reports whether a model named name is persisted.
	ModelExists(ctx context.Context, name string) (bool, error)

	// ListModels returns persisted model names in creation order.
	ListModels(ctx context.Context) ([]string, error)

	// ListModelInfo returns index metadata for every model in creation order.
	ListModelInfo(ctx context.Context) ([]ModelInfo, error)

	// GetModelData returns the raw persisted record without decoding it.
	// Returns ErrModelNotFound if the model does not exist.
	GetModelData(ctx context.Context, name string) (ModelData, error)

	// LoadModel reconstructs a persisted model through the registry.
	// Returns ErrModelNotFound if the model does not exist, and
	// ErrUnsupportedModelType if its type has no registered decoder.
	LoadModel(ctx context.Context, name string) (Model, error)

	// DeleteModel removes a persisted model.
	// Returns ErrModelNotFound if the model does not exist.
	DeleteModel(ctx context.Context, name string) error

	// Root returns the absolute storage root directory.
	Root() string
}

// Ensure fileStorage implements Storage interface.
var _ Storage = (*fileStorage)(nil)

// NewStorage creates a filesystem Storage for the given configuration.
// The root directory is created if absent.
// Returns an error if neither AppName nor DataDir is set.
func NewStorage(cfg Config, opts ...Option) (Storage, error) {
	if cfg.AppName == "" && cfg.DataDir == "" {
		return nil, errors.New("loudml: AppName or DataDir is required")
	}

	scfg := newStorageConfig()
	for _, opt := range opts {
		opt(scfg)
	}

	root, err := resolveDataDir(cfg)
	if err != nil {
		return nil, err
	}

	disk, err := newStorage(root, scfg.lockTimeout)
	if err != nil {
		return nil, err
	}

	if scfg.logger != nil {
		scfg.logger.Debug("model storage opened", "root", disk.baseDir)
	}

	return &fileStorage{
		root:     disk.baseDir,
		registry: scfg.registry,
		logger:   scfg.logger,
		storage:  disk,
	}, nil
}
