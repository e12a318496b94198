// Package loudml persists machine-learning model definitions on the local
// filesystem and reconstructs them by type.
//
// The package serves two primary use cases:
//
//  1. Programmatic API via the Storage interface - Applications use
//     NewStorage to create, list, load and delete models.
//
//  2. Embeddable CLI via NewCommand - Parent CLI tools can attach a complete
//     "models" subcommand tree to their Cobra root command.
//
// # Model Types
//
// Each persisted model carries a type tag. LoadModel hands the stored record
// to the decoder registered for that tag in a Registry. DefaultRegistry knows
// the "timeseries" type. A record whose tag has no decoder stays readable
// through GetModelData but fails to load with ErrUnsupportedModelType.
//
// # Thread Safety
//
// Storage is safe for concurrent use by multiple goroutines. Mutations are
// also serialized across processes sharing a root through an advisory lock
// on index.json.lock.
//
// # Storage
//
// A storage root holds:
//
//	index.json                names, types and creation order
//	models/<name>/model.json  one record per model
//	models/<name>/state.json  trained state, stored byte for byte
//
// The index decides which models exist. Records are written before the index
// entry that publishes them, so a crash never exposes a half-written model.
//
// The default root is platform-appropriate:
//   - Linux: $XDG_DATA_HOME/<app>/ or ~/.local/share/<app>/
//   - macOS: ~/Library/Application Support/<app>/
//   - Windows: %APPDATA%\<app>\
//
// The storage location can be overridden via Config.DataDir or the
// <APPNAME>_MODELS_DIR environment variable.
//
// # Errors
//
// Failures wrap one of ErrModelNotFound, ErrModelExists,
// ErrUnsupportedModelType, ErrValidation or ErrStorageError and should be
// tested with errors.Is.
package loudml
