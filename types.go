package loudml

import (
	"encoding/json"
	"regexp"
	"time"
)

// MaxNameLength is the longest model name accepted, in bytes.
const MaxNameLength = 255

// Config configures a Storage.
type Config struct {
	// AppName determines the default storage directory name.
	// Example: "loudml" → ~/.local/share/loudml/models/ on Linux
	AppName string

	// DataDir overrides the default data directory.
	// If empty, uses platform-appropriate default.
	// Can also be set via environment variable: <APPNAME>_MODELS_DIR
	DataDir string
}

// Model is a named, typed and serializable model definition.
// Implementations are immutable once constructed.
type Model interface {
	// Type returns the type tag selecting the decoder, e.g. "timeseries".
	Type() string

	// Name returns the unique model name.
	Name() string

	// State returns the opaque trained state, or nil if the model was never trained.
	State() json.RawMessage

	// Serialize produces the self-describing record persisted by Storage.
	Serialize() (ModelData, error)
}

// ModelData is the raw serialized record of a model.
// It is the exact content of a model artifact on disk.
type ModelData struct {
	// Type is the model type tag.
	Type string `json:"type"`

	// Name is the model name.
	Name string `json:"name"`

	// Settings holds the full settings record, including type and name.
	Settings json.RawMessage `json:"settings"`

	// State holds the opaque trained state. Absent for untrained models.
	State json.RawMessage `json:"state,omitempty"`
}

// ModelInfo describes a persisted model without decoding it.
type ModelInfo struct {
	// Name is the model name.
	Name string `json:"name"`

	// Type is the model type tag recorded at creation.
	Type string `json:"type"`

	// Seq is the creation sequence number. Lower values were created first.
	Seq uint64 `json:"seq"`

	// CreatedAt is when the model was created.
	CreatedAt time.Time `json:"created_at"`

	// Path is the absolute path to the model artifact directory.
	Path string `json:"path"`
}

var modelNameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateModelName reports whether name is usable as a model name.
// Names must be non-empty, start with a letter or digit, and contain only
// letters, digits, '.', '_' and '-', so they map to a single path element.
func ValidateModelName(name string) error {
	switch {
	case name == "":
		return invalidField("name", "must not be empty")
	case len(name) > MaxNameLength:
		return invalidField("name", "longer than %d bytes", MaxNameLength)
	case !modelNameRE.MatchString(name):
		return invalidField("name", "%q contains characters not allowed in a model name", name)
	}
	return nil
}
