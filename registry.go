package loudml

import (
	"fmt"
	"sort"
)

// DecodeFunc rebuilds a Model from its persisted record.
type DecodeFunc func(data ModelData) (Model, error)

// ModelKind binds a type tag to its decoder.
type ModelKind struct {
	// Type is the tag written in ModelData.Type.
	Type string

	// Decode reconstructs a model of this kind.
	Decode DecodeFunc
}

// TimeSeriesKind is the ModelKind for TimeSeriesModel.
var TimeSeriesKind = ModelKind{Type: TimeSeriesType, Decode: decodeTimeSeries}

// Registry maps type tags to decoders.
// A Registry is read-only after construction and safe for concurrent use.
type Registry struct {
	kinds map[string]DecodeFunc
}

// NewRegistry creates a registry supporting exactly the given kinds.
// Later kinds replace earlier ones with the same type tag.
func NewRegistry(kinds ...ModelKind) *Registry {
	r := &Registry{kinds: make(map[string]DecodeFunc, len(kinds))}
	for _, k := range kinds {
		r.kinds[k.Type] = k.Decode
	}
	return r
}

// DefaultRegistry returns a new registry holding every built-in model kind.
func DefaultRegistry() *Registry {
	return NewRegistry(TimeSeriesKind)
}

// Supports reports whether modelType has a registered decoder.
func (r *Registry) Supports(modelType string) bool {
	_, ok := r.kinds[modelType]
	return ok
}

// Types returns the supported type tags in lexical order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.kinds))
	for t := range r.kinds {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Decode dispatches data to the decoder registered for data.Type.
// Returns ErrUnsupportedModelType if no decoder is registered.
func (r *Registry) Decode(data ModelData) (Model, error) {
	decode, ok := r.kinds[data.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModelType, data.Type)
	}

	m, err := decode(data)
	if err != nil {
		return nil, err
	}
	if data.Name != "" && m.Name() != data.Name {
		return nil, invalidField("name", "record is named %q but settings name %q", data.Name, m.Name())
	}
	return m, nil
}
