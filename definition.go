package loudml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseModelDefinition builds a Model from a settings document.
// The document is JSON, or YAML when format is "yaml" or "yml". It must
// carry a "type" key naming a kind known to r, plus that kind's settings.
func ParseModelDefinition(r *Registry, format string, content []byte) (Model, error) {
	raw := content
	switch strings.ToLower(format) {
	case "json", "":
	case "yaml", "yml":
		var doc map[string]any
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("invalid YAML: %v", err)}
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("unsupported YAML value: %v", err)}
		}
		raw = converted
	default:
		return nil, fmt.Errorf("unsupported definition format %q", format)
	}

	var head struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("invalid definition: %v", err)}
	}
	if head.Type == "" {
		return nil, invalidField("type", "must not be empty")
	}

	return r.Decode(ModelData{Type: head.Type, Name: head.Name, Settings: raw})
}

// DecodeModelFile reads a model definition from a .json, .yaml or .yml file.
func DecodeModelFile(r *Registry, path string) (Model, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return ParseModelDefinition(r, ext, content)
}
