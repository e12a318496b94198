package loudml

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// TimeSeriesType is the type tag of TimeSeriesModel.
const TimeSeriesType = "timeseries"

// DefaultMaxEvals is the number of hyperparameter evaluations used when
// TimeSeriesSettings.MaxEvals is zero.
const DefaultMaxEvals = 10

// Metric kinds accepted in a feature definition.
var featureMetrics = map[string]bool{
	"avg":   true,
	"mean":  true,
	"count": true,
	"min":   true,
	"max":   true,
	"sum":   true,
}

// Feature describes one input series of a time series model.
type Feature struct {
	// Name identifies the feature within the model.
	Name string `json:"name"`

	// Metric is the aggregation applied per bucket: avg, mean, count, min, max or sum.
	Metric string `json:"metric"`

	// Field is the source field aggregated by Metric.
	Field string `json:"field"`

	// Measurement optionally restricts the source to one measurement.
	Measurement string `json:"measurement,omitempty"`

	// Default fills buckets without data.
	Default FeatureDefault `json:"default"`
}

// FeatureDefault is either a constant or the previous bucket value.
// It is encoded as a JSON number or the string "previous".
type FeatureDefault struct {
	Value    float64
	Previous bool
}

// MarshalJSON implements json.Marshaler.
func (d FeatureDefault) MarshalJSON() ([]byte, error) {
	if d.Previous {
		return []byte(`"previous"`), nil
	}
	return json.Marshal(d.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *FeatureDefault) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = FeatureDefault{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s != "previous" {
			return fmt.Errorf("default must be a number or \"previous\", got %q", s)
		}
		*d = FeatureDefault{Previous: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("default must be a number or \"previous\": %v", err)
	}
	*d = FeatureDefault{Value: v}
	return nil
}

// Seasonality enables seasonal inputs for training.
type Seasonality struct {
	Daytime bool `json:"daytime"`
	Weekday bool `json:"weekday"`
}

// TimeSeriesSettings holds the hyperparameters of a time series model.
// Durations are expressed in seconds.
type TimeSeriesSettings struct {
	Name           string      `json:"name"`
	Offset         float64     `json:"offset"`
	Span           int         `json:"span"`
	BucketInterval float64     `json:"bucket_interval"`
	Interval       float64     `json:"interval"`
	Features       []Feature   `json:"features"`
	Threshold      float64     `json:"threshold"`
	MaxEvals       int         `json:"max_evals"`
	Seasonality    Seasonality `json:"seasonality"`
}

// timeSeriesRecord is the persisted settings layout. The type tag is
// carried alongside the settings so the record is self-describing.
type timeSeriesRecord struct {
	Type string `json:"type"`
	TimeSeriesSettings
}

// Validate checks required fields and value ranges.
func (s TimeSeriesSettings) Validate() error {
	if err := ValidateModelName(s.Name); err != nil {
		return err
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"offset", s.Offset},
		{"bucket_interval", s.BucketInterval},
		{"interval", s.Interval},
		{"threshold", s.Threshold},
	} {
		if !isFinite(f.value) {
			return invalidField(f.name, "must be a finite number, got %v", f.value)
		}
	}
	if s.Offset < 0 {
		return invalidField("offset", "must not be negative, got %v", s.Offset)
	}
	if s.Span <= 0 {
		return invalidField("span", "must be positive, got %d", s.Span)
	}
	if s.BucketInterval <= 0 {
		return invalidField("bucket_interval", "must be positive, got %v", s.BucketInterval)
	}
	if s.Interval <= 0 {
		return invalidField("interval", "must be positive, got %v", s.Interval)
	}
	if s.Threshold <= 0 || s.Threshold > 100 {
		return invalidField("threshold", "must be in (0, 100], got %v", s.Threshold)
	}
	if s.MaxEvals < 0 {
		return invalidField("max_evals", "must not be negative, got %d", s.MaxEvals)
	}
	if len(s.Features) == 0 {
		return invalidField("features", "at least one feature is required")
	}

	seen := make(map[string]bool, len(s.Features))
	for i, f := range s.Features {
		field := fmt.Sprintf("features[%d]", i)
		if f.Name == "" {
			return invalidField(field+".name", "must not be empty")
		}
		if seen[f.Name] {
			return invalidField(field+".name", "duplicate feature %q", f.Name)
		}
		seen[f.Name] = true
		if !featureMetrics[f.Metric] {
			return invalidField(field+".metric", "unknown metric %q", f.Metric)
		}
		if f.Field == "" {
			return invalidField(field+".field", "must not be empty")
		}
		if !isFinite(f.Default.Value) {
			return invalidField(field+".default", "must be a finite number, got %v", f.Default.Value)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// TimeSeriesModel is an anomaly detection model over bucketed time series.
type TimeSeriesModel struct {
	settings TimeSeriesSettings
	state    json.RawMessage
}

var _ Model = (*TimeSeriesModel)(nil)

// NewTimeSeriesModel validates settings and returns an untrained model.
// Returns a *ValidationError if a field is missing or out of range.
func NewTimeSeriesModel(settings TimeSeriesSettings) (*TimeSeriesModel, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.MaxEvals == 0 {
		settings.MaxEvals = DefaultMaxEvals
	}
	settings.Features = append([]Feature(nil), settings.Features...)
	return &TimeSeriesModel{settings: settings}, nil
}

// ParseTimeSeriesSettings decodes a JSON settings record and validates it.
// Unknown keys are rejected. A "type" key, if present, must be "timeseries".
func ParseTimeSeriesSettings(raw []byte) (TimeSeriesSettings, error) {
	var rec timeSeriesRecord
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return TimeSeriesSettings{}, &ValidationError{Reason: err.Error()}
	}
	if rec.Type != "" && rec.Type != TimeSeriesType {
		return TimeSeriesSettings{}, invalidField("type", "expected %q, got %q", TimeSeriesType, rec.Type)
	}
	if err := rec.TimeSeriesSettings.Validate(); err != nil {
		return TimeSeriesSettings{}, err
	}
	return rec.TimeSeriesSettings, nil
}

// Type implements Model.
func (m *TimeSeriesModel) Type() string { return TimeSeriesType }

// Name implements Model.
func (m *TimeSeriesModel) Name() string { return m.settings.Name }

// State implements Model.
func (m *TimeSeriesModel) State() json.RawMessage { return m.state }

// Settings returns a copy of the model settings.
func (m *TimeSeriesModel) Settings() TimeSeriesSettings {
	s := m.settings
	s.Features = append([]Feature(nil), m.settings.Features...)
	return s
}

// Offset returns the offset in seconds.
func (m *TimeSeriesModel) Offset() float64 { return m.settings.Offset }

// Span returns the number of buckets per input window.
func (m *TimeSeriesModel) Span() int { return m.settings.Span }

// BucketInterval returns the bucket width in seconds.
func (m *TimeSeriesModel) BucketInterval() float64 { return m.settings.BucketInterval }

// Interval returns the prediction interval in seconds.
func (m *TimeSeriesModel) Interval() float64 { return m.settings.Interval }

// Threshold returns the anomaly score threshold.
func (m *TimeSeriesModel) Threshold() float64 { return m.settings.Threshold }

// Features returns a copy of the feature list.
func (m *TimeSeriesModel) Features() []Feature {
	return append([]Feature(nil), m.settings.Features...)
}

// WithState returns a copy of the model carrying the given trained state.
func (m *TimeSeriesModel) WithState(state json.RawMessage) *TimeSeriesModel {
	c := &TimeSeriesModel{settings: m.Settings()}
	if state != nil {
		c.state = append(json.RawMessage(nil), state...)
	}
	return c
}

// Serialize implements Model.
func (m *TimeSeriesModel) Serialize() (ModelData, error) {
	settings, err := json.Marshal(timeSeriesRecord{
		Type:               TimeSeriesType,
		TimeSeriesSettings: m.settings,
	})
	if err != nil {
		return ModelData{}, fmt.Errorf("marshaling settings of %s: %w", m.settings.Name, err)
	}

	return ModelData{
		Type:     TimeSeriesType,
		Name:     m.settings.Name,
		Settings: settings,
		State:    m.state,
	}, nil
}

// decodeTimeSeries is the registered decoder for TimeSeriesType.
func decodeTimeSeries(data ModelData) (Model, error) {
	settings, err := ParseTimeSeriesSettings(data.Settings)
	if err != nil {
		return nil, err
	}
	m, err := NewTimeSeriesModel(settings)
	if err != nil {
		return nil, err
	}
	if len(data.State) > 0 {
		m = m.WithState(data.State)
	}
	return m, nil
}
