package loudml

import (
	"testing"
	"time"
)

func TestNewStorageConfigDefaults(t *testing.T) {
	cfg := newStorageConfig()

	if cfg.lockTimeout != DefaultLockTimeout {
		t.Errorf("lockTimeout = %v, want %v", cfg.lockTimeout, DefaultLockTimeout)
	}
	if cfg.logger != nil {
		t.Error("default logger should be nil")
	}
	if cfg.registry == nil || !cfg.registry.Supports(TimeSeriesType) {
		t.Error("default registry should support timeseries")
	}
}

func TestWithLockTimeout(t *testing.T) {
	tests := []struct {
		name  string
		input time.Duration
		want  time.Duration
	}{
		{name: "positive value preserved", input: 5 * time.Second, want: 5 * time.Second},
		{name: "zero keeps default", input: 0, want: DefaultLockTimeout},
		{name: "negative keeps default", input: -time.Second, want: DefaultLockTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newStorageConfig()
			WithLockTimeout(tt.input)(cfg)
			if cfg.lockTimeout != tt.want {
				t.Errorf("lockTimeout = %v, want %v", cfg.lockTimeout, tt.want)
			}
		})
	}
}

func TestWithRegistry(t *testing.T) {
	t.Run("custom registry", func(t *testing.T) {
		r := NewRegistry(stubKind)
		cfg := newStorageConfig()
		WithRegistry(r)(cfg)
		if cfg.registry != r {
			t.Error("registry should be replaced")
		}
	})

	t.Run("nil keeps default", func(t *testing.T) {
		cfg := newStorageConfig()
		WithRegistry(nil)(cfg)
		if cfg.registry == nil {
			t.Error("nil registry should be ignored")
		}
	})
}

func TestWithLogger(t *testing.T) {
	logger := &recordingLogger{}
	cfg := newStorageConfig()
	WithLogger(logger)(cfg)

	if cfg.logger != logger {
		t.Error("logger should be set")
	}
}
