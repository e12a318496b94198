package loudml

import "time"

// Option configures a Storage.
type Option func(*storageConfig)

// storageConfig holds configuration for Storage construction.
type storageConfig struct {
	// registry decodes persisted models by type tag.
	registry *Registry

	// logger receives diagnostic log messages.
	logger Logger

	// lockTimeout bounds how long index mutations wait for the file lock.
	lockTimeout time.Duration
}

// newStorageConfig returns a storageConfig with default values.
func newStorageConfig() *storageConfig {
	return &storageConfig{
		registry:    DefaultRegistry(),
		lockTimeout: DefaultLockTimeout,
	}
}

// WithRegistry sets the table of model kinds LoadModel can reconstruct.
// If not set, DefaultRegistry() is used.
func WithRegistry(r *Registry) Option {
	return func(c *storageConfig) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithLogger sets a logger for diagnostic output.
// If not set, logging is disabled.
func WithLogger(logger Logger) Option {
	return func(c *storageConfig) {
		c.logger = logger
	}
}

// WithLockTimeout sets the maximum wait for the index lock.
// Non-positive values keep DefaultLockTimeout.
func WithLockTimeout(d time.Duration) Option {
	return func(c *storageConfig) {
		if d > 0 {
			c.lockTimeout = d
		}
	}
}

// Logger is the interface for diagnostic logging.
// Compatible with slog and adapters over zap, logrus and other structured loggers.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, keysAndValues ...any)
}
