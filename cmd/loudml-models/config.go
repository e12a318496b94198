package main

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appName = "loudml"

// Configuration keys.
const (
	keyDataDir     = "data_dir"
	keyLockTimeout = "lock_timeout"
	keyLogLevel    = "log_level"
)

// loadConfig reads the optional loudml.yaml file and LOUDML_* environment.
func loadConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(keyLockTimeout, "30s")
	v.SetDefault(keyLogLevel, "warn")

	v.SetEnvPrefix(appName)
	v.AutomaticEnv()

	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/" + appName)
	v.AddConfigPath("$HOME/." + appName)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// newLogger builds a console zap logger writing to stderr at level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", keyLogLevel, level, err)
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	return zc.Build()
}

// zapLogger adapts a sugared zap logger to loudml.Logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Debug(msg string, keysAndValues ...any) { l.s.Debugw(msg, keysAndValues...) }
func (l zapLogger) Info(msg string, keysAndValues ...any)  { l.s.Infow(msg, keysAndValues...) }
func (l zapLogger) Warn(msg string, keysAndValues ...any)  { l.s.Warnw(msg, keysAndValues...) }
func (l zapLogger) Error(msg string, keysAndValues ...any) { l.s.Errorw(msg, keysAndValues...) }
