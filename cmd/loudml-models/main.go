// Command loudml-models manages model definitions stored on the local filesystem.
//
// Configuration is read from, in increasing priority:
//   - a loudml.yaml file in /etc/loudml, $HOME/.loudml or the working directory
//   - LOUDML_* environment variables (LOUDML_DATA_DIR, LOUDML_LOCK_TIMEOUT, LOUDML_LOG_LEVEL)
//   - LOUDML_MODELS_DIR, which overrides the data directory
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/wooyey/loudml"
	"go.uber.org/zap"
)

// CLI exit codes for standardized error reporting.
const (
	// ExitSuccess indicates the operation completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitInvalidArgs indicates invalid arguments or an invalid model definition.
	ExitInvalidArgs = 2

	// ExitModelNotFound indicates the model does not exist.
	ExitModelNotFound = 3

	// ExitModelExists indicates the model already exists.
	ExitModelExists = 4

	// ExitUnsupportedType indicates the model type cannot be decoded by this build.
	ExitUnsupportedType = 5

	// ExitStorageError indicates a filesystem operation failed.
	ExitStorageError = 7
)

func main() {
	v, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitInvalidArgs)
	}

	logger, err := newLogger(v.GetString(keyLogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitInvalidArgs)
	}
	defer logger.Sync()

	cfg := loudml.Config{
		AppName: appName,
		DataDir: v.GetString(keyDataDir),
	}

	cmd := loudml.NewCommand(cfg,
		loudml.WithLogger(zapLogger{logger.Sugar()}),
		loudml.WithLockTimeout(v.GetDuration(keyLockTimeout)),
	)
	cmd.Use = "loudml-models"

	if err := cmd.Execute(); err != nil {
		logger.Debug("command failed", zap.Error(err))
		logger.Sync()
		os.Exit(exitCodeFromError(err))
	}
}

// exitCodeFromError maps error types to exit codes.
func exitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, loudml.ErrModelNotFound):
		return ExitModelNotFound
	case errors.Is(err, loudml.ErrModelExists):
		return ExitModelExists
	case errors.Is(err, loudml.ErrUnsupportedModelType):
		return ExitUnsupportedType
	case errors.Is(err, loudml.ErrValidation):
		return ExitInvalidArgs
	case errors.Is(err, loudml.ErrStorageError):
		return ExitStorageError
	default:
		return ExitGeneralError
	}
}
