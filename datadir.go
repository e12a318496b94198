package loudml

import (
	"os"
	"path/filepath"
	"runtime"
)

// getDefaultDataDir returns the platform data directory for appName:
//   - Linux and other Unix: $XDG_DATA_HOME/<appName>, else ~/.local/share/<appName>
//   - macOS: ~/Library/Application Support/<appName>
//   - Windows: %APPDATA%\<appName>
func getDefaultDataDir(appName string) (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Roaming", appName), nil
	case "darwin", "ios":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", appName), nil
	default:
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appName), nil
	}
}
