package workspace

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the base directory, mostly for tests and portable setups.
const HomeEnv = "LINKTRACK_HOME"

// BaseDir returns ~/.linktrack, or $LINKTRACK_HOME when set.
func BaseDir() string {
	if v := os.Getenv(HomeEnv); v != "" {
		return v
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".linktrack")
}

// Dir returns the workspace-specific directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "workspaces", name)
}

// DBPath returns the contacts database path.
func DBPath(name string) string {
	return filepath.Join(Dir(name), "linktrack.db")
}

// LogDir returns the log directory for a workspace.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// LogPath returns the log file path.
func LogPath(name string) string {
	return filepath.Join(LogDir(name), "linktrack.log")
}

// ExportDir resolves the export directory. Relative directories are placed
// inside the workspace.
func ExportDir(name, configured string) string {
	if configured == "" {
		configured = "exports"
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(Dir(name), configured)
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the workspace directory tree with proper permissions.
func EnsureDir(name string) error {
	dirs := []string{
		Dir(name),
		LogDir(name),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
