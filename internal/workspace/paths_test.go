package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matheus3301/linktrack/internal/config"
)

func TestDir(t *testing.T) {
	t.Setenv(HomeEnv, "")
	home, _ := os.UserHomeDir()
	got := Dir("main")
	want := filepath.Join(home, ".linktrack", "workspaces", "main")
	if got != want {
		t.Errorf("Dir(main) = %q, want %q", got, want)
	}
}

func TestHomeOverride(t *testing.T) {
	base := t.TempDir()
	t.Setenv(HomeEnv, base)

	if got := DBPath("test"); got != filepath.Join(base, "workspaces", "test", "linktrack.db") {
		t.Errorf("DBPath(test) = %q", got)
	}
	if got := ConfigPath(); got != filepath.Join(base, "config.toml") {
		t.Errorf("ConfigPath() = %q", got)
	}
}

func TestLogPath(t *testing.T) {
	got := LogPath("test")
	if !strings.HasSuffix(got, filepath.Join("workspaces", "test", "logs", "linktrack.log")) {
		t.Errorf("LogPath(test) = %q, want suffix workspaces/test/logs/linktrack.log", got)
	}
}

func TestExportDir(t *testing.T) {
	t.Setenv(HomeEnv, "/base")
	if got := ExportDir("w", "/abs/out"); got != "/abs/out" {
		t.Errorf("absolute = %q", got)
	}
	if got := ExportDir("w", "out"); got != filepath.Join("/base", "workspaces", "w", "out") {
		t.Errorf("relative = %q", got)
	}
	if got := ExportDir("w", ""); got != filepath.Join("/base", "workspaces", "w", "exports") {
		t.Errorf("default = %q", got)
	}
}

func TestEnsureDir(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	if err := EnsureDir("test"); err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{Dir("test"), LogDir("test")} {
		info, err := os.Stat(d)
		if err != nil {
			t.Fatalf("dir not created: %v", err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", d)
		}
		if perm := info.Mode().Perm(); perm != 0700 {
			t.Errorf("%s permission = %o, want 0700", d, perm)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		flag string
		cfg  *config.Config
		want string
	}{
		{"flag wins", "side", &config.Config{DefaultWorkspace: "work"}, "side"},
		{"config default", "", &config.Config{DefaultWorkspace: "work"}, "work"},
		{"nil config", "", nil, DefaultName},
		{"empty config", "", &config.Config{}, DefaultName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.flag, tt.cfg); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.flag, got, tt.want)
			}
		})
	}
}
