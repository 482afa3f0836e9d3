package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codemindmap/internal/domain"
)

func TestAppDataRoot(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		description string
		cmmHome     string
		xdgData     string
		expected    string
	}{
		{description: "explicit home wins", cmmHome: "/opt/cmm", xdgData: "/xdg", expected: "/opt/cmm"},
		{description: "xdg data home", xdgData: "/xdg", expected: filepath.Join("/xdg", "codemindmap")},
		{description: "default under home", expected: filepath.Join(home, ".local", "share", "codemindmap")},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			t.Setenv("CODEMINDMAP_HOME", tc.cmmHome)
			t.Setenv("XDG_DATA_HOME", tc.xdgData)

			got, err := AppDataRoot()
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.expected {
				t.Errorf("AppDataRoot() = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		description string
		content     string
		wantErr     bool
		check       func(t *testing.T, cfg Config)
	}{
		{
			description: "all keys",
			content: `settings_backend: file
await_timeout: 5s
exact_match: true
ignore_case: true
editor: nvim
editor_uri: vscode
log_level: debug
`,
			check: func(t *testing.T, cfg Config) {
				if cfg.SettingsBackend != BackendFile {
					t.Errorf("SettingsBackend = %q", cfg.SettingsBackend)
				}
				if d, _ := cfg.Await(); d != 5*time.Second {
					t.Errorf("Await() = %v", d)
				}
				if cfg.Match() != (domain.MatchOptions{ExactMatch: true, IgnoreCase: true}) {
					t.Errorf("Match() = %+v", cfg.Match())
				}
				if cfg.Editor != "nvim" || cfg.URIScheme() != "vscode" {
					t.Errorf("editor = %q, scheme = %q", cfg.Editor, cfg.URIScheme())
				}
			},
		},
		{
			description: "partial file keeps defaults",
			content:     "ignore_case: true\n",
			check: func(t *testing.T, cfg Config) {
				if cfg.SettingsBackend != BackendSQLite {
					t.Errorf("SettingsBackend = %q", cfg.SettingsBackend)
				}
				if d, _ := cfg.Await(); d != DefaultAwaitTimeout {
					t.Errorf("Await() = %v", d)
				}
			},
		},
		{
			description: "zero timeout waits forever",
			content:     "await_timeout: 0\n",
			check: func(t *testing.T, cfg Config) {
				if d, err := cfg.Await(); err != nil || d != 0 {
					t.Errorf("Await() = %v, %v", d, err)
				}
			},
		},
		{description: "unknown backend", content: "settings_backend: registry\n", wantErr: true},
		{description: "bad duration", content: "await_timeout: soon\n", wantErr: true},
		{description: "negative duration", content: "await_timeout: -1s\n", wantErr: true},
		{description: "bad level", content: "log_level: loud\n", wantErr: true},
		{description: "malformed yaml", content: "settings_backend: [\n", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(path)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Load() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tc.check(t, cfg)
		})
	}
}

func TestURIScheme_None(t *testing.T) {
	if got := (Config{EditorURI: "None"}).URIScheme(); got != "" {
		t.Errorf("URIScheme() = %q, want empty", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tc := range tests {
		got, err := ParseLevel(tc.input)
		if err != nil || got != tc.expected {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tc.input, got, err, tc.expected)
		}
	}
}
