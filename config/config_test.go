package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/whisperbox/workload"
)

func TestConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := Config{}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Name != "whisperbox" {
			t.Errorf("expected default name, got %q", cfg.Name)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := Config{Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})

	t.Run("whisper section gets defaults", func(t *testing.T) {
		cfg := Config{}
		cfg.ApplyDefaults()
		if cfg.Whisper.Provider != workload.ProviderDocker {
			t.Errorf("expected docker provider default, got %q", cfg.Whisper.Provider)
		}
		if cfg.Whisper.DefaultModel == "" {
			t.Error("expected default model to be set")
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"invalid environment", func(c *Config) { c.Environment = "qa" }, "environment must be one of"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging"},
		{"static without base url", func(c *Config) { c.Whisper.Provider = workload.ProviderStatic }, "base_url is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{}
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
environment: staging
whisper:
  provider: static
  static:
    base_url: http://stt.internal:9000
  default_model: small
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(WithConfigFile(configPath))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Environment != "staging" {
		t.Errorf("environment = %q, want staging", cfg.Environment)
	}
	if cfg.Whisper.Provider != workload.ProviderStatic {
		t.Errorf("provider = %q, want static", cfg.Whisper.Provider)
	}
	if cfg.Whisper.DefaultModel != "small" {
		t.Errorf("default model = %q, want small", cfg.Whisper.DefaultModel)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(WithConfigFile("/nonexistent/path.yml"), WithFileSystem(&mockFS{}))
	if err != nil {
		t.Fatalf("Load() with no files should fall back to defaults, got %v", err)
	}
	if cfg.Whisper.Provider != workload.ProviderDocker {
		t.Errorf("provider = %q, want docker default", cfg.Whisper.Provider)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestFindFirst(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config/config.yml": true}}
	got := findFirst(fs, configSearchPaths("whisperbox"))
	if got != "./config/config.yml" {
		t.Errorf("findFirst() = %q, want ./config/config.yml", got)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("WHISPER_DOCKER_IMAGE")
	want := map[string]bool{
		"whisper_docker_image": false,
		"whisper.docker.image": false,
		"whisper.docker_image": false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for key, seen := range want {
		if !seen {
			t.Errorf("expected variant %q in %v", key, variants)
		}
	}
}
