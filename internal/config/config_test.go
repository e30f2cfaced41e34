package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/pflag"

	"github.com/gofhir/resources/pkg/logger"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.Output != OutputText {
		t.Errorf("expected default output text, got %s", cfg.Output)
	}
	if !cfg.Indent {
		t.Error("expected indent to default to true")
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("expected %d workers, got %d", runtime.NumCPU(), cfg.Workers)
	}
	if cfg.StoreDriver != StoreMemory {
		t.Errorf("expected memory store, got %s", cfg.StoreDriver)
	}
	if !cfg.Terminology {
		t.Error("expected terminology checks to default to on")
	}
	if cfg.Level() != logger.LevelInfo {
		t.Errorf("expected LevelInfo, got %v", cfg.Level())
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("FHIRRES_OUTPUT", "JSON")
	t.Setenv("FHIRRES_WORKERS", "3")
	t.Setenv("FHIRRES_INDENT", "false")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsJSON() {
		t.Errorf("expected json output, got %s", cfg.Output)
	}
	if cfg.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Workers)
	}
	if cfg.Indent {
		t.Error("expected indent false from env")
	}
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fhirres.yaml")
	body := "log_level: debug\nworkers: 2\nstore_driver: bolt\nstore_path: /tmp/x.db\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FHIRRES_WORKERS", "5")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "info", "")
	fs.Int("workers", 0, "")
	if err := fs.Parse([]string{"--log-level=warn"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("flag should win over file, got log level %s", cfg.LogLevel)
	}
	if cfg.Workers != 5 {
		t.Errorf("env should win over file, got %d workers", cfg.Workers)
	}
	if cfg.StoreDriver != StoreBolt || cfg.StorePath != "/tmp/x.db" {
		t.Errorf("store settings from file not applied: %s %s", cfg.StoreDriver, cfg.StorePath)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{LogLevel: "info", Output: OutputText, StoreDriver: StoreMemory, MaxLineBytes: 1}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad output", func(c *Config) { c.Output = "xml" }, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"zero line size", func(c *Config) { c.MaxLineBytes = 0 }, true},
		{"unknown store", func(c *Config) { c.StoreDriver = "redis" }, true},
		{"bolt without path", func(c *Config) { c.StoreDriver = StoreBolt }, true},
		{"postgres without url", func(c *Config) { c.StoreDriver = StorePostgres }, true},
		{"postgres with url", func(c *Config) {
			c.StoreDriver = StorePostgres
			c.DatabaseURL = "postgres://localhost/fhir"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
