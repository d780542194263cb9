package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
logging:
  level: debug
output:
  format: json
driver:
  backend: fixture
  fixture: testdata/machine.yaml
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format text to survive, got %s", cfg.Logging.Format)
	}
	if cfg.Output.Format != FormatJSON || cfg.Output.Color != "auto" {
		t.Errorf("unexpected output settings %+v", cfg.Output)
	}
	if cfg.Driver.Backend != BackendFixture || cfg.Driver.Fixture != filepath.Join(dir, "testdata", "machine.yaml") {
		t.Errorf("unexpected driver settings %+v", cfg.Driver)
	}
	if cfg.Summary.PreferredDevice != "auto" {
		t.Errorf("Expected default preferred device, got %s", cfg.Summary.PreferredDevice)
	}
}

func TestLoad_AbsoluteFixtureKept(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	fixture := filepath.Join(t.TempDir(), "gpu.yaml")
	content := "driver:\n  backend: fixture\n  fixture: " + fixture + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Driver.Fixture != fixture {
		t.Errorf("Expected fixture %s, got %s", fixture, cfg.Driver.Fixture)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("logging: [not, a, map]"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		fields []string
	}{
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, []string{"logging.level"}},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, []string{"logging.format"}},
		{"bad output format", func(c *Config) { c.Output.Format = "xml" }, []string{"output.format"}},
		{"bad color", func(c *Config) { c.Output.Color = "rainbow" }, []string{"output.color"}},
		{"bad backend", func(c *Config) { c.Driver.Backend = "metal" }, []string{"driver.backend"}},
		{"fixture without path", func(c *Config) { c.Driver.Backend = BackendFixture }, []string{"driver.fixture"}},
		{"empty preference", func(c *Config) { c.Summary.PreferredDevice = " " }, []string{"summary.preferred_device"}},
		{"several at once", func(c *Config) {
			c.Logging.Level = ""
			c.Output.Color = ""
		}, []string{"logging.level", "output.color"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !IsValidationError(err) {
				t.Fatalf("Expected validation error, got %v", err)
			}
			var errs ValidationErrors
			if !errors.As(err, &errs) {
				t.Fatalf("Expected ValidationErrors, got %T", err)
			}
			if len(errs) != len(tt.fields) {
				t.Fatalf("Expected %d errors, got %d: %v", len(tt.fields), len(errs), errs)
			}
			for i, f := range tt.fields {
				if errs[i].Field != f {
					t.Errorf("Expected field %s, got %s", f, errs[i].Field)
				}
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	var none ValidationErrors
	if none.Error() != "no validation errors" {
		t.Errorf("unexpected message %q", none.Error())
	}
	one := ValidationErrors{{Field: "a", Message: "bad"}}
	if one.Error() != "a: bad" {
		t.Errorf("unexpected message %q", one.Error())
	}
	two := ValidationErrors{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}
	if two.Error() != "2 validation errors: a: bad; b: worse" {
		t.Errorf("unexpected message %q", two.Error())
	}
}

func TestToYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Summary.PreferredDevice = "nvidia"

	data, err := cfg.ToYAML()
	if err != nil {
		t.Fatalf("ToYAML() error: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if *back != *cfg {
		t.Errorf("Expected %+v, got %+v", cfg, back)
	}
}
