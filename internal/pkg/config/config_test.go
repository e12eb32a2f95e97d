package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("haversine-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Run.EarthRadius != 6372.8 {
		t.Errorf("expected earth radius 6372.8, got %v", cfg.Run.EarthRadius)
	}
	if cfg.Generator.ClusterCount != 64 {
		t.Errorf("expected 64 clusters, got %d", cfg.Generator.ClusterCount)
	}
	if cfg.Timer.CalibrationMS != 1000 {
		t.Errorf("expected 1000ms calibration, got %d", cfg.Timer.CalibrationMS)
	}
	if cfg.Telemetry.ServiceName != "haversine-test" {
		t.Errorf("expected service name haversine-test, got %s", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HAVERSINE_RUN_EARTH_RADIUS", "6371")
	t.Setenv("HAVERSINE_GENERATOR_SEED", "42")
	t.Setenv("HAVERSINE_LOG_FORMAT", "json")

	cfg, err := Load("haversine-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Run.EarthRadius != 6371 {
		t.Errorf("expected earth radius 6371, got %v", cfg.Run.EarthRadius)
	}
	if cfg.Generator.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Generator.Seed)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected json log format, got %s", cfg.Log.Format)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "custom.yaml")
	content := "generator:\n  mode: cluster\n  pairs: 250\nreport:\n  format: yaml\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("haversine-test", WithFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generator.Mode != "cluster" || cfg.Generator.Pairs != 250 {
		t.Errorf("expected cluster/250, got %s/%d", cfg.Generator.Mode, cfg.Generator.Pairs)
	}
	if cfg.Report.Format != "yaml" {
		t.Errorf("expected yaml report, got %s", cfg.Report.Format)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := Load("haversine-test", WithFile("does-not-exist.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HAVERSINE_RUN_INPUT", "from-env.json")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("input", "", "")
	fs.String("expected", "", "")
	if err := fs.Parse([]string{"--input", "from-flag.json"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("haversine-test",
		WithFlag("run.input", fs.Lookup("input")),
		WithFlag("run.expected", fs.Lookup("expected")),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Run.Input != "from-flag.json" {
		t.Errorf("expected flag value, got %s", cfg.Run.Input)
	}
	if cfg.Run.Expected != "expected.f64" {
		t.Errorf("unset flag should not override default, got %q", cfg.Run.Expected)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Run:       RunConfig{EarthRadius: 6372.8},
			Generator: GeneratorConfig{Mode: "whatever", ClusterCount: 64, ClusterRadiusX: 5, ClusterRadiusY: 10},
			Timer:     TimerConfig{CalibrationMS: 1000},
			Log:       LogConfig{Level: "info", Format: "text"},
			Report:    ReportConfig{Format: "text"},
		}
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("unknown generator mode must not fail validation: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero radius", func(c *Config) { c.Run.EarthRadius = 0 }, "run.earth_radius"},
		{"no clusters", func(c *Config) { c.Generator.ClusterCount = 0 }, "generator.cluster_count"},
		{"negative cluster radius", func(c *Config) { c.Generator.ClusterRadiusY = -1 }, "cluster_radius"},
		{"no calibration", func(c *Config) { c.Timer.CalibrationMS = 0 }, "timer.calibration_ms"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad report format", func(c *Config) { c.Report.Format = "csv" }, "report.format"},
		{"bad exporter", func(c *Config) { c.Telemetry = TelemetryConfig{Enabled: true, Exporter: "zipkin"} }, "telemetry.exporter"},
		{"otlp without endpoint", func(c *Config) { c.Telemetry = TelemetryConfig{Enabled: true, Exporter: "otlp"} }, "telemetry.endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}
