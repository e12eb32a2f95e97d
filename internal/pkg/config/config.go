package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Run       RunConfig       `mapstructure:"run"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Timer     TimerConfig     `mapstructure:"timer"`
	Log       LogConfig       `mapstructure:"log"`
	Report    ReportConfig    `mapstructure:"report"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type RunConfig struct {
	Input       string  `mapstructure:"input"`
	Expected    string  `mapstructure:"expected"`
	EarthRadius float64 `mapstructure:"earth_radius"`
}

type GeneratorConfig struct {
	Mode           string  `mapstructure:"mode"`
	Seed           uint64  `mapstructure:"seed"`
	Pairs          uint64  `mapstructure:"pairs"`
	OutDir         string  `mapstructure:"out_dir"`
	ClusterCount   int     `mapstructure:"cluster_count"`
	ClusterRadiusX float64 `mapstructure:"cluster_radius_x"`
	ClusterRadiusY float64 `mapstructure:"cluster_radius_y"`
}

type TimerConfig struct {
	CalibrationMS    int  `mapstructure:"calibration_ms"`
	ForceCalibration bool `mapstructure:"force_calibration"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ReportConfig struct {
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	Exporter    string `mapstructure:"exporter"`
	Endpoint    string `mapstructure:"endpoint"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Option adjusts how Load resolves configuration.
type Option func(*viper.Viper) error

// WithFile reads configuration from path instead of searching for config.yaml.
func WithFile(path string) Option {
	return func(v *viper.Viper) error {
		if path == "" {
			return nil
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}
}

// WithFlag binds a command line flag to key. The flag wins over file and
// environment values only when it was set explicitly.
func WithFlag(key string, flag *pflag.Flag) Option {
	return func(v *viper.Viper) error {
		if flag == nil {
			return nil
		}
		return v.BindPFlag(key, flag)
	}
}

// Load reads configuration from file and environment variables.
func Load(service string, opts ...Option) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("run.input", "input.json")
	v.SetDefault("run.expected", "expected.f64")
	v.SetDefault("run.earth_radius", 6372.8)
	v.SetDefault("generator.mode", "uniform")
	v.SetDefault("generator.seed", 0)
	v.SetDefault("generator.pairs", 1000)
	v.SetDefault("generator.out_dir", ".")
	v.SetDefault("generator.cluster_count", 64)
	v.SetDefault("generator.cluster_radius_x", 5.0)
	v.SetDefault("generator.cluster_radius_y", 10.0)
	v.SetDefault("timer.calibration_ms", 1000)
	v.SetDefault("timer.force_calibration", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("report.format", "text")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.exporter", "stdout")
	v.SetDefault("telemetry.endpoint", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: HAVERSINE_RUN_EARTH_RADIUS → run.earth_radius
	v.SetEnvPrefix("HAVERSINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that configuration fields are present and sane.
// generator.mode is deliberately not checked here: an unknown mode is
// reported by the generator itself.
func (c *Config) Validate() error {
	var errs []string

	if !(c.Run.EarthRadius > 0) {
		errs = append(errs, fmt.Sprintf("run.earth_radius must be positive, got %v", c.Run.EarthRadius))
	}
	if c.Generator.ClusterCount <= 0 {
		errs = append(errs, fmt.Sprintf("generator.cluster_count must be positive, got %d", c.Generator.ClusterCount))
	}
	if c.Generator.ClusterRadiusX < 0 || c.Generator.ClusterRadiusY < 0 {
		errs = append(errs, "generator.cluster_radius_x and generator.cluster_radius_y must not be negative")
	}
	if c.Timer.CalibrationMS <= 0 {
		errs = append(errs, fmt.Sprintf("timer.calibration_ms must be positive, got %d", c.Timer.CalibrationMS))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	switch strings.ToLower(c.Report.Format) {
	case "text", "yaml":
	default:
		errs = append(errs, fmt.Sprintf("report.format must be text or yaml, got %q", c.Report.Format))
	}
	if c.Telemetry.Enabled {
		switch c.Telemetry.Exporter {
		case "stdout":
		case "otlp":
			if c.Telemetry.Endpoint == "" {
				errs = append(errs, "telemetry.endpoint is required for the otlp exporter")
			}
		default:
			errs = append(errs, fmt.Sprintf("telemetry.exporter must be stdout or otlp, got %q", c.Telemetry.Exporter))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
