package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/blackwell-systems/revibe/internal/analyzer"
	"github.com/blackwell-systems/revibe/internal/metrics"
	"github.com/blackwell-systems/revibe/internal/scanner"
)

// Config is the top-level revibe configuration.
type Config struct {
	IgnoreDirs             []string `mapstructure:"ignore_dirs"`
	IgnorePatterns         []string `mapstructure:"ignore_patterns"`
	UseGitignore           bool     `mapstructure:"use_gitignore"`
	Workers                int      `mapstructure:"workers"`
	NearDuplicateThreshold float64  `mapstructure:"near_duplicate_threshold"`
	Defects                Defects  `mapstructure:"defects"`
	Analysis               Analysis `mapstructure:"analysis"`
	Output                 Output   `mapstructure:"output"`
	Watch                  Watch    `mapstructure:"watch"`
	DBPath                 string   `mapstructure:"db_path"`
}

// Defects configures the defect estimate.
type Defects struct {
	BaseDensity float64 `mapstructure:"base_density"`
	AIGenerated bool    `mapstructure:"ai_generated"`
}

// Analysis configures per-file analysis.
type Analysis struct {
	StructureInComments bool `mapstructure:"structure_in_comments"`
}

// Output defines output preferences.
type Output struct {
	Dir   string `mapstructure:"dir"`
	Color bool   `mapstructure:"color"`
}

// Watch configures watch mode.
type Watch struct {
	Interval time.Duration `mapstructure:"interval"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location),
// applies REVIBE_* environment overrides and returns a Config with all
// defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("ignore_dirs", []string{})
	v.SetDefault("ignore_patterns", []string{})
	v.SetDefault("use_gitignore", true)
	v.SetDefault("workers", 0)
	v.SetDefault("near_duplicate_threshold", DefaultNearDuplicateThreshold)
	v.SetDefault("defects.base_density", DefaultDefects.BaseDensity)
	v.SetDefault("defects.ai_generated", DefaultDefects.AIGenerated)
	v.SetDefault("analysis.structure_in_comments", false)
	v.SetDefault("output.dir", DefaultOutput.Dir)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("watch.interval", DefaultWatchInterval)
	v.SetDefault("db_path", filepath.Join(DefaultConfigDir, DefaultDBName))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// A missing config file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.NearDuplicateThreshold <= 0 || cfg.NearDuplicateThreshold > 1 {
		return nil, fmt.Errorf("near_duplicate_threshold must be in (0, 1], got %v", cfg.NearDuplicateThreshold)
	}
	if cfg.Defects.BaseDensity <= 0 {
		return nil, fmt.Errorf("defects.base_density must be positive, got %v", cfg.Defects.BaseDensity)
	}
	if cfg.Watch.Interval <= 0 {
		cfg.Watch.Interval = DefaultWatchInterval
	}

	cfg.DBPath = expandPath(cfg.DBPath)
	cfg.Output.Dir = expandPath(cfg.Output.Dir)
	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		UseGitignore:           true,
		NearDuplicateThreshold: DefaultNearDuplicateThreshold,
		Defects:                DefaultDefects,
		Output:                 DefaultOutput,
		Watch:                  Watch{Interval: DefaultWatchInterval},
		DBPath:                 DBPath(),
	}
}

// ScannerOptions maps the ignore settings onto scanner options.
func (c *Config) ScannerOptions() scanner.Options {
	return scanner.Options{
		ExtraIgnores:   c.IgnoreDirs,
		IgnorePatterns: c.IgnorePatterns,
		UseGitignore:   c.UseGitignore,
	}
}

// AnalyzerOptions maps the analysis settings onto analyzer options.
func (c *Config) AnalyzerOptions() analyzer.Options {
	return analyzer.Options{
		StructureInComments: c.Analysis.StructureInComments,
		Workers:             c.Workers,
	}
}

// MetricsConfig maps the defect settings onto the aggregator config.
func (c *Config) MetricsConfig() metrics.Config {
	return metrics.Config{
		BaseDefectDensity: c.Defects.BaseDensity,
		AIGenerated:       c.Defects.AIGenerated,
	}
}

// DBPath returns the full path to the default SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
