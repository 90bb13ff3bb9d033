// Package config provides configuration loading and defaults for revibe.
package config

import "time"

// DefaultConfigDir is the default location for revibe configuration.
const DefaultConfigDir = "~/.config/revibe"

// DefaultDBName is the filename for the SQLite scan history.
const DefaultDBName = "revibe.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes every environment override, e.g. REVIBE_WORKERS.
const EnvPrefix = "REVIBE"

// DefaultNearDuplicateThreshold is the similarity above which two files are
// reported as near-duplicates.
const DefaultNearDuplicateThreshold = 0.5

// DefaultWatchInterval is the time between re-scans in watch mode.
const DefaultWatchInterval = 10 * time.Minute

// DefaultDefects holds the default defect estimate settings.
var DefaultDefects = Defects{
	BaseDensity: 25.0,
	AIGenerated: true,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
}
