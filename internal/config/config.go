// Package config defines service configuration and loading.
//
// Precedence (low -> high): defaults, optional YAML file pointed at by
// NEURASCORE_CONFIG, then NEURASCORE_-prefixed environment variables.
package config

// Config contains process configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port string `koanf:"port"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DataDir holds the sqlite database and calibration artifacts.
	DataDir string `koanf:"data_dir"`

	// RedisURL enables distributed rate limiting when non-empty.
	RedisURL string `koanf:"redis_url"`

	// SeedSampleData populates an empty store with generated
	// interaction data on startup. Development convenience only.
	SeedSampleData bool `koanf:"seed_sample_data"`

	// SampleUserCount sizes the generated population when seeding.
	SampleUserCount int `koanf:"sample_user_count"`

	// IdentityBucketHours is the fingerprint time-bucket width used
	// when grouping anonymous sessions into synthetic users. The 4-hour
	// default is a heuristic with no ground truth; it is deliberately
	// tunable rather than a fixed constant.
	IdentityBucketHours int `koanf:"identity_bucket_hours"`

	// ClusterSeed feeds the k-means RNG. Reproducible team assignment
	// within a run is part of the service contract, so the seed is
	// configuration, not an implementation detail.
	ClusterSeed int64 `koanf:"cluster_seed"`

	// MinClusterPopulation is the smallest population for which pattern
	// segmentation is attempted; below it the API reports
	// insufficient data instead of clusters.
	MinClusterPopulation int `koanf:"min_cluster_population"`

	// MaxRecords caps how many interaction records one run will load.
	MaxRecords int `koanf:"max_records"`

	// CacheTTLMinutes controls the read-endpoint response cache.
	CacheTTLMinutes int `koanf:"cache_ttl_minutes"`

	// TriggerLimitPerMin rate-limits pipeline trigger endpoints per IP.
	TriggerLimitPerMin int `koanf:"trigger_limit_per_min"`

	// RetentionDays bounds how long raw interaction rows are kept.
	RetentionDays int `koanf:"retention_days"`

	// SnapshotsKept bounds how many historical score snapshots survive
	// the daily cleanup.
	SnapshotsKept int `koanf:"snapshots_kept"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Port:                 "8080",
		LogLevel:             "info",
		DataDir:              "./data",
		SampleUserCount:      50,
		IdentityBucketHours:  4,
		ClusterSeed:          42,
		MinClusterPopulation: 5,
		MaxRecords:           50000,
		CacheTTLMinutes:      15,
		TriggerLimitPerMin:   6,
		RetentionDays:        365,
		SnapshotsKept:        30,
	}
}
