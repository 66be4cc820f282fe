package config

import (
	"encoding/json"
	"flag"
	"io"
	"os"
	"time"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// given in seconds; zero values leave the corresponding Config field alone.
type JsonConfig struct {
	DatabaseDSN     string `json:"database_dsn"`
	LocalDBPath     string `json:"local_db_path"`
	SyncDebounceSec int    `json:"sync_debounce_sec"`
	RetryAttempts   int    `json:"retry_attempts"`
	RetryBaseSec    int    `json:"retry_base_sec"`
	SessionSecret   string `json:"session_secret"`
	SessionTTLSec   int    `json:"session_ttl_sec"`
	ExpenseTTLDays  int    `json:"expense_ttl_days"`
	S3RootUser      string `json:"s3_root_user"`
	S3RootPassword  string `json:"s3_root_password"`
	S3Bucket        string `json:"s3_bucket"`
	S3Region        string `json:"s3_region"`
	S3BaseEndpoint  string `json:"s3_base_endpoint"`
}

// jsonConfigPath extracts the config file path from -c/-config without
// consuming the rest of the flag surface.
func jsonConfigPath() string {
	var path string
	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(filterArgs(os.Args[1:], "-c", "-config"))
	return path
}

// parseJson overlays Config with values loaded from a JSON file, if one was
// named via -c/-config. Read or unmarshal errors panic; intended usage is
// defaults -> parseJson -> parseFlags, where later stages override earlier ones.
func parseJson(cfg *Config) {
	path := jsonConfigPath()
	if path == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
	if jc.SyncDebounceSec > 0 {
		cfg.SyncDebounce = time.Duration(jc.SyncDebounceSec) * time.Second
	}
	if jc.RetryAttempts > 0 {
		cfg.RetryAttempts = jc.RetryAttempts
	}
	if jc.RetryBaseSec > 0 {
		cfg.RetryBaseDelay = time.Duration(jc.RetryBaseSec) * time.Second
	}
	if jc.SessionSecret != "" {
		cfg.SessionSecret = jc.SessionSecret
	}
	if jc.SessionTTLSec > 0 {
		cfg.SessionTTL = time.Duration(jc.SessionTTLSec) * time.Second
	}
	if jc.ExpenseTTLDays > 0 {
		cfg.ExpenseTTL = time.Duration(jc.ExpenseTTLDays) * 24 * time.Hour
	}
	if jc.S3RootUser != "" {
		cfg.S3RootUser = jc.S3RootUser
	}
	if jc.S3RootPassword != "" {
		cfg.S3RootPassword = jc.S3RootPassword
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
}
