package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries launcher-level settings: everything the launcher itself
// needs to run, as opposed to the training options that flow through the
// flag schema. Loaded from the environment with defaults.
type Config struct {
	// External trainer entry point, e.g. "python train.py".
	EntryPoint string

	// Object storage holding the fixed dataset/vocabulary files.
	DataBucket      string
	DataPrefix      string
	DataRegion      string
	DataEndpoint    string // set for MinIO/local S3
	AccessKeyID     string
	SecretAccessKey string
	DataDir         string

	// Run history ledger; disabled when the DSN is empty.
	HistoryDSN string

	// Status server; disabled when the port is empty.
	StatusPort string

	// Experiment tracker passthrough, serialized onto the trainer's
	// environment rather than read ambiently (reproducible runs).
	TrackerProject string
	TrackerMode    string

	// Tracing; disabled when the endpoint is empty.
	OTLPEndpoint string

	LogLevel string

	// Advisory preflight floor in MB; 0 disables the warning.
	MinFreeMemoryMB uint64
}

func LoadConfig() *Config {
	return &Config{
		EntryPoint:      getEnv("TRAINCTL_ENTRYPOINT", "python train.py"),
		DataBucket:      getEnv("TRAINCTL_DATA_BUCKET", ""),
		DataPrefix:      getEnv("TRAINCTL_DATA_PREFIX", "data/"),
		DataRegion:      getEnv("TRAINCTL_DATA_REGION", "us-east-1"),
		DataEndpoint:    getEnv("TRAINCTL_DATA_ENDPOINT", ""),
		AccessKeyID:     getEnv("TRAINCTL_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("TRAINCTL_SECRET_ACCESS_KEY", ""),
		DataDir:         getEnv("TRAINCTL_DATA_DIR", "."),
		HistoryDSN:      getEnv("TRAINCTL_HISTORY_DSN", ""),
		StatusPort:      getEnv("TRAINCTL_STATUS_PORT", ""),
		TrackerProject:  getEnv("TRAINCTL_TRACKER_PROJECT", ""),
		TrackerMode:     getEnv("TRAINCTL_TRACKER_MODE", ""),
		OTLPEndpoint:    getEnv("TRAINCTL_OTLP_ENDPOINT", ""),
		LogLevel:        getEnv("TRAINCTL_LOG_LEVEL", "info"),
		MinFreeMemoryMB: getEnvAsUint("TRAINCTL_MIN_FREE_MEM_MB", 0),
	}
}

// EntryPointArgv splits the entry point into command and leading args.
func (c *Config) EntryPointArgv() (string, []string) {
	parts := strings.Fields(c.EntryPoint)
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0], parts[1:]
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsUint(key string, fallback uint64) uint64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseUint(valueStr, 10, 64); err == nil {
		return value
	}
	return fallback
}
