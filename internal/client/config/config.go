package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/fsbackup/internal/netx"
)

// Config holds runtime settings for the backup CLI.
//
// Fields:
//   - ServiceURL: base URL of the backup service (no trailing slash).
//   - RequestTimeout: upper bound for one remote call, body included.
//   - DownloadDir: where generated backups are saved.
//   - HistoryDSN: SQLite file for the save history; empty disables it.
//   - LogLevel: debug, info, warn or error.
//   - Proxy: outbound proxy settings.
//   - S3*: optional mirror upload of every saved backup.
type Config struct {
	ServiceURL     string
	RequestTimeout time.Duration
	DownloadDir    string
	HistoryDSN     string
	LogLevel       string
	Proxy          netx.ProxyOptions
	S3             S3Config
}

// S3Config configures the optional S3-compatible mirror upload. Uploading
// is enabled when Bucket is set.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Enabled reports whether artifacts should be mirrored to S3.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServiceURL = "http://127.0.0.1:5000"
	c.RequestTimeout = 5 * time.Minute
	c.DownloadDir = "downloads"
	c.HistoryDSN = "history.db"
	c.LogLevel = "info"
	c.S3.Region = "us-east-1"
	c.S3.Prefix = "backups/"
}

// LoadConfig constructs a Config from defaults, then the config file (if
// given with -c/-config), then command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	return loadConfig(os.Args[1:])
}

func loadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
