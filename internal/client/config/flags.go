package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/fsbackup/internal/flagx"
)

var knownFlags = []string{"-s", "-t", "-d", "-H", "-l", "-b"}

// parseFlags populates selected Config fields from command-line flags.
//
// Only the flags listed in knownFlags are considered; args are filtered with
// flagx.FilterArgs so the config-file flags do not interfere. Panics on
// malformed values, like the rest of configuration loading.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServiceURL, "s", cfg.ServiceURL, "base URL of the backup service")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DownloadDir, "d", cfg.DownloadDir, "download directory")
	fs.StringVar(&cfg.HistoryDSN, "H", cfg.HistoryDSN, "save-history database file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.S3.Bucket, "b", cfg.S3.Bucket, "S3 bucket for mirror uploads")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
