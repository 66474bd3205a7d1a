// Package config loads runtime configuration for the backup CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in .yml or
//     .yaml are decoded as YAML, everything else as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string   base URL of the backup service
//	-t int      request timeout (seconds)
//	-d string   download directory
//	-H string   save-history SQLite file ("" disables history)
//	-l string   log level
//	-b string   S3 bucket for mirror uploads
//
// # File schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work:
//
//	{
//	  "service_url": "http://127.0.0.1:5000",
//	  "request_timeout": "5m",
//	  "download_dir": "downloads",
//	  "history_dsn": "history.db",
//	  "log_level": "info",
//	  "proxy": {"http_proxy": "", "https_proxy": "", "no_proxy": "", "socks5_proxy": ""},
//	  "s3": {"bucket": "", "region": "us-east-1", "endpoint": "", "access_key": "", "secret_key": "", "prefix": "backups/"}
//	}
//
// Fields missing from the file keep their previous value.
//
// The credential itself is never part of the configuration.
package config
