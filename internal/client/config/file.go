package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/fsbackup/internal/flagx"
	"github.com/dmitrijs2005/fsbackup/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for decoding config files. Pointer
// fields distinguish "absent" from "empty" so a file only overrides what it
// mentions.
type FileConfig struct {
	ServiceURL     *string         `json:"service_url" yaml:"service_url"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	DownloadDir    *string         `json:"download_dir" yaml:"download_dir"`
	HistoryDSN     *string         `json:"history_dsn" yaml:"history_dsn"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	Proxy          *FileProxy      `json:"proxy" yaml:"proxy"`
	S3             *FileS3         `json:"s3" yaml:"s3"`
}

type FileProxy struct {
	HTTPProxy   string `json:"http_proxy" yaml:"http_proxy"`
	HTTPSProxy  string `json:"https_proxy" yaml:"https_proxy"`
	NoProxy     string `json:"no_proxy" yaml:"no_proxy"`
	SOCKS5Proxy string `json:"socks5_proxy" yaml:"socks5_proxy"`
}

type FileS3 struct {
	Bucket    string `json:"bucket" yaml:"bucket"`
	Region    string `json:"region" yaml:"region"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	AccessKey string `json:"access_key" yaml:"access_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key"`
	Prefix    string `json:"prefix" yaml:"prefix"`
}

// parseFile overlays cfg with values from the file named by -c/-config.
// No flag means no change. Read or decode errors panic, like parseFlags.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.ServiceURL != nil {
		cfg.ServiceURL = *fc.ServiceURL
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.DownloadDir != nil {
		cfg.DownloadDir = *fc.DownloadDir
	}
	if fc.HistoryDSN != nil {
		cfg.HistoryDSN = *fc.HistoryDSN
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if p := fc.Proxy; p != nil {
		cfg.Proxy.HTTPProxy = p.HTTPProxy
		cfg.Proxy.HTTPSProxy = p.HTTPSProxy
		cfg.Proxy.NoProxy = p.NoProxy
		cfg.Proxy.SOCKS5Proxy = p.SOCKS5Proxy
	}
	if s := fc.S3; s != nil {
		cfg.S3.Bucket = s.Bucket
		cfg.S3.Endpoint = s.Endpoint
		cfg.S3.AccessKey = s.AccessKey
		cfg.S3.SecretKey = s.SecretKey
		if s.Region != "" {
			cfg.S3.Region = s.Region
		}
		if s.Prefix != "" {
			cfg.S3.Prefix = s.Prefix
		}
	}
}
