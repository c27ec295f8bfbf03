package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	SinkDir = "dir"
	SinkS3  = "s3"
)

// Config holds runtime settings for the school-records CLI.
//
// Units: RequestTimeout is a time.Duration applied to every API request.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	DatabaseDSN    string

	DownloadSink   string
	DownloadDir    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	LogFormat string
	LogLevel  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8080/api"
	c.RequestTimeout = 5 * time.Second
	c.DatabaseDSN = "schoolrecords.db"
	c.DownloadSink = SinkDir
	c.DownloadDir = "downloads"
	c.LogFormat = "console"
	c.LogLevel = "info"
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	var errs []error

	if c.BaseURL == "" {
		errs = append(errs, errors.New("base url is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}

	switch c.DownloadSink {
	case SinkDir:
		if c.DownloadDir == "" {
			errs = append(errs, errors.New("download dir is required for the dir sink"))
		}
	case SinkS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("s3 bucket is required for the s3 sink"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown download sink %q", c.DownloadSink))
	}

	return errors.Join(errs...)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
