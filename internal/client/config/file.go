package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/schoolrecords/internal/flagx"
	"github.com/dmitrijs2005/schoolrecords/internal/timex"
)

// FileConfig is the DTO for config files. Durations use timex.Duration, so
// "5s" and integer nanoseconds both work. Empty fields leave the current
// value alone.
type FileConfig struct {
	BaseURL        string         `json:"base_url" yaml:"base_url"`
	RequestTimeout timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	DatabaseDSN    string         `json:"database_dsn" yaml:"database_dsn"`
	DownloadSink   string         `json:"download_sink" yaml:"download_sink"`
	DownloadDir    string         `json:"download_dir" yaml:"download_dir"`
	S3Bucket       string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey    string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	LogFormat      string         `json:"log_format" yaml:"log_format"`
	LogLevel       string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the file named by -c/-config. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON. Read and decode
// errors panic, as flag errors do.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	fc, err := readFile(path)
	if err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func readFile(path string) (FileConfig, error) {
	var fc FileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}

	return fc, nil
}

func (fc FileConfig) apply(cfg *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.BaseURL, fc.BaseURL)
	set(&cfg.DatabaseDSN, fc.DatabaseDSN)
	set(&cfg.DownloadSink, fc.DownloadSink)
	set(&cfg.DownloadDir, fc.DownloadDir)
	set(&cfg.S3Bucket, fc.S3Bucket)
	set(&cfg.S3Region, fc.S3Region)
	set(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	set(&cfg.S3AccessKey, fc.S3AccessKey)
	set(&cfg.S3SecretKey, fc.S3SecretKey)
	set(&cfg.LogFormat, fc.LogFormat)
	set(&cfg.LogLevel, fc.LogLevel)

	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}
