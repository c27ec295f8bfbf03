// Package config loads runtime configuration for the school-records CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml/.yml are YAML; anything else is JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-t int      request timeout (seconds)
//	-d string   SQLite database path
//	-o string   download directory
//	-s string   download sink (dir or s3)
//	-l string   log level
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "5s" or
// integer nanoseconds:
//
//	{
//	  "base_url": "http://localhost:8080/api",
//	  "request_timeout": "5s",
//	  "database_dsn": "schoolrecords.db",
//	  "download_sink": "s3",
//	  "s3_bucket": "records",
//	  "s3_base_endpoint": "http://127.0.0.1:9000"
//	}
//
// S3 credentials are only read from the file. Environment variables are not
// consulted here; the AWS SDK's own lookup still applies when no keys are
// configured.
package config
