// Copyright 2024 The gcsclient Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cfg defines the configuration surface shared by the CLI and any
// embedding program: connection, retry and logging knobs, loadable from
// flags or a YAML config file.
package cfg

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	GcsConnection GcsConnectionConfig `yaml:"gcs-connection"`

	Retries RetriesConfig `yaml:"retries"`

	Logging LoggingConfig `yaml:"logging"`
}

type GcsConnectionConfig struct {
	// Endpoint overrides the GCS JSON API base URL, e.g. for an emulator.
	Endpoint string `yaml:"endpoint"`

	// KeyFile is the path to a service-account JSON key. Empty means the
	// application default credentials search order.
	KeyFile string `yaml:"key-file"`

	HttpClientTimeout time.Duration `yaml:"http-client-timeout"`

	MaxConnsPerHost int `yaml:"max-conns-per-host"`

	MaxIdleConnsPerHost int `yaml:"max-idle-conns-per-host"`

	// ClientProtocol is "http1" or "http2".
	ClientProtocol string `yaml:"client-protocol"`
}

type RetriesConfig struct {
	MaxRetries int `yaml:"max-retries"`

	InitialDelay time.Duration `yaml:"initial-delay"`

	MaxDelay time.Duration `yaml:"max-delay"`

	Multiplier float64 `yaml:"multiplier"`

	MaxElapsed time.Duration `yaml:"max-elapsed"`

	Randomize bool `yaml:"randomize"`

	// Disabled turns retries off entirely.
	Disabled bool `yaml:"disabled"`
}

type LoggingConfig struct {
	// FilePath of the log file. Empty logs to stderr.
	FilePath string `yaml:"file-path"`

	// Format is "text" or "json".
	Format string `yaml:"format"`

	// Severity is one of TRACE, DEBUG, INFO, WARNING, ERROR, OFF.
	Severity string `yaml:"severity"`
}

// BindFlags registers every config knob on the flag set and returns a viper
// instance bound to it.
func BindFlags(flagSet *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()

	flags := []struct {
		key   string
		name  string
		value any
		usage string
	}{
		{"gcs-connection.endpoint", "endpoint", "", "Alternative base URL for the GCS JSON API."},
		{"gcs-connection.key-file", "key-file", "", "Absolute path to a service-account JSON key file."},
		{"gcs-connection.http-client-timeout", "http-client-timeout", time.Duration(0), "Per-request timeout for HTTP exchanges. 0 disables the timeout."},
		{"gcs-connection.max-conns-per-host", "max-conns-per-host", 0, "Max connections allowed per server. 0 means no limit."},
		{"gcs-connection.max-idle-conns-per-host", "max-idle-conns-per-host", 100, "Max idle connections kept per server."},
		{"gcs-connection.client-protocol", "client-protocol", "http1", "Protocol for talking to the backend: 'http1' (HTTP/1.1) or 'http2'."},
		{"retries.max-retries", "max-retries", 5, "Retries after the initial attempt of a failed remote call."},
		{"retries.initial-delay", "retry-initial-delay", 1 * time.Second, "Backoff before the first retry."},
		{"retries.max-delay", "max-retry-sleep", 32 * time.Second, "Cap on the backoff between consecutive retries."},
		{"retries.multiplier", "retry-multiplier", 2.0, "Rate at which the retry backoff grows."},
		{"retries.max-elapsed", "retry-max-elapsed", 5 * time.Minute, "Total time budget across all attempts of one call."},
		{"retries.randomize", "retry-randomize", true, "Jitter retry backoff durations."},
		{"retries.disabled", "disable-retries", false, "Run every remote call exactly once."},
		{"logging.file-path", "log-file", "", "File to log to. Empty logs to stderr."},
		{"logging.format", "log-format", "text", "Log output format: 'text' or 'json'."},
		{"logging.severity", "log-severity", "INFO", "Minimum severity that gets logged: TRACE, DEBUG, INFO, WARNING, ERROR or OFF."},
	}

	for _, f := range flags {
		switch value := f.value.(type) {
		case string:
			flagSet.StringP(f.name, "", value, f.usage)
		case int:
			flagSet.IntP(f.name, "", value, f.usage)
		case bool:
			flagSet.BoolP(f.name, "", value, f.usage)
		case float64:
			flagSet.Float64P(f.name, "", value, f.usage)
		case time.Duration:
			flagSet.DurationP(f.name, "", value, f.usage)
		}
		if err := v.BindPFlag(f.key, flagSet.Lookup(f.name)); err != nil {
			return nil, err
		}
	}

	return v, nil
}
