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

package cfg

import (
	"fmt"
	"net/url"
	"slices"
)

var (
	validSeverities = []string{"TRACE", "DEBUG", "INFO", "WARNING", "ERROR", "OFF"}
	validFormats    = []string{"text", "json"}
	validProtocols  = []string{"http1", "http2"}
)

// ValidateConfig rejects combinations the rest of the library would
// misbehave on.
func ValidateConfig(config *Config) error {
	if config.GcsConnection.Endpoint != "" {
		if _, err := url.Parse(config.GcsConnection.Endpoint); err != nil {
			return fmt.Errorf("invalid endpoint %q: %w", config.GcsConnection.Endpoint, err)
		}
	}
	if !slices.Contains(validProtocols, config.GcsConnection.ClientProtocol) {
		return fmt.Errorf("invalid client-protocol %q", config.GcsConnection.ClientProtocol)
	}

	if config.Retries.MaxRetries < 0 {
		return fmt.Errorf("max-retries must not be negative")
	}
	if config.Retries.InitialDelay < 0 || config.Retries.MaxDelay < 0 {
		return fmt.Errorf("retry delays must not be negative")
	}
	if config.Retries.InitialDelay > config.Retries.MaxDelay {
		return fmt.Errorf("retry initial-delay %v exceeds max-delay %v",
			config.Retries.InitialDelay, config.Retries.MaxDelay)
	}
	if config.Retries.Multiplier < 1 {
		return fmt.Errorf("retry multiplier must be at least 1")
	}

	if !slices.Contains(validSeverities, config.Logging.Severity) {
		return fmt.Errorf("invalid log severity %q", config.Logging.Severity)
	}
	if !slices.Contains(validFormats, config.Logging.Format) {
		return fmt.Errorf("invalid log format %q", config.Logging.Format)
	}

	return nil
}
