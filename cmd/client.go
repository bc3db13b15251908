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

package cmd

import (
	"context"
	"fmt"

	"github.com/gcsclient/gcsclient/cfg"
	"github.com/gcsclient/gcsclient/gcs"
	"github.com/gcsclient/gcsclient/internal/auth"
)

// newClient builds a gcs.Client from the loaded config. Against a custom
// endpoint (an emulator) no real token is needed, so static credentials are
// used, mirroring how a dummy token source replaces the real one there.
func newClient(ctx context.Context, config *cfg.Config) (*gcs.Client, error) {
	var credentials gcs.Credentials
	if config.GcsConnection.Endpoint != "" {
		credentials = gcs.StaticCredentials("Bearer")
	} else {
		tokenSrc, err := auth.GetTokenSource(ctx, config.GcsConnection.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("creating token source: %w", err)
		}
		credentials = gcs.NewTokenCredentials(tokenSrc)
	}

	// A zero policy makes exactly one attempt, which is what Disabled means.
	retry := &gcs.RetryPolicy{}
	if !config.Retries.Disabled {
		retry = &gcs.RetryPolicy{
			MaxRetries:        config.Retries.MaxRetries,
			InitialDelay:      config.Retries.InitialDelay,
			MaxDelay:          config.Retries.MaxDelay,
			BackoffMultiplier: config.Retries.Multiplier,
			MaxElapsed:        config.Retries.MaxElapsed,
			Randomize:         config.Retries.Randomize,
		}
	}

	httpClient := gcs.NewHTTPClient(&gcs.HTTPClientConfig{
		MaxConnsPerHost:     config.GcsConnection.MaxConnsPerHost,
		MaxIdleConnsPerHost: config.GcsConnection.MaxIdleConnsPerHost,
		Timeout:             config.GcsConnection.HttpClientTimeout,
		HTTP1Only:           config.GcsConnection.ClientProtocol == "http1",
	})

	return gcs.NewClient(&gcs.ClientConfig{
		Credentials: credentials,
		HTTPClient:  httpClient,
		Endpoint:    config.GcsConnection.Endpoint,
		UserAgent:   "gcsc/" + version,
		RetryPolicy: retry,
	}), nil
}
