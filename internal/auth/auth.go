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

// Package auth constructs oauth2 token sources for the GCS endpoint, from a
// service-account key file or the application default credentials search
// order.
package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	storagev1 "google.golang.org/api/storage/v1"
)

const universeDomainDefault = "googleapis.com"

func getUniverseDomain(ctx context.Context, contents []byte, scope string) (string, error) {
	creds, err := google.CredentialsFromJSON(ctx, contents, scope)
	if err != nil {
		return "", fmt.Errorf("CredentialsFromJSON(): %w", err)
	}

	domain, err := creds.GetUniverseDomain()
	if err != nil {
		return "", fmt.Errorf("GetUniverseDomain(): %w", err)
	}

	return domain, nil
}

// Create token source from the JSON key file at the supplied path.
func newTokenSourceFromPath(ctx context.Context, path string, scope string) (oauth2.TokenSource, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ReadFile(%q): %w", path, err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(contents, scope)
	if err != nil {
		return nil, fmt.Errorf("JWTConfigFromJSON: %w", err)
	}

	domain, err := getUniverseDomain(ctx, contents, scope)
	if err != nil {
		return nil, err
	}

	ts := jwtConfig.TokenSource(ctx)

	// For non-GDU universe domains, token exchange is impossible and services
	// must support self-signed JWTs with scopes.
	if domain != universeDomainDefault {
		ts, err = google.JWTAccessTokenSourceWithScope(contents, scope)
		if err != nil {
			return nil, fmt.Errorf("JWTAccessTokenSourceWithScope: %w", err)
		}
	}
	return ts, nil
}

// GetTokenSource generates the token source for the GCS endpoint from the
// given key file, falling back to the application default credentials search
// order when keyFile is empty. Tokens are cached and expired 10 seconds
// early, to cover the window where the client still considers a token valid
// but the server no longer does.
func GetTokenSource(ctx context.Context, keyFile string) (oauth2.TokenSource, error) {
	const scope = storagev1.DevstorageFullControlScope

	var ts oauth2.TokenSource
	var err error
	if keyFile != "" {
		ts, err = newTokenSourceFromPath(ctx, keyFile, scope)
		if err != nil {
			return nil, err
		}
	} else {
		ts, err = google.DefaultTokenSource(ctx, scope)
		if err != nil {
			return nil, fmt.Errorf("DefaultTokenSource: %w", err)
		}
	}

	return oauth2.ReuseTokenSourceWithExpiry(nil, ts, 10*time.Second), nil
}
