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

package gcs

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// Credentials supplies the value for the Authorization header attached to
// every request. Implementations must be safe for concurrent use; all
// resources derived from the same client share the same Credentials by
// reference.
type Credentials interface {
	Authorization(ctx context.Context) (string, error)
}

// tokenCredentials derives the header value from an oauth2 token source,
// refreshing as the source dictates.
type tokenCredentials struct {
	src oauth2.TokenSource
}

// NewTokenCredentials wraps an oauth2.TokenSource as Credentials. The source
// should cache tokens; see internal/auth for construction from a key file or
// application default credentials.
func NewTokenCredentials(src oauth2.TokenSource) Credentials {
	return &tokenCredentials{src: src}
}

func (c *tokenCredentials) Authorization(_ context.Context) (string, error) {
	tok, err := c.src.Token()
	if err != nil {
		return "", fmt.Errorf("fetching token: %w", err)
	}
	return tok.Type() + " " + tok.AccessToken, nil
}

// StaticCredentials returns Credentials that always produce the given header
// value. Useful against emulators and in tests.
func StaticCredentials(value string) Credentials {
	return staticCredentials(value)
}

type staticCredentials string

func (c staticCredentials) Authorization(context.Context) (string, error) {
	return string(c), nil
}
