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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeTokenSource struct {
	token *oauth2.Token
	err   error
}

func (s *fakeTokenSource) Token() (*oauth2.Token, error) {
	return s.token, s.err
}

func TestTokenCredentials(t *testing.T) {
	creds := NewTokenCredentials(&fakeTokenSource{
		token: &oauth2.Token{AccessToken: "abc123", TokenType: "Bearer"},
	})

	authz, err := creds.Authorization(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", authz)
}

func TestTokenCredentialsDefaultsToBearer(t *testing.T) {
	creds := NewTokenCredentials(&fakeTokenSource{
		token: &oauth2.Token{AccessToken: "abc123"},
	})

	authz, err := creds.Authorization(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", authz)
}

func TestTokenCredentialsError(t *testing.T) {
	sourceErr := errors.New("keyfile unreadable")
	creds := NewTokenCredentials(&fakeTokenSource{err: sourceErr})

	_, err := creds.Authorization(context.Background())

	require.ErrorIs(t, err, sourceErr)
}

func TestStaticCredentials(t *testing.T) {
	authz, err := StaticCredentials("Bearer fixed").Authorization(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer fixed", authz)
}
