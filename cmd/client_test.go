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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcsclient/gcsclient/cfg"
)

func TestNewClientWithCustomEndpoint(t *testing.T) {
	config := &cfg.Config{}
	config.GcsConnection.Endpoint = "http://localhost:9000/storage/v1"
	config.GcsConnection.ClientProtocol = "http1"

	client, err := newClient(context.Background(), config)

	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewClientWithRetriesDisabled(t *testing.T) {
	config := &cfg.Config{}
	config.GcsConnection.Endpoint = "http://localhost:9000/storage/v1"
	config.Retries.Disabled = true

	client, err := newClient(context.Background(), config)

	require.NoError(t, err)
	assert.NotNil(t, client)
}
