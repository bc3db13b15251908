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
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ListTestSuite struct {
	suite.Suite
	ctx context.Context
}

func TestListTestSuite(t *testing.T) {
	suite.Run(t, new(ListTestSuite))
}

func (t *ListTestSuite) SetupTest() {
	t.ctx = context.Background()
}

func nameOf(raw map[string]any) string {
	name, _ := raw["name"].(string)
	return name
}

func (t *ListTestSuite) TestFollowsPageTokens() {
	var uris []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uris = append(uris, r.RequestURI)
		if r.URL.Query().Get("pageToken") == "tok-2" {
			_, _ = w.Write([]byte(`{"items":[{"name":"c"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"items":[{"name":"a"},{"name":"b"}],"nextPageToken":"tok-2"}`))
	}))
	defer server.Close()

	r := NewRequester(StaticCredentials("Bearer x"), server.Client(), server.URL, "")
	params := url.Values{}
	params.Set("prefix", "p/")
	call := &Call{Template: "/b/%s/o", Identity: []string{"bkt"}, Params: params}

	names, err := listAll(t.ctx, r, call, nameOf)

	require.NoError(t.T(), err)
	assert.Equal(t.T(), []string{"a", "b", "c"}, names)
	require.Len(t.T(), uris, 2)
	assert.Equal(t.T(), "/b/bkt/o?prefix=p%2F", uris[0])
	assert.Equal(t.T(), "/b/bkt/o?pageToken=tok-2&prefix=p%2F", uris[1])

	// The caller's params survive untouched.
	assert.Empty(t.T(), call.Params.Get("pageToken"))
	assert.False(t.T(), call.Parse)
}

func (t *ListTestSuite) TestEmptyCollection() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"kind":"storage#objects"}`))
	}))
	defer server.Close()

	r := NewRequester(StaticCredentials("Bearer x"), server.Client(), server.URL, "")

	names, err := listAll(t.ctx, r, &Call{Template: "/b"}, nameOf)

	require.NoError(t.T(), err)
	assert.Empty(t.T(), names)
}

func (t *ListTestSuite) TestPageFailureAbortsWholeListing() {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_, _ = w.Write([]byte(`{"items":[{"name":"a"}],"nextPageToken":"tok-2"}`))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	r := NewRequester(StaticCredentials("Bearer x"), server.Client(), server.URL, "")

	names, err := listAll(t.ctx, r, &Call{Template: "/b"}, nameOf)

	var serverErr *ServerError
	require.ErrorAs(t.T(), err, &serverErr)
	assert.Nil(t.T(), names)
	assert.Equal(t.T(), 2, calls)
}

func (t *ListTestSuite) TestMalformedEnvelope() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":"not-an-array"}`))
	}))
	defer server.Close()

	r := NewRequester(StaticCredentials("Bearer x"), server.Client(), server.URL, "")

	_, err := listAll(t.ctx, r, &Call{Template: "/b"}, nameOf)

	var generic *Error
	require.ErrorAs(t.T(), err, &generic)
	assert.Equal(t.T(), http.StatusOK, generic.StatusCode)
}
