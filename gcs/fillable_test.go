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
	"github.com/stretchr/testify/suite"
)

type FillableTestSuite struct {
	suite.Suite
	ctx context.Context
}

func TestFillableTestSuite(t *testing.T) {
	suite.Run(t, new(FillableTestSuite))
}

func (t *FillableTestSuite) SetupTest() {
	t.ctx = context.Background()
}

// countingFetch returns a fetchFunc that counts invocations and serves the
// given data or error.
func countingFetch(count *int, data map[string]any, err error) fetchFunc {
	return func(ctx context.Context) (map[string]any, error) {
		*count++
		if err != nil {
			return nil, err
		}
		return data, nil
	}
}

func (t *FillableTestSuite) TestFirstAccessFetchesExactlyOnce() {
	fetches := 0
	f := newFillable("bucket", countingFetch(&fetches, map[string]any{"location": "US"}, nil))

	v, err := f.attribute(t.ctx, "location")

	require.NoError(t.T(), err)
	assert.Equal(t.T(), "US", v)
	assert.Equal(t.T(), 1, fetches)
	assert.Equal(t.T(), existenceConfirmed, f.existence)

	// Bound attribute resolves locally.
	_, err = f.attribute(t.ctx, "location")
	require.NoError(t.T(), err)
	assert.Equal(t.T(), 1, fetches)
}

func (t *FillableTestSuite) TestMissAfterSuccessfulFetchNeverRefetches() {
	fetches := 0
	f := newFillable("bucket", countingFetch(&fetches, map[string]any{"location": "US"}, nil))

	_, err := f.attribute(t.ctx, "nonexistent")

	var notFound *AttributeNotFoundError
	require.ErrorAs(t.T(), err, &notFound)
	assert.Equal(t.T(), "nonexistent", notFound.Attribute)
	assert.Equal(t.T(), 1, fetches)

	// The representation is final; later misses make zero calls.
	_, err = f.attribute(t.ctx, "alsoMissing")
	assert.ErrorAs(t.T(), err, &notFound)
	assert.Equal(t.T(), 1, fetches)
}

func (t *FillableTestSuite) TestNotFoundMarksPermanentlyAbsent() {
	fetches := 0
	f := newFillable("object", countingFetch(&fetches, nil, statusError(404, nil)))

	_, err := f.attribute(t.ctx, "size")

	var notFound *AttributeNotFoundError
	require.ErrorAs(t.T(), err, &notFound)
	assert.Equal(t.T(), existenceAbsent, f.existence)
	assert.False(t.T(), f.populated)
	assert.Equal(t.T(), 1, fetches)

	// Permanently absent: no further network calls, ever.
	for i := 0; i < 3; i++ {
		_, err = f.attribute(t.ctx, "size")
		assert.ErrorAs(t.T(), err, &notFound)
	}
	assert.Equal(t.T(), 1, fetches)
}

func (t *FillableTestSuite) TestTransientErrorLeavesStateUnchanged() {
	fetches := 0
	serverErr := &ServerError{Err: errors.New("boom")}
	f := newFillable("bucket", countingFetch(&fetches, nil, serverErr))

	_, err := f.attribute(t.ctx, "location")

	// Propagated unchanged.
	assert.Same(t.T(), serverErr, err)
	assert.Equal(t.T(), existenceUnknown, f.existence)
	assert.False(t.T(), f.populated)

	// The next access tries again.
	_, err = f.attribute(t.ctx, "location")
	assert.Same(t.T(), serverErr, err)
	assert.Equal(t.T(), 2, fetches)
}

func (t *FillableTestSuite) TestFetchedValueWinsOverPreAssigned() {
	fetches := 0
	f := newFillable("bucket", countingFetch(&fetches, map[string]any{"location": "EU"}, nil))
	f.set("location", "US")
	f.set("custom", "kept")

	// A bound name resolves locally, no fetch.
	v, err := f.attribute(t.ctx, "location")
	require.NoError(t.T(), err)
	assert.Equal(t.T(), "US", v)
	assert.Equal(t.T(), 0, fetches)

	// An unbound name triggers the fetch; the fetched value overwrites the
	// pre-assigned one.
	_, err = f.attribute(t.ctx, "storageClass")
	var notFound *AttributeNotFoundError
	assert.ErrorAs(t.T(), err, &notFound)

	v, err = f.attribute(t.ctx, "location")
	require.NoError(t.T(), err)
	assert.Equal(t.T(), "EU", v)

	// Names the representation does not define survive the merge.
	v, err = f.attribute(t.ctx, "custom")
	require.NoError(t.T(), err)
	assert.Equal(t.T(), "kept", v)
}

func (t *FillableTestSuite) TestSingleEntryMapsFlatten() {
	fetches := 0
	data := map[string]any{
		"timeDeleted": map[string]any{"precise": "2024-01-01T00:00:00Z"},
		"owner":       map[string]any{"entity": "user-x", "entityId": "123"},
	}
	f := newFillable("object", countingFetch(&fetches, data, nil))

	v, err := f.attribute(t.ctx, "timeDeleted")
	require.NoError(t.T(), err)
	assert.Equal(t.T(), "2024-01-01T00:00:00Z", v)

	// Multi-entry mappings are preserved as-is.
	v, err = f.attribute(t.ctx, "owner")
	require.NoError(t.T(), err)
	assert.Equal(t.T(), map[string]any{"entity": "user-x", "entityId": "123"}, v)
}

func (t *FillableTestSuite) TestFillFromDataBypassesFetch() {
	fetches := 0
	f := newFillable("bucket", countingFetch(&fetches, nil, errors.New("must not be called")))
	f.fill(map[string]any{"name": "b1"})

	v, err := f.attribute(t.ctx, "name")
	require.NoError(t.T(), err)
	assert.Equal(t.T(), "b1", v)

	// Populated but existence never confirmed by a dedicated fetch.
	assert.True(t.T(), f.populated)
	assert.Equal(t.T(), existenceUnknown, f.existence)

	_, err = f.attribute(t.ctx, "missing")
	var notFound *AttributeNotFoundError
	assert.ErrorAs(t.T(), err, &notFound)
	assert.Equal(t.T(), 0, fetches)
}
