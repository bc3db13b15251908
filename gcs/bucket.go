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
	"net/url"
	"strconv"
)

// Bucket represents a GCS bucket, pre-bound with its name. Non-identity
// attributes (location, storage class, timestamps) are fetched lazily on
// first access.
//
// A Bucket's mutable state is not safe for concurrent mutation; serialize
// externally if an instance is shared across goroutines.
type Bucket struct {
	Name string

	// Retry policy for this bucket's operations. Set to nil to disable
	// retries for this resource only.
	Retry *RetryPolicy

	requester *Requester
	fill      *fillable
}

func newBucket(r *Requester, retry *RetryPolicy, name string) *Bucket {
	b := &Bucket{
		Name:      name,
		Retry:     retry,
		requester: r,
	}
	b.fill = newFillable("bucket", b.fetchData)
	return b
}

// newBucketFromData constructs a bucket straight from a raw representation,
// as produced by listing or creation responses. The instance arrives
// populated, but its existence was never confirmed by a dedicated fetch.
func newBucketFromData(r *Requester, retry *RetryPolicy, raw map[string]any) *Bucket {
	name, _ := raw["name"].(string)
	b := newBucket(r, retry, name)
	b.fill.fill(raw)
	return b
}

func (b *Bucket) complete() error {
	return requireComplete("bucket", identityAttr{"name", b.Name})
}

// fetchData retrieves the bucket's full representation. It backs the lazy
// attribute fill.
func (b *Bucket) fetchData(ctx context.Context) (map[string]any, error) {
	if err := b.complete(); err != nil {
		return nil, err
	}
	return ExecuteWithRetry(ctx, b.Retry, "GetBucket", b.Name, func(ctx context.Context) (map[string]any, error) {
		resp, err := b.requester.Do(ctx, &Call{
			Template: "/b/%s",
			Identity: []string{b.Name},
			Parse:    true,
		})
		if err != nil {
			return nil, err
		}
		var data map[string]any
		if err := resp.JSON(&data); err != nil {
			return nil, &Error{StatusCode: resp.StatusCode, Body: resp.Body}
		}
		return data, nil
	})
}

// Attribute returns the named field of the bucket's representation, fetching
// it from the server the first time an unbound name is requested.
func (b *Bucket) Attribute(ctx context.Context, name string) (any, error) {
	return b.fill.attribute(ctx, name)
}

// SetAttribute binds an attribute locally without a remote call. A later
// fetch overwrites it if the representation defines the same name.
func (b *Bucket) SetAttribute(name string, value any) {
	b.fill.set(name, value)
}

// Location returns the bucket's location, e.g. "US".
func (b *Bucket) Location(ctx context.Context) (string, error) {
	return stringAttribute(ctx, b.fill, "location")
}

// StorageClass returns the bucket's default storage class.
func (b *Bucket) StorageClass(ctx context.Context) (string, error) {
	return stringAttribute(ctx, b.fill, "storageClass")
}

// TimeCreated returns the bucket's creation time in RFC 3339 form.
func (b *Bucket) TimeCreated(ctx context.Context) (string, error) {
	return stringAttribute(ctx, b.fill, "timeCreated")
}

// Exists reports whether the bucket exists. NotFound and BadRequest both
// mean false; any other failure propagates.
func (b *Bucket) Exists(ctx context.Context) (bool, error) {
	if err := b.complete(); err != nil {
		return false, err
	}
	return ExecuteWithRetry(ctx, b.Retry, "HeadBucket", b.Name, func(ctx context.Context) (bool, error) {
		return b.requester.Probe(ctx, &Call{
			Template: "/b/%s",
			Identity: []string{b.Name},
		})
	})
}

// Delete removes the bucket. The bucket must be empty.
func (b *Bucket) Delete(ctx context.Context) error {
	if err := b.complete(); err != nil {
		return err
	}
	_, err := ExecuteWithRetry(ctx, b.Retry, "DeleteBucket", b.Name, func(ctx context.Context) (*Response, error) {
		return b.requester.Do(ctx, &Call{
			Method:   http.MethodDelete,
			Template: "/b/%s",
			Identity: []string{b.Name},
			OK:       []int{http.StatusOK, http.StatusNoContent},
		})
	})
	return err
}

// Object returns a handle on the named object inside the bucket, inheriting
// the bucket's credentials and retry policy.
func (b *Bucket) Object(name string) *Object {
	return newObject(b.requester, b.Retry, b.Name, name)
}

// ListObjectsOptions narrows an object listing.
type ListObjectsOptions struct {
	Prefix     string
	Delimiter  string
	MaxResults int
	Versions   bool
	Projection string
}

// ListObjects returns the bucket's objects, in the order the server lists
// them across pages. Each returned object arrives populated from its list
// item representation.
func (b *Bucket) ListObjects(ctx context.Context, opts *ListObjectsOptions) ([]*Object, error) {
	if err := b.complete(); err != nil {
		return nil, err
	}
	return ExecuteWithRetry(ctx, b.Retry, "ListObjects", b.Name, func(ctx context.Context) ([]*Object, error) {
		params := url.Values{}
		if opts != nil {
			if opts.Prefix != "" {
				params.Set("prefix", opts.Prefix)
			}
			if opts.Delimiter != "" {
				params.Set("delimiter", opts.Delimiter)
			}
			if opts.MaxResults > 0 {
				params.Set("maxResults", strconv.Itoa(opts.MaxResults))
			}
			if opts.Versions {
				params.Set("versions", "true")
			}
			if opts.Projection != "" {
				params.Set("projection", opts.Projection)
			}
		}
		call := &Call{
			Template: "/b/%s/o",
			Identity: []string{b.Name},
			Params:   params,
		}
		return listAll(ctx, b.requester, call, func(raw map[string]any) *Object {
			return newObjectFromData(b.requester, b.Retry, b.Name, raw)
		})
	})
}
