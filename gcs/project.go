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
	"net/url"
	"strconv"
)

// Project represents a GCP project as the container of buckets. Its only
// identity attribute is the project id.
type Project struct {
	ProjectID string

	// Retry policy for this project's operations. Set to nil to disable
	// retries for this resource only.
	Retry *RetryPolicy

	requester *Requester
}

func (p *Project) complete() error {
	return requireComplete("project", identityAttr{"project_id", p.ProjectID})
}

// DefaultBucketName returns the App Engine default bucket name for the
// project, or "" when the project id is unbound.
func (p *Project) DefaultBucketName() string {
	if p.ProjectID == "" {
		return ""
	}
	return p.ProjectID + ".appspot.com"
}

// ListBucketsOptions narrows a bucket listing.
type ListBucketsOptions struct {
	// Partial-response field selector, e.g. "items(name,location)".
	Fields string

	// Page size hint. The listing still drains every page.
	MaxResults int

	// ProjectionSimple or ProjectionFull. Empty means ProjectionSimple.
	Projection string
}

// ListBuckets returns every bucket of the project, in the order the server
// lists them across pages.
func (p *Project) ListBuckets(ctx context.Context, opts *ListBucketsOptions) ([]*Bucket, error) {
	if err := p.complete(); err != nil {
		return nil, err
	}
	return ExecuteWithRetry(ctx, p.Retry, "ListBuckets", p.ProjectID, func(ctx context.Context) ([]*Bucket, error) {
		params := url.Values{}
		params.Set("project", p.ProjectID)
		params.Set("projection", ProjectionSimple)
		if opts != nil {
			if opts.Fields != "" {
				params.Set("fields", opts.Fields)
			}
			if opts.MaxResults > 0 {
				params.Set("maxResults", strconv.Itoa(opts.MaxResults))
			}
			if opts.Projection != "" {
				params.Set("projection", opts.Projection)
			}
		}
		call := &Call{Template: "/b", Params: params}
		return listAll(ctx, p.requester, call, func(raw map[string]any) *Bucket {
			return newBucketFromData(p.requester, p.Retry, raw)
		})
	})
}

// CreateBucketOptions configures bucket creation. Zero values fall back to
// the service defaults used by this library: location US, storage class
// NEARLINE, simple projection.
type CreateBucketOptions struct {
	Location                   string
	StorageClass               string
	PredefinedACL              string
	PredefinedDefaultObjectACL string
	Projection                 string

	// Extra body fields passed through to the insert call, e.g. versioning
	// or lifecycle configuration.
	Extra map[string]any
}

// CreateBucket creates a bucket owned by the project and returns it already
// populated from the creation response.
func (p *Project) CreateBucket(ctx context.Context, name string, opts *CreateBucketOptions) (*Bucket, error) {
	if err := p.complete(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &CreateBucketOptions{}
	}
	location := opts.Location
	if location == "" {
		location = "US"
	}
	storageClass := opts.StorageClass
	if storageClass == "" {
		storageClass = StorageClassNearline
	}
	projection := opts.Projection
	if projection == "" {
		projection = ProjectionSimple
	}

	return ExecuteWithRetry(ctx, p.Retry, "CreateBucket", name, func(ctx context.Context) (*Bucket, error) {
		params := url.Values{}
		params.Set("project", p.ProjectID)
		params.Set("projection", projection)
		if opts.PredefinedACL != "" {
			params.Set("predefinedAcl", opts.PredefinedACL)
		}
		if opts.PredefinedDefaultObjectACL != "" {
			params.Set("predefinedDefaultObjectAcl", opts.PredefinedDefaultObjectACL)
		}

		body := map[string]any{
			"name":         name,
			"location":     location,
			"storageClass": storageClass,
		}
		for k, v := range opts.Extra {
			body[k] = v
		}

		resp, err := p.requester.Do(ctx, &Call{
			Method:   "POST",
			Template: "/b",
			Params:   params,
			Body:     body,
			Parse:    true,
		})
		if err != nil {
			return nil, err
		}
		var data map[string]any
		if err := resp.JSON(&data); err != nil {
			return nil, &Error{StatusCode: resp.StatusCode, Body: resp.Body}
		}
		return newBucketFromData(p.requester, p.Retry, data), nil
	})
}
