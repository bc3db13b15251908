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
	"time"
)

// Object is a particular object name inside a bucket. Identity attributes
// are the bucket name and the object name; everything else (size, content
// type, generation...) is fetched lazily.
//
// An Object's mutable state is not safe for concurrent mutation; serialize
// externally if an instance is shared across goroutines.
type Object struct {
	Bucket string
	Name   string

	// Retry policy for this object's operations. Set to nil to disable
	// retries for this resource only.
	Retry *RetryPolicy

	requester *Requester
	fill      *fillable
}

func newObject(r *Requester, retry *RetryPolicy, bucket, name string) *Object {
	o := &Object{
		Bucket:    bucket,
		Name:      name,
		Retry:     retry,
		requester: r,
	}
	o.fill = newFillable("object", o.fetchData)
	return o
}

// newObjectFromData constructs an object from a raw list item. The bucket
// name comes from the representation when present, falling back to the
// listed bucket.
func newObjectFromData(r *Requester, retry *RetryPolicy, bucket string, raw map[string]any) *Object {
	if b, ok := raw["bucket"].(string); ok && b != "" {
		bucket = b
	}
	name, _ := raw["name"].(string)
	o := newObject(r, retry, bucket, name)
	o.fill.fill(raw)
	return o
}

func (o *Object) complete() error {
	return requireComplete("object",
		identityAttr{"bucket", o.Bucket},
		identityAttr{"name", o.Name})
}

func (o *Object) describe() string {
	return o.Bucket + "/" + o.Name
}

func (o *Object) fetchData(ctx context.Context) (map[string]any, error) {
	if err := o.complete(); err != nil {
		return nil, err
	}
	return ExecuteWithRetry(ctx, o.Retry, "GetObject", o.describe(), func(ctx context.Context) (map[string]any, error) {
		resp, err := o.requester.Do(ctx, &Call{
			Template: "/b/%s/o/%s",
			Identity: []string{o.Bucket, o.Name},
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

// Attribute returns the named field of the object's representation, fetching
// it from the server the first time an unbound name is requested.
func (o *Object) Attribute(ctx context.Context, name string) (any, error) {
	return o.fill.attribute(ctx, name)
}

// SetAttribute binds an attribute locally without a remote call. A later
// fetch overwrites it if the representation defines the same name.
func (o *Object) SetAttribute(name string, value any) {
	o.fill.set(name, value)
}

// Size returns the object's size in bytes. The service encodes it as a
// decimal string.
func (o *Object) Size(ctx context.Context) (uint64, error) {
	return uint64Attribute(ctx, o.fill, "size")
}

// ContentType returns the object's Content-Type.
func (o *Object) ContentType(ctx context.Context) (string, error) {
	return stringAttribute(ctx, o.fill, "contentType")
}

// Generation returns the object's data generation.
func (o *Object) Generation(ctx context.Context) (int64, error) {
	return int64Attribute(ctx, o.fill, "generation")
}

// MD5Hash returns the base64-encoded MD5 of the object data.
func (o *Object) MD5Hash(ctx context.Context) (string, error) {
	return stringAttribute(ctx, o.fill, "md5Hash")
}

// Updated returns the object's last modification time.
func (o *Object) Updated(ctx context.Context) (time.Time, error) {
	s, err := stringAttribute(ctx, o.fill, "updated")
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, s)
}

// Exists reports whether the object exists. NotFound and BadRequest both
// mean false; any other failure propagates.
func (o *Object) Exists(ctx context.Context) (bool, error) {
	if err := o.complete(); err != nil {
		return false, err
	}
	return ExecuteWithRetry(ctx, o.Retry, "HeadObject", o.describe(), func(ctx context.Context) (bool, error) {
		return o.requester.Probe(ctx, &Call{
			Template: "/b/%s/o/%s",
			Identity: []string{o.Bucket, o.Name},
		})
	})
}

// Delete removes the object.
func (o *Object) Delete(ctx context.Context) error {
	if err := o.complete(); err != nil {
		return err
	}
	_, err := ExecuteWithRetry(ctx, o.Retry, "DeleteObject", o.describe(), func(ctx context.Context) (*Response, error) {
		return o.requester.Do(ctx, &Call{
			Method:   http.MethodDelete,
			Template: "/b/%s/o/%s",
			Identity: []string{o.Bucket, o.Name},
			OK:       []int{http.StatusOK, http.StatusNoContent},
		})
	})
	return err
}
