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
	"fmt"
	"strconv"
)

// existence tracks what we know about a resource's presence on the server.
type existence int

const (
	existenceUnknown existence = iota
	existenceConfirmed
	existenceAbsent
)

// fetchFunc retrieves a resource's full raw representation. Each resource
// type supplies its own, wrapped in its completeness check and retry policy.
type fetchFunc func(ctx context.Context) (map[string]any, error)

// fillable is the lazy-fill attribute bag shared by every resource type.
// Reading an attribute that is not locally bound triggers, at most once per
// instance, a fetch of the full representation; the result is merged and the
// representation is final for the instance's lifetime.
//
// A fillable is not safe for concurrent mutation; callers sharing a resource
// instance across goroutines must serialize access externally.
type fillable struct {
	resource string
	fetch    fetchFunc

	attrs     map[string]any
	populated bool
	existence existence
}

func newFillable(resource string, fetch fetchFunc) *fillable {
	return &fillable{
		resource: resource,
		fetch:    fetch,
		attrs:    make(map[string]any),
	}
}

// set binds an attribute locally. A later successful fetch overwrites it if
// the representation defines the same name.
func (f *fillable) set(name string, value any) {
	f.attrs[name] = value
}

// fill merges a raw representation into the bag and marks it final. Fetched
// values win over anything previously bound under the same name. A value
// that is itself a single-entry object collapses to its bare value; the
// service wraps some scalars that way, e.g. {"precise": v}.
func (f *fillable) fill(data map[string]any) {
	f.populated = true
	for k, v := range data {
		if m, ok := v.(map[string]any); ok && len(m) == 1 {
			for _, inner := range m {
				v = inner
			}
		}
		f.attrs[k] = v
	}
}

// attribute resolves name, fetching the representation on a local miss.
//
// After the fetch fails with NotFound the instance is permanently marked
// absent and never fetches again. Any other fetch failure propagates
// unchanged and leaves the state untouched, so a transient failure is
// retried on the next access.
func (f *fillable) attribute(ctx context.Context, name string) (any, error) {
	if v, ok := f.attrs[name]; ok {
		return v, nil
	}
	if f.populated || f.existence == existenceAbsent {
		return nil, &AttributeNotFoundError{Resource: f.resource, Attribute: name}
	}

	data, err := f.fetch(ctx)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			f.existence = existenceAbsent
			return nil, &AttributeNotFoundError{Resource: f.resource, Attribute: name}
		}
		return nil, err
	}

	f.existence = existenceConfirmed
	f.fill(data)

	if v, ok := f.attrs[name]; ok {
		return v, nil
	}
	return nil, &AttributeNotFoundError{Resource: f.resource, Attribute: name}
}

// Typed accessors over the bag. JSON decoding leaves numbers as float64 and
// the service encodes 64-bit values as decimal strings, so both forms are
// accepted.

func stringAttribute(ctx context.Context, f *fillable, name string) (string, error) {
	v, err := f.attribute(ctx, name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s attribute %q is %T, not a string", f.resource, name, v)
	}
	return s, nil
}

func uint64Attribute(ctx context.Context, f *fillable, name string) (uint64, error) {
	v, err := f.attribute(ctx, name)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case string:
		return strconv.ParseUint(t, 10, 64)
	case float64:
		return uint64(t), nil
	}
	return 0, fmt.Errorf("%s attribute %q is %T, not numeric", f.resource, name, v)
}

func int64Attribute(ctx context.Context, f *fillable, name string) (int64, error) {
	v, err := f.attribute(ctx, name)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case string:
		return strconv.ParseInt(t, 10, 64)
	case float64:
		return int64(t), nil
	}
	return 0, fmt.Errorf("%s attribute %q is %T, not numeric", f.resource, name, v)
}
