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
)

// listEnvelope is one page of a collection listing.
type listEnvelope struct {
	Items         []map[string]any `json:"items"`
	NextPageToken string           `json:"nextPageToken"`
}

// listAll drives a collection endpoint to exhaustion, following
// nextPageToken, and constructs one child per raw item. The result preserves
// page order, then within-page order. Accumulation is eager: the full
// sequence is materialized before returning.
//
// The call's Params are copied, so the caller's values are not mutated by
// the pageToken bookkeeping.
func listAll[T any](
	ctx context.Context,
	r *Requester,
	c *Call,
	construct func(raw map[string]any) T,
) ([]T, error) {
	page := *c
	page.Parse = true
	page.Params = make(url.Values, len(c.Params)+1)
	for k, vs := range c.Params {
		page.Params[k] = vs
	}

	var result []T
	for {
		resp, err := r.Do(ctx, &page)
		if err != nil {
			return nil, err
		}
		var envelope listEnvelope
		if err := resp.JSON(&envelope); err != nil {
			return nil, &Error{StatusCode: resp.StatusCode, Body: resp.Body}
		}

		for _, item := range envelope.Items {
			result = append(result, construct(item))
		}

		if envelope.NextPageToken == "" {
			return result, nil
		}
		page.Params.Set("pageToken", envelope.NextPageToken)
	}
}
