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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/gcsclient/gcsclient/internal/logger"
)

// DefaultEndpoint is the base URL of the GCS JSON API.
const DefaultEndpoint = "https://www.googleapis.com/storage/v1"

// Requester issues authenticated requests against the JSON API and maps
// non-success statuses into the error taxonomy.
type Requester struct {
	credentials Credentials
	client      *http.Client
	endpoint    string
	userAgent   string
}

// NewRequester returns a Requester using the given credentials. A nil client
// falls back to http.DefaultClient; an empty endpoint falls back to
// DefaultEndpoint.
func NewRequester(credentials Credentials, client *http.Client, endpoint, userAgent string) *Requester {
	if client == nil {
		client = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Requester{
		credentials: credentials,
		client:      client,
		endpoint:    strings.TrimSuffix(endpoint, "/"),
		userAgent:   userAgent,
	}
}

// Endpoint returns the base URL requests are issued against.
func (r *Requester) Endpoint() string {
	return r.endpoint
}

// Call describes one request against the JSON API.
type Call struct {
	// HTTP method. Empty means GET.
	Method string

	// Literal URL. When set, Template and Identity are ignored.
	URL string

	// Path template relative to the endpoint, with one %s verb per identity
	// value, e.g. "/b/%s/o/%s".
	Template string

	// Ordered identity attribute values substituted into Template. Each is
	// percent-encoded with an empty safe set before substitution.
	Identity []string

	// URL query parameters.
	Params url.Values

	// Request body, JSON-encoded when non-nil.
	Body any

	// Extra headers, merged into the request. The Authorization header is
	// always derived from the credentials and cannot be overridden here.
	Headers http.Header

	// Statuses considered successful. Empty means 200 only.
	OK []int

	// When set, the response body must parse as JSON even if the status was
	// acceptable.
	Parse bool
}

// Response is a completed exchange with an acceptable status.
type Response struct {
	StatusCode int
	Body       []byte
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// escapeAll percent-encodes every byte of s outside the unreserved set.
// Unlike url.PathEscape this escapes "/" too, so identity values cannot
// smuggle extra path segments into the URL.
func escapeAll(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
			c == '-' || c == '_' || c == '.' || c == '~' {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func (r *Requester) buildURL(c *Call) string {
	if c.URL != "" {
		return c.URL
	}
	args := make([]any, len(c.Identity))
	for i, v := range c.Identity {
		args[i] = escapeAll(v)
	}
	return r.endpoint + fmt.Sprintf(c.Template, args...)
}

// Do performs the call, returning a typed error for any status outside
// c.OK. Network failures come back wrapped but classified as transient by
// ShouldRetry.
func (r *Requester) Do(ctx context.Context, c *Call) (*Response, error) {
	method := c.Method
	if method == "" {
		method = http.MethodGet
	}
	urlStr := r.buildURL(c)
	if len(c.Params) > 0 {
		urlStr += "?" + c.Params.Encode()
	}

	var body io.Reader
	if c.Body != nil {
		encoded, err := json.Marshal(c.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, vs := range c.Headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	authz, err := r.credentials.Authorization(ctx)
	if err != nil {
		return nil, fmt.Errorf("deriving authorization: %w", err)
	}
	req.Header.Set("Authorization", authz)
	if c.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	reqID := uuid.NewString()
	logger.Tracef("-> %s %s [req:%s]", method, urlStr, reqID)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s [req:%s]: %w", method, urlStr, reqID, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response [req:%s]: %w", reqID, err)
	}

	logger.Tracef("<- %d %s %s [req:%s]", resp.StatusCode, method, urlStr, reqID)

	ok := c.OK
	if len(ok) == 0 {
		ok = []int{http.StatusOK}
	}
	accepted := false
	for _, s := range ok {
		if resp.StatusCode == s {
			accepted = true
			break
		}
	}
	if !accepted {
		return nil, statusError(resp.StatusCode, raw)
	}

	if c.Parse && !json.Valid(raw) {
		return nil, &Error{StatusCode: resp.StatusCode, Body: raw}
	}

	return &Response{StatusCode: resp.StatusCode, Body: raw}, nil
}

// Probe performs a lightweight HEAD-equivalent existence check. NotFound and
// BadRequest both mean "does not exist"; every other failure propagates.
func (r *Requester) Probe(ctx context.Context, c *Call) (bool, error) {
	probe := *c
	probe.Method = http.MethodHead
	probe.Body = nil
	probe.Parse = false
	_, err := r.Do(ctx, &probe)
	if err != nil {
		var notFound *NotFoundError
		var badRequest *BadRequestError
		if errors.As(err, &notFound) || errors.As(err, &badRequest) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
