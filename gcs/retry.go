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
	"math/rand"
	"time"

	"github.com/gcsclient/gcsclient/clock"
	"github.com/gcsclient/gcsclient/internal/logger"
)

const (
	// Default retry parameters.
	DefaultMaxRetries        = 5
	DefaultInitialDelay      = 1 * time.Second
	DefaultMaxDelay          = 32 * time.Second
	DefaultBackoffMultiplier = 2.0
	DefaultMaxElapsed        = 5 * time.Minute
)

// RetryPolicy configures how transient failures of remote calls are retried.
// A nil *RetryPolicy disables retries entirely: the operation runs exactly
// once.
//
// Invariant: InitialDelay <= MaxDelay.
type RetryPolicy struct {
	// Number of retries after the initial attempt. Total attempts made is
	// therefore MaxRetries+1.
	MaxRetries int

	// Backoff before the first retry.
	InitialDelay time.Duration

	// Cap on the backoff between consecutive attempts.
	MaxDelay time.Duration

	// The rate at which the backoff grows over subsequent attempts.
	BackoffMultiplier float64

	// Total time budget across all attempts, measured from the first one.
	// Zero means no elapsed-time cap.
	MaxElapsed time.Duration

	// Randomize the backoff within (0, delay] to avoid thundering herds.
	Randomize bool
}

// DefaultRetryPolicy returns the policy used when a client is constructed
// without an explicit one. Callers get a fresh value each time; there is no
// shared mutable default.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:        DefaultMaxRetries,
		InitialDelay:      DefaultInitialDelay,
		MaxDelay:          DefaultMaxDelay,
		BackoffMultiplier: DefaultBackoffMultiplier,
		MaxElapsed:        DefaultMaxElapsed,
		Randomize:         true,
	}
}

// exponentialBackoff holds the duration state for exponential backoff.
type exponentialBackoff struct {
	policy *RetryPolicy
	// Duration for the next backoff. Capped at policy.MaxDelay.
	next time.Duration
}

func newExponentialBackoff(policy *RetryPolicy) *exponentialBackoff {
	return &exponentialBackoff{
		policy: policy,
		next:   policy.InitialDelay,
	}
}

// nextDuration returns the next backoff duration, jittered when the policy
// asks for it.
func (b *exponentialBackoff) nextDuration() time.Duration {
	next := b.next
	b.next = min(b.policy.MaxDelay, time.Duration(float64(b.next)*b.policy.BackoffMultiplier))
	if b.policy.Randomize && next > 0 {
		next = time.Duration(1 + rand.Int63n(int64(next)))
	}
	return next
}

// ExecuteWithRetry invokes call, retrying transient failures (see
// ShouldRetry) under the given policy. Retrying stops once MaxRetries extra
// attempts have been made or the elapsed time exceeds MaxElapsed; the last
// error is then surfaced unchanged. Non-transient failures surface
// immediately. A nil policy runs call exactly once.
func ExecuteWithRetry[T any](
	ctx context.Context,
	policy *RetryPolicy,
	opName string,
	reqDescription string,
	call func(ctx context.Context) (T, error),
) (T, error) {
	return executeWithRetry(ctx, policy, opName, reqDescription, call, clock.RealClock{})
}

func executeWithRetry[T any](
	ctx context.Context,
	policy *RetryPolicy,
	opName string,
	reqDescription string,
	call func(ctx context.Context) (T, error),
	clk clock.Clock,
) (T, error) {
	var zero T
	if policy == nil {
		return call(ctx)
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	start := clk.Now()
	backoff := newExponentialBackoff(policy)
	for attempt := 0; ; attempt++ {
		if attempt == 0 {
			logger.Tracef("Calling %s for %q", opName, reqDescription)
		} else {
			logger.Tracef("Retrying %s for %q (attempt %d)", opName, reqDescription, attempt+1)
		}

		result, err := call(ctx)
		if err == nil {
			return result, nil
		}

		if !ShouldRetry(err) {
			return zero, err
		}
		if attempt >= policy.MaxRetries {
			logger.Tracef("%s for %q failed after %d attempts", opName, reqDescription, attempt+1)
			return zero, err
		}
		if policy.MaxElapsed > 0 && clk.Now().Sub(start) >= policy.MaxElapsed {
			logger.Tracef("%s for %q exhausted its retry budget", opName, reqDescription)
			return zero, err
		}

		select {
		case <-clk.After(backoff.nextDuration()):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}
