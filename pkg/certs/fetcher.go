// Copyright (C) 2025 SAGE-X Project
//
// This file is part of oidcpay-go.
//
// oidcpay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// oidcpay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with oidcpay-go.  If not, see <https://www.gnu.org/licenses/>.

// Package certs fetches identity provider JWKS documents for callers that
// must supply keys to the engine.
//
// The engine never touches the network. Fetching, retrying and caching live
// here, outside the trust boundary: a fetched document only matters if the
// token verifies against it, and the keys are committed with the outputs.
package certs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sage-x-project/oidcpay-go/pkg/jwk"
	"github.com/sirupsen/logrus"
)

// GoogleCertsURL serves Google's OIDC signing keys in JWKS form
const GoogleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

const (
	DefaultCacheTTL   = 15 * time.Minute
	DefaultCacheSize  = 16
	DefaultMaxRetries = 3
	DefaultTimeout    = 5 * time.Second
)

// ErrUpstream marks a certificate endpoint that answered with an unusable response
var ErrUpstream = errors.New("certificate endpoint failure")

// Options configures a Fetcher
type Options struct {
	// CacheTTL is how long a fetched document is reused. 0 disables caching.
	CacheTTL time.Duration

	// MaxRetries bounds retries of transient failures
	MaxRetries int

	// Timeout bounds each HTTP attempt
	Timeout time.Duration

	// Client overrides the resty client, mostly for tests
	Client *resty.Client

	// Logger receives fetch diagnostics
	Logger logrus.FieldLogger
}

// DefaultOptions returns production defaults
func DefaultOptions() Options {
	return Options{
		CacheTTL:   DefaultCacheTTL,
		MaxRetries: DefaultMaxRetries,
		Timeout:    DefaultTimeout,
	}
}

// Fetcher retrieves and validates JWKS documents
type Fetcher struct {
	client     *resty.Client
	cache      *expirable.LRU[string, []byte]
	maxRetries int
	logger     logrus.FieldLogger
	newBackOff func() backoff.BackOff
}

// NewFetcher creates a new Fetcher
func NewFetcher(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = resty.New()
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	client.SetHeader("Accept", "application/json")

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	f := &Fetcher{
		client:     client,
		maxRetries: opts.MaxRetries,
		logger:     logger,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	if opts.CacheTTL > 0 {
		f.cache = expirable.NewLRU[string, []byte](DefaultCacheSize, nil, opts.CacheTTL)
	}
	return f
}

// Fetch returns the JWKS at url as canonical JSON
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if f.cache != nil {
		if cached, ok := f.cache.Get(url); ok {
			f.logger.WithField("url", url).Debug("certs cache hit")
			return append([]byte(nil), cached...), nil
		}
	}

	var body []byte
	operation := func() error {
		resp, err := f.client.R().SetContext(ctx).Get(url)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}

		switch status := resp.StatusCode(); {
		case status == http.StatusOK:
			body = resp.Body()
			return nil
		case status >= 500 || status == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s returned %s", ErrUpstream, url, resp.Status())
		default:
			return backoff.Permanent(fmt.Errorf("%w: %s returned %s", ErrUpstream, url, resp.Status()))
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(f.newBackOff(), uint64(max(f.maxRetries, 0))), ctx)
	notify := func(err error, wait time.Duration) {
		f.logger.WithError(err).WithFields(logrus.Fields{"url": url, "wait": wait}).Warn("retrying certs fetch")
	}
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, fmt.Errorf("failed to fetch certs: %w", err)
	}

	set, err := jwk.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s served an invalid key set: %w", ErrUpstream, url, err)
	}
	canonical, err := set.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode key set: %w", err)
	}

	f.logger.WithFields(logrus.Fields{"url": url, "keys": set.Len()}).Debug("certs fetched")
	if f.cache != nil {
		f.cache.Add(url, canonical)
	}
	return append([]byte(nil), canonical...), nil
}

// FetchGoogle fetches the current Google signing keys
func (f *Fetcher) FetchGoogle(ctx context.Context) ([]byte, error) {
	return f.Fetch(ctx, GoogleCertsURL)
}

// Purge drops every cached document
func (f *Fetcher) Purge() {
	if f.cache != nil {
		f.cache.Purge()
	}
}
