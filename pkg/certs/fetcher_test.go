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

package certs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sage-x-project/oidcpay-go/pkg/jwk"
	"github.com/sage-x-project/oidcpay-go/pkg/provider"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// certsServer serves responses in order, repeating the last one
func certsServer(t *testing.T, responses ...func(w http.ResponseWriter)) (*httptest.Server, *int32) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1)) - 1
		if n >= len(responses) {
			n = len(responses) - 1
		}
		responses[n](w)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func serveJWKS(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(provider.GoogleSnapshot())
}

func serveStatus(code int) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.WriteHeader(code)
	}
}

func newTestFetcher(opts Options) (*Fetcher, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts.Logger = logger

	f := NewFetcher(opts)
	f.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return f, hook
}

func TestFetcher_Fetch(t *testing.T) {
	srv, calls := certsServer(t, serveJWKS)
	f, _ := newTestFetcher(Options{MaxRetries: 2, Timeout: time.Second})

	data, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	set, err := jwk.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestFetcher_RetriesTransientFailures(t *testing.T) {
	srv, calls := certsServer(t, serveStatus(http.StatusServiceUnavailable), serveStatus(http.StatusTooManyRequests), serveJWKS)
	f, hook := newTestFetcher(Options{MaxRetries: 3})

	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))

	var retries int
	for _, entry := range hook.AllEntries() {
		if entry.Message == "retrying certs fetch" {
			retries++
		}
	}
	assert.Equal(t, 2, retries)
}

func TestFetcher_GivesUpAfterMaxRetries(t *testing.T) {
	srv, calls := certsServer(t, serveStatus(http.StatusBadGateway))
	f, _ := newTestFetcher(Options{MaxRetries: 2})

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestFetcher_ClientErrorsArePermanent(t *testing.T) {
	srv, calls := certsServer(t, serveStatus(http.StatusNotFound))
	f, _ := newTestFetcher(Options{MaxRetries: 5})

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestFetcher_RejectsInvalidKeySet(t *testing.T) {
	srv, _ := certsServer(t, func(w http.ResponseWriter) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})
	f, _ := newTestFetcher(Options{})

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestFetcher_Cache(t *testing.T) {
	srv, calls := certsServer(t, serveJWKS)
	f, _ := newTestFetcher(Options{CacheTTL: time.Minute})

	first, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	second, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	// callers cannot poison the cache
	first[0] = 'X'
	third, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, second, third)

	f.Purge()
	_, err = f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestFetcher_NoCache(t *testing.T) {
	srv, calls := certsServer(t, serveJWKS)
	f, _ := newTestFetcher(Options{})

	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	f.Purge()
}

func TestFetcher_CanceledContext(t *testing.T) {
	srv, calls := certsServer(t, serveJWKS)
	f, _ := newTestFetcher(Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, DefaultCacheTTL, opts.CacheTTL)
	assert.Equal(t, DefaultMaxRetries, opts.MaxRetries)
	assert.Equal(t, DefaultTimeout, opts.Timeout)
}
