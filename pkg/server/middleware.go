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

package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	tokenKey     contextKey = "identity_token"
	requestIDKey contextKey = "request_id"
)

const (
	// HeaderAuthToken carries the raw identity token
	HeaderAuthToken = "X-Auth-Token"

	// HeaderRequestID echoes the request id
	HeaderRequestID = "X-Request-ID"
)

// ErrorHandler handles token extraction errors
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// TokenMiddleware extracts the identity token from X-Auth-Token or an
// Authorization bearer header
type TokenMiddleware struct {
	errorHandler ErrorHandler
	optional     bool
}

// NewTokenMiddleware creates a new token middleware
func NewTokenMiddleware() *TokenMiddleware {
	return &TokenMiddleware{
		errorHandler: defaultErrorHandler,
		optional:     false,
	}
}

// SetErrorHandler sets a custom error handler
func (m *TokenMiddleware) SetErrorHandler(handler ErrorHandler) {
	m.errorHandler = handler
}

// SetOptional sets whether a token is optional
// If true, requests without a token are allowed to pass through
func (m *TokenMiddleware) SetOptional(optional bool) {
	m.optional = optional
}

// Wrap wraps an HTTP handler with token extraction
func (m *TokenMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CORS preflight carries no credentials
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractToken(r)
		if err != nil {
			m.errorHandler(w, r, err)
			return
		}
		if token == "" {
			if m.optional {
				next.ServeHTTP(w, r)
				return
			}
			m.errorHandler(w, r, fmt.Errorf("missing %s header", HeaderAuthToken))
			return
		}

		ctx := context.WithValue(r.Context(), tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) (string, error) {
	if token := strings.TrimSpace(r.Header.Get(HeaderAuthToken)); token != "" {
		return token, nil
	}

	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", nil
	}
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("unsupported Authorization header")
	}
	return strings.TrimSpace(token), nil
}

// GetTokenFromContext extracts the identity token from request context
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}

// RequestID assigns each request an id, reusing a valid incoming X-Request-ID
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestIDFromContext extracts the request id from request context
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs one line per request. Tokens are never logged.
func Logging(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			id, _ := GetRequestIDFromContext(r.Context())
			logger.WithFields(logrus.Fields{
				"request_id": id,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"duration":   time.Since(start),
			}).Info("request handled")
		})
	}
}

// defaultErrorHandler is the default error handler
func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Kind: "Unauthorized"})
}
