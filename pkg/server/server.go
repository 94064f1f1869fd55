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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/sage-x-project/oidcpay-go/pkg/certs"
	"github.com/sage-x-project/oidcpay-go/pkg/program"
	"github.com/sage-x-project/oidcpay-go/pkg/protocol"
	"github.com/sage-x-project/oidcpay-go/pkg/provider"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
	"github.com/sage-x-project/oidcpay-go/pkg/version"
	"github.com/sirupsen/logrus"
)

const (
	// maxBodyBytes bounds POST /execute bodies
	maxBodyBytes = 1 << 20

	// corsMaxAge is how long browsers may cache a preflight answer, in seconds
	corsMaxAge = 3600
)

// CertsSource fetches a JWKS document by URL
type CertsSource interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Options configures a Server
type Options struct {
	// Certs fetches keys for providers that require caller supplied keys
	Certs CertsSource

	// GoogleCertsURL overrides certs.GoogleCertsURL
	GoogleCertsURL string

	// CORSOrigins lists allowed origins; empty allows any origin
	CORSOrigins []string

	// AllowTestProvider serves provider.Development instead of provider.Production.
	// The test provider's signing key is public; never enable it in production.
	AllowTestProvider bool

	Logger logrus.FieldLogger
}

// Server exposes the claim engine over HTTP
type Server struct {
	engine    *program.Engine
	registry  provider.Registry
	certs     CertsSource
	certsURLs map[provider.Kind]string
	origins   []string
	logger    logrus.FieldLogger
}

// NewServer creates a new Server
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	googleURL := opts.GoogleCertsURL
	if googleURL == "" {
		googleURL = certs.GoogleCertsURL
	}

	registry := provider.Production
	if opts.AllowTestProvider {
		registry = provider.Development
		logger.Warn("test identity provider enabled; its tokens are forgeable")
	}

	return &Server{
		engine:   program.New(program.WithLogger(logger), program.WithRegistry(registry)),
		registry: registry,
		certs:    opts.Certs,
		certsURLs: map[provider.Kind]string{
			provider.Google: googleURL,
		},
		origins: opts.CORSOrigins,
		logger:  logger,
	}
}

// Handler returns the routed HTTP handler with middleware applied
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(RequestID, Logging(s.logger))

	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	router.HandleFunc("/execute", s.handleExecute).Methods(http.MethodPost)

	tokens := NewTokenMiddleware()
	tokens.SetErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Kind: string(reject.MalformedToken)})
	})
	router.Handle("/auth", tokens.Wrap(http.HandlerFunc(s.handleAuth))).Methods(http.MethodGet)

	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"content-type", "x-auth-token", "authorization"}),
		handlers.ExposedHeaders([]string{HeaderRequestID}),
	)
	return preflightMaxAge(cors(router))
}

// preflightMaxAge sets Access-Control-Max-Age on accepted preflight answers.
// handlers.MaxAge caps the value at 600 seconds.
func preflightMaxAge(next http.Handler) http.Handler {
	maxAge := strconv.Itoa(corsMaxAge)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodOptions || r.Header.Get("Access-Control-Request-Method") == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(&maxAgeWriter{ResponseWriter: w, maxAge: maxAge}, r)
	})
}

type maxAgeWriter struct {
	http.ResponseWriter
	maxAge string
}

func (w *maxAgeWriter) WriteHeader(status int) {
	if status < http.StatusMultipleChoices && w.Header().Get("Access-Control-Allow-Origin") != "" {
		w.Header().Set("Access-Control-Max-Age", w.maxAge)
	}
	w.ResponseWriter.WriteHeader(status)
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: version.Get().Version})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, reject.Wrap(reject.MalformedInput, "failed to read body", err))
		return
	}

	in, err := protocol.ParseInputsJSON(body)
	if err != nil {
		writeError(w, err)
		return
	}
	s.execute(w, r, in)
}

// handleAuth executes the Google provider for the header token, fetching current certs
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	token, _ := GetTokenFromContext(r.Context())
	in := protocol.ProofInputs{
		IdentityProvider: uint256.NewInt(uint64(provider.Google)),
		JWT:              token,
	}
	s.execute(w, r, in)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, in protocol.ProofInputs) {
	logger := s.logger
	if id, ok := GetRequestIDFromContext(r.Context()); ok {
		logger = logger.WithField("request_id", id)
	}

	p, err := s.registry.Lookup(in.IdentityProvider)
	if err != nil {
		writeError(w, err)
		return
	}

	if p.KeySource == provider.KeySourceSupplied && !in.HasCert() {
		cert, err := s.fetchCerts(r.Context(), p.Kind)
		if err != nil {
			logger.WithError(err).WithField("provider", p.Name).Error("certs fetch failed")
			writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error(), Kind: "CertsUnavailable"})
			return
		}
		in.Cert = cert
	}

	data, err := s.engine.Execute(in)
	if err != nil {
		kind, _ := reject.KindOf(err)
		logger.WithFields(logrus.Fields{"provider": p.Name, "kind": kind}).Info("execution rejected")
		writeError(w, err)
		return
	}

	layout := p.OutputLayout()
	out, err := protocol.DecodeOutputs(data, layout)
	if err != nil {
		writeError(w, err)
		return
	}
	calldata, err := protocol.EncodeClaimCall(nil, data)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ExecuteResponse{
		PublicValues:  data,
		MsgSender:     out.MsgSender,
		ClaimID:       out.ClaimHash(),
		LayoutVersion: layout.Version(),
		Calldata:      calldata,
	})
}

func (s *Server) fetchCerts(ctx context.Context, kind provider.Kind) ([]byte, error) {
	url, ok := s.certsURLs[kind]
	if !ok || s.certs == nil {
		return nil, fmt.Errorf("no certificate source for provider %s", kind)
	}
	return s.certs.Fetch(ctx, url)
}

// StatusForKind maps a rejection kind onto an HTTP status
func StatusForKind(kind reject.Kind) int {
	switch kind {
	case reject.MalformedInput, reject.MalformedToken, reject.MalformedKeySet,
		reject.KeySetRequired, reject.KeySetNotAllowed, reject.UnsupportedProvider:
		return http.StatusBadRequest
	case reject.UnsupportedAlgorithm, reject.KeyNotFound, reject.SignatureInvalid,
		reject.IssuerMismatch, reject.AudienceMismatch:
		return http.StatusUnauthorized
	case reject.MissingSubjectClaim, reject.MalformedAddressClaim:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind, ok := reject.KindOf(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, StatusForKind(kind), ErrorResponse{Error: err.Error(), Kind: string(kind)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
