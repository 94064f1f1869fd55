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

// Package program is the claim engine entry point.
//
// One run reads ProofInputs, validates the token against the selected
// identity provider and commits the ABI encoded public values. A run is
// deterministic and performs no I/O: the same inputs always produce the same
// bytes, and a rejected run produces none.
//
//	engine := program.New()
//	publicValues, err := engine.Execute(inputs)
//	if err != nil {
//	    kind, _ := reject.KindOf(err)
//	    ...
//	}
package program

import (
	"io"

	"github.com/sage-x-project/oidcpay-go/pkg/output"
	"github.com/sage-x-project/oidcpay-go/pkg/protocol"
	"github.com/sage-x-project/oidcpay-go/pkg/provider"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
	"github.com/sirupsen/logrus"
)

// Engine runs the claim program
type Engine struct {
	logger   logrus.FieldLogger
	registry provider.Registry
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for run diagnostics
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRegistry sets the providers the engine accepts.
// Only development builds should pass provider.Development.
func WithRegistry(registry provider.Registry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// New creates an Engine accepting provider.Production. By default nothing is logged.
func New(opts ...Option) *Engine {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Engine{logger: discard, registry: provider.Production}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run decodes ABI encoded inputs and executes them
func (e *Engine) Run(raw []byte) ([]byte, error) {
	in, err := protocol.DecodeInputs(raw)
	if err != nil {
		e.logger.WithField("kind", reject.MalformedInput).Debug("inputs rejected")
		return nil, err
	}
	return e.Execute(in)
}

// Registry returns the providers the engine accepts
func (e *Engine) Registry() provider.Registry {
	return e.registry
}

// Execute validates in and returns the encoded public values
func (e *Engine) Execute(in protocol.ProofInputs) ([]byte, error) {
	_, data, err := e.Trace(in)
	return data, err
}

// Trace executes in and also returns the state machine record of the run
func (e *Engine) Trace(in protocol.ProofInputs) (*Trace, []byte, error) {
	trace := newTrace()

	data, err := e.execute(in, trace)
	if err != nil {
		trace.reject(err)
		e.logger.WithFields(logrus.Fields{
			"kind":  trace.Kind,
			"state": trace.Last(),
		}).Debug("run rejected")
		return trace, nil, err
	}

	trace.advance(StateOutputCommitted)
	e.logger.WithField("bytes", len(data)).Debug("public values committed")
	return trace, data, nil
}

func (e *Engine) execute(in protocol.ProofInputs, trace *Trace) ([]byte, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := e.registry.Lookup(in.IdentityProvider)
	if err != nil {
		return nil, err
	}
	logger := e.logger.WithField("provider", p.Name)

	validation, err := p.ValidateObserved(in.JWT, in.Cert, func(stage provider.Stage) {
		trace.advance(stateFor(stage))
	})
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"kid":      validation.Selection.Key.KeyID(),
		"fallback": validation.Selection.Fallback,
	}).Debug("token validated")

	return output.Commit(validation.Result, p.OutputLayout(), in.Cert)
}
