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

// Package reject defines the terminal rejection taxonomy shared by every stage
// of token validation.
//
// A rejected validation never produces partial output. Callers classify a
// failure with errors.Is against a Kind:
//
//	if errors.Is(err, reject.SignatureInvalid) {
//	    // forged or corrupted token
//	}
//
//	if errors.Is(err, reject.KeyNotFound) {
//	    // wrong or stale key material supplied
//	}
//
// None of the kinds are retried inside the engine.
package reject

import (
	"errors"
	"fmt"
)

// Kind identifies why a validation was rejected.
type Kind string

const (
	// MalformedToken indicates a wrong segment count, bad base64url or bad JSON
	MalformedToken Kind = "MalformedToken"
	// UnsupportedAlgorithm indicates the header algorithm is not on the allow-list
	UnsupportedAlgorithm Kind = "UnsupportedAlgorithm"
	// KeyNotFound indicates no matching or viable key was available
	KeyNotFound Kind = "KeyNotFound"
	// SignatureInvalid indicates the selected key did not verify the signature
	SignatureInvalid Kind = "SignatureInvalid"
	// IssuerMismatch indicates the iss claim is not trusted by the provider
	IssuerMismatch Kind = "IssuerMismatch"
	// AudienceMismatch indicates the aud claim does not name the provider audience
	AudienceMismatch Kind = "AudienceMismatch"
	// MissingSubjectClaim indicates the designated subject claim is absent or empty
	MissingSubjectClaim Kind = "MissingSubjectClaim"
	// MalformedAddressClaim indicates the address claim is not a valid address
	MalformedAddressClaim Kind = "MalformedAddressClaim"
	// UnsupportedProvider indicates the provider selector is not in the closed set
	UnsupportedProvider Kind = "UnsupportedProvider"
	// MalformedKeySet indicates key material that does not parse as a JWKS
	MalformedKeySet Kind = "MalformedKeySet"
	// KeySetRequired indicates the provider needs caller-supplied keys
	KeySetRequired Kind = "KeySetRequired"
	// KeySetNotAllowed indicates keys were supplied to a provider that cannot commit them
	KeySetNotAllowed Kind = "KeySetNotAllowed"
	// MalformedInput indicates the encoded proof inputs could not be decoded
	MalformedInput Kind = "MalformedInput"
)

// Error implements the error interface so a Kind can be used as an errors.Is target.
func (k Kind) Error() string {
	return string(k)
}

// Error is a typed rejection
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of this rejection.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New creates a new rejection
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a new rejection with a formatted message
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new rejection caused by err
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the Kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var rejection *Error
	if errors.As(err, &rejection) {
		return rejection.Kind, true
	}
	var kind Kind
	if errors.As(err, &kind) {
		return kind, true
	}
	return "", false
}

// IsRejection reports whether err is a validation rejection.
func IsRejection(err error) bool {
	_, ok := KindOf(err)
	return ok
}

// IsRetryable reports whether err may succeed when repeated with the same inputs.
// Rejections are always terminal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !IsRejection(err)
}
