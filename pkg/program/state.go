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

package program

import (
	"github.com/sage-x-project/oidcpay-go/pkg/provider"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
)

// State is a node of the per-run state machine
type State int

const (
	StateStart State = iota
	StateDecoded
	StateKeySelected
	StateSignatureVerified
	StateClaimsValidated
	StateOutputCommitted
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateDecoded:
		return "Decoded"
	case StateKeySelected:
		return "KeySelected"
	case StateSignatureVerified:
		return "SignatureVerified"
	case StateClaimsValidated:
		return "ClaimsValidated"
	case StateOutputCommitted:
		return "OutputCommitted"
	case StateRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no transition leaves s
func (s State) Terminal() bool {
	return s == StateOutputCommitted || s == StateRejected
}

func stateFor(stage provider.Stage) State {
	switch stage {
	case provider.StageDecoded:
		return StateDecoded
	case provider.StageKeySelected:
		return StateKeySelected
	case provider.StageSignatureVerified:
		return StateSignatureVerified
	case provider.StageClaimsValidated:
		return StateClaimsValidated
	default:
		return StateRejected
	}
}

// Trace records the states one run passed through
type Trace struct {
	States []State

	// Kind is set when the run ends in StateRejected
	Kind reject.Kind

	// Err is the rejection error
	Err error
}

func newTrace() *Trace {
	return &Trace{States: []State{StateStart}}
}

// Last returns the final state reached
func (t *Trace) Last() State {
	return t.States[len(t.States)-1]
}

// Reached reports whether the run passed through s
func (t *Trace) Reached(s State) bool {
	for _, state := range t.States {
		if state == s {
			return true
		}
	}
	return false
}

// advance moves strictly forward; a terminal trace never moves again
func (t *Trace) advance(s State) {
	last := t.Last()
	if last.Terminal() || s <= last {
		return
	}
	t.States = append(t.States, s)
}

func (t *Trace) reject(err error) {
	if t.Last().Terminal() {
		return
	}
	t.Err = err
	if kind, ok := reject.KindOf(err); ok {
		t.Kind = kind
	}
	t.States = append(t.States, StateRejected)
}
