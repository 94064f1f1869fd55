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

package protocol

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
)

// inputsJSON is the JSON form used by the HTTP and CLI surfaces
type inputsJSON struct {
	IdentityProvider json.RawMessage `json:"identity_provider,omitempty"`
	JWT              string          `json:"jwt"`
	Cert             json.RawMessage `json:"cert,omitempty"`
}

// MarshalJSON encodes the selector as a decimal string and cert as 0x hex
func (in ProofInputs) MarshalJSON() ([]byte, error) {
	out := inputsJSON{JWT: in.JWT}
	if in.IdentityProvider != nil {
		selector, err := json.Marshal(in.IdentityProvider.Dec())
		if err != nil {
			return nil, err
		}
		out.IdentityProvider = selector
	}
	if len(in.Cert) > 0 {
		cert, err := json.Marshal(hexutil.Bytes(in.Cert))
		if err != nil {
			return nil, err
		}
		out.Cert = cert
	}
	return json.Marshal(out)
}

// ParseInputsJSON decodes the JSON form of ProofInputs. Every failure,
// including malformed JSON syntax, is a MalformedInput rejection.
func ParseInputsJSON(data []byte) (ProofInputs, error) {
	var in ProofInputs
	if err := in.UnmarshalJSON(data); err != nil {
		return ProofInputs{}, err
	}
	return in, nil
}

// UnmarshalJSON accepts identity_provider as a JSON number, a decimal string
// or a 0x hex string, defaulting to 0 when absent. cert may be 0x hex or the
// JWKS object itself. encoding/json reports syntax errors itself before this
// method runs; use ParseInputsJSON to get MalformedInput for those too.
func (in *ProofInputs) UnmarshalJSON(data []byte) error {
	var raw inputsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return reject.Wrap(reject.MalformedInput, "failed to parse inputs JSON", err)
	}

	selector, err := parseSelector(raw.IdentityProvider)
	if err != nil {
		return err
	}
	cert, err := parseCert(raw.Cert)
	if err != nil {
		return err
	}

	*in = ProofInputs{
		IdentityProvider: selector,
		JWT:              raw.JWT,
		Cert:             cert,
	}
	return nil
}

// ParseSelector parses a provider selector in decimal or 0x hex form
func ParseSelector(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return nil, reject.Newf(reject.MalformedInput, "invalid identity provider %q", s)
	}
	if strings.HasPrefix(s, "0X") {
		s = "0x" + s[2:]
	}

	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") {
		base = 16
		digits = s[2:]
	}
	value, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, reject.Newf(reject.MalformedInput, "invalid identity provider %q", s)
	}
	selector, overflow := uint256.FromBig(value)
	if overflow {
		return nil, reject.Newf(reject.MalformedInput, "identity provider %q exceeds 256 bits", s)
	}
	return selector, nil
}

func parseSelector(raw json.RawMessage) (*uint256.Int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return uint256.NewInt(0), nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, reject.Wrap(reject.MalformedInput, "identity_provider", err)
		}
		return ParseSelector(s)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, reject.Wrap(reject.MalformedInput, "identity_provider", err)
	}
	// fractions and exponents are not selectors
	return ParseSelector(n.String())
}

func parseCert(raw json.RawMessage) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var cert hexutil.Bytes
		if err := json.Unmarshal(raw, &cert); err != nil {
			return nil, reject.Wrap(reject.MalformedInput, "cert must be 0x prefixed hex", err)
		}
		if len(cert) == 0 {
			return nil, nil
		}
		return cert, nil
	case '{':
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return nil, reject.Wrap(reject.MalformedInput, "cert", err)
		}
		return compact.Bytes(), nil
	default:
		return nil, reject.Newf(reject.MalformedInput, "cert must be a hex string or a JWKS object, got %s", raw[:1])
	}
}
