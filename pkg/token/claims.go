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

package token

// Claims maps claim names to decoded JSON values. Numbers are json.Number.
type Claims map[string]any

// String returns a claim that is a JSON string.
func (c Claims) String(name string) (string, bool) {
	v, ok := c[name].(string)
	return v, ok
}

// Audience returns the "aud" claim, which may be a single string or an array of strings.
func (c Claims) Audience() ([]string, bool) {
	switch aud := c["aud"].(type) {
	case string:
		return []string{aud}, true
	case []any:
		out := make([]string, 0, len(aud))
		for _, v := range aud {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
