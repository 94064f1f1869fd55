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

package verifier

import (
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
)

// RS256 is the only signature algorithm on the allow-list
const RS256 = "RS256"

var allowedAlgorithms = map[string]struct{}{
	RS256: {},
}

// CheckAlgorithm rejects any declared algorithm that is not on the allow-list.
// The comparison is exact; "rs256" is not RS256.
func CheckAlgorithm(alg string) error {
	if _, ok := allowedAlgorithms[alg]; !ok {
		return reject.Newf(reject.UnsupportedAlgorithm, "algorithm %q is not allowed", alg)
	}
	return nil
}
