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

// Package jwk models JSON Web Keys and JSON Web Key Sets as published by OIDC
// identity providers.
//
// A Key is a base record holding the RFC 7517 members every provider shares,
// composed with an Extension record carrying provider-specific members. Today
// the only recognised extension member is "kid"; unrecognised members are kept
// verbatim so that a key set survives a parse and marshal round trip without
// the base schema knowing about them.
//
//	set, err := jwk.Parse(certJSON)
//	if err != nil {
//	    return err // reject.MalformedKeySet
//	}
//
//	key, ok := set.FindByKeyID(header.Kid)
//	pub, err := key.RSAPublicKey()
package jwk
