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

// Package version reports build and wire format versions.
package version

import (
	"runtime"

	oidcpay "github.com/sage-x-project/oidcpay-go"
	"github.com/sage-x-project/oidcpay-go/pkg/protocol"
	"github.com/sage-x-project/oidcpay-go/pkg/provider"
)

// Version is the release version; overridable with -ldflags -X
var Version = oidcpay.Version

// Commit is the source revision, set with -ldflags -X
var Commit = "unknown"

// Info describes the running build
type Info struct {
	Version           string   `json:"version"`
	Commit            string   `json:"commit"`
	GoVersion         string   `json:"goVersion"`
	InputABIVersion   int      `json:"inputAbiVersion"`
	OutputABIVersions []int    `json:"outputAbiVersions"`
	Providers         []string `json:"providers"`
}

// Get returns the version info of this build
func Get() Info {
	var providers []string
	for _, kind := range provider.Kinds() {
		providers = append(providers, kind.String())
	}

	layouts := []int{
		int(protocol.LayoutAddressClaim.Version()),
		int(protocol.LayoutAddressClaimKeys.Version()),
	}

	return Info{
		Version:           Version,
		Commit:            Commit,
		GoVersion:         runtime.Version(),
		InputABIVersion:   oidcpay.InputABIVersion,
		OutputABIVersions: layouts,
		Providers:         providers,
	}
}

// String renders the version on one line
func (i Info) String() string {
	return i.Version + " (" + i.Commit + ", " + i.GoVersion + ")"
}
