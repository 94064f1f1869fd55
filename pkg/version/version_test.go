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

package version

import (
	"runtime"
	"testing"

	oidcpay "github.com/sage-x-project/oidcpay-go"
	"github.com/stretchr/testify/assert"
)

func TestVersionConstants(t *testing.T) {
	// Verify version constants are populated
	assert.NotEmpty(t, oidcpay.Version, "Version should not be empty")
	assert.Equal(t, 1, oidcpay.InputABIVersion)
	assert.Equal(t, 2, oidcpay.OutputABIVersion)

	info := oidcpay.GetVersionInfo()
	assert.Equal(t, oidcpay.Version, info.Version)
	assert.Equal(t, oidcpay.OutputABIVersion, info.OutputABIVersion)
}

func TestGet(t *testing.T) {
	info := Get()

	// Verify all fields are populated
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, Commit, info.Commit)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, oidcpay.InputABIVersion, info.InputABIVersion)
	assert.Equal(t, []int{1, 2}, info.OutputABIVersions)
	assert.Equal(t, []string{"google", "test"}, info.Providers)

	// highest committed layout matches the root constant
	last := info.OutputABIVersions[len(info.OutputABIVersions)-1]
	assert.Equal(t, oidcpay.OutputABIVersion, last)
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "test-version",
		Commit:    "abc123",
		GoVersion: "go1.24.4",
	}

	assert.Equal(t, "test-version (abc123, go1.24.4)", info.String())
}
