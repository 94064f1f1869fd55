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

// Package oidcpay provides version information for oidcpay-go and its wire formats.
package oidcpay

const (
	// Version is the current version of oidcpay-go
	Version = "0.1.0"

	// InputABIVersion is the version of the (uint256, string, bytes) input encoding
	InputABIVersion = 1

	// OutputABIVersion is the highest public values layout version this release commits
	OutputABIVersion = 2
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version          string
	InputABIVersion  int
	OutputABIVersion int
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:          Version,
		InputABIVersion:  InputABIVersion,
		OutputABIVersion: OutputABIVersion,
	}
}
