// Copyright (C) 2025 Attestia Project
//
// This file is part of attest-go.
//
// attest-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// attest-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with attest-go.  If not, see <https://www.gnu.org/licenses/>.

// Package version provides version information for attest-go and the
// attestation-service protocol it speaks.
package version

const (
	// Version is the current version of attest-go
	Version = "0.2.0"

	// AttestationServiceVersion is the attestation-service status/reveal API
	// version this library targets
	AttestationServiceVersion = "1.1.0"

	// MinAttestationServiceVersion is the minimum attestation-service version
	// compatible with this library
	MinAttestationServiceVersion = "1.0.0"

	// LegacyAttestationServiceVersion is assumed for services whose /status
	// response carries no version field
	LegacyAttestationServiceVersion = "1.0.0"
)

// Info contains detailed version information
type Info struct {
	AttestGoVersion              string
	AttestationServiceVersion    string
	MinAttestationServiceVersion string
}

// Get returns detailed version information
func Get() Info {
	return Info{
		AttestGoVersion:              Version,
		AttestationServiceVersion:    AttestationServiceVersion,
		MinAttestationServiceVersion: MinAttestationServiceVersion,
	}
}
