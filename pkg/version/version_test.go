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

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionConstants(t *testing.T) {
	// Verify version constants are not empty
	assert.NotEmpty(t, Version, "Version should not be empty")
	assert.NotEmpty(t, AttestationServiceVersion, "AttestationServiceVersion should not be empty")
	assert.NotEmpty(t, MinAttestationServiceVersion, "MinAttestationServiceVersion should not be empty")
	assert.NotEmpty(t, LegacyAttestationServiceVersion, "LegacyAttestationServiceVersion should not be empty")

	// Verify expected values
	assert.Equal(t, "0.2.0", Version)
	assert.Equal(t, "1.1.0", AttestationServiceVersion)
	assert.Equal(t, "1.0.0", MinAttestationServiceVersion)
	assert.Equal(t, "1.0.0", LegacyAttestationServiceVersion)
}

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, Version, info.AttestGoVersion)
	assert.Equal(t, AttestationServiceVersion, info.AttestationServiceVersion)
	assert.Equal(t, MinAttestationServiceVersion, info.MinAttestationServiceVersion)
}
