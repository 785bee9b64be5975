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

package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsecureURL(t *testing.T) {
	insecure := []string{
		"http://meta.example.com",
		"http://meta.example.com:8080/metadata",
		"http://10.0.0.5/status",
	}
	for _, u := range insecure {
		assert.True(t, InsecureURL(u), u)
	}

	secure := []string{
		"https://meta.example.com",
		"https://meta.example.com:8080/metadata",
		"http://localhost:9000",
		"http://127.0.0.1:9000/status",
		"http://[::1]:9000",
		"",
	}
	for _, u := range secure {
		assert.False(t, InsecureURL(u), u)
	}
}
