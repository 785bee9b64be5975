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

// Package service is the HTTP client for issuer attestation services:
// GET /status, GET /healthz, POST /attestations (reveal) and
// GET /get_attestations (completion-code retrieval with an optional
// Authentication signature header).
//
// All calls are bounded by the client timeout so one slow issuer cannot
// hold a coordinator probe slot open.
package service
