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

// Package attestations drives the attestation request lifecycle against the
// attestations contract and the issuers' attestation services.
//
// The happy path is: ApproveAttestationFee and Request, wait for the
// selection window with WaitForSelectingIssuers, SelectIssuers, probe the
// assigned issuers with GetActionableAttestations, RevealToIssuer, then
// Complete with the code each issuer delivered.
//
// Write operations never submit: they return transaction constructions for
// the caller's signer to submit. The Coordinator holds no mutable state, so
// every read reflects live chain and network conditions.
package attestations
