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

// Package status probes a single issuer's attestation service and reduces
// the result into one of eleven states.
//
// The decision ladder is strictly ordered and short-circuits at the first
// blocking condition:
//
//  1. no authorized attestation signer  -> NoAttestationSigner
//  2. no registered metadata URL        -> NoMetadataURL
//  3. metadata URL over plain http      -> InvalidAttestationServiceURL
//  4. metadata fetch failed             -> MetadataTimeout (network) or
//     InvalidMetadata (parse/signature)
//  5. no attestation-service claim      -> NoAttestationServiceURL
//  6. service claim over plain http     -> InvalidAttestationServiceURL
//  7. /status unreachable or non-2xx    -> UnreachableAttestationService
//  8. account mismatch                  -> WrongAccount, else Valid
//  9. versioned services: /healthz unreachable -> UnreachableHealthz,
//     failing -> Unhealthy; a stale or syncing node overrides either to
//     Unhealthy
//  10. versionless services are assumed legacy 1.0.0, healthz skipped
//
// Plain http toward loopback hosts is tolerated in both URL checks, so
// local setups work.
package status
