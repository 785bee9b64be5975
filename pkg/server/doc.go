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

// Package server provides HTTP middleware for attestation services
// verifying authenticated get_attestations requests.
//
// The middleware checks the Authentication header: a serialized signature
// over the security code's digest, produced by the requesting account's
// authorized key. The signer is resolved through the on-chain accounts
// registry, so an account that delegated signing to a separate key is
// handled transparently.
//
// # Usage
//
//	reader := accounts.NewReader(backend, registry)
//	middleware := server.NewAuthMiddleware(reader)
//
//	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	    account, ok := server.AccountFromContext(r.Context())
//	    if !ok {
//	        http.Error(w, "Unauthorized", http.StatusUnauthorized)
//	        return
//	    }
//	    // serve the attestation code for account
//	})
//
//	http.Handle("/get_attestations", middleware.Wrap(handler))
//
// Verification failures return 401 Unauthorized by default; SetErrorHandler
// overrides that. SetOptional(true) lets unauthenticated requests through
// with no account in context, for services that accept both flows.
//
// OPTIONS requests pass through unverified so CORS preflight works.
package server
