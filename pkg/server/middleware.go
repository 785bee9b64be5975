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

package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/attestia-project/attest-go/pkg/service"
	"github.com/attestia-project/attest-go/pkg/signature"
)

type contextKey string

const accountKey contextKey = "attested_account"

// ErrorHandler handles verification failures
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// SignerResolver resolves the key authorized to sign for an account.
// *accounts.Reader satisfies it.
type SignerResolver interface {
	GetAttestationSigner(ctx context.Context, account common.Address) (common.Address, error)
}

// AuthMiddleware verifies the Authentication header an attestation service
// receives on get_attestations requests: a serialized signature over the
// security code's digest, produced by the requesting account's key. On
// success the verified account is placed in the request context.
type AuthMiddleware struct {
	signers      SignerResolver
	errorHandler ErrorHandler
	optional     bool
}

// NewAuthMiddleware creates middleware resolving signers through signers
func NewAuthMiddleware(signers SignerResolver) *AuthMiddleware {
	return &AuthMiddleware{
		signers:      signers,
		errorHandler: defaultErrorHandler,
		optional:     false,
	}
}

// SetErrorHandler sets a custom error handler
func (m *AuthMiddleware) SetErrorHandler(handler ErrorHandler) {
	m.errorHandler = handler
}

// SetOptional sets whether authentication is optional.
// If true, requests without an Authentication header pass through with no
// account in context.
func (m *AuthMiddleware) SetOptional(optional bool) {
	m.optional = optional
}

// Wrap wraps an HTTP handler with Authentication-header verification
func (m *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CORS preflight is never signed
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get(service.AuthenticationHeader)
		if auth == "" {
			if m.optional {
				next.ServeHTTP(w, r)
				return
			}
			m.errorHandler(w, r, fmt.Errorf("missing %s header", service.AuthenticationHeader))
			return
		}

		q := r.URL.Query()
		if !common.IsHexAddress(q.Get("account")) {
			m.errorHandler(w, r, fmt.Errorf("missing or malformed account parameter"))
			return
		}
		account := common.HexToAddress(q.Get("account"))

		securityCode := q.Get("securityCode")
		if securityCode == "" {
			m.errorHandler(w, r, fmt.Errorf("missing securityCode parameter"))
			return
		}

		// The contract answers the account itself when no separate signer
		// is authorized, so one lookup covers both cases
		signer, err := m.signers.GetAttestationSigner(r.Context(), account)
		if err != nil {
			m.errorHandler(w, r, fmt.Errorf("signer lookup for %s: %w", account.Hex(), err))
			return
		}

		digest := signature.SecurityCodeHash(securityCode)
		if _, err := signature.ParseSignature(digest, auth, signer); err != nil {
			m.errorHandler(w, r, fmt.Errorf("authentication failed: %w", err))
			return
		}

		ctx := context.WithValue(r.Context(), accountKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccountFromContext extracts the verified account from a request context
func AccountFromContext(ctx context.Context) (common.Address, bool) {
	account, ok := ctx.Value(accountKey).(common.Address)
	return account, ok
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	http.Error(w, fmt.Sprintf("Unauthorized: %s", err.Error()), http.StatusUnauthorized)
}
