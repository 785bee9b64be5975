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
	"crypto/ecdsa"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attestia-project/attest-go/pkg/service"
	"github.com/attestia-project/attest-go/pkg/signature"
)

type fakeResolver struct {
	signer common.Address
	err    error
}

func (f *fakeResolver) GetAttestationSigner(context.Context, common.Address) (common.Address, error) {
	return f.signer, f.err
}

func authFor(t *testing.T, key *ecdsa.PrivateKey, securityCode string) string {
	t.Helper()
	raw, err := crypto.Sign(signature.SecurityCodeHash(securityCode).Bytes(), key)
	require.NoError(t, err)
	sig, err := signature.ParseRaw(raw)
	require.NoError(t, err)
	return signature.SerializeSignature(sig)
}

func getAttestationsRequest(account common.Address, securityCode, auth string) *http.Request {
	q := url.Values{}
	q.Set("account", account.Hex())
	if securityCode != "" {
		q.Set("securityCode", securityCode)
	}
	req := httptest.NewRequest(http.MethodGet, "/get_attestations?"+q.Encode(), nil)
	if auth != "" {
		req.Header.Set(service.AuthenticationHeader, auth)
	}
	return req
}

func TestWrapVerifiesAndStashesAccount(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	account := common.HexToAddress("0x0b")

	var seen common.Address
	handler := NewAuthMiddleware(&fakeResolver{signer: crypto.PubkeyToAddress(key.PublicKey)}).
		Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := AccountFromContext(r.Context())
			require.True(t, ok)
			seen = got
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, getAttestationsRequest(account, "123456", authFor(t, key, "123456")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, account, seen)
}

func TestWrapRejectsMissingHeader(t *testing.T) {
	handler := NewAuthMiddleware(&fakeResolver{}).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, getAttestationsRequest(common.HexToAddress("0x0b"), "123456", ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWrapRejectsWrongSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	other, err := crypto.GenerateKey()
	require.NoError(t, err)

	handler := NewAuthMiddleware(&fakeResolver{signer: crypto.PubkeyToAddress(key.PublicKey)}).
		Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, getAttestationsRequest(common.HexToAddress("0x0b"), "123456", authFor(t, other, "123456")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Test a signature over a different code fails even from the right key
func TestWrapRejectsCodeMismatch(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	handler := NewAuthMiddleware(&fakeResolver{signer: crypto.PubkeyToAddress(key.PublicKey)}).
		Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, getAttestationsRequest(common.HexToAddress("0x0b"), "123456", authFor(t, key, "654321")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWrapOptionalPassesUnsigned(t *testing.T) {
	m := NewAuthMiddleware(&fakeResolver{})
	m.SetOptional(true)

	handler := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := AccountFromContext(r.Context())
		assert.False(t, ok)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, getAttestationsRequest(common.HexToAddress("0x0b"), "", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWrapSkipsPreflight(t *testing.T) {
	handler := NewAuthMiddleware(&fakeResolver{}).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/get_attestations", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestWrapCustomErrorHandler(t *testing.T) {
	m := NewAuthMiddleware(&fakeResolver{})
	m.SetErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
		http.Error(w, "go away", http.StatusForbidden)
	})

	handler := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, getAttestationsRequest(common.HexToAddress("0x0b"), "123456", ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
