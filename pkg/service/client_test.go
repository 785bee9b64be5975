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

package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/status", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode(StatusResponse{
			Status:           "ok",
			Version:          "1.2.0",
			AccountAddress:   "0x000000000000000000000000000000000000BEEF",
			SMSProviders:     []string{"twilio", "nexmo"},
			AgeOfLatestBlock: 3,
		}))
	}))
	defer srv.Close()

	status, err := NewClient(nil).Status(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, status.OK())
	assert.Equal(t, "1.2.0", status.Version)
	assert.Equal(t, common.HexToAddress("0xbeef"), status.Account())
	assert.Equal(t, []string{"twilio", "nexmo"}, status.SMSProviders)
}

func TestStatusNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(nil).Status(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestHealthzOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.NoError(t, NewClient(nil).Healthz(context.Background(), srv.URL))
}

// Test a reachable failing healthz becomes a HealthzError with the embedded
// message, distinguishable from a transport failure
func TestHealthzNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "database unreachable"}`))
	}))
	defer srv.Close()

	err := NewClient(nil).Healthz(context.Background(), srv.URL)
	require.Error(t, err)

	var he *HealthzError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.StatusCode)
	assert.Equal(t, "database unreachable", he.Message)
}

func TestHealthzUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := NewClient(nil).Healthz(context.Background(), srv.URL)
	require.Error(t, err)

	var he *HealthzError
	assert.False(t, errors.As(err, &he))
}

func TestReveal(t *testing.T) {
	account := common.HexToAddress("0x0b")
	issuer := common.HexToAddress("0x15")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/attestations", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body RevealRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, account, body.Account)
		assert.Equal(t, issuer, body.Issuer)
		assert.Equal(t, "+14155550000", body.PhoneNumber)

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewClient(nil).Reveal(context.Background(), srv.URL, &RevealRequest{
		Account:     account,
		Issuer:      issuer,
		PhoneNumber: "+14155550000",
	})
	assert.NoError(t, err)
}

func TestRevealErrorCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown account", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := NewClient(nil).Reveal(context.Background(), srv.URL, &RevealRequest{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown account")
}

func TestGetAttestation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_attestations", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "+14155550000", q.Get("phoneNumber"))
		assert.Equal(t, "s4lt", q.Get("salt"))
		assert.Equal(t, "123456", q.Get("securityCode"))
		assert.NotEmpty(t, q.Get("issuer"))
		assert.NotEmpty(t, q.Get("account"))
		assert.Equal(t, "0xsigned", r.Header.Get(AuthenticationHeader))

		require.NoError(t, json.NewEncoder(w).Encode(GetAttestationResponse{AttestationCode: "0xc0de"}))
	}))
	defer srv.Close()

	resp, err := NewClient(nil).GetAttestation(context.Background(), srv.URL, &GetAttestationRequest{
		PhoneNumber:  "+14155550000",
		Salt:         "s4lt",
		Issuer:       common.HexToAddress("0x15"),
		Account:      common.HexToAddress("0x0b"),
		SecurityCode: "123456",
	}, "0xsigned")
	require.NoError(t, err)
	assert.Equal(t, "0xc0de", resp.AttestationCode)
}

// Test the Authentication header and securityCode param are omitted when absent
func TestGetAttestationWithoutSecurityCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("securityCode"))
		assert.Empty(t, r.Header.Get(AuthenticationHeader))
		require.NoError(t, json.NewEncoder(w).Encode(GetAttestationResponse{AttestationCode: "0xc0de"}))
	}))
	defer srv.Close()

	_, err := NewClient(nil).GetAttestation(context.Background(), srv.URL, &GetAttestationRequest{
		Issuer:  common.HexToAddress("0x15"),
		Account: common.HexToAddress("0x0b"),
	}, "")
	assert.NoError(t, err)
}
