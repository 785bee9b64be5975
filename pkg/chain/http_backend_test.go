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

package chain

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatewayHandler answers one JSON-RPC method for tests
func gatewayHandler(t *testing.T, wantMethod string, result interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req jsonRPCRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.Equal(t, wantMethod, req.Method)

		raw, err := json.Marshal(result)
		require.NoError(t, err)

		resp := jsonRPCResponse{JSONRPC: "2.0", Result: raw, ID: req.ID}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func TestHTTPBackendCallView(t *testing.T) {
	srv := httptest.NewServer(gatewayHandler(t, "chain_callView", []interface{}{"0x000000000000000000000000000000000000ce10", 42}))
	defer srv.Close()

	backend := NewHTTPBackend(srv.URL, nil)

	out, err := backend.CallView(context.Background(), common.HexToAddress("0x01"), "getAddressForString", "Attestations")
	require.NoError(t, err)
	require.Len(t, out, 2)

	addr, err := AsAddress(out[0])
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xce10"), addr)

	// Numbers must round-trip without float truncation
	n, err := AsUint64(out[1])
	require.NoError(t, err)
	assert.Equal(t, uint64(42), n)
}

// Test big.Int arguments are serialized as decimal strings, not floats
func TestHTTPBackendNormalizesBigIntArgs(t *testing.T) {
	var gotArgs []interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req jsonRPCRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		params, err := json.Marshal(req.Params)
		require.NoError(t, err)
		var p callViewParams
		require.NoError(t, json.Unmarshal(params, &p))
		gotArgs = p.Args

		resp := jsonRPCResponse{JSONRPC: "2.0", Result: json.RawMessage(`[]`), ID: req.ID}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	backend := NewHTTPBackend(srv.URL, nil)

	huge, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)

	_, err := backend.CallView(context.Background(), common.HexToAddress("0x01"), "approve", huge, []byte{0xca, 0xfe})
	require.NoError(t, err)
	require.Len(t, gotArgs, 2)
	assert.Equal(t, "123456789012345678901234567890", gotArgs[0])
	assert.Equal(t, "0xcafe", gotArgs[1])
}

func TestHTTPBackendBlockNumber(t *testing.T) {
	srv := httptest.NewServer(gatewayHandler(t, "chain_blockNumber", 123456))
	defer srv.Close()

	backend := NewHTTPBackend(srv.URL, nil)

	n, err := backend.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(123456), n)
}

func TestHTTPBackendSubmitTransaction(t *testing.T) {
	hash := common.HexToHash("0xabcdef")
	srv := httptest.NewServer(gatewayHandler(t, "chain_submitTransaction", hash))
	defer srv.Close()

	backend := NewHTTPBackend(srv.URL, nil)

	handle, err := backend.SubmitTransaction(context.Background(), &TxRequest{
		Contract: common.HexToAddress("0x01"),
		Method:   "request",
		Args:     []interface{}{"0x02", 3},
		Value:    big.NewInt(0),
	})
	require.NoError(t, err)
	assert.Equal(t, hash, handle.Hash)
}

func TestHTTPBackendSignMessage(t *testing.T) {
	srv := httptest.NewServer(gatewayHandler(t, "chain_signMessage", "0x0102"))
	defer srv.Close()

	backend := NewHTTPBackend(srv.URL, nil)

	sig, err := backend.SignMessage(context.Background(), common.HexToAddress("0x01"), []byte("code"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, sig)
}

// Test a JSON-RPC error object becomes a Go error
func TestHTTPBackendRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := jsonRPCResponse{
			JSONRPC: "2.0",
			Error:   &jsonRPCError{Code: -32601, Message: "method not found"},
			ID:      1,
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	backend := NewHTTPBackend(srv.URL, nil)

	_, err := backend.BlockNumber(context.Background())
	assert.ErrorContains(t, err, "method not found")
}

func TestHTTPBackendHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	backend := NewHTTPBackend(srv.URL, nil)

	_, err := backend.BlockNumber(context.Background())
	assert.ErrorContains(t, err, "502")
}
