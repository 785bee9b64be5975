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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// HTTPBackend implements Backend over a JSON-RPC 2.0 chain gateway.
//
// The gateway is expected to expose:
//   - chain_callView(contract, method, args) -> []result
//   - chain_submitTransaction(contract, method, args, value) -> txHash
//   - chain_blockNumber() -> number
//   - chain_signMessage(signer, payload) -> signature
type HTTPBackend struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPBackend creates a Backend talking JSON-RPC to baseURL.
// If httpClient is nil, http.DefaultClient is used.
func NewHTTPBackend(baseURL string, httpClient *http.Client) *HTTPBackend {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPBackend{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// jsonRPCRequest represents a JSON-RPC 2.0 request
type jsonRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      int    `json:"id"`
}

// jsonRPCResponse represents a JSON-RPC 2.0 response
type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
	ID      int             `json:"id"`
}

// jsonRPCError represents a JSON-RPC 2.0 error
type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// call makes a JSON-RPC 2.0 call and returns the raw result
func (b *HTTPBackend) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	rpcReq := jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	}

	body, err := json.Marshal(rpcReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON-RPC request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", b.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var rpcResp jsonRPCResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON-RPC response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, fmt.Errorf("JSON-RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	return rpcResp.Result, nil
}

type callViewParams struct {
	Contract common.Address `json:"contract"`
	Method   string         `json:"method"`
	Args     []interface{}  `json:"args"`
}

// CallView implements Backend
func (b *HTTPBackend) CallView(ctx context.Context, contract common.Address, method string, args ...interface{}) ([]interface{}, error) {
	raw, err := b.call(ctx, "chain_callView", callViewParams{
		Contract: contract,
		Method:   method,
		Args:     normalizeArgs(args),
	})
	if err != nil {
		return nil, err
	}

	// Preserve integer precision: gateway numbers decode as json.Number,
	// which the As* helpers understand.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var out []interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode view result: %w", err)
	}
	return out, nil
}

type submitParams struct {
	Contract common.Address `json:"contract"`
	Method   string         `json:"method"`
	Args     []interface{}  `json:"args"`
	Value    string         `json:"value,omitempty"`
}

// SubmitTransaction implements Backend
func (b *HTTPBackend) SubmitTransaction(ctx context.Context, tx *TxRequest) (*TxHandle, error) {
	params := submitParams{
		Contract: tx.Contract,
		Method:   tx.Method,
		Args:     normalizeArgs(tx.Args),
	}
	if tx.Value != nil {
		params.Value = tx.Value.String()
	}

	raw, err := b.call(ctx, "chain_submitTransaction", params)
	if err != nil {
		return nil, err
	}

	var hash common.Hash
	if err := json.Unmarshal(raw, &hash); err != nil {
		return nil, fmt.Errorf("failed to decode transaction hash: %w", err)
	}
	return &TxHandle{Hash: hash}, nil
}

// BlockNumber implements Backend
func (b *HTTPBackend) BlockNumber(ctx context.Context) (uint64, error) {
	raw, err := b.call(ctx, "chain_blockNumber", nil)
	if err != nil {
		return 0, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var out interface{}
	if err := dec.Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode block number: %w", err)
	}
	return AsUint64(out)
}

type signMessageParams struct {
	Signer  common.Address `json:"signer"`
	Payload hexutil.Bytes  `json:"payload"`
}

// SignMessage implements Backend
func (b *HTTPBackend) SignMessage(ctx context.Context, signer common.Address, payload []byte) ([]byte, error) {
	raw, err := b.call(ctx, "chain_signMessage", signMessageParams{
		Signer:  signer,
		Payload: payload,
	})
	if err != nil {
		return nil, err
	}

	var sig hexutil.Bytes
	if err := json.Unmarshal(raw, &sig); err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}
	return sig, nil
}

// normalizeArgs rewrites argument types the gateway would otherwise mangle
// (big.Int loses precision as a JSON float, []byte needs hex encoding).
func normalizeArgs(args []interface{}) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case *big.Int:
			out[i] = v.String()
		case []byte:
			out[i] = hexutil.Encode(v)
		default:
			out[i] = a
		}
	}
	return out
}
