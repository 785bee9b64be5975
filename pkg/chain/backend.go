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
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TxRequest is a transaction construction: the contract call a coordinator
// operation wants submitted. The coordinator never submits transactions on
// its own; it hands a TxRequest back to the caller, who decides when (and
// whether) to pass it to Backend.SubmitTransaction.
type TxRequest struct {
	// Contract is the address of the contract to call
	Contract common.Address

	// Method is the contract method name
	Method string

	// Args are the call arguments, in declaration order
	Args []interface{}

	// Value is the native-token amount to send with the call, nil for zero
	Value *big.Int
}

// TxHandle identifies a submitted transaction
type TxHandle struct {
	Hash common.Hash
}

// Backend is the opaque chain gateway every component reads through.
// Implementations wrap whatever node access the caller has: a JSON-RPC
// gateway (HTTPBackend), a bound contract client, or an in-memory fake.
type Backend interface {
	// CallView executes a read-only contract method and returns its raw
	// result values in declaration order. Callers decode the values with
	// the As* helpers once, at the boundary.
	CallView(ctx context.Context, contract common.Address, method string, args ...interface{}) ([]interface{}, error)

	// SubmitTransaction submits a previously constructed transaction
	SubmitTransaction(ctx context.Context, tx *TxRequest) (*TxHandle, error)

	// BlockNumber returns the current block height
	BlockNumber(ctx context.Context) (uint64, error)

	// SignMessage signs keccak256(payload) with the key held for signer and
	// returns the 65-byte r || s || v signature
	SignMessage(ctx context.Context, signer common.Address, payload []byte) ([]byte, error)
}
