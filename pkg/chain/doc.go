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

// Package chain defines the opaque chain boundary the rest of attest-go
// reads and writes through.
//
// # Backend
//
// Backend is the injected dependency every wrapper builds on: view calls,
// transaction submission, block height and message signing. The default
// implementation, HTTPBackend, speaks JSON-RPC 2.0 to a chain gateway:
//
//	backend := chain.NewHTTPBackend("https://gateway.example.com/rpc", nil)
//	height, err := backend.BlockNumber(ctx)
//
// Write operations across the SDK return *TxRequest values rather than
// submitting anything; submission stays with the caller:
//
//	tx, err := coordinator.Request(ctx, identifier, 3)
//	handle, err := backend.SubmitTransaction(ctx, tx)
//
// # Registry
//
// Registry resolves logical contract names to addresses through the
// on-chain registry, with a short-lived cache:
//
//	registry := chain.NewRegistry(backend, registryAddr)
//	attestations, err := registry.AddressFor(ctx, "Attestations")
//
// # Decoding
//
// View results arrive as positional raw values. Each call site decodes them
// once, at the boundary, with the As* helpers; packed Solidity string
// arrays (a length array plus one concatenated blob) are decoded with
// DecodePackedStrings.
package chain
