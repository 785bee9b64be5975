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

// Package accounts reads the on-chain account registry: authorized
// attestation signers, metadata URLs, names and wallet addresses. All
// methods are read projections of chain state; nothing is cached.
package accounts

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/attestia-project/attest-go/pkg/chain"
)

// ContractName is the logical registry name of the accounts contract
const ContractName = "Accounts"

// Reader exposes typed reads over the accounts contract
type Reader struct {
	backend  chain.Backend
	registry *chain.Registry
}

// NewReader creates a Reader resolving the accounts contract through registry
func NewReader(backend chain.Backend, registry *chain.Registry) *Reader {
	return &Reader{backend: backend, registry: registry}
}

func (r *Reader) view(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	contract, err := r.registry.AddressFor(ctx, ContractName)
	if err != nil {
		return nil, err
	}

	out, err := r.backend.CallView(ctx, contract, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return out, nil
}

func (r *Reader) viewOne(ctx context.Context, method string, args ...interface{}) (interface{}, error) {
	out, err := r.view(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	if err := chain.Results(out, 1); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return out[0], nil
}

// HasAuthorizedAttestationSigner reports whether account has delegated
// attestation signing to a separate key
func (r *Reader) HasAuthorizedAttestationSigner(ctx context.Context, account common.Address) (bool, error) {
	v, err := r.viewOne(ctx, "hasAuthorizedAttestationSigner", account)
	if err != nil {
		return false, err
	}

	switch b := v.(type) {
	case bool:
		return b, nil
	default:
		return false, fmt.Errorf("hasAuthorizedAttestationSigner: cannot decode %T as bool", v)
	}
}

// GetAttestationSigner returns the key authorized to sign attestations for
// account. The contract returns the account itself when no separate signer
// is authorized.
func (r *Reader) GetAttestationSigner(ctx context.Context, account common.Address) (common.Address, error) {
	v, err := r.viewOne(ctx, "getAttestationSigner", account)
	if err != nil {
		return common.Address{}, err
	}
	return chain.AsAddress(v)
}

// GetMetadataURL returns the metadata URL registered for account, empty when
// none is set
func (r *Reader) GetMetadataURL(ctx context.Context, account common.Address) (string, error) {
	v, err := r.viewOne(ctx, "getMetadataURL", account)
	if err != nil {
		return "", err
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("getMetadataURL: cannot decode %T as string", v)
	}
	return s, nil
}

// GetName returns the display name registered for account
func (r *Reader) GetName(ctx context.Context, account common.Address) (string, error) {
	v, err := r.viewOne(ctx, "getName", account)
	if err != nil {
		return "", err
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("getName: cannot decode %T as string", v)
	}
	return s, nil
}

// GetWalletAddress returns the wallet address registered for account
func (r *Reader) GetWalletAddress(ctx context.Context, account common.Address) (common.Address, error) {
	v, err := r.viewOne(ctx, "getWalletAddress", account)
	if err != nil {
		return common.Address{}, err
	}
	return chain.AsAddress(v)
}
