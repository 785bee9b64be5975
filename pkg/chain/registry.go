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
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/patrickmn/go-cache"
)

// ErrNotRegistered is returned when the registry holds no address for a
// logical contract name
var ErrNotRegistered = errors.New("contract not registered")

const (
	registryCacheExpiration = 10 * time.Minute
	registryCacheCleanup    = 15 * time.Minute
)

// Registry resolves logical contract names ("Attestations", "Accounts",
// "StableToken") to addresses through the on-chain registry contract.
// Resolved addresses are cached; registry entries change rarely enough that
// a stale window of a few minutes is acceptable.
type Registry struct {
	backend Backend
	addr    common.Address
	cache   *cache.Cache
}

// NewRegistry creates a resolver backed by the registry contract at addr
func NewRegistry(backend Backend, addr common.Address) *Registry {
	return &Registry{
		backend: backend,
		addr:    addr,
		cache:   cache.New(registryCacheExpiration, registryCacheCleanup),
	}
}

// AddressFor resolves the address registered for name.
// Returns ErrNotRegistered when the registry reports the zero address.
func (r *Registry) AddressFor(ctx context.Context, name string) (common.Address, error) {
	if v, ok := r.cache.Get(name); ok {
		return v.(common.Address), nil
	}

	out, err := r.backend.CallView(ctx, r.addr, "getAddressForString", name)
	if err != nil {
		return common.Address{}, fmt.Errorf("registry lookup for %q: %w", name, err)
	}
	if err := Results(out, 1); err != nil {
		return common.Address{}, fmt.Errorf("registry lookup for %q: %w", name, err)
	}

	addr, err := AsAddress(out[0])
	if err != nil {
		return common.Address{}, fmt.Errorf("registry lookup for %q: %w", name, err)
	}
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%q: %w", name, ErrNotRegistered)
	}

	r.cache.Set(name, addr, cache.DefaultExpiration)
	return addr, nil
}
