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

package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attestia-project/attest-go/pkg/chain"
)

var (
	registryAddr = common.HexToAddress("0xce10")
	accountsAddr = common.HexToAddress("0xacc0")
	issuer       = common.HexToAddress("0x15")
)

// fakeBackend routes registry resolution and accounts views
type fakeBackend struct {
	views map[string][]interface{}
}

func (f *fakeBackend) CallView(_ context.Context, contract common.Address, method string, args ...interface{}) ([]interface{}, error) {
	if contract == registryAddr {
		return []interface{}{accountsAddr.Hex()}, nil
	}
	out, ok := f.views[method]
	if !ok {
		return nil, errors.New("unexpected view " + method)
	}
	return out, nil
}

func (f *fakeBackend) SubmitTransaction(context.Context, *chain.TxRequest) (*chain.TxHandle, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBackend) BlockNumber(context.Context) (uint64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeBackend) SignMessage(context.Context, common.Address, []byte) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func newReader(views map[string][]interface{}) *Reader {
	backend := &fakeBackend{views: views}
	return NewReader(backend, chain.NewRegistry(backend, registryAddr))
}

func TestHasAuthorizedAttestationSigner(t *testing.T) {
	r := newReader(map[string][]interface{}{
		"hasAuthorizedAttestationSigner": {true},
	})

	has, err := r.HasAuthorizedAttestationSigner(context.Background(), issuer)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestGetAttestationSigner(t *testing.T) {
	signer := common.HexToAddress("0x51")
	r := newReader(map[string][]interface{}{
		"getAttestationSigner": {signer.Hex()},
	})

	got, err := r.GetAttestationSigner(context.Background(), issuer)
	require.NoError(t, err)
	assert.Equal(t, signer, got)
}

func TestGetMetadataURL(t *testing.T) {
	r := newReader(map[string][]interface{}{
		"getMetadataURL": {"https://meta.example.com"},
	})

	got, err := r.GetMetadataURL(context.Background(), issuer)
	require.NoError(t, err)
	assert.Equal(t, "https://meta.example.com", got)
}

func TestGetNameAndWallet(t *testing.T) {
	wallet := common.HexToAddress("0x77")
	r := newReader(map[string][]interface{}{
		"getName":          {"Example Validator"},
		"getWalletAddress": {wallet.Hex()},
	})

	name, err := r.GetName(context.Background(), issuer)
	require.NoError(t, err)
	assert.Equal(t, "Example Validator", name)

	got, err := r.GetWalletAddress(context.Background(), issuer)
	require.NoError(t, err)
	assert.Equal(t, wallet, got)
}

// Test decode failures carry the method name
func TestReaderDecodeError(t *testing.T) {
	r := newReader(map[string][]interface{}{
		"getMetadataURL": {42},
	})

	_, err := r.GetMetadataURL(context.Background(), issuer)
	assert.ErrorContains(t, err, "getMetadataURL")
}

func TestReaderArityError(t *testing.T) {
	r := newReader(map[string][]interface{}{
		"getAttestationSigner": {},
	})

	_, err := r.GetAttestationSigner(context.Background(), issuer)
	assert.Error(t, err)
}
