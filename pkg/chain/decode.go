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
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DecodePackedStrings decodes a packed Solidity string array: one declared
// byte length per string plus a single concatenated blob, consumed in order.
// The blob must contain exactly the declared number of bytes.
func DecodePackedStrings(lengths []uint64, blob []byte) ([]string, error) {
	out := make([]string, 0, len(lengths))
	offset := uint64(0)

	for i, n := range lengths {
		if offset+n > uint64(len(blob)) {
			return nil, fmt.Errorf("packed string %d: need %d bytes at offset %d, blob has %d", i, n, offset, len(blob))
		}
		out = append(out, string(blob[offset:offset+n]))
		offset += n
	}

	if offset != uint64(len(blob)) {
		return nil, fmt.Errorf("packed string blob has %d trailing bytes", uint64(len(blob))-offset)
	}
	return out, nil
}

// AsAddress decodes a single view-result value as an address.
// Accepts common.Address or a hex string.
func AsAddress(v interface{}) (common.Address, error) {
	switch x := v.(type) {
	case common.Address:
		return x, nil
	case string:
		if !common.IsHexAddress(x) {
			return common.Address{}, fmt.Errorf("not an address: %q", x)
		}
		return common.HexToAddress(x), nil
	default:
		return common.Address{}, fmt.Errorf("cannot decode %T as address", v)
	}
}

// AsBigInt decodes a single view-result value as an unbounded integer.
// Accepts *big.Int, json.Number, native integer types and decimal or
// 0x-prefixed strings.
func AsBigInt(v interface{}) (*big.Int, error) {
	switch x := v.(type) {
	case *big.Int:
		return new(big.Int).Set(x), nil
	case json.Number:
		n, ok := new(big.Int).SetString(x.String(), 10)
		if !ok {
			return nil, fmt.Errorf("not an integer: %q", x.String())
		}
		return n, nil
	case int:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(x)), nil
	case float64:
		return big.NewInt(int64(x)), nil
	case string:
		if strings.HasPrefix(x, "0x") {
			n, err := hexutil.DecodeBig(x)
			if err != nil {
				return nil, fmt.Errorf("not a hex integer: %q", x)
			}
			return n, nil
		}
		n, ok := new(big.Int).SetString(x, 10)
		if !ok {
			return nil, fmt.Errorf("not an integer: %q", x)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("cannot decode %T as integer", v)
	}
}

// AsUint64 decodes a single view-result value as a uint64
func AsUint64(v interface{}) (uint64, error) {
	n, err := AsBigInt(v)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("integer out of uint64 range: %s", n)
	}
	return n.Uint64(), nil
}

// AsBytes decodes a single view-result value as a byte blob.
// Accepts []byte or a 0x-prefixed hex string.
func AsBytes(v interface{}) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		b, err := hexutil.Decode(x)
		if err != nil {
			return nil, fmt.Errorf("not a hex blob: %q", x)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("cannot decode %T as bytes", v)
	}
}

// AsHash decodes a single view-result value as a 32-byte hash
func AsHash(v interface{}) (common.Hash, error) {
	switch x := v.(type) {
	case common.Hash:
		return x, nil
	case string:
		b, err := hexutil.Decode(x)
		if err != nil || len(b) != common.HashLength {
			return common.Hash{}, fmt.Errorf("not a 32-byte hash: %q", x)
		}
		return common.BytesToHash(b), nil
	default:
		return common.Hash{}, fmt.Errorf("cannot decode %T as hash", v)
	}
}

// AsAddressSlice decodes a view-result value as an address slice
func AsAddressSlice(v interface{}) ([]common.Address, error) {
	items, err := asSlice(v)
	if err != nil {
		return nil, err
	}
	out := make([]common.Address, len(items))
	for i, item := range items {
		out[i], err = AsAddress(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}

// AsUint64Slice decodes a view-result value as a uint64 slice
func AsUint64Slice(v interface{}) ([]uint64, error) {
	items, err := asSlice(v)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, len(items))
	for i, item := range items {
		out[i], err = AsUint64(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, nil
}

func asSlice(v interface{}) ([]interface{}, error) {
	switch x := v.(type) {
	case []interface{}:
		return x, nil
	case []common.Address:
		out := make([]interface{}, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out, nil
	case []uint64:
		out := make([]interface{}, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out, nil
	case []string:
		out := make([]interface{}, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot decode %T as slice", v)
	}
}

// Results guards the arity of a raw view result before per-value decoding
func Results(out []interface{}, want int) error {
	if len(out) != want {
		return fmt.Errorf("view returned %d values, want %d", len(out), want)
	}
	return nil
}
