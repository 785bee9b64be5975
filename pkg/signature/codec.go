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

package signature

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrVerificationFailed is returned when a code is not a well-formed
// signature or was not produced by the expected signer
var ErrVerificationFailed = errors.New("signature verification failed")

// Signature holds recovered ECDSA components in the Solidity convention
// (V is 27 or 28), ready for an on-chain completion call.
type Signature struct {
	V uint8
	R common.Hash
	S common.Hash
}

// AttestationMessage is the canonical message an issuer signs to attest an
// identifier/account binding: keccak256(identifier ++ account).
func AttestationMessage(identifier common.Hash, account common.Address) common.Hash {
	return crypto.Keccak256Hash(identifier.Bytes(), account.Bytes())
}

// SecurityCodeHash is the digest signed for the Authentication header when
// retrieving an attestation by security code
func SecurityCodeHash(securityCode string) common.Hash {
	return crypto.Keccak256Hash([]byte(securityCode))
}

// ParseSignature recovers the signer of code over message and checks it
// against expectedSigner. The code is a hex-encoded 65-byte r || s || v
// signature; both the 0/1 and 27/28 recovery-id conventions are accepted,
// and a signature whose recovery id was flipped by the transport is still
// matched. Returns ErrVerificationFailed on malformed input or a signer
// mismatch.
func ParseSignature(message common.Hash, code string, expectedSigner common.Address) (*Signature, error) {
	raw, err := decodeCode(code)
	if err != nil {
		return nil, err
	}

	v := raw[64]
	if v >= 27 {
		v -= 27
	}

	for _, candidate := range []byte{v, 1 - v} {
		sig := make([]byte, 65)
		copy(sig, raw[:64])
		sig[64] = candidate

		pub, err := crypto.SigToPub(message.Bytes(), sig)
		if err != nil {
			continue
		}
		if crypto.PubkeyToAddress(*pub) == expectedSigner {
			return &Signature{
				V: candidate + 27,
				R: common.BytesToHash(raw[:32]),
				S: common.BytesToHash(raw[32:64]),
			}, nil
		}
	}

	return nil, fmt.Errorf("code not signed by %s: %w", expectedSigner.Hex(), ErrVerificationFailed)
}

// ParseRaw converts a 65-byte r || s || v signature into components without
// checking the signer
func ParseRaw(raw []byte) (*Signature, error) {
	if len(raw) != 65 {
		return nil, fmt.Errorf("signature is %d bytes, want 65: %w", len(raw), ErrVerificationFailed)
	}

	v := raw[64]
	if v < 27 {
		v += 27
	}
	if v != 27 && v != 28 {
		return nil, fmt.Errorf("recovery id %d out of range: %w", raw[64], ErrVerificationFailed)
	}

	return &Signature{
		V: v,
		R: common.BytesToHash(raw[:32]),
		S: common.BytesToHash(raw[32:64]),
	}, nil
}

// SerializeSignature encodes a signature as 0x-prefixed hex r || s || v,
// the canonical form for HTTP header transport
func SerializeSignature(sig *Signature) string {
	raw := make([]byte, 65)
	copy(raw[:32], sig.R.Bytes())
	copy(raw[32:64], sig.S.Bytes())
	raw[64] = sig.V
	return hexutil.Encode(raw)
}

func decodeCode(code string) ([]byte, error) {
	if len(code) >= 2 && code[:2] != "0x" {
		code = "0x" + code
	}

	raw, err := hexutil.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("code is not hex: %w", ErrVerificationFailed)
	}
	if len(raw) != 65 {
		return nil, fmt.Errorf("code is %d bytes, want 65: %w", len(raw), ErrVerificationFailed)
	}
	return raw, nil
}
