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

package metadata

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/attestia-project/attest-go/pkg/signature"
)

// ClaimType identifies what a metadata claim asserts
type ClaimType string

const (
	// ClaimTypeAttestationServiceURL points at the issuer's attestation service
	ClaimTypeAttestationServiceURL ClaimType = "ATTESTATION_SERVICE_URL"

	// ClaimTypeName is the issuer's display name
	ClaimTypeName ClaimType = "NAME"

	// ClaimTypeDomain asserts control of a DNS domain
	ClaimTypeDomain ClaimType = "DOMAIN"
)

// Claim is a single assertion inside an identity metadata document
type Claim struct {
	Type      ClaimType `json:"type"`
	Timestamp int64     `json:"timestamp,omitempty"`
	URL       string    `json:"url,omitempty"`
	Name      string    `json:"name,omitempty"`
	Domain    string    `json:"domain,omitempty"`
}

// IdentityMetadata is a signed metadata document an account publishes at its
// registered metadata URL. The signature covers the claims and is checked
// against the declared address on every fetch.
type IdentityMetadata struct {
	Claims []Claim `json:"claims"`
	Meta   Meta    `json:"meta"`
}

// Meta carries the document's address and signature envelope
type Meta struct {
	Address   common.Address `json:"address"`
	Signature string         `json:"signature"`
}

// FindClaim returns the first claim of the given type, or nil
func (m *IdentityMetadata) FindClaim(t ClaimType) *Claim {
	for i := range m.Claims {
		if m.Claims[i].Type == t {
			return &m.Claims[i]
		}
	}
	return nil
}

// AttestationServiceURL returns the attestation-service claim URL, or empty
func (m *IdentityMetadata) AttestationServiceURL() string {
	if c := m.FindClaim(ClaimTypeAttestationServiceURL); c != nil {
		return c.URL
	}
	return ""
}

// Name returns the display-name claim value, or empty
func (m *IdentityMetadata) Name() string {
	if c := m.FindClaim(ClaimTypeName); c != nil {
		return c.Name
	}
	return ""
}

// HashOfClaims is the digest the document signature covers:
// keccak256 of the canonical JSON encoding of the claim list.
func HashOfClaims(claims []Claim) (common.Hash, error) {
	b, err := json.Marshal(claims)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode claims: %w", err)
	}
	return crypto.Keccak256Hash(b), nil
}

// Verify checks the document signature against the declared address
func (m *IdentityMetadata) Verify() error {
	hash, err := HashOfClaims(m.Claims)
	if err != nil {
		return err
	}
	if _, err := signature.ParseSignature(hash, m.Meta.Signature, m.Meta.Address); err != nil {
		return fmt.Errorf("metadata signature: %w", err)
	}
	return nil
}

// Sign attaches a signature over the current claims, produced by sign.
// Used by issuers publishing their own metadata.
func (m *IdentityMetadata) Sign(sign func(digest common.Hash) ([]byte, error)) error {
	hash, err := HashOfClaims(m.Claims)
	if err != nil {
		return err
	}

	raw, err := sign(hash)
	if err != nil {
		return fmt.Errorf("failed to sign metadata: %w", err)
	}

	sig, err := signature.ParseRaw(raw)
	if err != nil {
		return err
	}
	m.Meta.Signature = signature.SerializeSignature(sig)
	return nil
}
