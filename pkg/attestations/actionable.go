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

package attestations

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/semaphore"

	"github.com/attestia-project/attest-go/pkg/chain"
	"github.com/attestia-project/attest-go/pkg/metadata"
	"github.com/attestia-project/attest-go/pkg/service"
	"github.com/attestia-project/attest-go/pkg/signature"
	"github.com/attestia-project/attest-go/pkg/version"
)

// CompletableAttestation is an assigned, not-yet-completed attestation as
// the chain reports it: the issuer plus the metadata URL it registered
type CompletableAttestation struct {
	BlockNumber uint64
	Issuer      common.Address
	MetadataURL string
}

// GetCompletableAttestations reads the assigned incomplete attestations for
// identifier/account. The chain packs the issuers' metadata URLs as a
// lengths array plus one concatenated blob; both are consumed exactly.
func (c *Coordinator) GetCompletableAttestations(ctx context.Context, identifier common.Hash, account common.Address) ([]CompletableAttestation, error) {
	out, err := c.view(ctx, "getCompletableAttestations", identifier, account)
	if err != nil {
		return nil, err
	}
	if err := chain.Results(out, 4); err != nil {
		return nil, fmt.Errorf("getCompletableAttestations: %w", err)
	}

	blockNumbers, err := chain.AsUint64Slice(out[0])
	if err != nil {
		return nil, fmt.Errorf("getCompletableAttestations block numbers: %w", err)
	}
	issuers, err := chain.AsAddressSlice(out[1])
	if err != nil {
		return nil, fmt.Errorf("getCompletableAttestations issuers: %w", err)
	}
	lengths, err := chain.AsUint64Slice(out[2])
	if err != nil {
		return nil, fmt.Errorf("getCompletableAttestations url lengths: %w", err)
	}
	blob, err := chain.AsBytes(out[3])
	if err != nil {
		return nil, fmt.Errorf("getCompletableAttestations url data: %w", err)
	}

	if len(blockNumbers) != len(issuers) || len(issuers) != len(lengths) {
		return nil, fmt.Errorf("getCompletableAttestations: mismatched array lengths")
	}

	urls, err := chain.DecodePackedStrings(lengths, blob)
	if err != nil {
		return nil, fmt.Errorf("getCompletableAttestations: %w", err)
	}

	completable := make([]CompletableAttestation, len(issuers))
	for i := range issuers {
		completable[i] = CompletableAttestation{
			BlockNumber: blockNumbers[i],
			Issuer:      issuers[i],
			MetadataURL: urls[i],
		}
	}
	return completable, nil
}

// probeIssuer checks whether one assigned issuer is actionable: its
// registered metadata resolves to an attestation-service claim whose
// /status answers 2xx. Any failure along the way makes the issuer
// non-actionable; the cause is not distinguished here. Insecure transport
// fails the probe outright, since reveal would send the phone number to
// whatever URL the issuer claimed.
func (c *Coordinator) probeIssuer(ctx context.Context, completable CompletableAttestation) *ActionableAttestation {
	if completable.MetadataURL == "" || metadata.InsecureURL(completable.MetadataURL) {
		return nil
	}

	meta, err := c.fetcher.FetchFromURL(ctx, completable.MetadataURL, 1)
	if err != nil {
		return nil
	}

	serviceURL := meta.AttestationServiceURL()
	if serviceURL == "" || metadata.InsecureURL(serviceURL) {
		return nil
	}

	status, err := c.service.Status(ctx, serviceURL)
	if err != nil {
		return nil
	}

	v := status.Version
	if v == "" {
		v = version.LegacyAttestationServiceVersion
	}

	return &ActionableAttestation{
		Issuer:                completable.Issuer,
		BlockNumber:           completable.BlockNumber,
		AttestationServiceURL: serviceURL,
		Name:                  meta.Name(),
		Version:               v,
	}
}

// probeCompletable probes every assigned issuer concurrently, bounded by
// the probe limit. Results are indexed by issuer position so input order
// survives the fan-out; a nil slot means the issuer failed its probe.
func (c *Coordinator) probeCompletable(ctx context.Context, identifier common.Hash, account common.Address) ([]CompletableAttestation, []*ActionableAttestation, error) {
	completable, err := c.GetCompletableAttestations(ctx, identifier, account)
	if err != nil {
		return nil, nil, err
	}

	sem := semaphore.NewWeighted(c.probeLimit)
	results := make([]*ActionableAttestation, len(completable))

	var wg sync.WaitGroup
	for i := range completable {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, nil, err
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = c.probeIssuer(ctx, completable[i])
		}(i)
	}
	wg.Wait()

	return completable, results, nil
}

// GetActionableAttestations returns the assigned issuers whose attestation
// services answered a probe, in assignment order. The result is recomputed
// from live chain and network state on every call.
func (c *Coordinator) GetActionableAttestations(ctx context.Context, identifier common.Hash, account common.Address) ([]ActionableAttestation, error) {
	_, results, err := c.probeCompletable(ctx, identifier, account)
	if err != nil {
		return nil, err
	}

	actionable := make([]ActionableAttestation, 0, len(results))
	for _, r := range results {
		if r != nil {
			actionable = append(actionable, *r)
		}
	}
	return actionable, nil
}

// GetNonCompliantIssuers returns the assigned issuers that failed their
// probe: the exact complement of GetActionableAttestations over the
// assigned set
func (c *Coordinator) GetNonCompliantIssuers(ctx context.Context, identifier common.Hash, account common.Address) ([]common.Address, error) {
	completable, results, err := c.probeCompletable(ctx, identifier, account)
	if err != nil {
		return nil, err
	}

	nonCompliant := make([]common.Address, 0, len(results))
	for i, r := range results {
		if r == nil {
			nonCompliant = append(nonCompliant, completable[i].Issuer)
		}
	}
	return nonCompliant, nil
}

// RevealToIssuer sends identifying data to an actionable issuer's service
// so it delivers the attestation code. The issuer field is filled from the
// attestation.
func (c *Coordinator) RevealToIssuer(ctx context.Context, attestation *ActionableAttestation, reveal *service.RevealRequest) error {
	reveal.Issuer = attestation.Issuer
	return c.service.Reveal(ctx, attestation.AttestationServiceURL, reveal)
}

// GetAttestationCode retrieves the completion code from an actionable
// issuer. When a security code is present the request is authenticated:
// the backend signs the code's digest for account and the serialized
// signature travels in the Authentication header.
func (c *Coordinator) GetAttestationCode(ctx context.Context, attestation *ActionableAttestation, get *service.GetAttestationRequest) (string, error) {
	get.Issuer = attestation.Issuer

	auth := ""
	if get.SecurityCode != "" {
		signed, err := c.backend.SignMessage(ctx, get.Account, []byte(get.SecurityCode))
		if err != nil {
			return "", fmt.Errorf("signing security code: %w", err)
		}
		sig, err := signature.ParseRaw(signed)
		if err != nil {
			return "", fmt.Errorf("signing security code: %w", err)
		}
		auth = signature.SerializeSignature(sig)
	}

	resp, err := c.service.GetAttestation(ctx, attestation.AttestationServiceURL, get, auth)
	if err != nil {
		return "", err
	}
	return resp.AttestationCode, nil
}
