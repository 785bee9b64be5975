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

package status

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/attestia-project/attest-go/pkg/metadata"
	"github.com/attestia-project/attest-go/pkg/service"
	"github.com/attestia-project/attest-go/pkg/version"
)

// State classifies the outcome of probing one issuer's attestation service
type State string

const (
	// Valid means the service is reachable, healthy and bound to the
	// expected account
	Valid State = "Valid"

	// NoAttestationSigner means the issuer never authorized an attestation
	// signing key
	NoAttestationSigner State = "NoAttestationSigner"

	// NoMetadataURL means the issuer registered no metadata URL
	NoMetadataURL State = "NoMetadataURL"

	// InvalidAttestationServiceURL means the metadata URL or the claimed
	// service URL uses insecure transport
	InvalidAttestationServiceURL State = "InvalidAttestationServiceURL"

	// InvalidMetadata means the metadata document failed to parse or its
	// signature did not validate
	InvalidMetadata State = "InvalidMetadata"

	// MetadataTimeout means the metadata host could not be reached
	MetadataTimeout State = "MetadataTimeout"

	// NoAttestationServiceURL means the metadata carries no
	// attestation-service claim
	NoAttestationServiceURL State = "NoAttestationServiceURL"

	// UnreachableAttestationService means /status was unreachable or non-2xx
	UnreachableAttestationService State = "UnreachableAttestationService"

	// WrongAccount means the service reports a different account than the
	// validator being probed
	WrongAccount State = "WrongAccount"

	// UnreachableHealthz means a versioned service's /healthz was unreachable
	UnreachableHealthz State = "UnreachableHealthz"

	// Unhealthy means /healthz failed, the node is syncing, or its latest
	// block is stale
	Unhealthy State = "Unhealthy"
)

// maxAgeOfLatestBlock is the staleness bound: a service whose node is more
// blocks behind than this is Unhealthy regardless of healthz
const maxAgeOfLatestBlock = 10

// metadataFetchTries bounds the metadata fetch inside a probe
const metadataFetchTries = 3

// ServiceStatusResponse is the reduced result of probing one issuer
type ServiceStatusResponse struct {
	Address                 common.Address
	Name                    string
	State                   State
	OKStatus                bool
	MetadataURL             string
	AttestationServiceURL   string
	Version                 string
	SMSProviders            []string
	BlacklistedRegionCodes  []string
	AgeOfLatestBlock        int64
	IsNodeSyncing           bool
	SMSProvidersRandomized  bool
	MaxDeliveryAttempts     int
	MaxRerequestMins        int
	TwilioVerifySidProvided bool
	HealthzError            string
}

// AccountsReader is the slice of the accounts registry a probe needs
type AccountsReader interface {
	HasAuthorizedAttestationSigner(ctx context.Context, account common.Address) (bool, error)
	GetMetadataURL(ctx context.Context, account common.Address) (string, error)
	GetName(ctx context.Context, account common.Address) (string, error)
}

// Prober classifies issuer attestation services
type Prober struct {
	accounts AccountsReader
	fetcher  *metadata.Fetcher
	service  *service.Client
}

// NewProber creates a Prober. fetcher and client may be nil, in which case
// defaults with bounded timeouts are used.
func NewProber(accounts AccountsReader, fetcher *metadata.Fetcher, client *service.Client) *Prober {
	if fetcher == nil {
		fetcher = metadata.NewFetcher(nil)
	}
	if client == nil {
		client = service.NewClient(nil)
	}
	return &Prober{accounts: accounts, fetcher: fetcher, service: client}
}

// Probe walks the classification ladder for validator. Each step
// short-circuits: the first blocking condition decides the state, in a
// fixed order. Chain read failures are returned as errors; everything
// downstream of the chain resolves to a State.
func (p *Prober) Probe(ctx context.Context, validator common.Address) (*ServiceStatusResponse, error) {
	resp := &ServiceStatusResponse{Address: validator}

	hasSigner, err := p.accounts.HasAuthorizedAttestationSigner(ctx, validator)
	if err != nil {
		return nil, err
	}
	if !hasSigner {
		resp.State = NoAttestationSigner
		return resp, nil
	}

	metadataURL, err := p.accounts.GetMetadataURL(ctx, validator)
	if err != nil {
		return nil, err
	}
	if metadataURL == "" {
		resp.State = NoMetadataURL
		return resp, nil
	}
	resp.MetadataURL = metadataURL

	if metadata.InsecureURL(metadataURL) {
		resp.State = InvalidAttestationServiceURL
		return resp, nil
	}

	if name, err := p.accounts.GetName(ctx, validator); err == nil {
		resp.Name = name
	}

	meta, err := p.fetcher.FetchFromURL(ctx, metadataURL, metadataFetchTries)
	if err != nil {
		if metadata.IsNetworkError(err) {
			resp.State = MetadataTimeout
		} else {
			resp.State = InvalidMetadata
		}
		return resp, nil
	}

	serviceURL := meta.AttestationServiceURL()
	if serviceURL == "" {
		resp.State = NoAttestationServiceURL
		return resp, nil
	}
	resp.AttestationServiceURL = serviceURL

	if metadata.InsecureURL(serviceURL) {
		resp.State = InvalidAttestationServiceURL
		return resp, nil
	}

	status, err := p.service.Status(ctx, serviceURL)
	if err != nil {
		resp.State = UnreachableAttestationService
		return resp, nil
	}

	resp.OKStatus = status.OK()
	resp.SMSProviders = status.SMSProviders
	resp.BlacklistedRegionCodes = status.BlacklistedRegionCodes
	resp.AgeOfLatestBlock = status.AgeOfLatestBlock
	resp.IsNodeSyncing = status.IsNodeSyncing
	resp.SMSProvidersRandomized = status.SMSProvidersRandomized
	resp.MaxDeliveryAttempts = status.MaxDeliveryAttempts
	resp.MaxRerequestMins = status.MaxRerequestMins
	resp.TwilioVerifySidProvided = status.TwilioVerifySidProvided

	if status.Account() == validator {
		resp.State = Valid
	} else {
		resp.State = WrongAccount
	}

	if status.Version == "" {
		// Pre-versioning services never exposed healthz
		resp.Version = version.LegacyAttestationServiceVersion
		return resp, nil
	}
	resp.Version = status.Version

	if err := p.service.Healthz(ctx, serviceURL); err != nil {
		var he *service.HealthzError
		if errors.As(err, &he) {
			resp.State = Unhealthy
			resp.HealthzError = he.Message
		} else {
			resp.State = UnreachableHealthz
		}
	}

	// Staleness wins over whatever healthz said
	if status.AgeOfLatestBlock > maxAgeOfLatestBlock || status.IsNodeSyncing {
		resp.State = Unhealthy
	}

	return resp, nil
}
