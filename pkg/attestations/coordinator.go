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
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/attestia-project/attest-go/pkg/accounts"
	"github.com/attestia-project/attest-go/pkg/chain"
	"github.com/attestia-project/attest-go/pkg/metadata"
	"github.com/attestia-project/attest-go/pkg/service"
	"github.com/attestia-project/attest-go/pkg/signature"
)

// ContractName is the logical registry name of the attestations contract
const ContractName = "Attestations"

const (
	// DefaultFeeToken is the registry name of the token attestation fees
	// are paid in
	DefaultFeeToken = "StableToken"

	// DefaultWaitTimeout bounds WaitForSelectingIssuers wall-clock time
	DefaultWaitTimeout = 120 * time.Second

	// DefaultPollInterval is the fixed block-height polling interval
	DefaultPollInterval = time.Second

	// DefaultProbeLimit is the bound on concurrent issuer probes
	DefaultProbeLimit = 5
)

var (
	// ErrNoPendingRequest is returned when waiting on an identifier/account
	// pair with no unselected request on chain
	ErrNoPendingRequest = errors.New("no pending attestation request")

	// ErrWaitTimeout is returned when the selection window did not open
	// within the wait budget
	ErrWaitTimeout = errors.New("timed out waiting for issuer selection window")

	// ErrAccountNotFound is returned by Revoke when the account is not
	// attested for the identifier
	ErrAccountNotFound = errors.New("account not found for identifier")
)

// State is the per-(identifier, account, issuer) attestation state machine
// value held on chain
type State uint8

const (
	StateNone State = iota
	StateIncomplete
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "None"
	case StateIncomplete:
		return "Incomplete"
	case StateComplete:
		return "Complete"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Stat counts completed vs requested attestations for an
// (identifier, account) pair
type Stat struct {
	Completed uint64
	Total     uint64
}

// UnselectedRequest is the on-chain record of a pending request before
// issuers are assigned. BlockNumber is zero when no request is pending.
type UnselectedRequest struct {
	BlockNumber           uint64
	AttestationsRequested uint64
	FeeToken              common.Address
}

// ActionableAttestation describes an assigned issuer whose attestation
// service answered a probe as healthy. Recomputed on every query, never
// persisted.
type ActionableAttestation struct {
	Issuer                common.Address
	BlockNumber           uint64
	AttestationServiceURL string
	Name                  string
	Version               string
}

// Coordinator orchestrates the attestation request lifecycle: request,
// wait for the selection window, select issuers, probe them, reveal, and
// complete. Every operation reads fresh chain and network state; the
// Coordinator holds no mutable state of its own, so it is safe for
// concurrent use.
type Coordinator struct {
	backend    chain.Backend
	registry   *chain.Registry
	accounts   *accounts.Reader
	fetcher    *metadata.Fetcher
	service    *service.Client
	feeToken   string
	probeLimit int64
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithFeeToken overrides the registry name of the fee token
func WithFeeToken(name string) Option {
	return func(c *Coordinator) { c.feeToken = name }
}

// WithFetcher overrides the metadata fetcher
func WithFetcher(f *metadata.Fetcher) Option {
	return func(c *Coordinator) { c.fetcher = f }
}

// WithServiceClient overrides the attestation-service HTTP client
func WithServiceClient(s *service.Client) Option {
	return func(c *Coordinator) { c.service = s }
}

// WithProbeLimit overrides the concurrent probe bound
func WithProbeLimit(n int64) Option {
	return func(c *Coordinator) { c.probeLimit = n }
}

// NewCoordinator creates a Coordinator over backend, resolving contracts
// through registry
func NewCoordinator(backend chain.Backend, registry *chain.Registry, opts ...Option) *Coordinator {
	c := &Coordinator{
		backend:    backend,
		registry:   registry,
		accounts:   accounts.NewReader(backend, registry),
		fetcher:    metadata.NewFetcher(nil),
		service:    service.NewClient(nil),
		feeToken:   DefaultFeeToken,
		probeLimit: DefaultProbeLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) contract(ctx context.Context) (common.Address, error) {
	return c.registry.AddressFor(ctx, ContractName)
}

func (c *Coordinator) view(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	contract, err := c.contract(ctx)
	if err != nil {
		return nil, err
	}

	out, err := c.backend.CallView(ctx, contract, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return out, nil
}

// AttestationRequestFee returns the per-attestation fee in token
func (c *Coordinator) AttestationRequestFee(ctx context.Context, token common.Address) (*big.Int, error) {
	out, err := c.view(ctx, "getAttestationRequestFee", token)
	if err != nil {
		return nil, err
	}
	if err := chain.Results(out, 1); err != nil {
		return nil, fmt.Errorf("getAttestationRequestFee: %w", err)
	}
	return chain.AsBigInt(out[0])
}

// Request builds the transaction requesting attestationsRequested
// attestations for identifier, paid in the configured fee token. The fee
// token must be approved first; see ApproveAttestationFee.
func (c *Coordinator) Request(ctx context.Context, identifier common.Hash, attestationsRequested uint64) (*chain.TxRequest, error) {
	token, err := c.registry.AddressFor(ctx, c.feeToken)
	if err != nil {
		return nil, fmt.Errorf("fee token lookup: %w", err)
	}

	contract, err := c.contract(ctx)
	if err != nil {
		return nil, err
	}

	return &chain.TxRequest{
		Contract: contract,
		Method:   "request",
		Args:     []interface{}{identifier, attestationsRequested, token},
	}, nil
}

// ApproveAttestationFee builds the fee-token approval covering
// attestationsRequested attestations (attestationFee × count)
func (c *Coordinator) ApproveAttestationFee(ctx context.Context, attestationsRequested uint64) (*chain.TxRequest, error) {
	token, err := c.registry.AddressFor(ctx, c.feeToken)
	if err != nil {
		return nil, fmt.Errorf("fee token lookup: %w", err)
	}

	fee, err := c.AttestationRequestFee(ctx, token)
	if err != nil {
		return nil, err
	}

	contract, err := c.contract(ctx)
	if err != nil {
		return nil, err
	}

	total := new(big.Int).Mul(fee, new(big.Int).SetUint64(attestationsRequested))
	return &chain.TxRequest{
		Contract: token,
		Method:   "approve",
		Args:     []interface{}{contract, total},
	}, nil
}

// GetUnselectedRequest reads the pending request for identifier/account.
// A zero BlockNumber means no request is pending.
func (c *Coordinator) GetUnselectedRequest(ctx context.Context, identifier common.Hash, account common.Address) (*UnselectedRequest, error) {
	out, err := c.view(ctx, "getUnselectedRequest", identifier, account)
	if err != nil {
		return nil, err
	}
	if err := chain.Results(out, 3); err != nil {
		return nil, fmt.Errorf("getUnselectedRequest: %w", err)
	}

	blockNumber, err := chain.AsUint64(out[0])
	if err != nil {
		return nil, fmt.Errorf("getUnselectedRequest: %w", err)
	}
	requested, err := chain.AsUint64(out[1])
	if err != nil {
		return nil, fmt.Errorf("getUnselectedRequest: %w", err)
	}
	token, err := chain.AsAddress(out[2])
	if err != nil {
		return nil, fmt.Errorf("getUnselectedRequest: %w", err)
	}

	return &UnselectedRequest{
		BlockNumber:           blockNumber,
		AttestationsRequested: requested,
		FeeToken:              token,
	}, nil
}

// SelectIssuersWaitBlocks reads the block-count delay between a request and
// issuer selection
func (c *Coordinator) SelectIssuersWaitBlocks(ctx context.Context) (uint64, error) {
	out, err := c.view(ctx, "selectIssuersWaitBlocks")
	if err != nil {
		return 0, err
	}
	if err := chain.Results(out, 1); err != nil {
		return 0, fmt.Errorf("selectIssuersWaitBlocks: %w", err)
	}
	return chain.AsUint64(out[0])
}

// WaitForSelectingIssuers polls block height at a fixed interval until the
// selection window for the pending request opens.
//
// Fails immediately with ErrNoPendingRequest when no request is pending:
// that is a precondition violation, not a retryable state. Fails with
// ErrWaitTimeout once timeout wall-clock time has elapsed; cancellation of
// the caller's context surfaces as ctx.Err() instead. Zero timeout or
// pollInterval select the defaults (120s, 1s). The first height check runs
// before any sleep, so an already-open window returns at once.
func (c *Coordinator) WaitForSelectingIssuers(ctx context.Context, identifier common.Hash, account common.Address, timeout, pollInterval time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	unselected, err := c.GetUnselectedRequest(ctx, identifier, account)
	if err != nil {
		return err
	}
	if unselected.BlockNumber == 0 {
		return fmt.Errorf("identifier %s account %s: %w", identifier.Hex(), account.Hex(), ErrNoPendingRequest)
	}

	waitBlocks, err := c.SelectIssuersWaitBlocks(ctx)
	if err != nil {
		return err
	}
	required := unselected.BlockNumber + waitBlocks

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	// Only the deadline this method set maps to ErrWaitTimeout; a caller
	// cancelling ctx keeps its own error
	deadlineErr := func() error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("after %s: %w", timeout, ErrWaitTimeout)
	}

	for {
		current, err := c.backend.BlockNumber(waitCtx)
		if err != nil {
			if waitCtx.Err() != nil {
				return deadlineErr()
			}
			return err
		}
		if current >= required {
			return nil
		}

		select {
		case <-waitCtx.Done():
			return deadlineErr()
		case <-ticker.C:
		}
	}
}

// SelectIssuers builds the transaction assigning issuers to the pending
// request for identifier
func (c *Coordinator) SelectIssuers(ctx context.Context, identifier common.Hash) (*chain.TxRequest, error) {
	contract, err := c.contract(ctx)
	if err != nil {
		return nil, err
	}

	return &chain.TxRequest{
		Contract: contract,
		Method:   "selectIssuers",
		Args:     []interface{}{identifier},
	}, nil
}

// SelectIssuersAfterWait composes WaitForSelectingIssuers and SelectIssuers.
// The selection transaction is never built when the wait fails.
func (c *Coordinator) SelectIssuersAfterWait(ctx context.Context, identifier common.Hash, account common.Address, timeout, pollInterval time.Duration) (*chain.TxRequest, error) {
	if err := c.WaitForSelectingIssuers(ctx, identifier, account, timeout, pollInterval); err != nil {
		return nil, err
	}
	return c.SelectIssuers(ctx, identifier)
}

// GetAttestationStat reads the completed/total counters for an
// identifier/account pair
func (c *Coordinator) GetAttestationStat(ctx context.Context, identifier common.Hash, account common.Address) (*Stat, error) {
	out, err := c.view(ctx, "getAttestationStats", identifier, account)
	if err != nil {
		return nil, err
	}
	if err := chain.Results(out, 2); err != nil {
		return nil, fmt.Errorf("getAttestationStats: %w", err)
	}

	completed, err := chain.AsUint64(out[0])
	if err != nil {
		return nil, fmt.Errorf("getAttestationStats: %w", err)
	}
	total, err := chain.AsUint64(out[1])
	if err != nil {
		return nil, fmt.Errorf("getAttestationStats: %w", err)
	}
	return &Stat{Completed: completed, Total: total}, nil
}

// GetAttestationState reads the per-issuer attestation state
func (c *Coordinator) GetAttestationState(ctx context.Context, identifier common.Hash, account, issuer common.Address) (State, error) {
	out, err := c.view(ctx, "getAttestationState", identifier, account, issuer)
	if err != nil {
		return StateNone, err
	}
	if err := chain.Results(out, 1); err != nil {
		return StateNone, fmt.Errorf("getAttestationState: %w", err)
	}

	v, err := chain.AsUint64(out[0])
	if err != nil {
		return StateNone, fmt.Errorf("getAttestationState: %w", err)
	}
	if v > uint64(StateComplete) {
		return StateNone, fmt.Errorf("getAttestationState: unknown state %d", v)
	}
	return State(v), nil
}

// Complete builds the completion transaction for an attestation code issued
// by issuer. The code must be a valid signature over the canonical
// attestation message by issuer's authorized attestation signer; otherwise
// signature.ErrVerificationFailed is returned.
func (c *Coordinator) Complete(ctx context.Context, identifier common.Hash, account, issuer common.Address, code string) (*chain.TxRequest, error) {
	signer, err := c.accounts.GetAttestationSigner(ctx, issuer)
	if err != nil {
		return nil, err
	}

	message := signature.AttestationMessage(identifier, account)
	sig, err := signature.ParseSignature(message, code, signer)
	if err != nil {
		return nil, fmt.Errorf("attestation code from %s: %w", issuer.Hex(), err)
	}

	contract, err := c.contract(ctx)
	if err != nil {
		return nil, err
	}

	return &chain.TxRequest{
		Contract: contract,
		Method:   "complete",
		Args:     []interface{}{identifier, sig.V, sig.R, sig.S},
	}, nil
}

// ValidateAttestationCode is the read-only counterpart of Complete: it asks
// the contract whether code would complete an attestation. Returns false
// for malformed or mismatched codes without error.
func (c *Coordinator) ValidateAttestationCode(ctx context.Context, identifier common.Hash, account, issuer common.Address, code string) (bool, error) {
	signer, err := c.accounts.GetAttestationSigner(ctx, issuer)
	if err != nil {
		return false, err
	}

	message := signature.AttestationMessage(identifier, account)
	sig, err := signature.ParseSignature(message, code, signer)
	if err != nil {
		return false, nil
	}

	out, err := c.view(ctx, "validateAttestationCode", identifier, account, sig.V, sig.R, sig.S)
	if err != nil {
		return false, err
	}
	if err := chain.Results(out, 1); err != nil {
		return false, fmt.Errorf("validateAttestationCode: %w", err)
	}

	recovered, err := chain.AsAddress(out[0])
	if err != nil {
		return false, fmt.Errorf("validateAttestationCode: %w", err)
	}
	return recovered != (common.Address{}), nil
}

// FindMatchingIssuer scans issuers in input order and returns the first one
// whose resolved attestation signer validates code. First match wins;
// duplicate signers across issuers are not detected. Issuers whose signer
// lookup fails are skipped.
func (c *Coordinator) FindMatchingIssuer(ctx context.Context, identifier common.Hash, account common.Address, code string, issuers []common.Address) (common.Address, bool) {
	message := signature.AttestationMessage(identifier, account)

	for _, issuer := range issuers {
		signer, err := c.accounts.GetAttestationSigner(ctx, issuer)
		if err != nil {
			continue
		}
		if _, err := signature.ParseSignature(message, code, signer); err == nil {
			return issuer, true
		}
	}
	return common.Address{}, false
}

// LookupIdentifiers batch-reads attestation stats for identifiers. The
// chain returns four flat arrays (per-identifier match counts plus
// run-length-grouped addresses, completed and total counters), consumed
// here with a running cursor. Identifiers with no matches are absent from
// the result.
func (c *Coordinator) LookupIdentifiers(ctx context.Context, identifiers []common.Hash) (map[common.Hash]map[common.Address]Stat, error) {
	out, err := c.view(ctx, "batchGetAttestationStats", identifiers)
	if err != nil {
		return nil, err
	}
	if err := chain.Results(out, 4); err != nil {
		return nil, fmt.Errorf("batchGetAttestationStats: %w", err)
	}

	matches, err := chain.AsUint64Slice(out[0])
	if err != nil {
		return nil, fmt.Errorf("batchGetAttestationStats matches: %w", err)
	}
	addresses, err := chain.AsAddressSlice(out[1])
	if err != nil {
		return nil, fmt.Errorf("batchGetAttestationStats addresses: %w", err)
	}
	completed, err := chain.AsUint64Slice(out[2])
	if err != nil {
		return nil, fmt.Errorf("batchGetAttestationStats completed: %w", err)
	}
	total, err := chain.AsUint64Slice(out[3])
	if err != nil {
		return nil, fmt.Errorf("batchGetAttestationStats total: %w", err)
	}

	if len(matches) != len(identifiers) {
		return nil, fmt.Errorf("batchGetAttestationStats: %d match counts for %d identifiers", len(matches), len(identifiers))
	}
	if len(addresses) != len(completed) || len(addresses) != len(total) {
		return nil, fmt.Errorf("batchGetAttestationStats: mismatched array lengths")
	}

	result := make(map[common.Hash]map[common.Address]Stat)
	cursor := 0
	for i, identifier := range identifiers {
		n := int(matches[i])
		if n == 0 {
			continue
		}
		if cursor+n > len(addresses) {
			return nil, fmt.Errorf("batchGetAttestationStats: match counts exceed %d entries", len(addresses))
		}

		stats := make(map[common.Address]Stat, n)
		for j := 0; j < n; j++ {
			stats[addresses[cursor]] = Stat{Completed: completed[cursor], Total: total[cursor]}
			cursor++
		}
		result[identifier] = stats
	}
	return result, nil
}

// Revoke builds the transaction revoking account's attestations for
// identifier. The account's index in the on-chain list is recomputed at
// call time; a stale index between now and submission is the caller's
// concern.
func (c *Coordinator) Revoke(ctx context.Context, identifier common.Hash, account common.Address) (*chain.TxRequest, error) {
	out, err := c.view(ctx, "lookupAccountsForIdentifier", identifier)
	if err != nil {
		return nil, err
	}
	if err := chain.Results(out, 1); err != nil {
		return nil, fmt.Errorf("lookupAccountsForIdentifier: %w", err)
	}

	attested, err := chain.AsAddressSlice(out[0])
	if err != nil {
		return nil, fmt.Errorf("lookupAccountsForIdentifier: %w", err)
	}

	index := -1
	for i, a := range attested {
		if a == account {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("%s: %w", account.Hex(), ErrAccountNotFound)
	}

	contract, err := c.contract(ctx)
	if err != nil {
		return nil, err
	}

	return &chain.TxRequest{
		Contract: contract,
		Method:   "revoke",
		Args:     []interface{}{identifier, uint64(index)},
	}, nil
}
