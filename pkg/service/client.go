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

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// AuthenticationHeader carries the serialized signature over the security
// code on get_attestations requests
const AuthenticationHeader = "Authentication"

// defaultTimeout bounds every issuer call so a slow service frees its probe
// slot instead of holding it
const defaultTimeout = 4 * time.Second

// StatusResponse is the issuer's /status payload
type StatusResponse struct {
	Status                  string   `json:"status"`
	Version                 string   `json:"version,omitempty"`
	AccountAddress          string   `json:"accountAddress"`
	SMSProviders            []string `json:"smsProviders"`
	BlacklistedRegionCodes  []string `json:"blacklistedRegionCodes,omitempty"`
	AgeOfLatestBlock        int64    `json:"ageOfLatestBlock"`
	IsNodeSyncing           bool     `json:"isNodeSyncing"`
	SMSProvidersRandomized  bool     `json:"smsProvidersRandomized"`
	MaxDeliveryAttempts     int      `json:"maxDeliveryAttempts"`
	MaxRerequestMins        int      `json:"maxRerequestMins"`
	TwilioVerifySidProvided bool     `json:"twilioVerifySidProvided"`
}

// OK reports whether the service declared itself healthy
func (s *StatusResponse) OK() bool { return s.Status == "ok" }

// Account parses the reported account address; comparison through
// common.Address makes the check case-insensitive.
func (s *StatusResponse) Account() common.Address {
	return common.HexToAddress(s.AccountAddress)
}

// HealthzError is a reachable /healthz answering non-2xx
type HealthzError struct {
	StatusCode int
	Message    string
}

func (e *HealthzError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("healthz returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("healthz returned %d", e.StatusCode)
}

// RevealRequest is the POST /attestations body revealing identifying data
// to an issuer
type RevealRequest struct {
	Account            common.Address `json:"account"`
	Issuer             common.Address `json:"issuer"`
	PhoneNumber        string         `json:"phoneNumber"`
	Salt               string         `json:"salt,omitempty"`
	SmsRetrieverAppSig string         `json:"smsRetrieverAppSig,omitempty"`
	SecurityCodePrefix string         `json:"securityCodePrefix,omitempty"`
	Language           string         `json:"language,omitempty"`
}

// GetAttestationRequest identifies the attestation to retrieve via
// GET /get_attestations
type GetAttestationRequest struct {
	PhoneNumber  string
	Salt         string
	Issuer       common.Address
	Account      common.Address
	SecurityCode string
}

// GetAttestationResponse carries the retrieved completion code
type GetAttestationResponse struct {
	AttestationCode string `json:"attestationCode"`
}

// Client is an HTTP client for issuer attestation services. The zero
// timeout default is deliberate: every endpoint call is bounded.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client. If httpClient is nil, one with a 4s timeout
// is used.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{httpClient: httpClient}
}

func joinURL(base, path string) string {
	return strings.TrimSuffix(base, "/") + path
}

// Status fetches and decodes the service's /status endpoint.
// Transport failures and non-2xx responses both return an error; callers
// classify either as unreachable.
func (c *Client) Status(ctx context.Context, baseURL string) (*StatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(baseURL, "/status"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status returned HTTP %d", resp.StatusCode)
	}

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &status, nil
}

// Healthz probes the service's /healthz endpoint. A transport failure is
// returned as-is; a reachable non-2xx answer becomes a *HealthzError with
// any error message the body carried.
func (c *Client) Healthz(ctx context.Context, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(baseURL, "/healthz"), nil)
	if err != nil {
		return fmt.Errorf("failed to create healthz request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("healthz request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	return &HealthzError{StatusCode: resp.StatusCode, Message: body.Error}
}

// Reveal POSTs identifying data to the issuer so it can deliver a code
func (c *Client) Reveal(ctx context.Context, baseURL string, reveal *RevealRequest) error {
	body, err := json.Marshal(reveal)
	if err != nil {
		return fmt.Errorf("failed to marshal reveal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(baseURL, "/attestations"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create reveal request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reveal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("reveal returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

// GetAttestation retrieves a completion code, optionally authenticated with
// a serialized signature over the security code
func (c *Client) GetAttestation(ctx context.Context, baseURL string, get *GetAttestationRequest, authSignature string) (*GetAttestationResponse, error) {
	q := url.Values{}
	q.Set("phoneNumber", get.PhoneNumber)
	q.Set("salt", get.Salt)
	q.Set("issuer", get.Issuer.Hex())
	q.Set("account", get.Account.Hex())
	if get.SecurityCode != "" {
		q.Set("securityCode", get.SecurityCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(baseURL, "/get_attestations")+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create get_attestations request: %w", err)
	}
	if authSignature != "" {
		req.Header.Set(AuthenticationHeader, authSignature)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get_attestations request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get_attestations returned HTTP %d", resp.StatusCode)
	}

	var out GetAttestationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode get_attestations response: %w", err)
	}
	return &out, nil
}
