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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Kind classifies a fetch failure so callers can tell a dead host from a
// malformed document
type Kind int

const (
	// KindNetwork covers transport errors, timeouts and non-2xx responses
	KindNetwork Kind = iota

	// KindValidation covers parse failures and bad document signatures
	KindValidation
)

// FetchError is the classified failure surfaced by FetchFromURL
type FetchError struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindValidation:
		return fmt.Sprintf("invalid metadata at %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("failed to fetch metadata from %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err is a fetch failure of the network kind
func IsNetworkError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindNetwork
}

const (
	// DefaultTries is the fetch attempt budget when the caller passes 0
	DefaultTries = 3

	defaultFetchTimeout = 5 * time.Second
	retryInterval       = time.Second
	maxDocumentSize     = 1 << 20
)

// Fetcher retrieves and validates identity metadata documents
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a Fetcher. If httpClient is nil, a client with a 5s
// timeout is used so one dead metadata host cannot hold a probe slot open.
func NewFetcher(httpClient *http.Client) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &Fetcher{httpClient: httpClient}
}

// FetchFromURL retrieves the metadata document at url and validates its
// signature. Network-kind failures are retried up to tries times at a fixed
// interval; validation failures are not retried. On exhaustion the last
// error is returned as a *FetchError.
func (f *Fetcher) FetchFromURL(ctx context.Context, url string, tries uint64) (*IdentityMetadata, error) {
	if tries == 0 {
		tries = DefaultTries
	}

	var meta *IdentityMetadata
	op := func() error {
		m, err := f.fetchOnce(ctx, url)
		if err != nil {
			if !IsNetworkError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		meta = m
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), tries-1),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return meta, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (*IdentityMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindValidation, URL: url, Err: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: KindNetwork, URL: url, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, URL: url, Err: err}
	}

	var meta IdentityMetadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, &FetchError{Kind: KindValidation, URL: url, Err: err}
	}

	if err := meta.Verify(); err != nil {
		return nil, &FetchError{Kind: KindValidation, URL: url, Err: err}
	}
	return &meta, nil
}
