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

// Package metadata fetches and validates the signed identity-metadata
// documents accounts publish at their registered metadata URLs.
//
// A document is a claim list plus a signature envelope; the signature is
// verified against the declared address on every fetch. Fetch failures are
// classified (FetchError) so a prober can distinguish a dead host from a
// malformed document:
//
//	fetcher := metadata.NewFetcher(nil)
//	meta, err := fetcher.FetchFromURL(ctx, url, 3)
//	if metadata.IsNetworkError(err) {
//	    // host unreachable or timing out, maybe try later
//	}
package metadata
