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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/attestia-project/attest-go/pkg/attestations"
	"github.com/attestia-project/attest-go/pkg/chain"
)

func main() {
	gatewayURL := flag.String("gateway", "http://localhost:8545", "chain gateway URL")
	registryAddr := flag.String("registry", "", "registry contract address")
	salt := flag.String("salt", "", "pepper appended before hashing")
	flag.Parse()

	if *registryAddr == "" || flag.NArg() == 0 {
		log.Fatal("usage: lookup-identifiers -registry <addr> [-gateway url] [-salt s] <phone>...")
	}

	fmt.Println("attest-go - Identifier Lookup")
	fmt.Println("==============================")

	ctx := context.Background()
	backend := chain.NewHTTPBackend(*gatewayURL, nil)
	registry := chain.NewRegistry(backend, common.HexToAddress(*registryAddr))
	coordinator := attestations.NewCoordinator(backend, registry)

	identifiers := make([]common.Hash, flag.NArg())
	byIdentifier := make(map[common.Hash]string, flag.NArg())
	for i, phone := range flag.Args() {
		identifiers[i] = crypto.Keccak256Hash([]byte(phone + "__" + *salt))
		byIdentifier[identifiers[i]] = phone
	}

	results, err := coordinator.LookupIdentifiers(ctx, identifiers)
	if err != nil {
		log.Fatalf("Lookup failed: %v", err)
	}

	for _, id := range identifiers {
		stats, ok := results[id]
		if !ok {
			fmt.Printf("\n%s: no attested accounts\n", byIdentifier[id])
			continue
		}

		fmt.Printf("\n%s:\n", byIdentifier[id])
		for account, stat := range stats {
			marker := ""
			if stat.Completed >= 3 {
				marker = " (verified)"
			}
			fmt.Printf("  %s  %d/%d%s\n", account.Hex(), stat.Completed, stat.Total, marker)
		}
	}
}
