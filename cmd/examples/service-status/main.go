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
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/attestia-project/attest-go/pkg/accounts"
	"github.com/attestia-project/attest-go/pkg/chain"
	"github.com/attestia-project/attest-go/pkg/status"
)

func main() {
	gatewayURL := flag.String("gateway", "http://localhost:8545", "chain gateway URL")
	registryAddr := flag.String("registry", "", "registry contract address")
	validators := flag.String("validators", "", "comma-separated validator addresses to probe")
	flag.Parse()

	if *registryAddr == "" || *validators == "" {
		log.Fatal("both -registry and -validators are required")
	}

	fmt.Println("attest-go - Attestation Service Status")
	fmt.Println("=======================================")

	ctx := context.Background()
	backend := chain.NewHTTPBackend(*gatewayURL, nil)
	registry := chain.NewRegistry(backend, common.HexToAddress(*registryAddr))
	prober := status.NewProber(accounts.NewReader(backend, registry), nil, nil)

	for _, v := range strings.Split(*validators, ",") {
		validator := common.HexToAddress(strings.TrimSpace(v))

		resp, err := prober.Probe(ctx, validator)
		if err != nil {
			log.Fatalf("Failed to probe %s: %v", validator.Hex(), err)
		}

		fmt.Printf("\n%s (%s)\n", validator.Hex(), resp.Name)
		fmt.Printf("  State:      %s\n", resp.State)
		fmt.Printf("  Version:    %s\n", resp.Version)
		fmt.Printf("  Service:    %s\n", resp.AttestationServiceURL)
		if len(resp.SMSProviders) > 0 {
			fmt.Printf("  Providers:  %s\n", strings.Join(resp.SMSProviders, ", "))
		}
		if resp.HealthzError != "" {
			fmt.Printf("  Healthz:    %s\n", resp.HealthzError)
		}
	}
}
