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
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"gopkg.in/yaml.v3"

	"github.com/attestia-project/attest-go/pkg/attestations"
	"github.com/attestia-project/attest-go/pkg/chain"
	"github.com/attestia-project/attest-go/pkg/service"
)

type config struct {
	GatewayURL   string `yaml:"gatewayUrl"`
	RegistryAddr string `yaml:"registryAddr"`
	Account      string `yaml:"account"`
	PhoneNumber  string `yaml:"phoneNumber"`
	Salt         string `yaml:"salt"`
	Count        uint64 `yaml:"count"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &config{Count: 3}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the flow configuration")
	flag.Parse()

	fmt.Println("attest-go - Attestation Flow Example")
	fmt.Println("=====================================")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	account := common.HexToAddress(cfg.Account)
	identifier := crypto.Keccak256Hash([]byte(cfg.PhoneNumber + "__" + cfg.Salt))

	backend := chain.NewHTTPBackend(cfg.GatewayURL, nil)
	registry := chain.NewRegistry(backend, common.HexToAddress(cfg.RegistryAddr))
	coordinator := attestations.NewCoordinator(backend, registry)

	fmt.Println("\n1. Approving the attestation fee...")
	approve, err := coordinator.ApproveAttestationFee(ctx, cfg.Count)
	if err != nil {
		log.Fatalf("Failed to build approval: %v", err)
	}
	if _, err := backend.SubmitTransaction(ctx, approve); err != nil {
		log.Fatalf("Failed to submit approval: %v", err)
	}

	fmt.Printf("\n2. Requesting %d attestations...\n", cfg.Count)
	request, err := coordinator.Request(ctx, identifier, cfg.Count)
	if err != nil {
		log.Fatalf("Failed to build request: %v", err)
	}
	if _, err := backend.SubmitTransaction(ctx, request); err != nil {
		log.Fatalf("Failed to submit request: %v", err)
	}

	fmt.Println("\n3. Waiting for the issuer selection window...")
	selectTx, err := coordinator.SelectIssuersAfterWait(ctx, identifier, account, 2*time.Minute, time.Second)
	if err != nil {
		log.Fatalf("Selection window never opened: %v", err)
	}
	if _, err := backend.SubmitTransaction(ctx, selectTx); err != nil {
		log.Fatalf("Failed to select issuers: %v", err)
	}

	fmt.Println("\n4. Probing the assigned issuers...")
	actionable, err := coordinator.GetActionableAttestations(ctx, identifier, account)
	if err != nil {
		log.Fatalf("Failed to probe issuers: %v", err)
	}
	fmt.Printf("   %d issuer(s) are actionable\n", len(actionable))

	for i := range actionable {
		att := &actionable[i]
		fmt.Printf("\n5. Revealing to issuer %s (%s)...\n", att.Issuer.Hex(), att.Name)
		err := coordinator.RevealToIssuer(ctx, att, &service.RevealRequest{
			Account:     account,
			PhoneNumber: cfg.PhoneNumber,
			Salt:        cfg.Salt,
		})
		if err != nil {
			fmt.Printf("   Reveal failed, skipping issuer: %v\n", err)
			continue
		}

		// The issuer now delivers the code out of band (SMS). A real client
		// reads it from the user; here we retrieve it directly where the
		// service supports that.
		resp, err := coordinator.GetAttestationCode(ctx, att, &service.GetAttestationRequest{
			PhoneNumber: cfg.PhoneNumber,
			Salt:        cfg.Salt,
			Account:     account,
		})
		if err != nil {
			fmt.Printf("   No code available yet: %v\n", err)
			continue
		}

		fmt.Println("   Completing the attestation...")
		complete, err := coordinator.Complete(ctx, identifier, account, att.Issuer, resp)
		if err != nil {
			fmt.Printf("   Code did not verify: %v\n", err)
			continue
		}
		if _, err := backend.SubmitTransaction(ctx, complete); err != nil {
			fmt.Printf("   Completion failed: %v\n", err)
		}
	}

	stat, err := coordinator.GetAttestationStat(ctx, identifier, account)
	if err != nil {
		log.Fatalf("Failed to read final stats: %v", err)
	}
	fmt.Printf("\nDone: %d of %d attestations complete\n", stat.Completed, stat.Total)
}
