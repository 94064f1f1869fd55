// Copyright (C) 2025 SAGE-X Project
//
// This file is part of oidcpay-go.
//
// oidcpay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// oidcpay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with oidcpay-go.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sage-x-project/oidcpay-go/pkg/program"
	"github.com/sage-x-project/oidcpay-go/pkg/protocol"
	"github.com/sage-x-project/oidcpay-go/pkg/provider"
	"github.com/spf13/cobra"
)

type executeOptions struct {
	inputFile   string
	jwt         string
	selector    string
	certFile    string
	fixtureFile string
	proof       string
	allowTest   bool
}

type executeResult struct {
	PublicValues hexutil.Bytes `json:"publicValues"`
	MsgSender    string        `json:"msgSender"`
	ClaimID      common.Hash   `json:"claimId"`
	Layout       string        `json:"layout"`
	States       []string      `json:"states"`
}

func newExecuteCmd(global *globalOptions) *cobra.Command {
	opts := &executeOptions{}

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Run the claim engine on a token and print the committed public values",
		Example: `  oidcpay execute --allow-test-provider --provider 1 --jwt "$(oidcpay issue --key dev.pem --sub alice --address 0x...)"
  oidcpay execute --input inputs.json --fixture fixture.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.inputs()
			if err != nil {
				return err
			}

			registry := provider.Production
			if opts.allowTest {
				registry = provider.Development
			}
			engine := program.New(program.WithLogger(global.logger), program.WithRegistry(registry))
			trace, data, err := engine.Trace(in)
			if err != nil {
				if n := len(trace.States); n >= 2 {
					return fmt.Errorf("rejected after %s: %w", trace.States[n-2], err)
				}
				return err
			}

			p, err := registry.Lookup(in.IdentityProvider)
			if err != nil {
				return err
			}
			layout := p.OutputLayout()
			out, err := protocol.DecodeOutputs(data, layout)
			if err != nil {
				return err
			}

			if opts.fixtureFile != "" {
				if err := opts.writeFixture(data, layout); err != nil {
					return err
				}
			}

			states := make([]string, len(trace.States))
			for i, s := range trace.States {
				states[i] = s.String()
			}
			return writeJSON(cmd.OutOrStdout(), executeResult{
				PublicValues: data,
				MsgSender:    out.MsgSender.Hex(),
				ClaimID:      out.ClaimHash(),
				Layout:       layout.String(),
				States:       states,
			})
		},
	}

	cmd.Flags().StringVar(&opts.inputFile, "input", "", "JSON file with identity_provider, jwt and cert")
	cmd.Flags().StringVar(&opts.jwt, "jwt", "", "compact JWT")
	cmd.Flags().StringVar(&opts.selector, "provider", "0", "identity provider selector")
	cmd.Flags().StringVar(&opts.certFile, "cert-file", "", "JWKS file for providers that need caller keys")
	cmd.Flags().StringVar(&opts.fixtureFile, "fixture", "", "write a settlement contract fixture to this path")
	cmd.Flags().StringVar(&opts.proof, "proof", "", "0x proof bytes to include in the fixture")
	cmd.Flags().BoolVar(&opts.allowTest, "allow-test-provider", false, "accept the test identity provider, whose key is public")
	cmd.MarkFlagsMutuallyExclusive("input", "jwt")
	cmd.MarkFlagsMutuallyExclusive("input", "cert-file")
	return cmd
}

func (o *executeOptions) inputs() (protocol.ProofInputs, error) {
	var in protocol.ProofInputs
	if o.inputFile != "" {
		data, err := os.ReadFile(o.inputFile)
		if err != nil {
			return in, fmt.Errorf("failed to read inputs: %w", err)
		}
		return protocol.ParseInputsJSON(data)
	}

	if o.jwt == "" {
		return in, fmt.Errorf("either --input or --jwt is required")
	}
	selector, err := protocol.ParseSelector(o.selector)
	if err != nil {
		return in, err
	}
	in = protocol.ProofInputs{IdentityProvider: selector, JWT: o.jwt}
	if o.certFile != "" {
		cert, err := os.ReadFile(o.certFile)
		if err != nil {
			return in, fmt.Errorf("failed to read cert: %w", err)
		}
		in.Cert = cert
	}
	return in, nil
}

func (o *executeOptions) writeFixture(data []byte, layout protocol.Layout) error {
	var proof []byte
	if o.proof != "" {
		var err error
		if proof, err = hexutil.Decode(o.proof); err != nil {
			return fmt.Errorf("invalid --proof: %w", err)
		}
	}

	fixture, err := protocol.NewFixture(data, layout, proof)
	if err != nil {
		return err
	}
	f, err := os.Create(o.fixtureFile)
	if err != nil {
		return fmt.Errorf("failed to create fixture: %w", err)
	}
	defer f.Close()
	return writeJSON(f, fixture)
}
