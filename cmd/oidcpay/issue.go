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
	"time"

	"github.com/sage-x-project/oidcpay-go/pkg/provider"
	"github.com/sage-x-project/oidcpay-go/pkg/signer"
	"github.com/spf13/cobra"
)

type issueOptions struct {
	subject   string
	address   string
	issuer    string
	audience  string
	keyFile   string
	keyID     string
	omitKeyID bool
	expiresIn time.Duration
	extra     map[string]string
}

func newIssueCmd() *cobra.Command {
	opts := &issueOptions{}

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an RS256 token for local testing",
		Long: `Issue an RS256 token signed by the PEM key given with --key.

Defaults target the test provider, which only accepts tokens signed by its
development key (pkg/signer/signertest/testdata/oidcpay-test.pem, kid
oidcpay-test-1) and is only enabled with --allow-test-provider. Any other key
works with the Google provider when its JWKS, printed by "issue jwks", is
passed as the cert.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.signer()
			if err != nil {
				return err
			}

			claims := map[string]any{
				"iss":   opts.issuer,
				"aud":   opts.audience,
				"sub":   opts.subject,
				"nonce": opts.address,
			}
			for k, v := range opts.extra {
				claims[k] = v
			}

			token, err := s.SignWithOptions(claims, &signer.SigningOptions{
				OmitKeyID: opts.omitKeyID,
				ExpiresIn: int64(opts.expiresIn / time.Second),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.subject, "sub", "", "subject claim")
	cmd.Flags().StringVar(&opts.address, "address", "", "checksummed address placed in the nonce claim")
	cmd.Flags().StringVar(&opts.issuer, "iss", provider.TestIssuer, "issuer claim")
	cmd.Flags().StringVar(&opts.audience, "aud", provider.TestAudience, "audience claim")
	cmd.Flags().StringVar(&opts.keyFile, "key", "", "PEM RSA private key")
	cmd.Flags().StringVar(&opts.keyID, "kid", "", "key id placed in the header")
	cmd.Flags().BoolVar(&opts.omitKeyID, "no-kid", false, "leave the kid header out")
	cmd.Flags().DurationVar(&opts.expiresIn, "expires-in", time.Hour, "exp offset from iat; 0 omits exp")
	cmd.Flags().StringToStringVar(&opts.extra, "claim", nil, "extra string claims as key=value")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("sub")
	_ = cmd.MarkFlagRequired("address")

	cmd.AddCommand(newIssueJWKSCmd())
	return cmd
}

func (o *issueOptions) signer() (*signer.RS256Signer, error) {
	return signer.LoadRS256Signer(o.keyID, o.keyFile)
}

func newIssueJWKSCmd() *cobra.Command {
	var keyFile, keyID string

	cmd := &cobra.Command{
		Use:   "jwks",
		Short: "Print the public JWKS for the signing key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &issueOptions{keyFile: keyFile, keyID: keyID}
			s, err := opts.signer()
			if err != nil {
				return err
			}
			jwks, err := s.PublicJWKS()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(jwks))
			return err
		},
	}

	cmd.Flags().StringVar(&keyFile, "key", "", "PEM RSA private key")
	cmd.Flags().StringVar(&keyID, "kid", "", "key id placed in the JWKS")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}
