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

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sage-x-project/oidcpay-go/pkg/certs"
	"github.com/sage-x-project/oidcpay-go/pkg/provider"
	"github.com/spf13/cobra"
)

func newCertsCmd(global *globalOptions) *cobra.Command {
	var (
		url      string
		out      string
		snapshot bool
		asHex    bool
	)

	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Fetch the current Google signing keys as a JWKS document",
		Long: `Fetch the current Google signing keys as a JWKS document.

The output can be passed to "execute --cert-file" for the Google provider.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			if snapshot {
				data = provider.GoogleSnapshot()
			} else {
				if url == "" {
					url = global.cfg.Certs.GoogleURL
				}
				fetcher := certs.NewFetcher(global.cfg.Certs.FetcherOptions(global.logger))
				var err error
				if data, err = fetcher.Fetch(cmd.Context(), url); err != nil {
					return err
				}
			}

			if asHex {
				data = []byte(hexutil.Encode(data))
			}

			if out == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			global.logger.WithField("path", out).Info("certs written")
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "JWKS endpoint (defaults to certs.google_url)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&asHex, "hex", false, "print the document as 0x hex, ready for an ABI cert argument")
	cmd.Flags().BoolVar(&snapshot, "snapshot", false, "print the keys captured at build time instead of fetching")
	return cmd
}
