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
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sage-x-project/oidcpay-go/pkg/protocol"
	"github.com/spf13/cobra"
)

type decodeResult struct {
	MsgSender   string        `json:"msgSender"`
	ClaimID     common.Hash   `json:"claimId"`
	Layout      string        `json:"layout"`
	KeyMaterial hexutil.Bytes `json:"keyMaterial,omitempty"`
}

func newDecodeCmd() *cobra.Command {
	var layoutVersion uint8

	cmd := &cobra.Command{
		Use:   "decode <0x-public-values>",
		Short: "Decode committed public values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout := protocol.Layout(layoutVersion)
			if !layout.Valid() {
				return fmt.Errorf("unknown layout version %d", layoutVersion)
			}

			data, err := hexutil.Decode(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid public values: %w", err)
			}
			out, err := protocol.DecodeOutputs(data, layout)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), decodeResult{
				MsgSender:   out.MsgSender.Hex(),
				ClaimID:     out.ClaimHash(),
				Layout:      layout.String(),
				KeyMaterial: out.KeyMaterial,
			})
		},
	}

	cmd.Flags().Uint8Var(&layoutVersion, "layout", uint8(protocol.LayoutAddressClaim), "output layout version (1 or 2)")
	return cmd
}
