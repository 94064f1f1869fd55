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
	"os"
	"os/signal"
	"syscall"

	"github.com/sage-x-project/oidcpay-go/pkg/certs"
	"github.com/sage-x-project/oidcpay-go/pkg/server"
	"github.com/spf13/cobra"
)

func newServeCmd(global *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve /execute and /auth over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := global.cfg
			if addr == "" {
				addr = cfg.Server.Addr
			}

			srv := server.NewServer(server.Options{
				Certs:             certs.NewFetcher(cfg.Certs.FetcherOptions(global.logger)),
				GoogleCertsURL:    cfg.Certs.GoogleURL,
				CORSOrigins:       cfg.Server.CORSOrigins,
				AllowTestProvider: cfg.Server.AllowTestProvider,
				Logger:            global.logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to server.addr)")
	return cmd
}
