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
	"encoding/json"
	"io"

	"github.com/sage-x-project/oidcpay-go/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// globalOptions are shared by every subcommand
type globalOptions struct {
	configFile string
	logLevel   string

	cfg    *config.Config
	logger *logrus.Logger
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "oidcpay",
		Short:         "Validate OIDC tokens and commit claim public values",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level")

	cmd.AddCommand(
		newExecuteCmd(opts),
		newDecodeCmd(),
		newCertsCmd(opts),
		newIssueCmd(),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *globalOptions) init(stderr io.Writer) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return err
	}
	logger.SetOutput(stderr)

	o.cfg = cfg
	o.logger = logger
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
