// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.

// Permission is hereby granted, free of charge, to any person obtaining a copy of this
// software and associated documentation files (the "Software"), to deal in the Software
// without restriction, including without limitation the rights to use, copy, modify,
// merge, publish, distribute, sublicense, and/or sell copies of the Software, and to
// permit persons to whom the Software is furnished to do so.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED,
// INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A
// PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
// OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
// SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"waflab/internal/audit"
)

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "Show the stack's three operator outputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		clients, err := newClients(cmd)
		if err != nil {
			return err
		}
		outputs, err := audit.FetchStackOutputs(cmd.Context(), clients, stackName)
		if err != nil {
			return err
		}
		log.Info().
			Str("waf_alb", outputs.WafAlbDns).
			Str("raw_alb", outputs.RawAlbDns).
			Str("bastion_ip", outputs.BastionIP).
			Msg("stack outputs")
		return nil
	},
}

var wafCmd = &cobra.Command{
	Use:   "waf",
	Short: "Verify web ACL placement and the detection gap",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, audit.CheckWebAcl)
	},
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Verify the security group chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		clients, err := newClients(cmd)
		if err != nil {
			return err
		}
		report, err := audit.CheckNetwork(cmd.Context(), clients, stackName)
		if err != nil {
			return err
		}
		return finish(report)
	},
}

var edgeCmd = &cobra.Command{
	Use:   "edge",
	Short: "Verify listener and target group parity across both edges",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, audit.CheckEdge)
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run every check",
	RunE: func(cmd *cobra.Command, args []string) error {
		clients, err := newClients(cmd)
		if err != nil {
			return err
		}
		outputs, err := audit.FetchStackOutputs(cmd.Context(), clients, stackName)
		if err != nil {
			return err
		}

		var report audit.Report
		for _, check := range []func(context.Context, *audit.Clients, audit.StackOutputs) (audit.Report, error){
			audit.CheckWebAcl,
			audit.CheckEdge,
		} {
			part, err := check(cmd.Context(), clients, outputs)
			if err != nil {
				return err
			}
			report.Merge(part)
		}

		netReport, err := audit.CheckNetwork(cmd.Context(), clients, stackName)
		if err != nil {
			return err
		}
		report.Merge(netReport)

		return finish(report)
	},
}

// runCheck wires the common fetch-outputs-then-check shape.
func runCheck(cmd *cobra.Command, check func(context.Context, *audit.Clients, audit.StackOutputs) (audit.Report, error)) error {
	clients, err := newClients(cmd)
	if err != nil {
		return err
	}
	outputs, err := audit.FetchStackOutputs(cmd.Context(), clients, stackName)
	if err != nil {
		return err
	}
	report, err := check(cmd.Context(), clients, outputs)
	if err != nil {
		return err
	}
	return finish(report)
}

func finish(report audit.Report) error {
	report.Log(log.Logger)
	if report.Failed() {
		return fmt.Errorf("%d of %d checks failed", failedCount(report), len(report.Findings))
	}
	return nil
}

func failedCount(report audit.Report) int {
	n := 0
	for _, f := range report.Findings {
		if f.Status != audit.StatusOK {
			n++
		}
	}
	return n
}

func init() {
	rootCmd.AddCommand(outputsCmd, wafCmd, networkCmd, edgeCmd, allCmd)
}
