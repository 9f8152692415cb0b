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
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"waflab/internal/audit"
)

var (
	stackName string
	region    string
	profile   string
	debug     bool
)

var rootCmd = &cobra.Command{
	Use:   "labaudit",
	Short: "Verify a deployed WAF training lab",
	Long: `labaudit inspects a deployed lab stack and verifies the properties the
templates promise: bastion access limited to SSH on 443, both edges fronting
the same application, least-privilege security group chaining, and a web ACL
whose four size-inspection rules stay disabled.

A hardened ACL is reported as a failure; the gap is the point of the lab.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		if debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&stackName, "stack", "s", "WafLab", "CloudFormation stack name")
	rootCmd.PersistentFlags().StringVarP(&region, "region", "r", "", "AWS region (defaults to shared config)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "AWS profile (defaults to shared config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

// newClients builds the client set from the persistent flags.
func newClients(cmd *cobra.Command) (*audit.Clients, error) {
	return audit.NewClients(cmd.Context(), audit.Options{
		Region:  region,
		Profile: profile,
	})
}
