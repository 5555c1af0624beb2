package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/V0ldek/rsonpath"
)

// newVersionCmd reports the capability tier detected on the host at run time,
// per spec.md §6 "Version output" — the one supplemented feature
// (SPEC_FULL.md §4) that makes capability.go's detection observable
// outside of a debugger.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print the detected SIMD capability tier",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			caps := rsonpath.DetectCapabilities()
			fmt.Fprintf(cmd.OutOrStdout(), "rq tier=%s fast_quotes=%t fast_popcnt=%t\n",
				caps.Tier, caps.FastQuotes, caps.FastPopcnt)
			return nil
		},
	}
}
