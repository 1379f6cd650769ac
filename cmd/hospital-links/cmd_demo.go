package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/hospital-links/internal/scenario"
)

func demoCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in walkthrough scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.parallel = 1
			return runScripts(cmd.Context(), os.Stdout, []*scenario.Script{scenario.Demo()}, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "print operation counters after the run")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress roster output")
	return cmd
}
