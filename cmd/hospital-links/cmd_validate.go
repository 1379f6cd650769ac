package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/hospital-links/internal/scenario"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [script.yaml ...]",
		Short: "Check scenario scripts without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invalid := 0
			for _, path := range args {
				sc, err := scenario.Load(path)
				if err != nil {
					invalid++
					fmt.Fprintf(cmd.OutOrStdout(), "INVALID %s\n  %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "OK %s (%s, %d steps)\n", path, sc.Name, len(sc.Steps))
			}
			if invalid > 0 {
				return fmt.Errorf("validate: %d of %d script(s) invalid", invalid, len(args))
			}
			return nil
		},
	}
}
