package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "show NAME",
		Short:             "Show everything known about a robot",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeRobotNames(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			reg, err := s.registry()
			if err != nil {
				return err
			}
			def, err := reg.Get(args[0])
			if err != nil {
				return queryErr(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderDefinition(def))
			return nil
		},
	}
}
