package main

import (
	"fmt"

	"robo-tools/cmd/robolib/robotdoc"

	"github.com/spf13/cobra"
)

const defaultDescription = "Robot asset bundles and inverse kinematics chains."

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		pretty      bool
		description string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the merged registry as a single records document",
		Long: "Write every loaded robot to stdout as one normalized records document.\n" +
			"The output loads back into an identical registry.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			reg, err := s.registry()
			if err != nil {
				return err
			}
			data, err := robotdoc.Encode(reg, description, pretty)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the output")
	cmd.Flags().StringVar(&description, "description", defaultDescription, "document description")
	return cmd
}
