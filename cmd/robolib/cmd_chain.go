package main

import (
	"fmt"

	"robo-tools/cmd/robolib/robotdoc"

	"github.com/spf13/cobra"
)

func newChainCmd(opts *rootOptions) *cobra.Command {
	var (
		index  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "chain NAME",
		Short: "Print a kinematic chain of a robot",
		Long: "Print the links of one of a robot's inverse kinematics chains, from the\n" +
			"base outwards. A link whose rotation is `fixed` is not actuated.",
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
			chain, err := reg.ResolveChain(args[0], index)
			if err != nil {
				return queryErr(err)
			}
			if asJSON {
				data, err := robotdoc.EncodeChain(chain, true)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			printChain(cmd.OutOrStdout(), chain)
			return nil
		},
	}
	cmd.Flags().IntVarP(&index, "index", "i", 0, "chain index")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the chain in records document form")
	return cmd
}

func newJointsCmd(opts *rootOptions) *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "joints NAME",
		Short: "Print the actuated joints of a chain in solver order",
		Long: "Print the names of the actuated links of a chain, one per line. This is\n" +
			"the order in which an IK solution's angles map onto joints.",
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
			names, err := reg.JointOrder(args[0], index)
			if err != nil {
				return queryErr(err)
			}
			out := cmd.OutOrStdout()
			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&index, "index", "i", 0, "chain index")
	return cmd
}
