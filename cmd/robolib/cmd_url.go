package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newURLCmd(opts *rootOptions) *cobra.Command {
	var platform string
	cmd := &cobra.Command{
		Use:   "url NAME",
		Short: "Print the asset bundle URL of a robot",
		Long: "Print the asset bundle URL of a robot for a platform.\n\n" +
			"The platform is taken from --platform, then the `platform` key of\n" +
			"<config>/config.yml, then the host operating system.",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeRobotNames(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			p, err := pickPlatform(cmd.Context(), platform, s.settings.Platform)
			if err != nil {
				return err
			}
			reg, err := s.registry()
			if err != nil {
				return err
			}
			u, err := reg.ResolveAssetURL(args[0], p)
			if err != nil {
				return queryErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	cmd.Flags().StringVarP(&platform, "platform", "p", "", "target platform (Darwin, Linux, Windows)")
	_ = cmd.RegisterFlagCompletionFunc("platform", completePlatforms)
	return cmd
}
