package main

import (
	"fmt"

	"robo-tools/cmd/robolib/robots"

	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var platform string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List robot names",
		Long: "List every robot in the registry, one name per line, in name order.\n" +
			"With --platform only robots that ship an asset bundle for that platform are listed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p robots.Platform
			if platform != "" {
				var err error
				if p, err = robots.ParsePlatform(platform); err != nil {
					return err
				}
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			reg, err := s.registry()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for def := range reg.Definitions() {
				if p != "" {
					if _, ok := def.URL(p); !ok {
						continue
					}
				}
				fmt.Fprintln(out, def.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&platform, "platform", "p", "", "only list robots with an asset for this platform")
	_ = cmd.RegisterFlagCompletionFunc("platform", completePlatforms)
	return cmd
}
