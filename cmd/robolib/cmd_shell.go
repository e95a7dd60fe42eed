package main

import (
	"github.com/spf13/cobra"
)

func newShellCmd(opts *rootOptions) *cobra.Command {
	var platform string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive query shell with robot name completion",
		Long: "Start a query shell. Robot names complete with Tab, reload re-reads the\n" +
			"records from disk and keeps the current registry if they do not validate.\n" +
			"History is kept in <config>/history when the config directory exists.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			p, err := pickPlatform(cmd.Context(), platform, s.settings.Platform)
			if err != nil {
				return err
			}
			if _, err := s.registry(); err != nil {
				return err
			}
			sh := &shell{librarian: s.librarian, platform: p, out: cmd.OutOrStdout()}
			return sh.run(s.configDir)
		},
	}
	cmd.Flags().StringVarP(&platform, "platform", "p", "", "default platform for url")
	_ = cmd.RegisterFlagCompletionFunc("platform", completePlatforms)
	return cmd
}
