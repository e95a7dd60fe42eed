package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	var noTUI bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the registry interactively",
		Long: "Browse the registry in a table. Enter shows the details of a robot and\n" +
			"r reloads the records from disk; a reload that fails validation keeps the\n" +
			"current registry.",
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
			if noTUI {
				printRobots(cmd.OutOrStdout(), reg)
				return nil
			}
			p := tea.NewProgram(newBrowseModel(s.librarian, reg),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "plain text table without the interactive interface")
	return cmd
}
