package main

import (
	"fmt"

	"robo-tools/cmd/robolib/librarian"

	"github.com/spf13/cobra"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file ...]",
		Short: "Check records documents without loading them anywhere",
		Long: "Parse and validate records documents. With no arguments the configured\n" +
			"records sources are checked; otherwise only the given files are, merged as\n" +
			"one registry. The first error is reported and the exit status is 1.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			l := s.librarian
			if len(args) > 0 {
				l = librarian.New(librarian.Config{Files: args}, nil, s.logger)
			}
			reg, files, err := l.Build()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(out, "ok: %d robots (bundled records)\n", reg.Len())
				return nil
			}
			fmt.Fprintf(out, "ok: %d robots from %d files\n", reg.Len(), len(files))
			for _, f := range files {
				fmt.Fprintf(out, "  %s\n", f)
			}
			return nil
		},
	}
}
