package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"robo-tools/cmd/robolib/robots"

	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Revalidate the records whenever they change",
		Long: "Load the records, then watch the records directories and files. Every\n" +
			"change is revalidated; a valid set replaces the registry and an invalid one\n" +
			"is reported while the previous registry stays in place. Stops on interrupt.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			reg, err := s.registry()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "loaded %d robots\n", reg.Len())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return s.librarian.Watch(ctx, func(reg *robots.Registry, err error) {
				if err != nil {
					fmt.Fprintf(errOut, "rejected: %v\n", err)
					return
				}
				fmt.Fprintf(out, "reloaded %d robots\n", reg.Len())
			})
		},
	}
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 300*time.Millisecond, "quiet period before a change is reloaded")
	return cmd
}
