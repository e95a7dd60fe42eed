package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the " + appName + " config directory",
		Long:  "Commands for initialising and inspecting the " + appName + " config directory.",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd(opts))
	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved config directory, settings and records sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			files, err := s.librarian.Sources()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			settingsPath := filepath.Join(s.configDir, settingsFileName)
			if _, err := os.Stat(settingsPath); err != nil {
				settingsPath += " (not found)"
			}
			fmt.Fprintf(out, "config dir:  %s\n", s.configDir)
			fmt.Fprintf(out, "settings:    %s\n", settingsPath)
			fmt.Fprintf(out, "platform:    %s\n", valueOr(s.settings.Platform, "(host)"))
			fmt.Fprintf(out, "log level:   %s\n", valueOr(s.settings.LogLevel, "info"))
			fmt.Fprintf(out, "log format:  %s\n", valueOr(s.settings.LogFormat, "text"))
			fmt.Fprintln(out, "records:")
			if len(files) == 0 {
				fmt.Fprintln(out, "  (bundled records)")
			}
			for _, f := range files {
				fmt.Fprintf(out, "  %s\n", f)
			}
			return nil
		},
	}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
