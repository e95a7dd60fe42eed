package main

import (
	"errors"
	"fmt"
	"slices"

	"robo-tools/cmd/robolib/robots"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
)

var errNoSelection = errors.New("no robot selected")

// fuzzySelect lets the user pick a robot in the terminal, with its summary in
// the preview window.
func fuzzySelect(defs []robots.Definition) (robots.Definition, error) {
	idx, err := fuzzyfinder.Find(
		defs,
		func(i int) string {
			return defs[i].Name
		},
		fuzzyfinder.WithPromptString("Select robot: "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 {
				return ""
			}
			return renderDefinition(defs[i])
		}),
	)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return robots.Definition{}, errNoSelection
	}
	if err != nil {
		return robots.Definition{}, err
	}
	return defs[idx], nil
}

func newPickCmd(opts *rootOptions) *cobra.Command {
	var (
		printURL bool
		platform string
	)
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Fuzzy-find a robot and print its name",
		Long: "Fuzzy-find a robot and print its name, or with --url its asset bundle URL\n" +
			"for the chosen platform.",
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
			defs := slices.Collect(reg.Definitions())
			if len(defs) == 0 {
				return fmt.Errorf("registry is empty")
			}
			def, err := fuzzySelect(defs)
			if err != nil {
				return err
			}
			if !printURL {
				fmt.Fprintln(cmd.OutOrStdout(), def.Name)
				return nil
			}
			p, err := pickPlatform(cmd.Context(), platform, s.settings.Platform)
			if err != nil {
				return err
			}
			u, err := reg.ResolveAssetURL(def.Name, p)
			if err != nil {
				return queryErr(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	cmd.Flags().BoolVar(&printURL, "url", false, "print the asset bundle URL instead of the name")
	cmd.Flags().StringVarP(&platform, "platform", "p", "", "platform for --url")
	_ = cmd.RegisterFlagCompletionFunc("platform", completePlatforms)
	return cmd
}
