package main

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"robo-tools/cmd/robolib/librarian"
	"robo-tools/cmd/robolib/robots"
	"robo-tools/pkg/lib"

	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	records   []string
	logLevel  string
	logFormat string

	// debounce is only set by watch.
	debounce time.Duration
}

// session is everything a subcommand needs once flags, env and config.yml
// have been merged.
type session struct {
	configDir string
	settings  settings
	logger    *slog.Logger
	librarian *librarian.Librarian
}

// open resolves the config directory, reads config.yml and prepares a
// librarian over the configured records sources. Nothing is loaded yet.
func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	st, err := loadSettings(dir)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(firstNonEmpty(o.logLevel, st.LogLevel), firstNonEmpty(o.logFormat, st.LogFormat), cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	sources := resolveSources(dir, o.records)
	sources.Debounce = o.debounce
	return &session{
		configDir: dir,
		settings:  st,
		logger:    logger,
		librarian: librarian.New(sources, nil, logger),
	}, nil
}

// registry loads the records and publishes them in the session's handle.
func (s *session) registry() (*robots.Registry, error) {
	return s.librarian.Reload()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// queryErr marks lookup failures so the process exits with code 2 instead of 1.
func queryErr(err error) error {
	if robots.IsQueryError(err) {
		return lib.WithExitCode(err, 2)
	}
	return err
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   appName,
		Short: "Robot asset and kinematic chain registry",
		Long: appName + " answers questions about the robots described by the records\n" +
			"documents: which asset bundle to download for a platform, and which\n" +
			"kinematic chains an IK solver should use.\n\n" +
			"Records are loaded from <config>/records/**/*.{json,yml,yaml}, then $" + envRecords + ",\n" +
			"then --records. When nothing is found the bundled records are used.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringArrayVarP(&opts.records, "records", "r", nil,
		"records file or directory (repeatable; default: ~/.config/"+appName+"/records/)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default info)")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: text or json (default text)")

	root.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newURLCmd(opts),
		newChainCmd(opts),
		newJointsCmd(opts),
		newValidateCmd(opts),
		newExportCmd(opts),
		newBrowseCmd(opts),
		newPickCmd(opts),
		newShellCmd(opts),
		newWatchCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// completeRobotNames completes the first positional argument with robot names.
func completeRobotNames(opts *rootOptions) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		dir, err := resolveConfigDir()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
		reg, err := librarian.New(resolveSources(dir, opts.records), nil, quiet).Reload()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var suggestions []string
		for name := range reg.Names() {
			if strings.HasPrefix(name, toComplete) {
				suggestions = append(suggestions, name)
			}
		}
		return suggestions, cobra.ShellCompDirectiveNoFileComp
	}
}

func completePlatforms(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, p := range robots.Platforms {
		if strings.HasPrefix(string(p), toComplete) {
			out = append(out, string(p))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
