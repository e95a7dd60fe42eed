package main

import (
	"fmt"
	"os"
	"path/filepath"

	"robo-tools/cmd/robolib/robotdoc"
	"robo-tools/cmd/robolib/robots"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const configInitSettingsHeader = "# robolib settings\n" +
	"# Command-line flags override every value here.\n" +
	"#   platform    default platform for url, pick and shell (Darwin, Linux, Windows)\n" +
	"#   log_level   debug, info, warn or error\n" +
	"#   log_format  text or json\n\n"

// initAnswers is what config init writes, either from flags or from the form.
type initAnswers struct {
	settings settings
	bundled  bool
}

// askInitAnswers runs the interactive form, starting from the defaults in a.
func askInitAnswers(a initAnswers) (initAnswers, error) {
	platforms := make([]huh.Option[string], len(robots.Platforms))
	for i, p := range robots.Platforms {
		platforms[i] = huh.NewOption(string(p), string(p))
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default platform").
				Description("Used by url, pick and shell when --platform is not given.").
				Options(platforms...).
				Value(&a.settings.Platform),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&a.settings.LogLevel),
			huh.NewSelect[string]().
				Title("Log format").
				Options(huh.NewOptions("text", "json")...).
				Value(&a.settings.LogFormat),
			huh.NewConfirm().
				Title("Copy the bundled robots into records/?").
				Value(&a.bundled),
		),
	)
	if err := form.Run(); err != nil {
		return initAnswers{}, err
	}
	return a, nil
}

func newConfigInitCmd() *cobra.Command {
	var (
		force       bool
		dir         string
		interactive bool
		platform    string
		bundled     bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialise the " + appName + " config directory with starter files",
		Long: "Create the " + appName + " config directory and populate it with a settings\n" +
			"file and, unless --bundled=false, a copy of the bundled robots to edit.\n\n" +
			"Files created:\n" +
			"  <config>/config.yml            settings\n" +
			"  <config>/records/robots.json   records document\n\n" +
			"The default config directory follows the same priority as every other command:\n" +
			"  $" + envConfigDir + " > $XDG_CONFIG_HOME/" + appName + " > ~/.config/" + appName,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				var err error
				dir, err = resolveConfigDir()
				if err != nil {
					return err
				}
			}

			answers := initAnswers{
				settings: settings{LogLevel: "info", LogFormat: "text"},
				bundled:  bundled,
			}
			p, err := pickPlatform(cmd.Context(), platform, "")
			if err != nil {
				return err
			}
			answers.settings.Platform = string(p)
			if interactive {
				if answers, err = askInitAnswers(answers); err != nil {
					return err
				}
			}

			settingsYAML, err := yaml.Marshal(answers.settings)
			if err != nil {
				return err
			}
			recordsDir := filepath.Join(dir, recordsDirName)
			files := []initFile{{path: filepath.Join(dir, settingsFileName), header: configInitSettingsHeader, content: settingsYAML}}
			if answers.bundled {
				files = append(files, initFile{path: filepath.Join(recordsDir, "robots.json"), content: robotdoc.DefaultRecords})
			}

			// Check every target before writing any of them.
			if !force {
				for _, f := range files {
					if _, err := os.Stat(f.path); err == nil {
						return fmt.Errorf("%s already exists (use --force to overwrite)", f.path)
					}
				}
			}

			created := make([]string, 0, len(files))
			for _, f := range files {
				if err := f.write(); err != nil {
					return err
				}
				created = append(created, f.path)
			}

			errOut := cmd.ErrOrStderr()
			fmt.Fprintf(errOut, "initialised %s\n", dir)
			for _, f := range created {
				fmt.Fprintf(errOut, "  %s\n", f)
			}
			fmt.Fprintf(errOut, "\nRun `%s list` to see the available robots.\n", appName)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	cmd.Flags().StringVar(&dir, "dir", "", "target config directory (default: auto-resolved)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "ask for the settings in a form")
	cmd.Flags().StringVarP(&platform, "platform", "p", "", "default platform (default: host platform)")
	cmd.Flags().BoolVar(&bundled, "bundled", true, "copy the bundled robots into records/")
	_ = cmd.RegisterFlagCompletionFunc("platform", completePlatforms)
	return cmd
}

type initFile struct {
	path    string
	header  string
	content []byte
}

func (f initFile) write() error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	out, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", f.path, err)
	}
	defer out.Close()
	if f.header != "" {
		fmt.Fprint(out, f.header)
	}
	_, err = out.Write(f.content)
	return err
}
