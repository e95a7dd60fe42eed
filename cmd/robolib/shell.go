package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"robo-tools/cmd/robolib/librarian"
	"robo-tools/cmd/robolib/robots"

	"github.com/chzyer/readline"
)

// shellCommands maps each shell command to its one-line help.
var shellCommands = map[string]string{
	"list":     "list robot names",
	"show":     "show NAME: everything known about a robot",
	"url":      "url NAME [PLATFORM]: asset bundle URL",
	"chain":    "chain NAME [INDEX]: links of a kinematic chain",
	"joints":   "joints NAME [INDEX]: actuated joints in solver order",
	"targets":  "targets NAME: demo pose targets",
	"platform": "platform [PLATFORM]: show or set the default platform",
	"reload":   "reload records from disk",
	"help":     "show this help",
	"exit":     "leave the shell",
}

var errUsage = errors.New("usage")

// shell is the query REPL behind `robolib shell`. Queries run against
// whatever registry the librarian last published.
type shell struct {
	librarian *librarian.Librarian
	platform  robots.Platform
	out       io.Writer
}

func (sh *shell) registry() (*robots.Registry, error) {
	return sh.librarian.Handle().Registry()
}

func (sh *shell) robotNames(string) []string {
	reg := sh.librarian.Handle().Load()
	if reg == nil {
		return nil
	}
	return slices.Collect(reg.Names())
}

func (sh *shell) completer() *readline.PrefixCompleter {
	names := func() readline.PrefixCompleterInterface {
		return readline.PcItemDynamic(sh.robotNames)
	}
	platforms := make([]readline.PrefixCompleterInterface, len(robots.Platforms))
	for i, p := range robots.Platforms {
		platforms[i] = readline.PcItem(string(p))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("show", names()),
		readline.PcItem("url", readline.PcItemDynamic(sh.robotNames, platforms...)),
		readline.PcItem("chain", names()),
		readline.PcItem("joints", names()),
		readline.PcItem("targets", names()),
		readline.PcItem("platform", platforms...),
		readline.PcItem("reload"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

// exec runs one input line. quit is true when the shell should stop.
func (sh *shell) exec(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "exit", "quit":
		return true, nil
	case "help":
		for _, name := range slices.Sorted(maps.Keys(shellCommands)) {
			fmt.Fprintf(sh.out, "  %-9s %s\n", name, shellCommands[name])
		}
		return false, nil
	case "reload":
		reg, err := sh.librarian.Reload()
		if err != nil {
			return false, err
		}
		fmt.Fprintf(sh.out, "reloaded %d robots\n", reg.Len())
		return false, nil
	case "platform":
		if len(args) == 0 {
			fmt.Fprintln(sh.out, sh.platform)
			return false, nil
		}
		p, err := robots.ParsePlatform(args[0])
		if err != nil {
			return false, err
		}
		sh.platform = p
		return false, nil
	}

	reg, err := sh.registry()
	if err != nil {
		return false, err
	}

	switch cmd {
	case "list":
		for name := range reg.Names() {
			fmt.Fprintln(sh.out, name)
		}
	case "show":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: %s", errUsage, shellCommands[cmd])
		}
		def, err := reg.Get(args[0])
		if err != nil {
			return false, err
		}
		fmt.Fprint(sh.out, renderDefinition(def))
	case "url":
		if len(args) < 1 || len(args) > 2 {
			return false, fmt.Errorf("%w: %s", errUsage, shellCommands[cmd])
		}
		p := sh.platform
		if len(args) == 2 {
			if p, err = robots.ParsePlatform(args[1]); err != nil {
				return false, err
			}
		}
		u, err := reg.ResolveAssetURL(args[0], p)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(sh.out, u)
	case "chain", "joints":
		name, index, err := nameAndIndex(cmd, args)
		if err != nil {
			return false, err
		}
		if cmd == "joints" {
			order, err := reg.JointOrder(name, index)
			if err != nil {
				return false, err
			}
			fmt.Fprintln(sh.out, strings.Join(order, " "))
			return false, nil
		}
		chain, err := reg.ResolveChain(name, index)
		if err != nil {
			return false, err
		}
		printChain(sh.out, chain)
	case "targets":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: %s", errUsage, shellCommands[cmd])
		}
		targets, err := reg.Targets(args[0])
		if err != nil {
			return false, err
		}
		for _, joint := range slices.Sorted(maps.Keys(targets)) {
			t := targets[joint]
			fmt.Fprintf(sh.out, "%-24s %-10s %g\n", joint, t.Type, t.Target)
		}
	default:
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return false, nil
}

func nameAndIndex(cmd string, args []string) (string, int, error) {
	switch len(args) {
	case 1:
		return args[0], 0, nil
	case 2:
		i, err := strconv.Atoi(args[1])
		if err != nil {
			return "", 0, fmt.Errorf("chain index %q: %w", args[1], err)
		}
		return args[0], i, nil
	}
	return "", 0, fmt.Errorf("%w: %s", errUsage, shellCommands[cmd])
}

// run reads lines until exit, EOF or ^C on an empty line.
func (sh *shell) run(historyDir string) error {
	cfg := &readline.Config{
		Prompt:            appName + "> ",
		AutoComplete:      sh.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	}
	if info, err := os.Stat(historyDir); err == nil && info.IsDir() {
		cfg.HistoryFile = filepath.Join(historyDir, "history")
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return err
	}
	defer rl.Close()

	sh.out = rl.Stdout()
	fmt.Fprintf(sh.out, "%s shell, default platform %s. Type help for commands.\n", appName, sh.platform)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		quit, err := sh.exec(line)
		if err != nil {
			fmt.Fprintln(rl.Stderr(), "error:", err)
		}
		if quit {
			return nil
		}
	}
}
