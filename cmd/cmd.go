package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/thiagokokada/gitref/internal/buildinfo"
	"github.com/thiagokokada/gitref/internal/config"
)

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, e *env, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"check":   {usage: "check [--pattern] NAME...", help: "validate refnames and show their forms", run: runCheck},
		"encode":  {usage: "encode NAME...", help: "percent-encode refnames", run: runEncode},
		"render":  {usage: "render [--namespace N] [--remote R] --category C (--name N | --glob P)", help: "build a scoped reference name", run: runRender},
		"resolve": {usage: "resolve NAME", help: "print the object id a reference points to", run: runResolve},
		"create":  {usage: "create [--force] [-m MSG] NAME TARGET", help: "create a direct reference", run: runCreate},
		"alias":   {usage: "alias [--force] SOURCE TARGET", help: "create a symbolic reference", run: runAlias},
		"list":    {usage: "list [--format text|json|yaml|cbor] [PATTERN...]", help: "list references", run: runList},
		"diff":    {usage: "diff [--format text|json|yaml|cbor] SNAPSHOT [PATTERN...]", help: "show how references changed since a saved listing", run: runDiff},
		"watch":   {usage: "watch [--color auto|always|never] [--theme auto|light|dark] [PATTERN...]", help: "print changes to references as they happen", run: runWatch},
	}
}

// env is the state shared by every command.
type env struct {
	stdout   io.Writer
	stderr   io.Writer
	cfg      config.Config
	repoPath string
}

func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("gitref", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	repoPath := fs.StringP("repo", "C", "", "run as if gitref was started in this repository")
	configPath := fs.String("config", "", "configuration file (default $XDG_CONFIG_HOME/gitref/config.toml)")
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	showVersion := fs.Bool("version", false, "print version information and exit")
	fs.Usage = func() { usage(stderr, fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Fprintln(stdout, buildinfo.Read())
		return nil
	}
	setupLogging(stderr, *verbose)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	e := &env{stdout: stdout, stderr: stderr, cfg: cfg, repoPath: cfg.Repo}
	if *repoPath != "" {
		e.repoPath = *repoPath
	}

	rest := fs.Args()
	if len(rest) == 0 {
		usage(stderr, fs)
		return errors.New("no command given")
	}
	name, rest := rest[0], rest[1:]
	c, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	slog.Debug("running command", slog.String("command", name), slog.Any("args", rest))
	return c.run(ctx, e, rest)
}

func setupLogging(w io.Writer, verbose bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{Prefix: "gitref", Level: level})
	slog.SetDefault(slog.New(logger))
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	path, err := config.DefaultPath()
	if err != nil {
		slog.Debug("no default config path", slog.Any("error", err))
		return config.Default(), nil
	}
	return config.LoadOptional(path)
}

func usage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: gitref [flags] COMMAND [ARGS]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].help)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "flags:")
	fmt.Fprint(w, fs.FlagUsages())
}

// newFlagSet returns the flag set of a command.
func newFlagSet(e *env, name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "usage: gitref %s\n\n%s\n", commands[name].usage, commands[name].help)
		if flags := fs.FlagUsages(); strings.TrimSpace(flags) != "" {
			fmt.Fprintf(e.stderr, "\nflags:\n%s", flags)
		}
	}
	return fs
}

// parseFlags parses args, reporting whether the command should go on.
func parseFlags(fs *pflag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
