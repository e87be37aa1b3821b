package main

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	anchorlink "github.com/goliatone/go-anchorlink"
	"github.com/goliatone/go-anchorlink/internal/commands"
	"github.com/goliatone/go-anchorlink/internal/di"
	"github.com/goliatone/go-anchorlink/internal/logging/console"
)

type moduleBuilder func(ctx context.Context, cfg anchorlink.Config, opts ...di.Option) (*anchorlink.Module, error)

type configLoader func(path string) (anchorlink.Config, error)

// app carries the state shared by every subcommand. Tests swap the loader and
// builder to run against in-memory modules.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool

	loadConfig  configLoader
	buildModule moduleBuilder
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		loadConfig: func(path string) (anchorlink.Config, error) {
			return anchorlink.LoadConfig(path)
		},
		buildModule: anchorlink.Open,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "anchorlink",
		Short: "Keep the read-more flag in sync and search flagged posts",
		Long: `anchorlink tracks posts whose body embeds the DMG anchor link block.
Saves through the post pipeline set or clear the dmg-read-more meta flag,
and dmg-read-more-search lists flagged posts modified within a date range.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a TOML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newSearchCmd(a),
		newResyncCmd(a),
		newImportCmd(a),
	)
	return root
}

// open loads configuration and builds the module. Console logs always go to
// stderr so stdout stays reserved for command output.
func (a *app) open(ctx context.Context) (*anchorlink.Module, anchorlink.Config, error) {
	cfg, err := a.loadConfig(a.configPath)
	if err != nil {
		return nil, cfg, err
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}

	var opts []di.Option
	if provider := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider)); provider == "" || provider == "console" {
		consoleOpts := console.Options{Writer: a.stderr}
		if level, ok := console.ParseLevel(cfg.Logging.Level); ok {
			consoleOpts.MinLevel = &level
		}
		opts = append(opts, di.WithLoggerProvider(console.NewProvider(consoleOpts)))
	}

	module, err := a.buildModule(ctx, cfg, opts...)
	if err != nil {
		return nil, cfg, err
	}
	return module, cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	return a.execute(args)
}

func (a *app) execute(args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		newPrinter(a.stdout, a.stderr).Error(commands.Message(err))
		return 1
	}
	return 0
}
