package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cottle/cli/cmd"
	"github.com/ardnew/cottle/pkg"
)

// CLI is the top-level command-line interface for cottle.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Render cmd.Render `cmd:"" default:"withargs" help:"Render templates (default)."`
	Fmt    cmd.Fmt    `cmd:""                    help:"Print templates in canonical form."`
	Ast    cmd.Ast    `cmd:""                    help:"Print the syntax tree of templates."`
	Check  cmd.Check  `cmd:""                    help:"Report syntax errors in templates."`
	Repl   cmd.Repl   `cmd:""                    help:"Render templates interactively."`
	Init   cmd.Init   `cmd:""                    help:"Write a configuration file with the current flag values."`
}

// Run executes the cottle CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, args, kong.Exit(exit))
}

// run parses args and runs the selected command. Options are applied after
// the defaults, so callers may redirect output.
func run(ctx context.Context, args []string, opts ...kong.Option) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cmd.Vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong parses anything, wherever they appear.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		append([]kong.Option{
			kong.Name(pkg.Name),
			kong.Description(pkg.Description),
			kong.UsageOnError(),
			kong.ExplicitGroups(
				[]kong.Group{cli.Log.group(), cli.Pprof.group()},
			),
			// ctx is read when a command first asks for it, after the
			// kong.Context has been added below.
			kong.BindSingletonProvider(func() context.Context {
				return ctx
			}),
			kong.ConfigureHelp(
				kong.HelpOptions{
					Compact:             true,
					Summary:             true,
					Tree:                true,
					NoExpandSubcommands: true,
				}),
			kong.Configuration(kong.JSON, configFilePath+".json"),
			kong.Configuration(loadYAML, configFilePath+".yaml", configFilePath+".yml"),
			vars,
		}, opts...)...,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	// Finalize the logger with every parsed value, including those that
	// came from the configuration file.
	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}
