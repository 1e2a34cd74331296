package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ytani/musicbox-installer/internal/branding"
	"github.com/ytani/musicbox-installer/internal/config"
	"github.com/ytani/musicbox-installer/internal/installer"
	"github.com/ytani/musicbox-installer/internal/logging"
	"github.com/ytani/musicbox-installer/internal/runtime"
)

type buildInfo struct {
	version string
	commit  string
	date    string
}

type rootOptions struct {
	fast        bool
	uninstall   bool
	verbose     bool
	showVersion bool
}

func newRootCmd(info buildInfo) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   branding.CLIName() + " [-f] [-u] [-h] [-v]",
		Short: branding.Description(),
		Long: branding.DisplayName() + ` installer.

Run from the project directory inside an activated (or discoverable) Python
virtual environment. Installs the OS packages listed in pkgs.txt, builds the
` + branding.WrapperName() + ` launcher into ~/bin and installs ` + branding.PackageName() + ` with pip.`,
		Args:          noPositionalArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (commit: %s, built: %s)\n",
					branding.CLIName(), info.version, info.commit, info.date)
				return nil
			}
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.fast, "fast", "f", false, "Fast mode: do not upgrade pip, setuptools and wheel")
	flags.BoolVarP(&opts.uninstall, "uninstall", "u", false, "Uninstall installed files and the package, then exit")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print debug logging")
	flags.BoolVar(&opts.showVersion, "version", false, "Print version information")

	cmd.SetHelpFunc(printHelp)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprint(c.ErrOrStderr(), c.UsageString())
		return err
	})

	return cmd
}

func noPositionalArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	return fmt.Errorf("unexpected argument %q", args[0])
}

func run(cmd *cobra.Command, opts *rootOptions) error {
	logger := logging.New(cmd.ErrOrStderr(), opts.verbose)

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	cfg, err := config.Load(wd)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cfg.Fast = opts.fast
	logger.Debug("configuration", "project", cfg.ProjectDir, "build", cfg.BuildDir, "bin", cfg.BinDir)

	runner := &runtime.ExecRunner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}
	in := installer.New(cfg, runner, cmd.OutOrStdout(), logger)

	if opts.uninstall {
		return in.Uninstall(cmd.Context())
	}
	return in.Install(cmd.Context())
}

// Execute runs the root command with build info injected via ldflags and
// returns the process exit code.
func Execute(version, commit, date string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr, buildInfo{version: version, commit: commit, date: date})
}

// execute runs the command with explicit arguments and streams. A returned
// error is printed once to stderr and maps to exit code 1.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer, info buildInfo) int {
	cmd := newRootCmd(info)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
