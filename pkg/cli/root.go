package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/bodytmpl/pkg/logging"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
}

// NewRootCommand builds the command tree. Output and logs go to the
// command's configured writers, so tests can capture them.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "bodytmpl",
		Short: "bodytmpl serves mock HTTP responses rendered from templates",
		Long: `bodytmpl serves mock HTTP responses whose bodies are rendered from templates.

Templates interpolate ${expressions} over request data (req), configured
variables and the built-in now(pattern) and random(...) functions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initLogging(flags, cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newServeCommand(),
		newRenderCommand(),
		newValidateCommand(),
		newVersionCommand(),
	)
	return root
}

func initLogging(flags *globalFlags, w io.Writer) error {
	cfg, err := logging.FromFlags(flags.logLevel, flags.logFormat, w)
	if err != nil {
		return err
	}
	logging.Init(cfg)
	return nil
}

// Execute runs the root command with ctx and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
