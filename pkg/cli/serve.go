package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/bodytmpl/pkg/config"
	"github.com/getmockd/bodytmpl/pkg/server"
)

// DefaultConfigFile is read when --config is not given.
const DefaultConfigFile = "bodytmpl.yaml"

func newServeCommand() *cobra.Command {
	var (
		configPath string
		listen     string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mocks defined in a configuration file",
		Example: `  bodytmpl serve
  bodytmpl serve -f mocks.yaml --listen :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			addr := cfg.ListenAddr()
			if listen != "" {
				addr = listen
			}

			srv, err := server.New(cfg, server.WithLogger(slog.Default()))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "f", DefaultConfigFile, "Configuration file (YAML or JSON)")
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address, overrides server.listen")
	return cmd
}
