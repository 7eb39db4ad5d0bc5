package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/bodytmpl/pkg/config"
)

// validateResult is the --json output of validate.
type validateResult struct {
	Valid  bool                     `json:"valid"`
	File   string                   `json:"file"`
	Mocks  int                      `json:"mocks"`
	Errors []config.ValidationError `json:"errors,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

func newValidateCommand() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration file without serving it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, loadErr := config.Load(configPath)
			result := validateResult{Valid: loadErr == nil, File: configPath}
			if cfg != nil {
				result.Mocks = len(cfg.Mocks)
			}
			var verrs config.ValidationErrors
			switch {
			case loadErr == nil:
			case errors.As(loadErr, &verrs):
				result.Errors = verrs
			default:
				result.Error = loadErr.Error()
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
				if loadErr != nil {
					return errors.New("configuration is invalid")
				}
				return nil
			}
			if loadErr != nil {
				return loadErr
			}
			fmt.Fprintf(out, "%s: ok (%d mocks)\n", configPath, result.Mocks)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "f", DefaultConfigFile, "Configuration file (YAML or JSON)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	return cmd
}
