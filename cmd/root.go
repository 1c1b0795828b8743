package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/fraud-cli/internal/config"
	"github.com/sells-group/fraud-cli/pkg/fraudapi"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "fraud-cli",
	Short: "Score card transactions against the fraud detection API",
	Long:  "Checks individual transactions against the hosted fraud ensemble, shows model performance and prediction monitoring, and serves a local dashboard API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(newAPI(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		return s.Run(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newAPI builds the backend client for the configured URL.
func newAPI() fraudapi.Client {
	return fraudapi.NewClient(cfg.API.URL, fraudapi.WithUserAgent("fraud-cli"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
