package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/peekknuf/dataqa/internal/config"
	"github.com/peekknuf/dataqa/internal/connectors"
	"github.com/peekknuf/dataqa/internal/logging"
)

// app carries what every subcommand needs once the root command has run.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func (a *app) loadOptions() connectors.LoadOptions {
	return connectors.LoadOptions{
		NullTokens: a.cfg.Input.NullTokens,
		Delimiter:  a.cfg.DelimiterRune(),
		Sheet:      a.cfg.Input.Sheet,
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "dataqa",
		Short: "Data Quality Assurance CLI",
		Long: `A data quality tool for CSV and Excel files:
report missing values per column and fill them with
mean, median, mode or a constant`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.New(cmd.ErrOrStderr(), logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			a.logger.Debug("configuration loaded",
				"fill_method", cfg.Fill.Method,
				"null_tokens", len(cfg.Input.NullTokens))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"config file (default is $HOME/.dataqa.yaml)")

	rootCmd.AddCommand(
		newReportCmd(a),
		newFillCmd(a),
		newScanCmd(a),
		newDescribeCmd(a),
	)
	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
