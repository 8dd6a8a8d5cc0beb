package cli

import (
	"github.com/spf13/cobra"
	"jobdemand-go/internal/logger"
)

type rootOptions struct {
	logLevel string
}

// NewRootCmd builds the demand command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "demand",
		Short:        "Rank job categories, position levels and titles by application demand",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.AddCommand(newReportCmd(opts))
	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) *logger.Logger {
	return logger.NewWithOptions(logger.Options{Level: o.logLevel, Output: cmd.ErrOrStderr()})
}
