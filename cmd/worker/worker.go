package worker

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karna-27/bank-lending-system/internal/config"
)

// Env hands workers the config and logger the root command loaded.
type Env interface {
	Config() config.Config
	Logger() *zap.Logger
}

// NewWorkerCmd returns the parent "worker" command.
func NewWorkerCmd(env Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run background workers",
	}
	cmd.AddCommand(newProjectorCmd(env))

	return cmd
}
