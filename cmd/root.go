package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karna-27/bank-lending-system/cmd/worker"
	"github.com/karna-27/bank-lending-system/internal/config"
	"github.com/karna-27/bank-lending-system/internal/logger"
)

// runtime is loaded once before any subcommand runs.
type runtime struct {
	cfg config.Config
	log *zap.Logger
}

func (r *runtime) Config() config.Config { return r.cfg }
func (r *runtime) Logger() *zap.Logger   { return r.log }

func (r *runtime) load(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	r.cfg, r.log = cfg, log
	return nil
}

func (r *runtime) sync() {
	if r.log != nil {
		_ = r.log.Sync()
	}
}

var (
	cfgPath string
	rt      = &runtime{log: zap.NewNop()}
	rootCmd = &cobra.Command{
		Use:          "bank-lending",
		Short:        "Bank lending system CLI",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.load(cfgPath)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) { rt.sync() },
	}
)

func Execute() {
	err := rootCmd.Execute()
	rt.sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, worker.NewWorkerCmd(rt))
}
