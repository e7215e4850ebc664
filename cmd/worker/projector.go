package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karna-27/bank-lending-system/internal/config"
	"github.com/karna-27/bank-lending-system/internal/db"
	"github.com/karna-27/bank-lending-system/internal/kafka"
	"github.com/karna-27/bank-lending-system/internal/metrics"
	"github.com/karna-27/bank-lending-system/internal/repository"
	"github.com/karna-27/bank-lending-system/internal/worker"
)

func newProjectorCmd(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "projector",
		Short: "Project payment events from Kafka into ClickHouse",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjector(cmd.Context(), env.Config(), env.Logger())
		},
	}
}

func runProjector(parent context.Context, cfg config.Config, log *zap.Logger) error {
	metrics.MustRegister(prometheus.DefaultRegisterer)

	// 1) ClickHouse connection
	chDB, err := db.NewClickHouseConnection(cfg.ClickHouse.DSN, db.PoolOptsFrom(cfg.ClickHouse))
	if err != nil {
		return fmt.Errorf("clickhouse connect: %w", err)
	}
	defer chDB.Close()

	// 2) kafka consumer
	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = "lending-projector"
	}
	consumer, err := kafka.NewConsumerFromConfig(kafka.Config{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Topics.Payments,
		GroupID:        groupID,
		MinBytes:       cfg.Kafka.MinBytes,
		MaxBytes:       cfg.Kafka.MaxBytes,
		CommitInterval: time.Duration(cfg.Kafka.CommitInterval) * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	defer consumer.Close()

	p := worker.NewProjector(consumer, repository.NewCHPaymentsRepository(chDB), log)

	// tune knobs
	if cfg.Projector.BatchSize > 0 {
		p.BatchSize = cfg.Projector.BatchSize
	}
	if cfg.Projector.BatchWait > 0 {
		p.BatchWait = cfg.Projector.BatchWait
	}

	// 3) graceful shutdown
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("projector started",
		zap.String("topic", cfg.Topics.Payments),
		zap.String("group", groupID),
		zap.Int("batch_size", p.BatchSize),
		zap.Duration("batch_wait", p.BatchWait),
	)

	return p.Run(ctx)
}
