package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/film-dashboard/internal/config"
	"github.com/iliyamo/film-dashboard/internal/logging"
	"github.com/iliyamo/film-dashboard/internal/queue"
)

func newConsumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Append film.inserted events to the event log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logging.New(cfg.Log).Named("film-consumer")
			defer func() { _ = log.Sync() }()

			out := logging.RotatingFile(cfg.Events.LogFile, cfg.Log)
			defer func() { _ = out.Close() }()

			log.Info("starting", zap.String("queue", cfg.Events.Queue), zap.String("file", cfg.Events.LogFile))
			err = queue.StartFilmConsumer(cmd.Context(), queue.ConsumerConfig{
				URL:      cfg.Events.URL,
				Queue:    cfg.Events.Queue,
				Prefetch: cfg.Events.Prefetch,
			}, out, log)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
