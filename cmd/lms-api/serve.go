package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/righttechcentre/lms-api/internal/api"
	"github.com/righttechcentre/lms-api/internal/api/handler"
	"github.com/righttechcentre/lms-api/internal/infrastructure/queue"
	"github.com/righttechcentre/lms-api/internal/infrastructure/scheduler"
	"github.com/righttechcentre/lms-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	var (
		port    string
		noSeed  bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, log, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			if cfg.Seed.OnStart && !noSeed {
				if err := a.seed.Seed(ctx); err != nil {
					return err
				}
			}

			// Webhook notifications are applied by sharded workers so a
			// session's events stay ordered.
			workerCtx, stopWorkers := context.WithCancel(context.Background())
			dispatcher := queue.NewDispatcher(workers, a.payments, logger.Component("dispatcher"))
			dispatcher.Start(workerCtx)
			a.payments.UseQueue(dispatcher)

			var sched *scheduler.Scheduler
			if cfg.Reconcile.Schedule != "" {
				sched = scheduler.New(scheduler.Config{
					Schedule:   cfg.Reconcile.Schedule,
					PendingAge: cfg.Reconcile.PendingAge,
				}, a.payments, a.enrollmentRepo, a.courseRepo, logger.Component("scheduler"))
				if err := sched.Start(); err != nil {
					stopWorkers()
					return err
				}
			}

			health := map[string]handler.Pinger{"mongodb": handler.PingFunc(a.pingMongo)}
			if a.redis != nil {
				health["redis"] = handler.PingFunc(a.pingRedis)
			}

			e := api.NewRouter(api.Dependencies{
				JWTSecret:    cfg.JWTSecret,
				CORSOrigins:  cfg.CORSOrigins,
				Auth:         a.auth,
				Users:        a.users,
				Courses:      a.courses,
				Enrollments:  a.enrollments,
				Payments:     a.payments,
				Tutor:        a.tutor,
				Certificates: a.certificates,
				Analytics:    a.analytics,
				Health:       health,
				Log:          logger.Component("http"),
			})

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
				if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			var serveErr error
			select {
			case serveErr = <-errCh:
				log.Error().Err(serveErr).Msg("server error")
			case <-ctx.Done():
				log.Info().Msg("shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := e.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("could not stop server gracefully")
				_ = e.Close()
			}
			if sched != nil {
				sched.Stop(shutdownCtx)
			}
			stopWorkers()
			dispatcher.Wait()

			log.Info().Msg("server stopped")
			return serveErr
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "skip startup seeding")
	cmd.Flags().IntVar(&workers, "workers", 4, "webhook dispatcher workers")

	return cmd
}
