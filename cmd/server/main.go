package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/programmatix/game-tracker/internal/config"
	fxmodules "github.com/programmatix/game-tracker/internal/fx"
	"github.com/programmatix/game-tracker/internal/mock"
	"github.com/programmatix/game-tracker/internal/monitor"
	"github.com/programmatix/game-tracker/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	mockMode := flag.Bool("mock", false, "Generate a synthetic play log instead of reading one")
	mockSeed := flag.Int64("mock-seed", 1, "Seed for -mock play generation")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	flag.Parse()

	fx.New(
		fx.Supply(fxmodules.Flags{
			ConfigPath: *configPath,
			Port:       *port,
			Mock:       *mockMode,
			MockSeed:   *mockSeed,
		}),
		fxmodules.Module,
		fx.NopLogger,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	flags fxmodules.Flags,
	cfg *config.Config,
	server *ws.Server,
	broadcaster *ws.Broadcaster,
	mon *monitor.Monitor,
	gen *mock.Generator,
	db *sql.DB,
	logger zerolog.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if flags.Mock {
				logger.Info().Str("path", cfg.Ladder.PlaysPath).Msg("starting in mock mode")
				// Seed synchronously so the watcher finds the file.
				if err := mock.WriteFile(cfg.Ladder.PlaysPath, gen.Generate(40)); err != nil {
					return err
				}
				go func() {
					if err := gen.Run(runCtx, cfg.Ladder.PlaysPath, 0, 5*time.Second); err != nil {
						logger.Error().Err(err).Msg("mock generator stopped")
					}
				}()
			}

			go func() {
				if err := mon.Start(runCtx); err != nil {
					logger.Error().Err(err).Msg("monitor stopped")
				}
			}()

			go func() {
				logger.Info().Str("addr", srv.Addr).Bool("auth", cfg.Server.AuthToken != "").Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			cancel()
			broadcaster.Stop()

			shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
			defer stop()

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
