package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"task-board.com/task-board/internal/board"
	config "task-board.com/task-board/internal/configs"
	"task-board.com/task-board/internal/feed"
	httpapi "task-board.com/task-board/internal/http"
	"task-board.com/task-board/internal/identity"
	repository "task-board.com/task-board/internal/repositories"
	"task-board.com/task-board/internal/services"
	"task-board.com/task-board/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task board HTTP API, the change feed and the task timers",
	RunE: func(cmd *cobra.Command, args []string) error {
		envErr := godotenv.Load()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := config.NewLogger(cfg)
		if envErr != nil {
			logger.Debug().Msg(".env file not found, using environment variables")
		}

		database, err := config.NewDatabaseClient(cfg.DatabaseDSN)
		if err != nil {
			logger.Error().Err(err).Str("dsn", cfg.DatabaseDSN).Msg("failed to open database")
			return err
		}

		notifier, closeNotifier, err := newNotifier(cfg, logger)
		if err != nil {
			return err
		}
		defer closeNotifier()

		st := store.New(
			repository.NewTaskRepository(database),
			repository.NewTagRepository(database),
			notifier,
			logger,
		)

		ident := identity.NewAnonymous()
		b := board.New(st, ident, board.Options{
			TickInterval: cfg.TickInterval(),
			Language:     cfg.Language(),
		}, logger)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		background := services.NewRuntime(logger)
		background.Start(ctx,
			services.Loop{Name: "feed", Run: st.Run},
			services.Loop{Name: "board", Run: b.Run},
		)

		if err := signIn(ctx, cfg, repository.NewOwnerRepository(database), ident); err != nil {
			logger.Error().Err(err).Msg("sign-in failed, board stays loading")
		} else {
			ownerID, _ := ident.OwnerID(ctx)
			logger.Info().Str("owner_id", ownerID).Msg("signed in")
		}

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		httpapi.Register(e, httpapi.NewHandler(b, logger), cfg.RateLimit, logger)

		go func() {
			logger.Info().Str("addr", cfg.AppURL()).Msg("HTTP server listening")
			if err := e.Start(cfg.AppURL()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("server stopped")
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("HTTP server shutdown failed")
		}
		if err := background.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("background loops did not stop cleanly")
		}

		logger.Info().Msg("HTTP server, change feed and timers shut down gracefully")
		return nil
	},
}

// signIn resolves the owner: OWNER_ID when set, otherwise the anonymous
// owner stored in the database, created on first start.
func signIn(ctx context.Context, cfg config.Config, owners *repository.OwnerRepository, ident *identity.Anonymous) error {
	ownerID := cfg.OwnerID
	if ownerID == "" {
		var err error
		ownerID, err = owners.Anonymous(ctx)
		if err != nil {
			ident.Fail(err)
			return err
		}
	}
	ident.SignIn(ownerID)
	return nil
}

// newNotifier picks the Redis change feed when REDIS_ADDR is set, and the
// in-process one otherwise.
func newNotifier(cfg config.Config, logger zerolog.Logger) (feed.Notifier, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info().Msg("using in-process change feed")
		return feed.NewMemoryNotifier(), func() {}, nil
	}

	client, err := config.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("change feed: %w", err)
	}
	logger.Info().
		Str("addr", cfg.RedisAddr).
		Str("channel", cfg.RedisFeedChannel).
		Msg("using redis change feed")
	return feed.NewRedisNotifier(client, cfg.RedisFeedChannel), client.Close, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
