package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"reciclaje-quiz-service/internal/app"
	"reciclaje-quiz-service/internal/config"
	"reciclaje-quiz-service/internal/infra/memory"
	pgloader "reciclaje-quiz-service/internal/infra/postgres"
	redisstore "reciclaje-quiz-service/internal/infra/redis"
	"reciclaje-quiz-service/internal/logging"
	transport "reciclaje-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = newRedisClient(cfg)
		defer redisClient.Close()
	}

	var loader memory.PoolLoader = memory.NewStaticPoolLoader(app.DefaultPool())
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgloader.NewPoolLoader(pool)
	}

	poolTTL := config.TTLDuration(cfg.Quiz.PoolTTL, 10*time.Minute)
	var pools app.PoolRepository
	var store app.SessionRepository
	if redisClient != nil {
		pools = redisstore.NewPoolRepository(redisClient, loader, poolTTL)
		store = redisstore.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute), logger)
	} else {
		pools = memory.NewPoolRepository(loader, poolTTL)
		store = memory.NewSessionStore()
	}

	backends, err := buildModels(cfg.Providers)
	if err != nil {
		return err
	}
	defer backends.Close()
	logger.Info("providers configured",
		"vision", cfg.Providers.Vision,
		"images", cfg.Providers.Images,
		"text", cfg.Providers.Text,
	)

	picker := app.NewTimeSeededPicker()
	classifier := app.NewClassifier(backends.vision, logger)
	synth := app.NewQuestionSynthesizer(backends.text, backends.images, pools, picker, logger)
	tips := app.NewTipProvider(backends.text, pools, picker, logger)
	quiz := app.NewQuizService(store, synth, logger).
		WithFetchTimeout(config.TTLDuration(cfg.Quiz.FetchTimeout, 2*time.Minute))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewServer(classifier, synth, tips, quiz, logger),
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 60*time.Second),
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 120*time.Second),
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case err := <-serveErr:
		logger.Error("server failed", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	quiz.Wait()
	return err
}

func newRedisClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
