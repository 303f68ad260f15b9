package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skinsense-backend/internal/config"
	"skinsense-backend/internal/handlers"
	"skinsense-backend/internal/logging"
	"skinsense-backend/internal/middleware"
	"skinsense-backend/internal/notify"
	"skinsense-backend/internal/repository"
	"skinsense-backend/internal/router"
	"skinsense-backend/internal/session"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger config depends on cfg, so fall back to a plain production logger
		zap.Must(zap.NewProduction()).Fatal("❌ Failed to load configuration", zap.Error(err))
	}

	logger, err := logging.New(cfg.Production)
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("❌ Failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	ctx := context.Background()
	warnWeakSettings(ctx, logger, cfg)

	// Connect to the feedback store
	feedbackRepo, target, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal(ctx, "❌ Failed to open database", zap.Error(err))
	}
	defer feedbackRepo.Close(context.Background())

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := feedbackRepo.Init(initCtx); err != nil {
		cancel()
		logger.Fatal(ctx, "❌ Failed to initialise database", zap.Error(err))
	}
	cancel()
	logger.Info(ctx, "✅ Database ready", zap.String("driver", string(target.Driver)))

	sessionStore, closeStore := newSessionStore(ctx, logger, cfg)
	defer closeStore()

	sessions := session.NewManager(sessionStore, cfg.Session.Secret, cfg.Session.TTL, cfg.Production)
	authorizer := middleware.NewAdminAuthorizer(sessions, cfg.Admin.User, cfg.Admin.Pass, cfg.Admin.Token)

	static, err := handlers.NewStaticHandler(cfg.StaticDir)
	if err != nil {
		logger.Fatal(ctx, "❌ Invalid static directory", zap.Error(err))
	}

	handler := router.New(router.Deps{
		Logger:       logger,
		FeedbackRepo: feedbackRepo,
		Notifier:     newNotifier(cfg, logger),
		Sessions:     sessions,
		Authorizer:   authorizer,
		Static:       static,
		ExportPath:   cfg.ExportPath,
		CORSOrigins:  cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(ctx, "🚀 Feedback backend starting",
		zap.String("port", cfg.Port),
		zap.Bool("production", cfg.Production),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(ctx, "❌ Server failed", zap.Error(err))
	}
	logger.Info(ctx, "server stopped")
}

func warnWeakSettings(ctx context.Context, logger *logging.Logger, cfg *config.Config) {
	if !cfg.AdminCredentialsSet() {
		logger.Warn(ctx, "⚠️  ADMIN_USER/ADMIN_PASS not set: admin login and Basic auth are disabled")
	}
	if cfg.Admin.Token == "" {
		logger.Debug(ctx, "ADMIN_TOKEN not set: token access disabled")
	}
	if cfg.GeneratedSecret() {
		logger.Warn(ctx, "⚠️  SESSION_SECRET not set: using a random secret, sessions end on restart")
	}
	if !cfg.Production {
		logger.Debug(ctx, "loaded admin settings",
			zap.String("admin_user", cfg.Admin.User),
			zap.Bool("admin_pass_set", cfg.Admin.Pass != ""),
		)
	}
}

func newSessionStore(ctx context.Context, logger *logging.Logger, cfg *config.Config) (session.Store, func()) {
	if cfg.RedisURL == "" {
		return session.NewMemoryStore(), func() {}
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	store, err := session.NewRedisStoreFromURL(pingCtx, cfg.RedisURL)
	if err != nil {
		logger.Fatal(ctx, "❌ Failed to connect to Redis", zap.Error(err))
	}
	logger.Info(ctx, "✅ Using Redis session store")
	return store, func() { store.Close() }
}

func newNotifier(cfg *config.Config, logger *logging.Logger) notify.Notifier {
	if cfg.EmailNotificationsEnabled() {
		return notify.NewEmailNotifier(cfg.Notify.ResendAPIKey, cfg.Notify.From, cfg.NotifyRecipients())
	}
	return notify.NewLogNotifier(logger)
}
