package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"ecobloom/internal/config"
	"ecobloom/internal/database"
	"ecobloom/internal/handlers"
	"ecobloom/internal/mailer"
	"ecobloom/internal/middleware"
	"ecobloom/internal/services"
	"ecobloom/internal/storage"
	"ecobloom/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	autoMigrate     bool
	shutdownTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		cmd.Flags().BoolVar(&autoMigrate, "migrate", true, "Create tables or indexes before serving")
		cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Grace period for in-flight requests")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())
	if autoMigrate {
		if err := conn.Migrate(ctx); err != nil {
			return err
		}
	}

	var blobs services.BlobStore
	if cfg.S3Bucket != "" {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Region:        cfg.AWSRegion,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
			MaxDimension:  cfg.ImageMaxDimension,
		})
		if err != nil {
			return err
		}
		blobs = store
	} else {
		log.Warn("S3_BUCKET not set, image uploads are disabled")
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.DefaultConfig(cfg.RabbitMQURL), log)
		if err != nil {
			return err
		}
		defer mq.Close()
		if err := mq.ConsumeOrderEvents(ctx, rabbitmq.AuditHandler(log)); err != nil {
			return err
		}
		publisher = mq
	} else {
		log.Warn("RABBITMQ_URL not set, order events are not published")
	}

	app := handlers.NewApp(buildDeps(cfg, conn, blobs, publisher, log))

	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting server", "addr", cfg.AppPort, "driver", cfg.DBDriver)
		errCh <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Errorw("error during shutdown", "error", err)
	}
	log.Info("server gracefully stopped")
	return nil
}

func buildDeps(cfg *config.Config, conn *database.Connection, blobs services.BlobStore, publisher services.EventPublisher, log *zap.SugaredLogger) handlers.Deps {
	store := conn.Store
	mail := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.MailUser,
		Password: cfg.MailPass,
		From:     cfg.MailFrom,
	})
	auth := services.NewAuthService(store.Users, mail, services.AuthConfig{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		OTPTTL:    cfg.OTPTTL,
	}, log)

	return handlers.Deps{
		Auth:        auth,
		Categories:  services.NewCategoryService(store.Categories),
		Plants:      services.NewPlantService(store.Plants, store.Categories, blobs, cfg.ImageMaxBytes, log),
		Orders:      services.NewOrderService(store.Orders, store.Plants, publisher, log),
		Contacts:    services.NewContactService(store.Contacts),
		Cookie:      handlers.CookieConfig{Name: cfg.CookieName, Secure: cfg.CookieSecure},
		FrontendURL: cfg.FrontendURL,
		RateLimiter: middleware.NewRateLimiter(cfg.RateLimitPerMinute),
		OTPAttempts: cfg.OTPAttempts,
		OTPWindow:   cfg.OTPAttemptWindow,
		// multipart overhead on top of the image itself
		BodyLimit: int(cfg.ImageMaxBytes) + 1<<20,
		AccessLog: true,
		Log:       log,
	}
}
