package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/farmbit/mobile-api/internal/config"
	"github.com/farmbit/mobile-api/internal/handler"
	"github.com/farmbit/mobile-api/internal/repository"
	"github.com/farmbit/mobile-api/internal/server"
	"github.com/farmbit/mobile-api/internal/usecase"
	"github.com/farmbit/mobile-api/shared/auth"
	"github.com/farmbit/mobile-api/shared/discovery"
	"github.com/farmbit/mobile-api/shared/mailer"
	"github.com/farmbit/mobile-api/shared/upload"
	"github.com/farmbit/mobile-api/shared/validation"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Parse()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := repository.Connect(ctx, cfg.MongoURI)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.Database())

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	userRepo := repository.NewUserMongoRepository(indexCtx, &logger, db)
	businessRepo := repository.NewBusinessMongoRepository(indexCtx, &logger, db)
	verificationRepo := repository.NewPendingVerificationMongoRepository(indexCtx, &logger, db)
	cancel()

	transactor := repository.NewMongoTransactor(client)

	jwtAuth := auth.NewJWTAuthenticator(
		cfg.TokenSecret,
		cfg.TokenIssuer,
		cfg.AccessTokenExpiry,
		cfg.RefreshTokenExpiry,
	)

	var mail usecase.MailSender
	if m, err := mailer.NewMailer(); err != nil {
		logger.Warn().Err(err).Msg("mailer unavailable; verification codes will only be logged")
		mail = &logMailSender{logger: &logger}
	} else {
		mail = m
	}

	validate, err := validation.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build validator")
	}

	saver := upload.NewSaver(cfg.FilesDir, cfg.MaxFileSizeBytes())

	accountUsecase := usecase.NewAccountUsecase(userRepo, transactor)
	authUsecase := usecase.NewAuthUsecase(userRepo, jwtAuth)
	resetUsecase := usecase.NewPasswordResetUsecase(userRepo, verificationRepo, transactor, mail, cfg.VerificationExpiry)
	businessUsecase := usecase.NewBusinessUsecase(businessRepo, transactor)

	userHandler := handler.NewUserHandler(
		accountUsecase, authUsecase, resetUsecase, validate, saver, &logger, cfg.MaxFileSizeMB)
	businessHandler := handler.NewBusinessHandler(
		businessUsecase, validate, saver, &logger, cfg.MaxFileSizeMB)
	authMiddleware := handler.NewAuthMiddleware(jwtAuth, authUsecase, &logger)

	router := server.NewRouter(server.Deps{
		Config:     cfg,
		Logger:     &logger,
		User:       userHandler,
		Business:   businessHandler,
		Auth:       authMiddleware,
		AvatarsDir: saver.Dir("avatars"),
		HealthCheck: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	if cfg.ConsulRegister {
		registrar, err := discovery.Register(cfg.ServiceName, cfg.AdvertiseHost, cfg.Port)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to register with consul")
		}
		defer func() {
			if err := registrar.Deregister(); err != nil {
				logger.Error().Err(err).Msg("failed to deregister from consul")
			}
		}()
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Int("port", cfg.Port).Str("env", cfg.Environment).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-shutdownCtx.Done()
	logger.Info().Msg("shutting down")

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// logMailSender stands in for SMTP in environments without mail settings.
type logMailSender struct {
	logger *zerolog.Logger
}

func (s *logMailSender) SendSimple(to []string, subject, body string) error {
	s.logger.Info().Strs("to", to).Str("subject", subject).Msg(body)
	return nil
}
