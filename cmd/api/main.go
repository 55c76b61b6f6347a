package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/studybuddy-api/internal/application/course"
	"github.com/studybuddy-api/internal/application/match"
	"github.com/studybuddy-api/internal/application/otc"
	"github.com/studybuddy-api/internal/application/student"
	"github.com/studybuddy-api/internal/config"
	"github.com/studybuddy-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/studybuddy-api/internal/infrastructure/jwt"
	"github.com/studybuddy-api/internal/infrastructure/smtp"
	"github.com/studybuddy-api/internal/metrics"
	"github.com/studybuddy-api/internal/pkg/logger"
	transporthttp "github.com/studybuddy-api/internal/transport/http"
	"github.com/studybuddy-api/internal/worker/dispatch"
)

// dispatchTimeout bounds a single code delivery.
const dispatchTimeout = 30 * time.Second

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)
	if envErr != nil {
		log.Info("no .env file found, reading from environment")
	}

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := dynamo.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}
	dynamoClient := dynamo.NewClient(awsCfg, cfg)
	// Creates tables that don't exist yet.
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	studentRepo := dynamo.NewStudentRepo(dynamoClient, cfg.DynamoTables.Students)
	otcRepo := dynamo.NewOTCRepo(dynamoClient, cfg.DynamoTables.OTCs)
	courseRepo := dynamo.NewCourseRepo(dynamoClient, cfg.DynamoTables.Courses)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("jwt provider: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	var sender otc.CodeSender
	if cfg.SMTPHost == "" {
		log.Warn("SMTP_HOST not set, one-time codes will be logged instead of mailed")
		sender = smtp.NewLogSender(log)
	} else {
		sender = smtp.NewCodeSender(smtp.NewMailer(cfg), cfg.OTCTTL)
	}
	pool := dispatch.NewPool(cfg.DispatchWorkers, cfg.DispatchQueueSize, dispatchTimeout, log)

	authority := otc.NewAuthority(otc.Deps{
		Store:      otcRepo,
		Sender:     sender,
		Dispatcher: pool,
		TTL:        cfg.OTCTTL,
		Recorder:   collector,
	})
	matchSvc, err := match.NewService(match.ServiceDeps{
		StudentRepo: studentRepo,
		Weights:     match.Weights(cfg.Weights),
		Recorder:    collector,
	})
	if err != nil {
		return fmt.Errorf("match service: %w", err)
	}
	studentSvc := student.NewService(student.ServiceDeps{
		StudentRepo: studentRepo,
		OTC:         authority,
		JWTProvider: jwtProvider,
		Options:     cfg.Options,
		EmailSuffix: cfg.AllowedEmailSuffix,
	})

	router := transporthttp.NewRouter(ctx, cfg, &transporthttp.Deps{
		Students:    studentSvc,
		Matches:     matchSvc,
		OTC:         authority,
		Courses:     course.NewService(courseRepo),
		JWTProvider: jwtProvider,
		Metrics:     metrics.Handler(reg),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.Warn("dispatch queue not drained", "err", err)
	}
	log.Info("server stopped")
	return nil
}
