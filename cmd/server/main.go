package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propfolio/internal/config"
	"propfolio/internal/consolidate"
	"propfolio/internal/email/noop"
	"propfolio/internal/email/ses"
	"propfolio/internal/extractor"
	"propfolio/internal/handler"
	"propfolio/internal/port"
	"propfolio/internal/repository/postgres"
	"propfolio/internal/router"
	"propfolio/internal/service"
	"propfolio/internal/storage/s3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: failed to load config: %v", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		log.Fatalf("main: failed to connect to database: %v", err)
	}
	defer db.Close()

	storage, err := s3.NewS3Client(&cfg.S3)
	if err != nil {
		log.Fatalf("main: failed to create S3 client: %v", err)
	}

	emailSender := newEmailSender(cfg)

	propertyRepo := postgres.NewPropertyRepo(db)
	docRepo := postgres.NewDocumentResultRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)

	docExtractor := newDocumentExtractor(cfg)

	consolidator := consolidate.New(consolidate.Options{
		MinConfidence:  cfg.Consolidate.MinConfidence,
		ConfidenceKeys: cfg.Consolidate.ConfidenceKeys,
	})

	authService := service.NewAuthService(cfg.JWT)
	fileService := service.NewFileService(fileRepo, storage, &cfg.S3)
	propertyService := service.NewPropertyService(propertyRepo, docRepo)
	intakeService := service.NewIntakeService(
		docExtractor,
		storage,
		docRepo,
		emailSender,
		consolidator,
		&cfg.S3,
		cfg.Email.NotifyTo,
	)

	handlers := router.Handlers{
		Health:   handler.NewHealthHandler(db),
		Intake:   handler.NewIntakeHandler(intakeService),
		Property: handler.NewPropertyHandler(propertyService),
		File:     handler.NewFileHandler(fileService),
	}

	engine := router.New(cfg, authService, handlers)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("main: server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main: server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("main: shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("main: forced shutdown: %v", err)
	}
	log.Println("main: server stopped")
}

// newDocumentExtractor wires the primary extraction endpoint and, when a
// secondary endpoint is configured, wraps both in a fallback chain.
func newDocumentExtractor(cfg *config.Config) port.DocumentExtractor {
	primary := extractor.NewClient(&cfg.Extractor.Primary)
	secondary := cfg.Extractor.SecondaryConfig()
	if secondary == nil {
		return primary
	}
	return extractor.NewFallbackExtractor(
		[]port.DocumentExtractor{primary, extractor.NewClient(secondary)},
		[]string{"primary", "secondary"},
	)
}

func newEmailSender(cfg *config.Config) port.EmailSender {
	switch cfg.Email.Provider {
	case "ses":
		sender, err := ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			log.Printf("main: SES sender unavailable, falling back to noop: %v", err)
			return noop.NewNoopSender()
		}
		return sender
	default:
		return noop.NewNoopSender()
	}
}
