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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"vidhub/internal/config"
	"vidhub/internal/es"
	"vidhub/internal/handlers"
	"vidhub/internal/httpx"
	"vidhub/internal/logging"
	"vidhub/internal/media"
	middlewareauth "vidhub/internal/middleware/auth"
	loggingmw "vidhub/internal/middleware/logging"
	"vidhub/internal/mykafka"
	"vidhub/internal/repo"
	"vidhub/internal/service"
	httpserver "vidhub/internal/transport/http"
)

const channelIndex = "channels"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	store, err := media.NewS3Store(context.Background(), configuration)
	if err != nil {
		log.Fatalf("media store error: %v", err)
	}

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer(configuration.KAFKA_ADDRESS)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Printf("elasticsearch unavailable, channel search disabled: %v", err)
		esClient = nil
	}

	repository := repo.New(db)

	authService := &service.AuthService{
		Repo:          repository,
		Media:         store,
		AccessSecret:  []byte(configuration.ACCESS_SECRET),
		RefreshSecret: []byte(configuration.REFRESH_SECRET),
		AccessTTL:     configuration.ACCESS_TTL,
		RefreshTTL:    configuration.REFRESH_TTL,
	}
	userService := &service.UserService{Repo: repository, Media: store}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpx.ErrorHandler
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))
	if configuration.CORS_ORIGIN != "" {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     []string{configuration.CORS_ORIGIN},
			AllowCredentials: true,
		}))
	}

	deps := httpserver.Deps{
		AuthHandler: &handlers.AuthHandler{Auth: authService, Producer: producer, ES: esClient, Index: channelIndex},
		UserHandler: &handlers.UserHandler{Users: userService, ES: esClient, Index: channelIndex},
		AuthGate: &middlewareauth.Middleware{
			Repo:         repository,
			AccessSecret: []byte(configuration.ACCESS_SECRET),
		},
	}
	if esClient != nil {
		deps.SearchHandler = &handlers.SearchHandler{ES: esClient, Index: channelIndex}
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.APP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
