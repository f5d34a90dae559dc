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

	"github.com/ErlanBelekov/briefly/config"
	"github.com/ErlanBelekov/briefly/internal/health"
	"github.com/ErlanBelekov/briefly/internal/infrastructure/stores"
	ctxlog "github.com/ErlanBelekov/briefly/internal/log"
	"github.com/ErlanBelekov/briefly/internal/metrics"
	"github.com/ErlanBelekov/briefly/internal/summary"
	httptransport "github.com/ErlanBelekov/briefly/internal/transport/http"
	"github.com/ErlanBelekov/briefly/internal/transport/http/handler"
	"github.com/ErlanBelekov/briefly/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	st, err := stores.Open(ctx, cfg, logger)
	if err != nil {
		stop()
		log.Fatalf("stores: %v", err)
	}
	defer st.Close()

	// Auth
	sessions := usecase.NewSessionManager(st.Sessions, []byte(cfg.JWTSecret), usecase.WithSessionTTL(cfg.SessionTTL))
	authUsecase := usecase.NewAuthUsecase(st.Users, sessions, usecase.WithBcryptCost(cfg.BcryptCost))
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Summaries
	var provider summary.Provider
	if cfg.SummariesEnabled() {
		provider = summary.NewOpenAIProvider(summary.OpenAIConfig{
			APIKey:    cfg.OpenAIAPIKey,
			BaseURL:   cfg.OpenAIBaseURL,
			Model:     cfg.OpenAIModel,
			MaxTokens: cfg.SummaryMaxTokens,
		})
	} else {
		logger.Info("OPENAI_API_KEY not set, serving local summaries only")
	}
	summarizer := summary.New(provider, summary.Config{Timeout: cfg.SummaryTimeout, Logger: logger})

	// Articles
	articleUsecase := usecase.NewArticleUsecase(st.Articles)
	articleHandler := handler.NewArticleHandler(articleUsecase, summarizer, logger)
	summaryHandler := handler.NewSummaryHandler(summarizer, logger)

	metrics.Register()
	checker := health.NewChecker(st.Deps, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, httptransport.Handlers{
			Auth:    authHandler,
			Article: articleHandler,
			Summary: summaryHandler,
		}, sessions),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "store", cfg.StoreDriver, "sessions", cfg.SessionStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}
