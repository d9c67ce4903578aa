// Package main запускает HTTP-сервер сервиса SwipeRight.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/swiperight/swiperight-system/internal/auth"
	"github.com/swiperight/swiperight-system/internal/cardmeta"
	"github.com/swiperight/swiperight-system/internal/chat"
	"github.com/swiperight/swiperight-system/internal/config"
	"github.com/swiperight/swiperight-system/internal/handler"
	"github.com/swiperight/swiperight-system/internal/middleware"
	"github.com/swiperight/swiperight-system/internal/repository"
	"github.com/swiperight/swiperight-system/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}
	defer repo.Close()

	var chatClient *chat.Client
	if cfg.ChatAPIAddress != "" && cfg.ChatAPIKey != "" {
		chatClient = chat.NewClient(cfg.ChatAPIAddress, cfg.ChatAPIKey)
	}

	var cardClient *cardmeta.Client
	if cfg.CardAPIAddress != "" {
		cardClient = cardmeta.NewClient(cfg.CardAPIAddress, cfg.CardAPIKey)
	}

	tokens := auth.NewTokenService(cfg.AuthSecret)

	svc := service.NewService(repo, tokens, chatClient, cardClient)
	defer svc.Close()

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	h := handler.NewHandler(svc, logger, authMiddleware)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting swiperight server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
