package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tea-referrals/internal/config"
	"tea-referrals/internal/db"
	"tea-referrals/internal/httpserver"
	"tea-referrals/internal/openai"
	customerrepo "tea-referrals/internal/repository/customer"
	referralrepo "tea-referrals/internal/repository/referral"
	salerepo "tea-referrals/internal/repository/sale"
	chatsvc "tea-referrals/internal/service/chat"
	referralsvc "tea-referrals/internal/service/referral"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var pool *pgxpool.Pool
	var customers customerrepo.Repository
	var codes referralrepo.Repository
	var sales salerepo.Repository

	if cfg.DBConnString != "" {
		var err error
		pool, err = db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()
		customers = customerrepo.NewPostgres(pool, logger)
		codes = referralrepo.NewPostgres(pool, logger)
		sales = salerepo.NewPostgres(pool)
		logger.Printf("using postgres stores")
	} else {
		customers = customerrepo.NewMemory()
		codes = referralrepo.NewMemory()
		sales = salerepo.NewMemory()
		logger.Printf("no DB_DSN set, using in-memory stores")
	}

	referralService := referralsvc.New(customers, codes, sales, logger)

	var model chatsvc.Completer
	if cfg.OpenAIAPIKey != "" {
		model = openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, openai.Options{
			Model:       cfg.OpenAIModel,
			MaxTokens:   cfg.OpenAIMaxTokens,
			Temperature: cfg.OpenAITemperature,
			Timeout:     cfg.OpenAITimeout,
			RatePerSec:  cfg.OpenAIRatePerSec,
		})
		logger.Printf("conversational model enabled (%s)", cfg.OpenAIModel)
	} else {
		logger.Printf("no OPENAI_API_KEY set, chat runs in rules-only mode")
	}

	chatService, err := chatsvc.New(referralService, model, logger)
	if err != nil {
		logger.Fatalf("init chat service: %v", err)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, pool, httpserver.Deps{
		ReferralSvc: referralService,
		ChatSvc:     chatService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
