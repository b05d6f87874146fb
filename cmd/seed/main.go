package main

import (
	"context"
	"log"
	"os"

	"tea-referrals/internal/config"
	"tea-referrals/internal/db"
	customerrepo "tea-referrals/internal/repository/customer"
	referralrepo "tea-referrals/internal/repository/referral"
	salerepo "tea-referrals/internal/repository/sale"
	"tea-referrals/internal/seed"
	referralsvc "tea-referrals/internal/service/referral"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.DBConnString == "" {
		logger.Fatal("DB_DSN is required for seeding")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	svc := referralsvc.New(
		customerrepo.NewPostgres(pool, logger),
		referralrepo.NewPostgres(pool, logger),
		salerepo.NewPostgres(pool),
		logger,
	)

	if err := seed.Apply(ctx, svc); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
