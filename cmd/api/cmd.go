package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/GregMSThompson/verify-backend/internal/bootstrap"
	"github.com/GregMSThompson/verify-backend/internal/cache"
	"github.com/GregMSThompson/verify-backend/internal/config"
	"github.com/GregMSThompson/verify-backend/internal/handlers"
	"github.com/GregMSThompson/verify-backend/internal/middleware"
	"github.com/GregMSThompson/verify-backend/internal/response"
	"github.com/GregMSThompson/verify-backend/internal/router"
	"github.com/GregMSThompson/verify-backend/internal/services"
	"github.com/GregMSThompson/verify-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// cache + stores
	recordCache := cache.NewTransactionCache(cfg.PendingTTL, cfg.CacheTTL)
	tstore := store.NewTransactionStore(bs.Firestore)

	// services
	validator := services.NewValidationService(cfg.RelaxedPrefixLookup())
	resolver := services.NewResolutionService(
		tstore, recordCache, bs.Verifier, validator,
		cfg.VerificationMode, cfg.PendingTTL, cfg.RecordTTL, cfg.VerifierTimeout)
	statsSvc := services.NewStatsService(tstore, recordCache)
	chainSvc := services.NewBlockchainService(bs.Blockchain, validator)

	// expiry janitor
	janitor := services.NewExpiryJanitor(tstore, time.Hour, bs.Log)
	go janitor.Run(context.Background())

	// response handler
	rh := response.New(bs.Log)

	// rate limiter
	rateLimiter := middleware.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, bs.Log)
	defer rateLimiter.Stop()

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.TransactionSvc = resolver
	deps.StatsSvc = statsSvc
	deps.BlockchainSvc = chainSvc

	// router
	r := router.NewRouter(deps, rateLimiter)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
