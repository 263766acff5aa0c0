package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/guided-checkout/guided-checkout/internal/api/http"
	appPage "github.com/guided-checkout/guided-checkout/internal/application/page"
	"github.com/guided-checkout/guided-checkout/internal/application/session"
	"github.com/guided-checkout/guided-checkout/internal/application/workflow"
	"github.com/guided-checkout/guided-checkout/internal/config"
	"github.com/guided-checkout/guided-checkout/internal/domain/wizard"
	"github.com/guided-checkout/guided-checkout/internal/infrastructure/commerce"
	"github.com/guided-checkout/guided-checkout/internal/infrastructure/memstore"
	"github.com/guided-checkout/guided-checkout/internal/infrastructure/postgres"
	"github.com/guided-checkout/guided-checkout/internal/infrastructure/redisstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, "internal/migrations"); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	// session store: Redis when configured, in-memory otherwise
	var store wizard.Store
	var mem *memstore.Store
	if cfg.RedisAddr != "" {
		client, err := redisstore.NewClient(ctx, redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("redis error: %v", err)
		}
		defer client.Close()
		store = redisstore.NewStore(client, "")
	} else {
		logger.Warn().Msg("REDIS_ADDR not set, using in-memory session store")
		mem = memstore.New()
		store = mem
	}

	// repositories and collaborators
	pageRepo := postgres.NewPageRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	cartClient := commerce.NewCartClient(cfg.StorefrontAPIURL, logger)

	// services
	sessionSvc := session.NewService(store, cfg.SessionTTL, cfg.WizardVersion, logger)
	pageSvc := appPage.NewService(pageRepo, cfg.PageBaseURL, cfg.SessionTTL, logger)
	validator := workflow.NewValidator(cartClient, cfg.RequiredFields, cfg.StepRules, logger)
	workflowSvc := workflow.NewService(sessionSvc, validator, cartClient, pageSvc, orderRepo, cfg.CheckoutURL, cfg.CartURL, logger)

	// API server
	apiServer := httpapi.NewServer(workflowSvc, pageSvc, cfg.ShopperCookieName, cfg.ShopperCookieSecure, cfg.CheckoutURL, logger)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// expired-session sweep for the in-memory store; Redis reclaims
	// expired keys on its own
	if mem != nil {
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				if removed := mem.Sweep(); removed > 0 {
					logger.Debug().Int("removed", removed).Msg("swept expired wizard sessions")
				}
			}
		}()
	}

	// startup configuration check, surfaced to operators only
	if diag, err := pageSvc.CheckConfiguration(ctx); err == nil && !diag.Healthy {
		logger.Warn().Strs("problems", diag.Problems).Msg("wizard is not fully configured")
	}

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
