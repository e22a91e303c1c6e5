package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"papertrade/internal/app/di"
	"papertrade/internal/app/router"
	authadapters "papertrade/internal/feature/auth/adapters"
	authhandler "papertrade/internal/feature/auth/transport/handler"
	authusecase "papertrade/internal/feature/auth/usecase"
	portfolioadapters "papertrade/internal/feature/portfolio/adapters"
	portfoliohandler "papertrade/internal/feature/portfolio/transport/handler"
	portfoliousecase "papertrade/internal/feature/portfolio/usecase"
	quoteshandler "papertrade/internal/feature/quotes/transport/handler"
	quotesusecase "papertrade/internal/feature/quotes/usecase"
	infradb "papertrade/internal/platform/db"
	"papertrade/internal/platform/externalapi/yahoo"
	"papertrade/internal/platform/http/handler"
	jwtmw "papertrade/internal/platform/jwt"
	infraredis "papertrade/internal/platform/redis"
	"papertrade/internal/platform/view"
)

const (
	sessionPurgeInterval = time.Hour
	shutdownTimeout      = 10 * time.Second
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv(), di.Models()...)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("database handle unavailable", "error", err)
		os.Exit(1)
	}
	defer func() { _ = sqlDB.Close() }()

	// Redis (optional)
	var rdb *redisv9.Client
	if redisCfg := infraredis.LoadConfig(); redisCfg.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, redisCfg); err != nil {
			slog.Warn("Redis unavailable; sessions in SQL and search uncached")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	sessionRepo := di.NewSessionRepository(rdb, db)
	ledger := portfolioadapters.NewLedgerGorm(db)
	yahooCfg := yahoo.LoadConfig()
	sources := di.NewQuoteSources(yahooCfg, rdb)

	// Usecase
	authCfg := jwtmw.LoadConfig()
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, jwtmw.NewGenerator(authCfg.Secret), authCfg.SessionTTL)
	quotesUC := quotesusecase.NewQuoteUsecase(sources.Fetcher, sources.Searcher, yahooCfg.Suffix)
	portfolioUC := portfoliousecase.NewPortfolioUsecase(ledger, quotesUC)

	// Handler
	renderer, err := view.NewRenderer()
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}
	cookies := jwtmw.Cookies{Secure: authCfg.CookieSecure, MaxAge: authCfg.SessionTTL}
	checks := map[string]handler.Check{"db": sqlDB.PingContext}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	r := router.NewRouter(
		renderer,
		jwtmw.AuthRequired(authUC, cookies),
		handler.NewHealthHandler(checks),
		authhandler.NewAuthHandler(authUC, cookies),
		portfoliohandler.NewPortfolioHandler(portfolioUC),
		quoteshandler.NewQuoteHandler(quotesUC),
	)

	go purgeSessions(ctx, authUC)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

type sessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// purgeSessions deletes expired SQL sessions until ctx ends.
func purgeSessions(ctx context.Context, p sessionPurger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpiredSessions(ctx)
			if err != nil {
				slog.Warn("failed to purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged expired sessions", "count", n)
			}
		}
	}
}
