package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/lib/pq"

	"crmkit/internal/instanceconfig"
	configcache "crmkit/internal/instanceconfig/cache"
	configmetrics "crmkit/internal/instanceconfig/metrics"
	configstore "crmkit/internal/instanceconfig/store"
	"crmkit/internal/mailsanitizer"
	mailmetrics "crmkit/internal/mailsanitizer/metrics"
	mailstore "crmkit/internal/mailsanitizer/store"
	"crmkit/internal/platform/config"
	"crmkit/internal/platform/httpserver"
	"crmkit/internal/platform/logger"
	platformredis "crmkit/internal/platform/redis"
	"crmkit/pkg/platform/middleware/requestmeta"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal feature packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment)

	ctx := context.Background()

	resolver, sanitizer, cleanup, err := buildServices(ctx, cfg, log)
	if err != nil {
		log.Error("service wiring failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	r := chi.NewRouter()
	r.Use(requestmeta.Middleware)

	instanceconfig.NewHandler(resolver, log).Register(r)
	if sanitizer != nil {
		mailsanitizer.NewHandler(sanitizer, log).Register(r)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, r)

	log.Info("starting crmkit", "addr", cfg.Addr, "env", cfg.Environment)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// buildServices constructs the resolver and sanitizer against PostgreSQL
// when DATABASE_URL is set, else against empty in-memory stores (useful for
// local smoke runs). The returned cleanup closes owned connections.
func buildServices(ctx context.Context, cfg config.Server, log *slog.Logger) (*instanceconfig.Resolver, *mailsanitizer.Sanitizer, func(), error) {
	var (
		cfgStore instanceconfig.Store
		dirStore mailsanitizer.DirectoryStore
		closers  []func() error
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		closers = append(closers, db.Close)
		cfgStore = configstore.NewPostgres(db)
		dirStore = mailstore.NewPostgres(db)
	} else {
		log.Warn("DATABASE_URL not set, using empty in-memory stores")
		cfgStore = configstore.NewInMemory()
		dirStore = mailstore.NewInMemory()
	}

	resolverOpts := []instanceconfig.Option{
		instanceconfig.WithLogger(log),
		instanceconfig.WithMetrics(configmetrics.New()),
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, resolver cache disabled", "error", err)
	} else if redisClient != nil {
		closers = append(closers, redisClient.Close)
		resolverOpts = append(resolverOpts,
			instanceconfig.WithCache(configcache.NewRedis(redisClient.Client, configcache.WithLogger(log))),
		)
	}

	resolver, err := instanceconfig.NewResolver(ctx, cfgStore, cfg.InstanceName, resolverOpts...)
	if err != nil {
		runClosers(closers)
		return nil, nil, nil, err
	}

	cleanup := func() { runClosers(closers) }

	// The sanitizer exists to protect non-production environments; in
	// production its endpoint is simply not mounted.
	if cfg.IsProduction() {
		log.Warn("production environment, mail sanitizer endpoint not mounted")
		return resolver, nil, cleanup, nil
	}

	sanitizer, err := mailsanitizer.New(dirStore, sanitizerPolicy(ctx, cfg, resolver),
		mailsanitizer.WithLogger(log),
		mailsanitizer.WithMetrics(mailmetrics.New()),
	)
	if err != nil {
		runClosers(closers)
		return nil, nil, nil, err
	}

	return resolver, sanitizer, cleanup, nil
}

// sanitizerPolicy resolves the mail policy through the config resolver with
// environment fallbacks, mirroring how the hosting platform sources it.
func sanitizerPolicy(ctx context.Context, cfg config.Server, resolver *instanceconfig.Resolver) mailsanitizer.Policy {
	whitelist := resolveOr(ctx, resolver, "mail_whitelist", cfg.MailWhitelist)
	groups := resolveOr(ctx, resolver, "mail_exempt_groups", cfg.MailExemptGroups)
	suffix := resolveOr(ctx, resolver, "mail_suffix", cfg.MailSuffix)

	return mailsanitizer.Policy{
		Whitelist:      whitelist,
		ExemptGroupIDs: splitGroups(groups),
		Suffix:         suffix,
	}
}

func resolveOr(ctx context.Context, resolver *instanceconfig.Resolver, key, fallback string) string {
	if value, found, err := resolver.Resolve(ctx, key); err == nil && found {
		return value
	}
	return fallback
}

func splitGroups(raw string) []string {
	var groups []string
	for _, g := range strings.Split(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}

func runClosers(closers []func() error) {
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i]()
	}
}
