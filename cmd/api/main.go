package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/forward"
	httpapi "server/internal/http"
	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/providers/airtable"
	"server/internal/providers/chat"
	"server/internal/providers/sheets"
	"server/internal/quota"
	"server/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	// Registration storage: Postgres when configured, in-memory otherwise.
	var users domain.UserRepository
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		users = repo.NewUserRepository(pool)
	} else {
		logger.Warn().Msg("DATABASE_URL not set, registrations are kept in memory only")
		users = repo.NewUserRepositoryMem()
	}

	var completer chat.Completer
	if cfg.OpenAIAPIKey != "" {
		completer, err = chat.NewOpenAICompleter(chat.OpenAIOptions{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build chat completer")
		}
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set, chat requests will fail as misconfigured")
	}

	var forwarders []forward.Forwarder
	if cfg.SheetsWebhookURL != "" {
		client, err := sheets.NewClient(sheets.Options{WebhookURL: cfg.SheetsWebhookURL})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build sheets client")
		}
		forwarders = append(forwarders, client)
	}
	var crm handlers.CRMDirectory
	if cfg.AirtableAPIKey != "" && cfg.AirtableBaseID != "" {
		client, err := airtable.NewClient(airtable.Options{
			APIKey: cfg.AirtableAPIKey,
			BaseID: cfg.AirtableBaseID,
			Table:  cfg.AirtableTable,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build airtable client")
		}
		forwarders = append(forwarders, client)
		crm = client
	}
	dispatcher := forward.NewDispatcher(logger, cfg.ForwardTimeout, forwarders...)

	var sessions session.Store
	if cfg.SessionBackend == "memory" {
		sessions = session.NewMemoryStore()
	} else {
		sessions = session.NewCookieStore()
	}

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		lookup = resolver.CountryCode
	}

	app := &handlers.App{
		Logger:      logger,
		Users:       users,
		Sessions:    sessions,
		Meter:       quota.NewMeter(cfg.FreeQuota),
		Completer:   completer,
		Forwarder:   dispatcher,
		CRM:         crm,
		ChatTimeout: cfg.ChatTimeout,
	}

	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		AllowedOrigins:  cfg.AllowedOrigins,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   lookup,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Logger:          middleware.Logger(logger),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	// Let in-flight signup forwarding drain before exiting.
	dispatcher.Wait()
	logger.Info().Msg("server stopped")
}
