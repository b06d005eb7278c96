package main

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/contalink/erp-sync-service/common/config"
	"github.com/contalink/erp-sync-service/common/db"
	"github.com/contalink/erp-sync-service/common/legacy"
	"github.com/contalink/erp-sync-service/common/registry"
	"github.com/contalink/erp-sync-service/common/services"
	"github.com/contalink/erp-sync-service/common/syncer"
	"github.com/contalink/erp-sync-service/handler"
	"github.com/contalink/erp-sync-service/middlewares"
)

//go:embed docs/swagger.json
var swaggerDoc []byte

type AppHttpServer struct {
	router *chi.Mux
	cfg    config.Config
	server *http.Server

	db             *db.DB
	gateway        legacy.Gateway
	registryClient registry.Client
	connections    services.ConnectionConfigService
	registryCfg    services.RegistryConfigService
	flags          services.CompanyFlagService
	logs           services.SyncLogService
	catalog        *syncer.Catalog
	orchestrator   *syncer.Orchestrator
}

func NewAppHttpServer(cfg config.Config) (*AppHttpServer, error) {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-KEY"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Batch enqueue pages through the whole legacy supplier roster before it
	// answers, so the request timeout is generous.
	r.Use(middleware.Timeout(2 * time.Minute))

	server := &AppHttpServer{
		router: r,
		cfg:    cfg,
	}
	return server, nil
}

// SetDependencies injects everything the route handlers need.
func (s *AppHttpServer) SetDependencies(
	db *db.DB,
	gateway legacy.Gateway,
	registryClient registry.Client,
	connections services.ConnectionConfigService,
	registryCfg services.RegistryConfigService,
	flags services.CompanyFlagService,
	logs services.SyncLogService,
	catalog *syncer.Catalog,
	orchestrator *syncer.Orchestrator,
) {
	s.db = db
	s.gateway = gateway
	s.registryClient = registryClient
	s.connections = connections
	s.registryCfg = registryCfg
	s.flags = flags
	s.logs = logs
	s.catalog = catalog
	s.orchestrator = orchestrator
}

func (s *AppHttpServer) setupRoute() {
	r := s.router

	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(swaggerDoc)
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Public health endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"erp-sync-service"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(middlewares.ApiKey(s.cfg.Security.BackendApiKey))

		settingsHandler := handler.NewSettingsHandler(s.connections, s.registryCfg, s.gateway, s.registryClient)
		companyHandler := handler.NewCompanyHandler(s.catalog, s.flags, s.orchestrator)
		accountHandler := handler.NewAccountHandler(s.catalog)
		logHandler := handler.NewLogHandler(s.logs)
		healthHandler := handler.NewHealthHandler(s.db, s.gateway, s.registryCfg, s.registryClient)

		r.Mount("/settings", settingsHandler.Router())
		r.Mount("/companies", companyHandler.Router())
		r.Mount("/accounts", accountHandler.Router())
		r.Mount("/logs", logHandler.Router())
		r.Mount("/health", healthHandler.Router())
	})
}

func (s *AppHttpServer) start() error {
	r := s.router
	cfg := s.cfg
	log.Info().Msg("Starting up server...")

	s.server = &http.Server{
		Addr:         cfg.Listen.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// stop gracefully shuts down the server
func (s *AppHttpServer) stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
