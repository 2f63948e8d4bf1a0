package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prospecta/company-search/internal/cache"
	"github.com/prospecta/company-search/internal/config"
	"github.com/prospecta/company-search/internal/handlers"
	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/middleware"
	"github.com/prospecta/company-search/internal/observability"
	"github.com/prospecta/company-search/internal/redisclient"
	"github.com/prospecta/company-search/internal/registry/mongodb"
	"github.com/prospecta/company-search/internal/registry/postgres"
	"github.com/prospecta/company-search/internal/search"
	"github.com/prospecta/company-search/internal/taxonomy"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/prospecta/company-search/docs"
)

// @title           Company Search API
// @version         1.0
// @description     API de busca paginada no cadastro nacional de empresas (CNPJ). Filtros por UF, município, CNPJ, razão social, nome fantasia, situação cadastral, CNAE e segmento de negócio, com contagem adaptativa do total de resultados.

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /v1

// @tag.name companies
// @tag.description Busca e exportação de empresas

// @tag.name taxonomy
// @tag.description Segmentos de negócio e CNAEs

// @tag.name health
// @tag.description Health check operations

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = logging.Logger.Sync() }()

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.AppConfig

	// Initialize observability
	if err := observability.InitTracer(observability.TracingOptions{
		Enabled:     cfg.TracingEnabled,
		Endpoint:    cfg.TracingEndpoint,
		Environment: cfg.Environment,
	}); err != nil {
		logging.Logger.Error("failed to initialize tracer", zap.Error(err))
	}
	defer observability.ShutdownTracer()

	// MongoDB backs the alternate registry and the taxonomy collection
	if cfg.RegistryBackend == config.BackendMongo || cfg.TaxonomySource == config.TaxonomySourceMongo {
		if err := config.InitMongoDB(); err != nil {
			logging.Logger.Fatal("failed to initialize MongoDB", zap.Error(err))
		}
		defer config.CloseMongoDB()
	}

	registry, err := newRegistry(cfg)
	if err != nil {
		logging.Logger.Fatal("failed to initialize company registry", zap.Error(err))
	}

	lookup := taxonomy.New(context.Background(), taxonomySource(cfg), logging.Logger.Named("taxonomy"))

	// Count cache is optional; a Redis outage leaves it disabled
	var countCache search.CountCache
	var cacheClient *redisclient.Client
	if cfg.CountCacheEnabled {
		config.InitRedis()
		if config.Redis != nil {
			defer func() { _ = config.Redis.Close() }()
			cacheClient = config.Redis
			countCache = cache.NewCountCache(cacheClient, cfg.CountCacheTTL, logging.Logger.Named("count_cache"))
		}
	}

	service := search.NewService(registry, lookup, countCache, search.Options{
		SearchTimeout: cfg.SearchTimeout,
		CountTimeout:  cfg.CountTimeout,
		ExportTimeout: cfg.ExportTimeout,
		ExportMaxRows: cfg.ExportMaxRows,
	}, logging.Logger.Named("search"))

	companyHandlers := handlers.NewCompanyHandlers(service, logging.Logger.Named("handlers"))
	taxonomyHandlers := handlers.NewTaxonomyHandlers(lookup, logging.Logger.Named("handlers"))
	healthHandlers := handlers.NewHealthHandlers(service, cacheClient, logging.Logger.Named("health"))

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router with middleware
	router := gin.New()
	// Formatted CNPJs and CNAEs carry "/", sent encoded as %2F in path parameters
	router.UseRawPath = true
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestTiming(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		cors.Default(),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/health", healthHandlers.HealthCheck)

		v1.GET("/companies", companyHandlers.SearchCompanies)
		v1.GET("/companies/export", companyHandlers.ExportCompanies)
		v1.GET("/companies/:cnpj", companyHandlers.GetCompanyByCNPJ)

		v1.GET("/segments", taxonomyHandlers.ListSegments)
		v1.GET("/segments/:segment/cnaes", taxonomyHandlers.GetSegmentCNAEs)
		v1.GET("/cnaes", taxonomyHandlers.SearchCNAEs)
		v1.GET("/cnaes/:code", taxonomyHandlers.GetCNAE)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Exports may run for the whole export budget
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ExportTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("registry", registry.Name()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logging.Logger.Info("server exited gracefully")
}

// newRegistry builds the configured company registry backend
func newRegistry(cfg *config.Config) (search.Registry, error) {
	switch cfg.RegistryBackend {
	case config.BackendMongo:
		registry := mongodb.New(config.MongoDB.Collection(cfg.CompanyCollection), logging.Logger.Named("registry"))
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := registry.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return registry, nil
	default:
		if cfg.MigrateOnStart {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := postgres.Migrate(ctx, cfg.DatabaseURL, logging.Logger.Named("migrate")); err != nil {
				return nil, err
			}
		}
		return postgres.New(cfg.DatabaseURL, max(cfg.SearchTimeout, cfg.ExportTimeout), logging.Logger.Named("registry"))
	}
}

func taxonomySource(cfg *config.Config) taxonomy.Source {
	if cfg.TaxonomySource == config.TaxonomySourceMongo {
		return taxonomy.MongoSource{Collection: config.MongoDB.Collection(cfg.SegmentCollection)}
	}
	return taxonomy.FileSource{Path: cfg.TaxonomyFile}
}
