package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "rentals/api/swagger" // swagger docs
	"rentals/internal/config"
	"rentals/internal/database"
	"rentals/internal/graph"
	"rentals/internal/handler"
	"rentals/internal/logger"
	"rentals/internal/middleware"
	"rentals/internal/repository"
	"rentals/internal/service"
	"rentals/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Rentals API
// @version         1.0
// @description     GraphQL backend for rental asset management.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, fileLoaded, err := config.Load("configs/.env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	if !fileLoaded {
		zlog.Info("no configs/.env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(cfg.Database.DSN(), database.GormLogLevel(cfg.LogLevel))
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zlog.Fatal("database handle", zap.Error(err))
	}
	defer sqlDB.Close()
	zlog.Info("connected to PostgreSQL", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.Name))

	wsHub := websocket.NewHub(zlog.Named("ws"))
	go wsHub.Run(ctx)

	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	// Repository -> Service -> Resolver/Handler
	txManager := repository.NewTransactionManager(db)
	entityRepo := repository.NewEntityRepository(db)
	contactRepo := repository.NewContactRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	contractRepo := repository.NewContractRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statisticsRepo := repository.NewStatisticsRepository(db)

	auditService := service.NewAuditService(auditRepo)
	statisticsService := service.NewStatisticsService(statisticsRepo)

	resolver := graph.NewResolver(graph.Services{
		Entities:   service.NewEntityService(txManager, entityRepo, contactRepo, auditRepo),
		Contacts:   service.NewContactService(txManager, contactRepo, entityRepo, auditRepo),
		Assets:     service.NewAssetService(txManager, assetRepo, auditRepo),
		Contracts:  service.NewContractService(txManager, contractRepo, entityRepo, assetRepo, auditRepo, wsHub),
		Invoices:   service.NewInvoiceService(txManager, invoiceRepo, contractRepo, entityRepo, auditRepo),
		Auth:       service.NewAuthService(txManager, userRepo, auditRepo, tokens),
		Audit:      auditService,
		Statistics: statisticsService,
	}, zlog.Named("graphql"))
	schema, err := graph.NewSchema(resolver)
	if err != nil {
		zlog.Fatal("graphql schema", zap.Error(err))
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(
		cors.New(corsConfig),
		middleware.Recovery(zlog),
		middleware.RequestLogger(zlog.Named("http")),
		middleware.Authenticate(tokens),
	)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, tokens, c)
	})

	handler.NewHealthHandler(sqlDB).RegisterRoutes(router.Group(""))
	handler.NewGraphQLHandler(schema).RegisterRoutes(router.Group(""))
	handler.NewStatisticsHandler(statisticsService, zlog).RegisterRoutes(router.Group(""))
	handler.NewAuditHandler(auditService, zlog).RegisterRoutes(router.Group(""))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		zlog.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
	zlog.Info("server stopped")
}
