package main

import (
	"context"
	"log"

	"partnerportal/cmd"
	"partnerportal/internal/config"
	"partnerportal/internal/crm"
	"partnerportal/internal/database"
	"partnerportal/internal/logger"
	"partnerportal/internal/middleware"
	"partnerportal/internal/sharelinks"
	"partnerportal/internal/transfers"
	"partnerportal/pkg/security"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	security.Configure(cfg.JWTSecret)

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	appLogger.Info("Connected to the database successfully!")

	crmClient := crm.NewClient(cfg.CRMBaseURL, cfg.CRMTimeout, appLogger)
	registry := transfers.NewRegistry(crmClient, cfg.DefaultStatus, cfg.SessionTTL, appLogger)

	shareLinkRepository := sharelinks.NewRepository(db)
	shareLinkService := sharelinks.NewService(shareLinkRepository)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware(appLogger))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	transfers.RegisterRoutes(router, registry)
	sharelinks.RegisterRoutes(router, shareLinkService, registry)

	router.GET("/health", middleware.HealthCheckMiddleware())

	if err := router.Run(cfg.AppHost); err != nil {
		panic(err)
	}
}
