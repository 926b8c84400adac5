package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/opiniondesk/opiniondesk-backend/internal/chat"
	"github.com/opiniondesk/opiniondesk-backend/internal/config"
	"github.com/opiniondesk/opiniondesk-backend/internal/handler"
	"github.com/opiniondesk/opiniondesk-backend/internal/middleware"
	"github.com/opiniondesk/opiniondesk-backend/internal/migration"
	"github.com/opiniondesk/opiniondesk-backend/internal/repository"
	"github.com/opiniondesk/opiniondesk-backend/internal/routes"
	"github.com/opiniondesk/opiniondesk-backend/internal/service"
	"github.com/opiniondesk/opiniondesk-backend/internal/ws"
	pkgcache "github.com/opiniondesk/opiniondesk-backend/pkg/cache"
	pkges "github.com/opiniondesk/opiniondesk-backend/pkg/elasticsearch"
	"github.com/opiniondesk/opiniondesk-backend/pkg/jwt"
	pkglogger "github.com/opiniondesk/opiniondesk-backend/pkg/logger"
	"github.com/opiniondesk/opiniondesk-backend/pkg/prefstore"
	pkgredis "github.com/opiniondesk/opiniondesk-backend/pkg/redis"
	pkgstorage "github.com/opiniondesk/opiniondesk-backend/pkg/storage"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := migration.SeedCategories(db); err != nil {
		pkglogger.Warn("Category seeding failed: %v", err)
	}

	// Redis
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}

	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
	}

	// Elasticsearch
	var esClient *pkges.Client
	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) > 0 {
		esClient, err = pkges.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if err != nil {
			pkglogger.Warn("Elasticsearch connection failed: %v (continuing without ES)", err)
			esClient = nil
		} else {
			pkglogger.Info("Connected to Elasticsearch")
		}
	}

	// Document storage
	storageBackend, err := initStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize document storage: %v", err)
	}

	// Language preference store
	var prefStore prefstore.Store
	if redisClient != nil {
		prefStore = prefstore.NewRedisStore(redisClient, "prefs", 0)
	} else {
		prefStore = prefstore.NewMemoryStore()
	}

	// WebSocket hub
	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()
	defer wsHub.Stop()

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TokenExpiry)

	// Repositories
	opinionRepo := repository.NewOpinionRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// Services
	searchService := service.NewSearchService(opinionRepo, employeeRepo, esClient)
	if esClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := searchService.EnsureIndex(ctx); err != nil {
			pkglogger.Warn("Failed to ensure search index: %v", err)
		}
		cancel()
	}

	var indexer service.Indexer
	if esClient != nil {
		indexer = searchService
	}
	opinionService := service.NewOpinionService(opinionRepo, categoryRepo, storageBackend, cacheService, indexer)
	authService := service.NewAuthService(employeeRepo, jwtManager)
	categoryService := service.NewCategoryService(categoryRepo, cacheService)
	analysisService := service.NewAnalysisService(opinionRepo)
	preferenceService := service.NewPreferenceService(prefStore)

	var responder chat.Responder = chat.EchoResponder{}
	if cfg.Assistant.Enabled && cfg.Assistant.BaseURL != "" {
		responder = chat.NewAssistantClient(chat.AssistantConfig{
			BaseURL:    cfg.Assistant.BaseURL,
			APIKey:     cfg.Assistant.APIKey,
			Model:      cfg.Assistant.Model,
			MaxHistory: cfg.Assistant.MaxHistory,
		})
		pkglogger.Info("Assistant responder enabled (model=%s)", cfg.Assistant.Model)
	}

	// Gin router
	if env != "local" && env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := cfg.Server.AllowedOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	opinionHandler := handler.NewOpinionHandler(opinionService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	searchHandler := handler.NewSearchHandler(searchService)
	analysisHandler := handler.NewAnalysisHandler(analysisService)
	preferenceHandler := handler.NewPreferenceHandler(preferenceService)
	wsHandler := handler.NewWSHandler(wsHub, jwtManager, chatRepo, responder, allowOrigins)

	routes.Setup(
		router,
		authHandler,
		opinionHandler,
		categoryHandler,
		searchHandler,
		analysisHandler,
		preferenceHandler,
		wsHandler,
		jwtManager,
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.Info("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDB opens the MySQL connection
func initDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// initStorage selects the document storage backend from config
func initStorage(cfg *config.Config) (pkgstorage.Backend, error) {
	if cfg.Storage.Driver == "s3" {
		return pkgstorage.NewS3Backend(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
	}
	return pkgstorage.NewLocalBackend(cfg.Storage.LocalDir, cfg.Storage.LocalBaseURL)
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
