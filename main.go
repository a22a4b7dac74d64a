package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ragpanel/ragpanel/backend/go-services/handlers"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/auth"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/config"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/database"
	panelhandler "github.com/ragpanel/ragpanel/backend/go-services/internal/panel/handler"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel/repository"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/rag"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/storage"
	"github.com/ragpanel/ragpanel/backend/go-services/pkg/logger"
	"github.com/ragpanel/ragpanel/backend/go-services/pkg/metrics"
	"github.com/ragpanel/ragpanel/backend/go-services/pkg/middleware"
	"github.com/ragpanel/ragpanel/backend/go-services/pkg/querycache"
)

var startTime = time.Now()

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: backend=%s mock=%v mongo=%v redis=%v",
		cfg.Backend.BaseURL, cfg.Backend.MockMode, cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	// Redis backs the rate limiter and the query-cache persistence when available
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// mock store: Mongo-backed when configured, seeded memory otherwise
	var store repository.Store
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongo(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			logger.Warnf("cannot connect to MongoDB (%v), using seeded memory store", err)
		} else {
			mongoClient = client
			store = repository.NewMongoStore(client.Database(cfg.MongoDB.Database))
			logger.Infof("Using MongoDB-backed admin store")
		}
	}
	if store == nil {
		store = repository.NewSeededMemoryStore()
		logger.Infof("Using seeded in-memory admin store")
	}
	if mongoClient != nil {
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{"store": true}
		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime))})
	})

	handlers.RegisterConfig(r, cfg)
	handlers.RegisterSwagger(r)

	// optional shared-secret auth for the admin surface
	var protected gin.IRouter = r
	if cfg.Auth.JWTSecret != "" {
		grp := r.Group("/", middleware.AuthMiddleware(auth.NewHMACVerifier(cfg.Auth.JWTSecret)))
		protected = grp
		logger.Infof("admin surface requires Bearer tokens")
	}

	// query cache: memory-only unless Redis is reachable
	var persister querycache.Persister
	if redisClient != nil {
		persister = querycache.NewRedisPersister(redisClient, "querycache:", cfg.Cache.Buster, cfg.Cache.GCTime)
	}
	cache := querycache.New(querycache.Options{
		StaleTime: cfg.Cache.StaleTime,
		GCTime:    cfg.Cache.GCTime,
		Persister: persister,
	})
	defer cache.Close()

	ragClient := rag.NewClient(cfg.Backend.BaseURL)
	rag.NewHandler(ragClient).Register(protected)

	ph := panelhandler.New(store)
	if ms, err := storage.NewMinIOStorage(storage.LoadMinIOConfig()); err == nil {
		ph.WithBlobStore(ms)
		logger.Infof("MinIO document storage enabled")
	} else {
		logger.Debugf("MinIO storage disabled: %v", err)
	}
	if !cfg.Backend.MockMode {
		// real mode: the model catalog comes from the backend through the cache
		ph.WithCatalog(rag.CachedCatalog(cache, ragClient))
	}
	ph.Register(protected)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting panel API on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
