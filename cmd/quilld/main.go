package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/database"
	"github.com/quillhq/quill/internal/post/handler"
	"github.com/quillhq/quill/internal/post/repository"
	"github.com/quillhq/quill/internal/post/service"
	"github.com/quillhq/quill/pkg/logger"
	"github.com/quillhq/quill/pkg/metrics"
	"github.com/quillhq/quill/pkg/middleware"
)

const mongoConnectAttempts = 5

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.Infof("config loaded: driver=%s redis=%v rate_limit=%v",
		cfg.Store.Driver, cfg.Redis.Host != "", cfg.RateLimit.Enabled)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond
	// to OPTIONS. Production should use a stricter policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Redis early so the rate-limiter can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, float64(cfg.RateLimit.RPS), cfg.RateLimit.Burst, cfg.RateLimit.Window))
		} else {
			r.Use(middleware.RateLimitMiddleware(float64(cfg.RateLimit.RPS), cfg.RateLimit.Burst))
		}
	}

	ctx := context.Background()
	store, closeStore := buildStore(ctx, cfg)
	defer closeStore()

	svc := service.New(store)
	handler.RegisterPostRoutes(r, svc)
	handler.RegisterDocs(r)

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint: return 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			deps["store"] = false
			ready = false
		} else {
			deps["store"] = true
		}

		// Redis readiness only matters when the limiter depends on it
		if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil && redisClient.Ping(pingCtx).Err() == nil
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
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	logger.Infof("quilld listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

// buildStore opens the configured post store. The mongo driver degrades to the
// in-memory store when the database stays unreachable, so the API can still
// come up in dev environments without Mongo.
func buildStore(ctx context.Context, cfg *config.Config) (repository.Store, func()) {
	switch cfg.Store.Driver {
	case config.DriverBolt:
		repo, err := repository.NewBoltRepo(cfg.Store.BoltPath)
		if err != nil {
			logger.Fatalf("open bolt store at %s: %v", cfg.Store.BoltPath, err)
		}
		logger.Infof("using bolt store at %s", cfg.Store.BoltPath)
		return repo, func() { _ = repo.Close() }
	case config.DriverMongo:
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, mongoConnectAttempts)
		if err != nil {
			logger.Warnf("cannot connect to MongoDB (%v), using memory store", err)
			return repository.NewMemoryRepo(), func() {}
		}
		col := client.Database(cfg.MongoDB.Database).Collection("posts")
		logger.Infof("using mongo store %s/posts", cfg.MongoDB.Database)
		return repository.NewMongoRepo(col), func() { _ = client.Disconnect(context.Background()) }
	default:
		logger.Infof("using memory store")
		return repository.NewMemoryRepo(), func() {}
	}
}
