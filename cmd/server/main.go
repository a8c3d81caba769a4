package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/cache"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/config"
	apperrors "github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/errors"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/identity"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/middleware"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/monitoring"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/nlp"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/pipeline"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/ratelimit"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/retention"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/sample"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/store"
)

const serviceVersion = "1.0.0"

// application bundles the wired services behind the HTTP surface.
type application struct {
	cfg          *config.Config
	repo         *store.Repository
	runner       *pipeline.Runner
	limiter      *ratelimit.Limiter
	respCache    *cache.Cache
	metrics      *monitoring.Metrics
	logger       *monitoring.Logger
	textAnalyzer *nlp.Analyzer
	compression  *middleware.CompressionMiddleware
	retention    *retention.Service
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	appLogger := monitoring.NewLogger(monitoring.ParseLevel(cfg.LogLevel))
	slog.SetDefault(appLogger.Logger)

	db, err := store.NewDB(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := store.NewRepository(db, appLogger)

	if cfg.SeedSampleData {
		if err := seedStore(cfg, repo, appLogger); err != nil {
			slog.Error("Failed to seed sample data", "error", err)
			os.Exit(1)
		}
	}

	appMetrics := monitoring.NewMetrics()
	respCache := cache.New(time.Duration(cfg.CacheTTLMinutes) * time.Minute)
	resolver := identity.NewFingerprintResolver(cfg.IdentityBucketHours)

	redisClient, err := ratelimit.NewRedisClient(cfg.RedisURL)
	if err != nil {
		// Limiter degrades to in-memory buckets; not fatal.
		slog.Warn("Redis unavailable", "error", err)
	}
	defer redisClient.Close()

	limiter := ratelimit.NewLimiter(redisClient, ratelimit.Config{
		TriggerLimitPerMin: cfg.TriggerLimitPerMin,
		BurstMultiplier:    2,
	}, appMetrics)

	app := &application{
		cfg:          cfg,
		repo:         repo,
		runner:       pipeline.NewRunner(cfg, repo, resolver, respCache, appMetrics, appLogger),
		limiter:      limiter,
		respCache:    respCache,
		metrics:      appMetrics,
		logger:       appLogger,
		textAnalyzer: nlp.NewAnalyzer(),
		compression:  middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
		retention:    retention.NewService(db),
	}

	cleanupStop := make(chan struct{})
	go app.retention.StartDailyCleanup(cfg.RetentionDays, cfg.SnapshotsKept, cleanupStop)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: app.newRouter(),
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")
	close(cleanupStop)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func (app *application) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(monitoring.Middleware(app.metrics, app.logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(corsConfig))

	r.Use(app.compression.Handler())

	// error rendering must run inside the compression wrapper so error
	// bodies go through the still-open gzip writer
	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())

	r.Use(app.respCache.Middleware(app.metrics,
		"/user-scores",
		"/team-metrics",
		"/insights",
		"/score-distribution",
		"/usage-patterns",
		"/score-trends",
		"/team-dynamics",
		"/predictive-alerts",
		"/skill-gap-analysis",
		"/benchmarking",
		"/nlp-insights",
		"/data-stats",
	))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "neurascore",
			"message": "organizational data literacy scoring API",
			"version": serviceVersion,
			"docs":    "/swagger/index.html",
		})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"timestamp":   time.Now().Format(time.RFC3339),
			"version":     serviceVersion,
			"processing":  app.runner.Status(),
			"metrics":     app.metrics.GetStats(),
			"ratelimit":   app.limiter.GetStats(),
			"compression": app.compression.GetStats(),
			"retention":   app.retention.RetentionInfo(app.cfg.RetentionDays, app.cfg.SnapshotsKept),
		})
	})

	triggers := r.Group("/", app.limiter.TriggerMiddleware())

	triggers.POST("/process-data", func(c *gin.Context) {
		runID, err := app.runner.TriggerIngest()
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "data processing started",
			"run_id":  runID,
			"status":  "processing",
		})
	})

	triggers.POST("/calculate-scores", func(c *gin.Context) {
		runID, err := app.runner.TriggerScore()
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "score calculation started",
			"run_id":  runID,
			"status":  "processing",
		})
	})

	r.GET("/processing-status", func(c *gin.Context) {
		c.JSON(http.StatusOK, app.runner.Status())
	})

	r.GET("/user-scores", func(c *gin.Context) {
		limit := queryInt(c, "limit", 100)
		offset := queryInt(c, "offset", 0)
		if limit < 0 || offset < 0 {
			c.Error(apperrors.NewValidationError("limit and offset must be non-negative"))
			return
		}

		scores, err := app.runner.UserScores(limit, offset)
		if err != nil {
			c.Error(err)
			return
		}

		total := 0
		if snap := app.runner.Current(); snap != nil {
			total = len(snap.Scores)
		}

		c.JSON(http.StatusOK, gin.H{
			"user_scores": scores,
			"total":       total,
			"limit":       limit,
			"offset":      offset,
		})
	})

	r.GET("/team-metrics", func(c *gin.Context) {
		teams, err := app.runner.Teams()
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"team_metrics": teams,
			"count":        len(teams),
		})
	})

	r.GET("/insights", func(c *gin.Context) {
		list, err := app.runner.Insights(c.Query("entity_type"), c.Query("entity_id"))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"insights": list,
			"count":    len(list),
		})
	})

	r.GET("/score-distribution", func(c *gin.Context) {
		dist, err := app.runner.Distribution()
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, dist)
	})

	r.GET("/usage-patterns", func(c *gin.Context) {
		patterns, err := app.runner.Patterns()
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, patterns)
	})

	r.GET("/score-trends", func(c *gin.Context) {
		trends, err := app.runner.Trends()
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, trends)
	})

	r.GET("/team-dynamics", func(c *gin.Context) {
		report, err := app.runner.TeamDynamics()
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, report)
	})

	r.GET("/predictive-alerts", func(c *gin.Context) {
		report, err := app.runner.Alerts()
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, report)
	})

	r.GET("/skill-gap-analysis", func(c *gin.Context) {
		report, err := app.runner.SkillGaps()
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, report)
	})

	r.GET("/benchmarking", func(c *gin.Context) {
		report, err := app.runner.Benchmark()
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, report)
	})

	r.GET("/nlp-insights", func(c *gin.Context) {
		report, err := app.runner.DocumentationInsights()
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, report)
	})

	r.POST("/analyze-text", func(c *gin.Context) {
		var req struct {
			Text string `json:"text" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperrors.NewValidationError("request body must contain a text field", err.Error()))
			return
		}
		c.JSON(http.StatusOK, app.textAnalyzer.Analyze(req.Text))
	})

	r.GET("/data-stats", func(c *gin.Context) {
		stats, err := app.repo.DataStats()
		if err != nil {
			c.Error(apperrors.NewInternalError("failed to collect data statistics", err))
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, app.metrics.GetStats())
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if os.Getenv("ENABLE_PROFILING") == "true" {
		slog.Info("Enabling performance profiling endpoints")
		r.GET("/debug/pprof/*filepath", gin.WrapF(pprof.Index))
		r.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
		r.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
		r.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
		r.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	}

	return r
}

// seedStore populates an empty store with generated interactions so a
// fresh checkout has something to score. A non-empty store is left
// alone.
func seedStore(cfg *config.Config, repo *store.Repository, logger *monitoring.Logger) error {
	count, err := repo.CountInteractions()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	gen := sample.NewGenerator(cfg.ClusterSeed)
	datasets := gen.Datasets(cfg.SampleUserCount * 2)
	records := gen.Interactions(cfg.SampleUserCount, datasets)

	for _, d := range datasets {
		if err := repo.UpsertMetadata(d.RecordID, d.Title, d.Subjects); err != nil {
			return err
		}
	}
	if err := repo.InsertInteractions(records); err != nil {
		return err
	}

	logger.SystemLogger("sample_data_seeded", strconv.Itoa(len(records))+" interactions")
	return nil
}

func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
