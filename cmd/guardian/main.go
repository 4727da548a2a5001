package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/guardianhq/guardian/pkg/classifier"
	"github.com/guardianhq/guardian/pkg/config"
	"github.com/guardianhq/guardian/pkg/gemini"
	"github.com/guardianhq/guardian/pkg/intel"
	"github.com/guardianhq/guardian/pkg/patterns"
	"github.com/guardianhq/guardian/pkg/ratelimit"
)

const Version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		addr := ""
		if len(os.Args) > 2 {
			addr = os.Args[2]
		}
		runServer(addr)
	case "analyze":
		if len(os.Args) < 3 {
			fmt.Println("Usage: guardian analyze <text>")
			os.Exit(1)
		}
		runCLIAnalyze(strings.Join(os.Args[2:], " "))
	case "version":
		fmt.Printf("Guardian v%s\n", Version)
		fmt.Println("Text threat classification service")
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Guardian v%s - text threat classification\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  guardian serve [addr]     Start HTTP server (default: :8080)")
	fmt.Println("  guardian analyze <text>   Analyze text and print the result")
	fmt.Println("  guardian version          Show version")
	fmt.Println("")
	fmt.Println("Configuration is environment driven; see GUARDIAN_* variables.")
	fmt.Println("  GEMINI_API_KEY            Enables model enrichment")
	fmt.Println("  GUARDIAN_API_KEYS         Comma-separated client keys (required in production)")
	fmt.Println("  GUARDIAN_REDIS_URL        Shared cache and rate limit backend")
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

func redisClient(cfg *config.Config, log *logrus.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("invalid redis url, continuing without redis")
		return nil
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, continuing without redis")
		return nil
	}
	return rdb
}

func buildAnalyzer(ctx context.Context, cfg *config.Config, log *logrus.Logger, rdb *redis.Client) (*classifier.Analyzer, *intel.Service) {
	registry := patterns.NewRegistry()
	if cfg.PatternsFile != "" {
		added, err := registry.LoadOverrides(cfg.PatternsFile)
		if err != nil {
			log.WithError(err).Fatal("pattern overrides failed to load")
		}
		log.WithField("rules", added).Info("pattern overrides loaded")
	}

	intelSvc := intel.NewService(intel.Options{
		CachePath:       cfg.IntelCachePath,
		CacheTTL:        cfg.IntelCacheTTL,
		FeedsEnabled:    cfg.IntelFeedsOn,
		PhishTankAPIKey: cfg.PhishTankAPIKey,
		RefreshTick:     cfg.IntelRefreshTick,
		Logger:          log,
	})
	intelSvc.Start(ctx)

	var enricher *gemini.Client
	if cfg.EnrichmentEnabled {
		var cache gemini.Cache
		if rdb != nil {
			cache = gemini.NewRedisCache(rdb, cfg.EnrichCacheTTL)
		} else {
			cache = gemini.NewMemoryCache(cfg.EnrichCacheTTL, cfg.EnrichCacheMaxSize)
		}
		enricher = gemini.NewClient(gemini.ClientOptions{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			BaseURL:     cfg.GeminiBaseURL,
			MaxAttempts: cfg.EnrichMaxAttempts,
			MaxTextLen:  cfg.MaxEnrichLen,
			Cache:       cache,
			Logger:      log,
		})
		if cfg.GeminiAPIKey == "" {
			log.Info("enrichment degraded: no GEMINI_API_KEY, local heuristics only")
		}
	}

	return classifier.New(classifier.Options{
		Config:   cfg,
		Registry: registry,
		Intel:    intelSvc,
		Enricher: enricher,
		Logger:   log,
	}), intelSvc
}

type analyzeRequest struct {
	Text           string `json:"text"`
	ModelVersion   string `json:"model_version,omitempty"`
	ComplianceMode string `json:"compliance_mode,omitempty"`
}

type batchRequest struct {
	Texts []string `json:"texts"`
}

func runServer(addr string) {
	cfg := config.Load()
	if addr != "" {
		cfg.ListenAddr = addr
	}
	log := setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("configuration invalid")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisClient(cfg, log)
	analyzer, intelSvc := buildAnalyzer(ctx, cfg, log, rdb)
	limiter := ratelimit.New(cfg.RateLimitPerKey, cfg.RateLimitWindow, rdb, log)

	app := newApp(cfg, log, analyzer, intelSvc, limiter)

	log.WithFields(logrus.Fields{
		"addr":       cfg.ListenAddr,
		"enrichment": cfg.EnrichmentEnabled,
		"feeds":      cfg.IntelFeedsOn,
	}).Info("guardian starting")

	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func newApp(cfg *config.Config, log *logrus.Logger, analyzer *classifier.Analyzer, intelSvc *intel.Service, limiter *ratelimit.Limiter) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Guardian",
		BodyLimit: cfg.MaxTextLen * 2,
	})

	authorized := func(c fiber.Ctx) (string, bool) {
		if len(cfg.APIKeys) == 0 {
			return "anonymous", true
		}
		key := c.Get("X-API-Key")
		for _, k := range cfg.APIKeys {
			if key == k {
				return key, true
			}
		}
		return "", false
	}

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":                "ok",
			"version":               Version,
			"intel_domains":         intelSvc.DomainCount(),
			"enrichment_configured": cfg.GeminiAPIKey != "",
		})
	})

	app.Get("/stats", func(c fiber.Ctx) error {
		if _, ok := authorized(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid api key"})
		}
		return c.JSON(analyzer.Stats().Snapshot())
	})

	v1 := app.Group("/v1", func(c fiber.Ctx) error {
		key, ok := authorized(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid api key"})
		}
		if cfg.RateLimitEnabled {
			d := limiter.Allow(c.Context(), key)
			if !d.Allowed {
				analyzer.Stats().IncRateLimitHit()
				c.Set("Retry-After", fmt.Sprintf("%d", int(d.RetryAfter.Seconds())+1))
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
			}
		}
		requestID := uuid.NewString()
		c.Locals("request_id", requestID)
		c.Set("X-Request-ID", requestID)
		return c.Next()
	})

	v1.Post("/analyze", func(c fiber.Ctx) error {
		requestID, _ := c.Locals("request_id").(string)

		var req analyzeRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "request_id": requestID})
		}
		res, err := analyzer.AnalyzeWithOptions(c.Context(), req.Text, classifier.RequestOptions{
			ComplianceMode: req.ComplianceMode,
		})
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "request_id": requestID})
		}
		log.WithFields(logrus.Fields{
			"request_id":    requestID,
			"risk_score":    res.RiskScore,
			"threats":       len(res.ThreatsDetected),
			"language":      res.Metadata.Language,
			"model_version": req.ModelVersion,
		}).Info("analysis complete")
		return c.JSON(fiber.Map{
			"request_id":       requestID,
			"risk_score":       res.RiskScore,
			"threats_detected": res.ThreatsDetected,
			"metadata":         res.Metadata,
		})
	})

	v1.Post("/analyze/batch", func(c fiber.Ctx) error {
		requestID, _ := c.Locals("request_id").(string)

		var req batchRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "request_id": requestID})
		}
		if len(req.Texts) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "texts is empty", "request_id": requestID})
		}
		results := analyzer.AnalyzeBatch(c.Context(), req.Texts)
		return c.JSON(fiber.Map{
			"request_id": requestID,
			"results":    results,
		})
	})

	return app
}

func runCLIAnalyze(text string) {
	cfg := config.Load()
	log := setupLogger(cfg)
	log.SetLevel(logrus.WarnLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	analyzer, _ := buildAnalyzer(ctx, cfg, log, nil)
	res, err := analyzer.Analyze(ctx, text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(fiber.Map{
		"risk_score":       res.RiskScore,
		"threats_detected": res.ThreatsDetected,
		"metadata":         res.Metadata,
	}, "", "  ")
	fmt.Println(string(out))
}
