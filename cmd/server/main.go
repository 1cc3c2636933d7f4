package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "tokenlens/docs"
	"tokenlens/internal/ai"
	"tokenlens/internal/chain"
	"tokenlens/internal/client/coingecko"
	"tokenlens/internal/client/okx"
	"tokenlens/internal/client/twitterapi"
	"tokenlens/internal/config"
	cronrunner "tokenlens/internal/cron"
	"tokenlens/internal/db"
	"tokenlens/internal/handler"
	"tokenlens/internal/logger"
	gormrepository "tokenlens/internal/repository/gorm"
	"tokenlens/internal/service"
	"tokenlens/internal/token"
)

func main() {
	cfgPath := os.Getenv("TL_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TL_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	chains := chain.NewRegistry(cfg.Chains)
	store := gormrepository.New(dbConn.Gorm)

	okxHTTP := &http.Client{Timeout: cfg.OKX.Timeout}
	okxClient := okx.NewClient(okxHTTP, cfg.OKX)
	geckoClient := coingecko.NewClient(cfg.CoinGecko)
	twitterClient := twitterapi.NewClient(cfg.Twitter)
	summarizer := ai.NewSummarizer(cfg.AI)

	priceAdapter := &token.PriceAdapter{Chains: chains, Client: okxClient, Logger: logger}
	metadataAdapter := &token.MetadataAdapter{Chains: chains, Client: geckoClient, Logger: logger}
	socialService := &service.SocialAnalysisService{
		Tweets:     twitterClient,
		Summarizer: summarizer,
		Logger:     logger,
	}
	analysisService := &service.AnalysisService{
		Price:      priceAdapter,
		Metadata:   metadataAdapter,
		Summarizer: summarizer,
		Social:     socialService,
		Repo:       store,
		Logger:     logger,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(handler.AccessCodeMiddleware(cfg.Auth.AccessCode))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	queryHandler := &handler.QueryTokenHandler{
		Service: analysisService,
		Chains:  chains,
		Logger:  logger,
	}
	queryHandler.Register(engine)
	historyHandler := &handler.QueryHistoryHandler{Repo: store, Logger: logger}
	historyHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Retention.Enabled {
		retention := &service.RetentionService{
			Repo:   store,
			Logger: logger,
			MaxAge: cfg.Retention.MaxAge,
		}
		_, err := cronRunner.Add(cfg.Retention.Schedule, func(ctx context.Context) {
			if err := retention.Prune(ctx); err != nil {
				logger.Warn("retention prune failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register retention failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
