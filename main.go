package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"powergest/api"
	"powergest/cache"
	"powergest/config"
	"powergest/controllers"
	"powergest/middleware"
	"powergest/repository"
	"powergest/routes"
	"powergest/services"
	"powergest/storage"
	"powergest/utils"
)

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	var store repository.Store
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		store = repository.NewMemoryStore()
	default:
		client, db, err := config.ConnectDatabase(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		defer client.Disconnect(context.Background())
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("failed to create indexes")
		}
		store = repository.NewMongoStore(db)
	}

	var dashCache cache.Cache = cache.NewMemory()
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		dashCache = cache.NewRedis(rdb, "powergest:dashboard:")
	}

	// Services
	loc := cfg.Location()
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL())
	dashboard := services.NewDashboard(store, dashCache, cfg.CacheTTL(), loc)
	inventory := services.NewInventory(store, dashboard, middleware.MetricsHook{})

	var sheets *api.SheetsClient
	if cfg.GoogleScriptURL != "" {
		sheets = api.NewSheetsClient(cfg.GoogleScriptURL)
		inventory.AddHook(sheets)
	}

	handler := &controllers.Handler{
		Inventory: inventory,
		Dashboard: dashboard,
		Auth:      services.NewAuth(store.Settings, tokens),
		Exporter:  services.NewExporter(store),
	}

	// Jobs
	jobs := []utils.Job{{
		Name: "stock-reconcile",
		At:   cfg.ReconcileAt,
		Run: func(ctx context.Context) error {
			res, err := inventory.Reconcile(ctx)
			if err != nil {
				return err
			}
			log.Info().Int("checked", res.Checked).Int("corrected", res.Corrected).
				Int("removed", res.Removed).Msg("stock reconciled")
			return nil
		},
	}}
	if cfg.MailEnabled() {
		mailer := utils.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.ReportEmailFrom)
		report := services.NewDailyReport(dashboard, store.Stock, mailer, cfg.ReportRecipients())
		jobs = append(jobs, utils.Job{Name: "daily-report", At: cfg.ReportAt, Run: report.Send})
	}
	if cfg.BackupsEnabled() {
		backups, err := storage.NewBackupStore(ctx, storage.Options{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize backup storage")
		}
		exporter := handler.Exporter
		jobs = append(jobs, utils.Job{Name: "backup", At: cfg.ReconcileAt, Run: func(ctx context.Context) error {
			name, err := exporter.Backup(ctx, backups, time.Now().In(loc))
			if err == nil {
				log.Info().Str("object", name).Msg("backup uploaded")
			}
			return err
		}})
	}

	scheduler, err := utils.NewScheduler(loc, jobs...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule jobs")
	}
	scheduler.StartAsync()

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())

	middleware.InitMetrics()
	r.Use(middleware.PrometheusMiddleware())
	r.GET("/metrics", middleware.MetricsGuard(cfg.MetricsAllowCIDR), gin.WrapH(promhttp.Handler()))

	r.Use(routes.CORS(cfg.Origins()))
	routes.InitializeRoutes(r, handler, tokens)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("powergest backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	scheduler.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if sheets != nil {
		sheets.Wait()
	}
	log.Info().Msg("server exited")
}
