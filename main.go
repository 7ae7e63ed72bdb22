package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"casri/config"
	"casri/controllers"
	"casri/jobs"
	"casri/middleware"
	"casri/routes"
	"casri/services"
	"casri/store"
	"casri/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	location, err := cfg.Location()
	if err != nil {
		return err
	}

	client, db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBTimeout)
	defer cancel()
	if err := store.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	cal := services.NewCalendar(location)
	tx := store.NewMongoTransactor(client, cfg.MongoTransactions)
	tokens := utils.NewTokens(cfg.JWTSecret, cfg.JWTTTL)

	users := store.NewMongoUsers(db)
	productStore := store.NewMongoProducts(db)

	productService := services.NewProductService(productStore, store.NewMongoHistories(db), users, tx, cal)
	financialService := services.NewFinancialService(store.NewMongoFinancialLogs(db), productStore, cal)
	liabilityService := services.NewLiabilityService(store.NewMongoLiabilities(db), productService, tx, cal)
	historyService := services.NewHistoryService(store.NewMongoHistories(db), cal)
	authService := services.NewAuthService(users, store.NewMongoSessions(db), tokens, cal)

	if err := authService.BootstrapAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}

	var mailer utils.Mailer
	if cfg.MailEnabled() {
		mailer = utils.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	}
	closeOfDay := jobs.NewCloseOfDay(productService, financialService, liabilityService, cal, mailer, cfg.ReportEmail, logger)
	scheduler, err := closeOfDay.Schedule(location, cfg.ReportAt)
	if err != nil {
		return err
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("starting", "mode", gin.Mode(), "port", cfg.Port, "timezone", location.String())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	middleware.InitMetrics(registry)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))
	r.Use(middleware.Timeout(cfg.DBTimeout))

	routes.InitializeRoutes(r, authService, routes.Handlers{
		Auth:        controllers.NewAuthController(authService, tokens.TTL(), cfg.IsProduction()),
		Products:    controllers.NewProductController(productService),
		Financial:   controllers.NewFinancialController(financialService),
		Liabilities: controllers.NewLiabilityController(liabilityService),
		History:     controllers.NewHistoryController(historyService),
	}, routes.Options{Gatherer: registry, MetricsAllow: cfg.MetricsAllow})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
