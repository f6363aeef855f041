package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"Sistem-Absensi-RFID/config"
	"Sistem-Absensi-RFID/config/middleware"
	"Sistem-Absensi-RFID/handlers"
	"Sistem-Absensi-RFID/pkg/logger"
	"Sistem-Absensi-RFID/pkg/mailer"
	"Sistem-Absensi-RFID/pkg/paseto"
	"Sistem-Absensi-RFID/pkg/redis"
	"Sistem-Absensi-RFID/repository"
	"Sistem-Absensi-RFID/router"
	"Sistem-Absensi-RFID/seeder"
	"Sistem-Absensi-RFID/services"
	_ "time/tzdata"
)

// @title Sistem Absensi RFID API
// @version 1.0
// @description Multi-tenant RFID attendance backend: organizations, employees, card scans and reports.
//
// @host localhost:3000
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the PASETO token.
//
// @tag.name Auth
// @tag.description Signup, login and logout
//
// @tag.name Organization
// @tag.description Organization dashboard and account
//
// @tag.name Employees
// @tag.description Employee directory
//
// @tag.name Attendance
// @tag.description Card scans and manual marks
//
// @tag.name Reports
// @tag.description Monthly reports and daily tables
//
// @tag.name Queries
// @tag.description Support queries
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := config.MongoConnect(ctx, cfg.MongoString)
	if err != nil {
		zapLogger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := config.DisconnectDB(client); err != nil {
			zapLogger.Error("failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	db := client.Database(cfg.DBName)
	if err := config.InitDatabase(ctx, db); err != nil {
		zapLogger.Fatal("failed to create indexes", zap.Error(err))
	}
	zapLogger.Info("connected to MongoDB", zap.String("database", cfg.DBName))

	repo := repository.NewRepository(db)

	secret, err := config.DecodeSecret(cfg.PasetoSecret)
	if err != nil {
		zapLogger.Fatal("invalid PASETO_SECRET", zap.Error(err))
	}
	tokens, err := paseto.NewPasetoMaker(secret, cfg.TokenTTL)
	if err != nil {
		zapLogger.Fatal("failed to create token maker", zap.Error(err))
	}

	// the interfaces stay nil without redis; logout then only asks the client to drop its token
	var (
		blacklist middleware.TokenBlacklist
		revoker   handlers.TokenRevoker
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Warn("redis unavailable, token blacklist disabled", zap.Error(err))
		} else {
			defer func() { _ = rdb.Close() }()
			blacklist, revoker = rdb, rdb
		}
	}

	var mail services.Mailer
	if cfg.SMTP.Enabled() {
		mail = mailer.NewSMTPMailer(cfg.SMTP)
	} else {
		zapLogger.Warn("SMTP is not configured, notifications are only logged")
		mail = mailer.NewLogMailer(zapLogger)
	}

	notifier, err := services.NewNotifier(services.NotifierConfig{
		NotifyAt:  cfg.NotifyAt,
		Location:  cfg.Location,
		QueueSize: cfg.NotifyQueue,
	}, mail, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to create notifier", zap.Error(err))
	}
	notifier.Start(ctx)
	defer notifier.Stop()

	svc := services.NewService(repo, cfg.Location, notifier, nil, zapLogger)

	if cfg.Seed {
		if err := seeder.SeedDemo(ctx, svc.Directory, zapLogger); err != nil {
			zapLogger.Error("seeding failed", zap.Error(err))
		}
	}

	responder := handlers.NewResponder(zapLogger, cfg.IsProduction())
	h := router.Handlers{
		Auth:         handlers.NewAuthHandler(svc.Directory, tokens, revoker, responder, zapLogger),
		Organization: handlers.NewOrganizationHandler(svc.Directory, svc.Attendance, svc.Query, responder),
		Employee:     handlers.NewEmployeeHandler(svc.Directory, svc.Attendance, svc.Query, responder),
		Attendance:   handlers.NewAttendanceHandler(svc.Scan, svc.Attendance, cfg.Location, responder),
		Report:       handlers.NewReportHandler(svc.Report, cfg.Location, responder),
		Query:        handlers.NewQueryHandler(svc.Query, responder),
		Health:       handlers.NewHealthHandler(cfg.Location),
	}

	app := fiber.New(fiber.Config{
		AppName:      "Sistem Absensi RFID",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	config.SetupCORS(app, cfg.AllowedOrigins)
	app.Use(fiberlogger.New())

	router.SetupRoutes(app, h, middleware.AuthMiddleware(tokens, blacklist, zapLogger), zapLogger)

	go func() {
		<-ctx.Done()
		zapLogger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zapLogger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("timezone", cfg.Location.String()),
		zap.String("notify_at", cfg.NotifyAt),
		zap.Strings("cors_origins", cfg.AllowedOrigins),
	)
	zapLogger.Info("API documentation available", zap.String("url", "http://localhost:"+cfg.Port+"/docs/index.html"))

	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Error("server stopped", zap.Error(err))
	}
}
