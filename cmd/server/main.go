package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/auctionhouse/backend/internal/application/export"
	"github.com/auctionhouse/backend/internal/application/intake"
	"github.com/auctionhouse/backend/internal/infrastructure/config"
	"github.com/auctionhouse/backend/internal/infrastructure/imagestore"
	"github.com/auctionhouse/backend/internal/infrastructure/logger"
	"github.com/auctionhouse/backend/internal/infrastructure/pdfconvert"
	"github.com/auctionhouse/backend/internal/infrastructure/persistence"
	"github.com/auctionhouse/backend/internal/infrastructure/sheet"
	"github.com/auctionhouse/backend/internal/interfaces/http/handler"
	"github.com/auctionhouse/backend/internal/interfaces/http/middleware"
	"github.com/auctionhouse/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting auction back office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.Open(cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := persistence.AutoMigrate(db); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	scope := persistence.NewGormTransactionScope(db)
	resolver := imagestore.NewFSResolver(cfg.Storage.SystemImageRoot, cfg.Storage.BaseDir)

	builder := sheet.NewWorkbookBuilder(&sheet.Config{
		ImageCellPx:  cfg.Export.ImageCellPx,
		AllowUpscale: cfg.Export.AllowUpscale,
		Title:        cfg.Export.Title,
		FontName:     cfg.Export.FontName,
		UnitLabel:    cfg.Export.UnitLabel,
		SheetName:    cfg.Export.SheetName,
		LogoPath:     cfg.Storage.LogoPath,
		Logger:       log,
	}, resolver)

	// The PDF bridge needs a LibreOffice install on the host. When it is
	// missing the spreadsheet export keeps working and the PDF endpoint
	// reports the feature as unavailable.
	var converter pdfconvert.Converter = pdfconvert.Unavailable{}
	if cfg.PDF.Enabled {
		lo, err := pdfconvert.NewLibreOfficeConverter(&pdfconvert.LibreOfficeConfig{
			BinaryPath:     cfg.PDF.BinaryPath,
			DefaultTimeout: cfg.PDF.Timeout,
			TempDir:        cfg.PDF.TempDir,
			Logger:         log,
		})
		if err != nil {
			log.Warn("PDF conversion disabled", zap.Error(err))
		} else {
			converter = lo
		}
	}

	// Application services
	intakeService := intake.NewService(scope, log)
	exportService := export.NewService(scope, resolver, builder, converter,
		cfg.Storage.ExportDir, log)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.SecurityHeaders(),
	)
	engine.NoRoute(middleware.NoRoute())

	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler(cfg.App.Name))
	r.Register(handler.NewIntakeHandler(intakeService))
	r.Register(handler.NewExportHandler(exportService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
