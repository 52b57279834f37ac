package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/openmeteo-lite/internal/api"
	"github.com/bobby-s-dev/openmeteo-lite/internal/config"
	"github.com/bobby-s-dev/openmeteo-lite/internal/i18n"
	"github.com/bobby-s-dev/openmeteo-lite/internal/scheduler"
	"github.com/bobby-s-dev/openmeteo-lite/internal/services"
	"github.com/bobby-s-dev/openmeteo-lite/internal/settings"
	"github.com/bobby-s-dev/openmeteo-lite/internal/units"
	"github.com/bobby-s-dev/openmeteo-lite/pkg/client"
)

const (
	providerName = "Open-Meteo Lite"
	providerLogo = "resources/images/icon.png"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting Open-Meteo Lite", zap.String("version", client.Version))

	store, err := settings.Open(cfg.Settings.File, logger)
	if err != nil {
		logger.Fatal("Failed to open settings", zap.Error(err))
	}

	catalog := i18n.NewCatalog(cfg.Locale.LanguageDir, cfg.Locale.Language, logger)
	if err := catalog.Err(); err != nil {
		logger.Fatal("Failed to load language files", zap.Error(err))
	}

	formats := services.DisplayFormats{
		TimeLayout:      cfg.Locale.TimeFormat,
		ShortDateLayout: cfg.Locale.ShortDateFormat,
		LongDateLayout:  cfg.Locale.LongDateFormat,
		TemperatureUnit: units.ParseTemperatureUnit(cfg.Locale.TemperatureUnit),
		SpeedUnit:       units.ParseSpeedUnit(cfg.Locale.SpeedUnit),
	}
	presenter := services.NewPresenter(catalog, formats, services.Provider{
		Name: catalog.Gettext(providerName),
		Logo: providerLogo,
	})

	openMeteo := client.NewOpenMeteoClient(client.OpenMeteoConfig{
		ClientConfig: client.ClientConfig{
			Timeout:        cfg.OpenMeteo.Timeout,
			Threshold:      cfg.CircuitBreaker.Threshold,
			BreakerTimeout: cfg.CircuitBreaker.Timeout,
		},
		ForecastURL:  cfg.OpenMeteo.ForecastURL,
		GeocodingURL: cfg.OpenMeteo.GeocodingURL,
		HourlyHours:  cfg.OpenMeteo.HourlyHours,
		ForecastDays: cfg.OpenMeteo.ForecastDays,
	}, logger)

	cache := services.NewJSONCache(cfg.Cache.Dir, "get_forecast", cfg.Cache.TTL, logger)
	cache.StartCleanup(cfg.Cache.TTL)
	defer cache.Stop()

	weather := services.NewWeatherService(openMeteo, store, cache, presenter, logger)

	weatherScheduler, err := scheduler.NewScheduler(weather, cfg.Scheduler.Schedule, cfg.Scheduler.Timeout, logger)
	if err != nil {
		logger.Fatal("Failed to initialize scheduler", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: api.ErrorHandler,
	})

	handler := api.NewHandler(weather, weatherScheduler, catalog, formats, logger)
	api.SetupRoutes(app, handler)

	weatherScheduler.Start()

	// Populate once on start so properties are available before the first tick
	go func() {
		if err := weatherScheduler.RunNow(context.Background()); err != nil {
			logger.Warn("Initial weather refresh failed", zap.Error(err))
		}
	}()

	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	weatherScheduler.Stop(ctx)

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func newLogger(cfg *config.Config) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	if cfg.Server.LogLevel == "debug" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = cfg.ZapLevel()

	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
