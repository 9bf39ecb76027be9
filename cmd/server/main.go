package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/mshevtsov/dapconfig/internal/application"
	"github.com/mshevtsov/dapconfig/internal/config"
	"github.com/mshevtsov/dapconfig/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("dapconfig", "Configuration service for the data analytics platform")
	configFile := kingpinApp.Flag("config", "Path to the platform configuration file (YAML)").String()
	listen := kingpinApp.Flag("listen", "Address the HTTP service binds to").Default(":8080").String()
	checkOnly := kingpinApp.Flag("check", "Validate the configuration file and exit").Bool()
	rateLimitRPS := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed").Default("25").Float64()
	rateLimitBurst := kingpinApp.Flag("rate-limit-burst", "Burst capacity for the rate limiter").Default("50").Int()
	requestLogging := kingpinApp.Flag("request-logging", "Emit an access log entry per request").Default("true").Bool()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	cfg, warnings, err := loadConfig(*configFile)
	if err != nil {
		printLoadError(os.Stderr, err)
		os.Exit(1)
	}

	if *checkOnly {
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", warning.Path, warning.Message)
		}
		fmt.Println("configuration OK")
		return
	}

	tree, err := logging.NewTree(cfg.Logging)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logging: %v", err))
	}
	defer func() {
		_ = tree.Close()
	}()

	logger := tree.Logger("server")
	for _, warning := range warnings {
		logger.Warn("configuration warning",
			zap.String("path", warning.Path),
			zap.String("reason", warning.Message),
		)
	}

	settings := application.DefaultSettings()
	settings.Addr = *listen
	settings.RateLimitRPS = *rateLimitRPS
	settings.RateLimitBurst = *rateLimitBurst
	settings.RequestLogging = *requestLogging

	app := application.New(cfg, *configFile, settings, logger)
	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	waitForSignals(app, settings.ShutdownGracePeriod, logger)
}

// loadConfig resolves the configuration document, falling back to the
// compiled-in defaults when no file is given.
func loadConfig(path string) (config.AppConfig, []config.Warning, error) {
	if path == "" {
		return config.Default(), nil, nil
	}
	return config.LoadFile(path)
}

// printLoadError writes the complete violation list so the operator can
// fix every problem in one pass before retrying startup.
func printLoadError(w io.Writer, err error) {
	var verr *config.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(w, "configuration invalid, %d violation(s):\n", len(verr.Violations))
		for _, v := range verr.Violations {
			fmt.Fprintf(w, "  - %s\n", v.String())
		}
		return
	}
	fmt.Fprintf(w, "failed to load configuration: %v\n", err)
}

// waitForSignals blocks until a termination signal arrives, reloading the
// configuration on SIGHUP in the meantime.
func waitForSignals(app *application.App, grace time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range quit {
		if sig != syscall.SIGHUP {
			break
		}
		logger.Info("reload signal received")
		warnings, err := app.Reload()
		if err != nil {
			logger.Error("configuration reload failed", zap.Error(err))
			continue
		}
		for _, warning := range warnings {
			logger.Warn("configuration warning",
				zap.String("path", warning.Path),
				zap.String("reason", warning.Message),
			)
		}
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := app.Server().Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := app.Server().Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
