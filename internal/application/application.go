package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mshevtsov/dapconfig/internal/api"
	"github.com/mshevtsov/dapconfig/internal/config"
	"github.com/mshevtsov/dapconfig/internal/storage"
)

// ErrNoConfigFile is returned when a reload is requested but the service
// was started without a configuration file.
var ErrNoConfigFile = errors.New("no configuration file to reload")

// Settings holds the runtime options of the HTTP service itself, as
// opposed to the platform configuration document it serves.
type Settings struct {
	Addr                string
	ShutdownGracePeriod time.Duration
	ReadHeaderTimeout   time.Duration
	WriteTimeout        time.Duration
	IdleTimeout         time.Duration
	RateLimitRPS        float64
	RateLimitBurst      int
	RequestLogging      bool
}

// DefaultSettings returns the stock service settings.
func DefaultSettings() Settings {
	return Settings{
		Addr:                ":8080",
		ShutdownGracePeriod: 10 * time.Second,
		ReadHeaderTimeout:   5 * time.Second,
		WriteTimeout:        15 * time.Second,
		IdleTimeout:         60 * time.Second,
		RateLimitRPS:        25,
		RateLimitBurst:      50,
		RequestLogging:      true,
	}
}

// App encapsulates the application dependencies and HTTP server.
type App struct {
	store      *storage.MemoryStore
	handler    *api.Handler
	router     http.Handler
	logger     *zap.Logger
	server     *http.Server
	configPath string
}

// New initializes the application around the loaded configuration
// snapshot. When configPath is non-empty the reload endpoint and signal
// both re-read that file.
func New(cfg config.AppConfig, configPath string, settings Settings, logger *zap.Logger) *App {
	app := &App{
		store:      storage.NewMemoryStore(&cfg),
		logger:     logger,
		configPath: configPath,
	}

	handlerOpts := []api.HandlerOption{}
	if configPath != "" {
		handlerOpts = append(handlerOpts, api.WithReload(app.reload))
	}
	app.handler = api.NewHandler(app.store, handlerOpts...)
	app.router = api.NewRouter(app.handler, logger,
		api.WithLogging(settings.RequestLogging),
		api.WithRateLimit(settings.RateLimitRPS, settings.RateLimitBurst),
	)

	addr := settings.Addr
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	app.server = &http.Server{
		Addr:              addr,
		Handler:           app.router,
		ReadHeaderTimeout: settings.ReadHeaderTimeout,
		WriteTimeout:      settings.WriteTimeout,
		IdleTimeout:       settings.IdleTimeout,
	}

	return app
}

// Reload re-reads the configuration file and swaps the active snapshot.
func (a *App) Reload() ([]config.Warning, error) {
	if a.configPath == "" {
		return nil, ErrNoConfigFile
	}
	return a.reload()
}

func (a *App) reload() ([]config.Warning, error) {
	cfg, warnings, err := config.LoadFile(a.configPath)
	if err != nil {
		return warnings, fmt.Errorf("reload configuration: %w", err)
	}
	a.store.Replace(&cfg)
	a.logger.Info("configuration reloaded", zap.String("path", a.configPath))
	return warnings, nil
}

// Store exposes the snapshot store, primarily for tests.
func (a *App) Store() *storage.MemoryStore {
	return a.store
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
