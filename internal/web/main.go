// Package web assembles the fiber application serving the console api.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/adminconsole/admin-console/internal/auth"
	"github.com/adminconsole/admin-console/internal/config"
	fiberlogger "github.com/adminconsole/admin-console/internal/logger/adapter/fiber"
	"github.com/adminconsole/admin-console/internal/web/handler"
	"github.com/adminconsole/admin-console/internal/web/handler/activity"
	"github.com/adminconsole/admin-console/internal/web/handler/admin/user"
	"github.com/adminconsole/admin-console/internal/web/handler/dashboard"
	"github.com/adminconsole/admin-console/internal/web/handler/settings"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	deps         *handler.Deps
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan error, 1)

	go func() {
		err := s.App.Listen(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("fiber listen error")
		}

		doneFiber <- err
	}()

	return <-doneFiber // wait for fiber to stop
}

// WaitShutdown waits for a termination signal and shuts the service down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown marks the service as not alive, waits the configured grace time and stops the server.
// Pending activity entries are flushed before it returns.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	if s.deps.Recorder != nil {
		s.deps.Recorder.Wait()
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive answers 200 while the service accepts traffic and 503 during shutdown.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// cleanPath collapses duplicate slashes and dot segments before routing.
func cleanPath(c *fiber.Ctx) error {
	p := c.Path()
	if cleaned := path.Clean(p); cleaned != p && cleaned != "." {
		c.Path(cleaned)
	}

	return c.Next()
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, deps *handler.Deps) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if deps == nil || deps.Registry == nil || deps.Sessions == nil {
		panic("deps cannot be nil")
	}

	if deps.Started.IsZero() {
		deps.Started = time.Now()
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	if cfg.Webserver.CleanPath {
		app.Use(cleanPath)
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:            cfg.Log,
		CacheControlError: fiberlogger.ConfigDefault.CacheControlError,
		CheckAliveURI:     CheckAlivePath,
	}))

	service := &Service{
		cfg:          cfg,
		App:          app,
		db:           db,
		deps:         deps,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, service.CheckAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group(handler.APIPath,
		auth.ClientInfo(),
		auth.Authenticate(deps.Auth),
	)

	if deps.Policy != nil {
		api.Use(deps.Policy.Middleware(deps.Auth))
	}

	// init handlers (they register their own routes with role checks)
	dashboard.Handler.Init(api, cfg, db, deps)
	settings.Handler.Init(api, cfg, db, deps)
	activity.Handler.Init(api, cfg, db, deps)
	user.Handler.Init(api, cfg, db, deps)

	if cfg.DevMode {
		log.Warn().Msg("dev mode enabled: graceful shutdown delay disabled, stack traces on panics")
	}

	return service
}
