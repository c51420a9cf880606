// Package daemon wires storage, identity and the web service together.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/adminconsole/admin-console/internal/activity"
	"github.com/adminconsole/admin-console/internal/auth"
	"github.com/adminconsole/admin-console/internal/config"
	dbactivity "github.com/adminconsole/admin-console/internal/db/controller/activity"
	"github.com/adminconsole/admin-console/internal/db/controller/setting"
	"github.com/adminconsole/admin-console/internal/settings"
	"github.com/adminconsole/admin-console/internal/web"
	"github.com/adminconsole/admin-console/internal/web/handler"
	"github.com/adminconsole/admin-console/internal/web/middleware/maintenance"
	"github.com/adminconsole/admin-console/internal/web/session"
)

const discoveryTimeout = 30 * time.Second

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// Start serves until a termination signal arrives and the shutdown finished.
func (d *Daemon) Start() error {
	done := make(chan struct{})

	go func() {
		d.webService.WaitShutdown()
		close(done)
	}()

	if err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port)); err != nil {
		return err
	}

	<-done

	return nil
}

// Registry returns the settings registry with the configured strategies applied.
func Registry(cfg *config.Config) (*settings.Registry, error) {
	registry := settings.DefaultRegistry()
	if err := applyStrategies(registry, cfg.Settings); err != nil {
		return nil, err
	}

	return registry, nil
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	registry, err := Registry(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Settings.SeedDefaults {
		n, err := seed(db, registry)
		if err != nil {
			return nil, err
		}

		log.Info().Int("created", n).Msg("seeded settings defaults")
	}

	recorder := activity.NewRecorder(dbactivity.NewRepository(db), nil)

	var verifier auth.TokenVerifier

	if cfg.OIDC.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), discoveryTimeout)
		defer cancel()

		v, err := auth.NewOIDCVerifier(ctx, cfg.OIDC)
		if err != nil {
			return nil, err
		}

		verifier = v
	} else {
		log.Warn().Msg("OIDC disabled: the api is open and activity is attributed to the system")
	}

	storage, err := session.NewStorage(cfg)
	if err != nil {
		return nil, err
	}

	deps := &handler.Deps{
		Auth:     auth.NewService(db, verifier, cfg.OIDC.AdminEmails, recorder),
		Sessions: session.New(cfg.Webserver.Session, storage),
		Registry: registry,
		Recorder: recorder,
		Policy:   maintenance.New(settings.NewReconciler(setting.NewRepository(db), registry), cfg.Settings.PolicyRefresh),
		Started:  time.Now(),
	}

	return &Daemon{
		cfg:        cfg,
		db:         db,
		webService: web.New(cfg, db, deps),
	}, nil
}
