package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"condo/config"
	"condo/internal/db"
	"condo/internal/health"
	"condo/internal/identity"
	"condo/internal/logs"
	"condo/internal/metrics"
	"condo/internal/middleware"
	"condo/internal/repo"
	"condo/internal/web"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Логи */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) DB (опционально) */
	stores := repo.NewMemoryStores()
	if drv := a.cfg.Database.Driver; drv != "" {
		d, err := db.Open(drv, a.cfg.Database.DSN)
		if err != nil {
			logs.Logger.Fatalf("db open failed: %v", err)
		}
		if err := db.Configure(d, db.Pool{
			MaxOpenConns:    a.cfg.Database.MaxOpenConns,
			MaxIdleConns:    a.cfg.Database.MaxIdleConns,
			ConnMaxLifetime: a.cfg.Database.ConnMaxLifetime,
		}); err != nil {
			logs.Logger.Fatalf("db pool config failed: %v", err)
		}
		if err := db.Migrate(d); err != nil {
			logs.Logger.Fatalf("db migrate failed: %v", err)
		}
		a.db = d
		stores = repo.NewGormStores(d)
	} else {
		logs.Logger.Warn("database.driver is empty: data lives in memory and is lost on restart")
	}

	/* 3) Учётки и сессии */
	ids := identity.NewService(stores.Accounts, identity.Options{BcryptCost: a.cfg.Auth.BcryptCost})
	sessions := identity.NewSessions(identity.SessionConfig{
		Secret:     []byte(a.cfg.Auth.SessionSecret),
		TTL:        a.cfg.Auth.SessionTTL,
		CookieName: a.cfg.Auth.CookieName,
		Secure:     a.cfg.Auth.CookieSecure,
	})
	if email := a.cfg.Bootstrap.AdminEmail; email != "" {
		created, err := ids.EnsureAdministrator(context.Background(), email, a.cfg.Bootstrap.AdminPassword)
		if err != nil {
			logs.Logger.Fatalf("bootstrap failed: %v", err)
		}
		if created {
			logs.Logger.WithField("email", email).Info("bootstrap administrator created")
		}
	}

	/* 4) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
		middleware.Metrics,
	)

	/* 5) Health + metrics */
	health.RegisterRoutes(a.Router, a.db) // /healthz, /readyz
	if a.cfg.Metrics.Enabled {
		a.Router.Handle(a.cfg.Metrics.Path, metrics.Handler()).Methods(http.MethodGet)
	}

	/* 6) Страницы */
	web.Attach(a.Router, web.Dependencies{Identity: ids, Sessions: sessions, Stores: stores})

	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := rt.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		logs.Logger.WithFields(logrus.Fields{"methods": methods, "path": path}).Debug("route")
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-a.ctx.Done():
	case err := <-errc:
		a.cancel()
		return fmt.Errorf("http server: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return nil
}
