package agent

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	v1 "github.com/erikmagkekse/dshare/agent/api/v1"
	"github.com/erikmagkekse/dshare/exports"
	"github.com/erikmagkekse/dshare/model"

	"github.com/labstack/echo/v5"
	"github.com/rs/zerolog/log"
)

// Agent serves the export registry of this host over HTTP.
type Agent struct {
	cfg     *model.AgentConfig
	server  *exports.Server
	version string
	commit  string
}

func NewAgent(cfg *model.AgentConfig, server *exports.Server, version, commit string) *Agent {
	return &Agent{cfg: cfg, server: server, version: version, commit: commit}
}

// Router builds the HTTP routes.
func (a *Agent) Router() *echo.Echo {
	e := echo.New()

	e.Use(v1.MetricsMiddleware())

	features := map[string]string{
		"exports_file": a.server.File(),
	}
	if a.cfg.ReconcileInterval > 0 {
		features["reconcile"] = a.cfg.ReconcileInterval.String()
	}

	// unauthenticated endpoints
	e.GET("/healthz", v1.Healthz(a.version, a.commit, features))
	e.GET("/metrics", v1.MetricsHandler())

	h := &v1.Handler{Server: a.server}
	api := e.Group("/v1", v1.AuthMiddleware(a.cfg.Token))

	api.GET("/exports", h.ListExports)
	api.GET("/exports/active", h.ListActive)
	api.POST("/exports", h.CreateExport)
	api.DELETE("/exports", h.DeleteExport)

	return e
}

// Run serves until ctx is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	if a.cfg.Token == "" {
		return errors.New("DSHARE_AGENT_TOKEN is required to serve the agent API")
	}

	if a.cfg.ReconcileInterval > 0 {
		NewReconciler(a.server).Start(ctx, a.cfg.ReconcileInterval)
	}

	s := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if a.cfg.TLSCert != "" && a.cfg.TLSKey != "" {
			s.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			log.Info().Str("addr", a.cfg.ListenAddr).Msg("starting agent with TLS")
			err = s.ListenAndServeTLS(a.cfg.TLSCert, a.cfg.TLSKey)
		} else {
			log.Warn().Str("addr", a.cfg.ListenAddr).Msg("starting agent without TLS - set DSHARE_AGENT_TLS_CERT and DSHARE_AGENT_TLS_KEY for production")
			err = s.ListenAndServe()
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down agent")
	return s.Shutdown(shutdownCtx)
}
