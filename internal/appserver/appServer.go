// launching the collage HTTP service
package appserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/menta2k/vcollage"
	"github.com/menta2k/vcollage/internal/config"
	"github.com/menta2k/vcollage/internal/service"
	"github.com/menta2k/vcollage/internal/transport"
	"github.com/menta2k/vcollage/internal/worker"
	"github.com/menta2k/vcollage/pkg/processing"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		ErrorLog:          log.New(logrus.StandardLogger().WriterLevel(logrus.ErrorLevel), "", 0),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// NewHandler wires the session service and routes from cfg
func NewHandler(cfg *config.Config) (http.Handler, error) {
	handler, _, err := newApp(cfg)
	return handler, err
}

func newApp(cfg *config.Config) (http.Handler, service.CollageService, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, nil, err
	}
	resizer, err := cfg.Resizer()
	if err != nil {
		return nil, nil, err
	}
	format, err := processing.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	svc := service.NewCollageService(vcollage.Config{
		Resizer:       resizer,
		Limits:        cfg.Limits(),
		PreviewWidth:  cfg.Preview.MaxWidth,
		PreviewHeight: cfg.Preview.MaxHeight,
		SaveOptions:   cfg.SaveOptions(),
	}, cfg.Server.SessionTTL)
	h := transport.NewCollageHandler(svc, transport.Defaults{
		Params:         params,
		Limits:         cfg.Limits(),
		Format:         format,
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
		RenderTimeout:  cfg.Server.WriteTimeout,
	})
	return transport.InitRoutes(h), svc, nil
}

// NewServer runs the service until SIGINT or SIGTERM
func NewServer(cfg *config.Config) error {
	handler, svc, err := newApp(cfg)
	if err != nil {
		return err
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if cfg.Server.SessionTTL > 0 {
		go worker.NewSessionSweeper(svc, cfg.Server.SweepInterval).Start(workerCtx)
	}

	srv := new(Server)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Run(cfg, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logrus.WithField("port", cfg.Server.Port).Info("app started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logrus.Info("app shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occurred on server shutting down: %s", err.Error())
		return err
	}
	return nil
}
