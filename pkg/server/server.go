package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackrejister/form-craft-nexus/pkg/config"
	"github.com/jackrejister/form-craft-nexus/pkg/controller"
	"github.com/jackrejister/form-craft-nexus/pkg/deliverylog"
	"github.com/jackrejister/form-craft-nexus/pkg/integrations"
	"github.com/jackrejister/form-craft-nexus/pkg/log"
	"github.com/jackrejister/form-craft-nexus/pkg/middleware"
	"github.com/jackrejister/form-craft-nexus/pkg/repo"
	"github.com/jackrejister/form-craft-nexus/pkg/submission"
	"github.com/pkg/errors"
	cors "github.com/rs/cors/wrapper/gin"
)

// App holds the services the HTTP API is built from.
type App struct {
	Forms      repo.FormRepository
	Responses  repo.ResponseRepository
	Deliveries deliverylog.Recorder
	Dispatcher *integrations.Dispatcher
	Submission *submission.Service
}

func NewApp(conf config.Config) (*App, error) {
	repos, err := repo.New(conf.FormDataStore)
	if err != nil {
		return nil, err
	}
	deliveries, err := deliverylog.New(conf.DeliveryLog)
	if err != nil {
		return nil, err
	}
	dispatcher := integrations.NewDispatcher(conf.Dispatcher.IntegrationsConfig(), &http.Client{},
		log.WithField("module", "dispatcher"))
	return &App{
		Forms:      repos.Forms,
		Responses:  repos.Responses,
		Deliveries: deliveries,
		Dispatcher: dispatcher,
		Submission: submission.NewService(repos.Forms, repos.Responses, dispatcher, deliveries,
			log.WithField("module", "submission")),
	}, nil
}

// Close waits for running dispatches and releases the delivery log.
func (a *App) Close() error {
	a.Submission.Wait()
	if c, ok := a.Deliveries.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func SetupRouter(conf config.Config, app *App) *gin.Engine {
	router := gin.Default()
	c := cors.New(cors.Options{
		AllowedOrigins:   conf.Server.Cors.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		Debug:            gin.IsDebugging(),
	})

	router.Use(c)

	logger := log.WithField("module", "server")
	var fc = controller.NewFormController(app.Forms, logger)
	var ic = controller.NewIntegrationController(app.Forms, app.Dispatcher, app.Deliveries, logger)
	var rc = controller.NewResponseController(app.Submission, logger)

	v1 := router.Group("/formcraft/v1")
	{
		forms := v1.Group("/forms")
		{
			forms.GET("", fc.List)
			forms.POST("", fc.Create)
			forms.GET("/:formId", fc.Get)
			forms.PUT("/:formId", fc.Update)
			forms.DELETE("/:formId", fc.Delete)

			route := "/:formId/integrations"
			forms.PUT(route, ic.Save)
			forms.DELETE(route+"/:integrationId", ic.Delete)
			forms.POST(route+"/:integrationId/test", ic.Test)
			forms.GET(route+"/:integrationId/deliveries", ic.Deliveries)

			forms.POST("/:formId/validate", rc.Validate)
			forms.POST("/:formId/responses", middleware.NewClientMetaMiddleware(), rc.Submit)
			forms.GET("/:formId/responses", rc.List)
			forms.GET("/:formId/responses/export", rc.Export)
		}
	}
	return router
}

const shutdownTimeout = 30 * time.Second

func RunServer() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := Serve(ctx, config.GetConfig()); err != nil {
		panic(err)
	}
}

// Serve runs the API until ctx is done, then stops accepting requests and
// waits for running integration dispatches before returning.
func Serve(ctx context.Context, ac config.Config) error {
	return serve(ctx, ac, ":"+strconv.Itoa(ac.Server.Port), nil)
}

func serve(ctx context.Context, ac config.Config, addr string, ready chan<- net.Addr) error {
	logger := log.WithField("module", "server")
	app, err := NewApp(ac)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: SetupRouter(ac, app)}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		_ = app.Close()
		return errors.Wrapf(err, "error listening on %s", addr)
	}
	if ready != nil {
		ready <- ln.Addr()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err = <-errCh:
		_ = app.Close()
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	if cerr := app.Close(); err == nil {
		err = cerr
	}
	return err
}
