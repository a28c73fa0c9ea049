package cli

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/goliatone/go-router"
	"github.com/spf13/cobra"

	hardcopyrouter "github.com/goliatone/go-hardcopy/adapters/router"
	hardcopytemplate "github.com/goliatone/go-hardcopy/adapters/template"
	hardcopyview "github.com/goliatone/go-hardcopy/adapters/view"
	"github.com/goliatone/go-hardcopy/config"
	"github.com/goliatone/go-hardcopy/hardcopy"
)

const shutdownTimeout = 10 * time.Second

// route pairs a route pattern with the view serving it.
type route struct {
	path string
	view *hardcopyview.View
}

func newServeCmd(d deps) *cobra.Command {
	var host, port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve templates as PDF and PNG documents over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			if host != "" {
				cfg.Server.Host = host
			}
			if port != "" {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(ctx, d, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host, overrides config")
	cmd.Flags().StringVar(&port, "port", "", "listen port, overrides config")
	return cmd
}

func runServe(ctx context.Context, d deps, cfg config.Config, logger *log.Logger) error {
	templates, err := hardcopytemplate.NewPongo2Executor(cfg.View.TemplateDir)
	if err != nil {
		return err
	}
	engine, release, err := d.newEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn("release engine", "err", err)
		}
	}()

	srv := router.NewFiberAdapter(fiberAppInitializer(cfg.Server.AppName))
	registerRoutes(srv.Router(), newRoutes(cfg, engine, templates, logger))

	addr := cfg.Server.Addr()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", "http://"+addr, "templates", cfg.View.TemplateDir)
		errCh <- srv.Serve(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func fiberAppInitializer(appName string) func(*fiber.App) *fiber.App {
	return func(*fiber.App) *fiber.App {
		app := fiber.New(fiber.Config{
			AppName:               appName,
			DisableStartupMessage: true,
		})
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
		}))
		return app
	}
}

// newRoutes builds one view per output format, sharing the template set
// and engine.
func newRoutes(cfg config.Config, engine hardcopy.Engine, templates hardcopytemplate.TemplateExecutor, logger hardcopy.Logger) []route {
	base := hardcopyview.View{
		TemplateResolver:   hardcopyview.TemplateFromParam("template"),
		Templates:          templates,
		DownloadAttachment: cfg.View.DownloadAttachment,
		VirtualTimeBudget:  cfg.View.VirtualTimeBudget,
		Options:            hardcopy.Options(cfg.View.Options).Clone(),
		Logger:             logger,
		TempDir:            cfg.Renderer.TempDir,
		MaxBufferBytes:     cfg.View.MaxBufferBytes,
	}

	pdf := base
	pdf.Converter = hardcopy.PDFConverter{Engine: engine}

	png := base
	png.Options = hardcopy.Options(cfg.View.Options).Clone()
	png.Converter = hardcopy.NewPNGConverter(engine)

	return []route{
		{path: "/pdf/:template", view: &pdf},
		{path: "/png/:template", view: &png},
	}
}

func registerRoutes(r any, routes []route) {
	for _, rt := range routes {
		hardcopyrouter.NewHandler(rt.view).RegisterRoutes(r, rt.path)
	}
}
