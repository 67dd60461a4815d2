package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"s3bridge/core/loader"
	"s3bridge/core/logger"
	"s3bridge/core/middleware/auth"
	"s3bridge/core/middleware/rayid"
	"s3bridge/feature/objects"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the HTTP server exposing the object operations and prometheus metrics.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()
		zap.ReplaceGlobals(rt.logger)

		app, err := newApp(rt)
		if err != nil {
			return err
		}

		errc := make(chan error, 1)
		go func() {
			rt.logger.Info("Starting server", zap.String("addr", rt.cfg.Server.Address()))
			errc <- app.Listen(rt.cfg.Server.Address())
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errc:
			return err
		case <-c:
		}

		rt.logger.Info("Shutting down server...")
		return app.Shutdown()
	},
}

// newApp builds the fiber application for rt.
func newApp(rt *runtime) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             rt.cfg.Server.BodyLimit(),
	})

	// RayID first so every later log line carries it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(rt.logger, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	var public []string
	if rt.metrics != nil {
		path := rt.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(rt.metrics.Handler()))
		public = append(public, path)
	}

	app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey, Skip: public}))

	mgr := loader.NewManager(rt.logger)
	mgr.Register(objects.NewFeature(rt.service))
	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}

	return app, nil
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
