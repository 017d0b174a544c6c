package server

import (
	"context"
	"errors"

	"livestream-sync/core/logger"
	"livestream-sync/core/middleware/requestid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// New creates a Fiber app with request ids and request logging.
func New(log *zap.Logger) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// request ids first so every log line can carry one
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRequestID(log, c)
		l.Debug("Request started",
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
	return app
}

// Run serves app on addr until ctx is done, then shuts it down.
func Run(ctx context.Context, app *fiber.App, addr string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("Starting listener", zap.String("addr", addr))
		errc <- app.Listen(addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down listener")
	if err := app.Shutdown(); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
