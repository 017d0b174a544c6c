package server_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"livestream-sync/core/middleware/requestid"
	"livestream-sync/core/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Addr(t *testing.T) {
	tests := []struct {
		name string
		cfg  server.Config
		want string
	}{
		{"AllInterfaces", server.Config{Port: "8080"}, ":8080"},
		{"Loopback", server.Config{Host: "127.0.0.1", Port: "9000"}, "127.0.0.1:9000"},
		{"IPv6", server.Config{Host: "::1", Port: "9000"}, "[::1]:9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Addr())
		})
	}
}

func TestNew_SetsRequestID(t *testing.T) {
	app := server.New(nil)
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestid.Header))
}

func TestRun_StopsOnCancel(t *testing.T) {
	app := server.New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx, app, "127.0.0.1:0", nil) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop")
	}
}
