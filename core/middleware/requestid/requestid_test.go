package requestid

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	app := fiber.New()
	app.Use(New())
	var seen string
	app.Get("/", func(c *fiber.Ctx) error {
		seen, _ = c.Locals(LocalsKey).(string)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	id := resp.Header.Get(Header)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, seen)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(Header, "upstream-id")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "upstream-id", resp.Header.Get(Header))
	assert.Equal(t, "upstream-id", seen)
}
