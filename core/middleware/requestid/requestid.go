package requestid

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// Header carries the request id.
	Header = "X-Request-ID"
	// LocalsKey is where the id is stored in the request locals.
	LocalsKey = "request_id"
)

// New returns a middleware that reuses an incoming X-Request-ID or
// generates a new one.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.NewString()
		} else {
			// fiber reuses the request buffer
			id = strings.Clone(id)
		}
		c.Locals(LocalsKey, id)
		c.Set(Header, id)
		return c.Next()
	}
}
