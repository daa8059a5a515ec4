package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName carries the RayID on responses and inbound requests.
const HeaderName = "X-Ray-Id"

// New returns a middleware that attaches a unique RayID to every request.
// An inbound X-Ray-Id header is honoured so upstream proxies can correlate;
// otherwise a fresh UUID is generated. The ID is stored in Locals("ray_id")
// and echoed on the response.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
