package main

import (
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"cmsapi/docs"
)

// swaggerUI serves the API docs with the caller's host and scheme.
// docs.SwaggerInfo is shared, so each render holds the lock from update to write.
func swaggerUI() fiber.Handler {
	var mu sync.Mutex
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}
		host := c.Get(fiber.HeaderHost)

		mu.Lock()
		defer mu.Unlock()
		docs.SwaggerInfo.Host = host
		docs.SwaggerInfo.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	}
}
