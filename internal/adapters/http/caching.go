package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if a handler already set one
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		// Default cache times by endpoint pattern
		switch {
		case path == "/healthz" || path == "/readyz":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0"

		case strings.HasPrefix(path, "/v1/places"):
			ttl = "public, max-age=3600" // Gazetteer is static

		case strings.HasPrefix(path, "/v1/lots"):
			ttl = "public, max-age=30" // Availability moves with the live feed

		// Settings, history, and user params are per-user state.
		case strings.HasPrefix(path, "/v1/settings"),
			strings.HasPrefix(path, "/v1/history"),
			strings.HasPrefix(path, "/v1/users"):
			ttl = "private, no-store"

		case strings.HasPrefix(path, "/v1/search"),
			strings.HasPrefix(path, "/v1/recommendations"):
			ttl = "private, max-age=0" // Depends on stored settings

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=60"
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
