package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logging returns a middleware that logs one line per request with the
// method, path, status and latency.
func Logging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		log.Printf("[HTTP] %s %s -> %d (%s)", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}
