package middleware

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger logs each HTTP request as one JSON object per line on stdout,
// with timestamps in the server's local timezone.
func Logger() fiber.Handler {
	return LoggerWithWriter(os.Stdout, time.Local)
}

// LoggerWithWriter is Logger with an explicit sink and timezone. Fields:
// ts, request_id, method, path, status, latency (milliseconds), plus the
// acting user's login once Auth has resolved the session.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	enc := json.NewEncoder(w)

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// Collected after the handler ran, to capture the final status.
		rid, _ := c.Locals(RequestIDLocalKey).(string)
		line := map[string]any{
			"ts":         time.Now().In(loc).Format(time.RFC3339),
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency":    float64(time.Since(start).Microseconds()) / 1000.0,
		}
		if user := UserFromCtx(c); user != nil {
			line["user"] = user.Login
		}
		_ = enc.Encode(line)

		return err
	}
}
