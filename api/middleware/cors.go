package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// Cors allows the configured origins, or any origin when none are set.
func Cors(origins []*string) fiber.Handler {
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin != nil && *origin != "" {
			allowed = append(allowed, *origin)
		}
	}

	conf := cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Disposition, X-Job-Id",
	}
	if len(allowed) > 0 {
		conf.AllowOrigins = strings.Join(allowed, ",")
	}
	return cors.New(conf)
}
