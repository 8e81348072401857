package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/sunthewhat/easy-cert-batch/type/response"
	"github.com/sunthewhat/easy-cert-batch/type/shared"
)

// Jwt guards routes with a bearer token signed by secret. An empty secret
// disables the guard.
func Jwt(secret string) fiber.Handler {
	if secret == "" {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	conf := jwtware.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "header:Authorization",
		AuthScheme:  "Bearer",
		ContextKey:  "auth",
		Claims:      new(shared.ClientClaims),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return response.SendUnauthorized(c, "JWT validation failure")
		},
	}
	return jwtware.New(conf)
}
