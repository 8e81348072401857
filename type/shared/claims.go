package shared

import "github.com/golang-jwt/jwt/v4"

// ClientClaims identifies the caller of the generation endpoints when the
// API guard is enabled.
type ClientClaims struct {
	Client *string `json:"client"`
	jwt.RegisteredClaims
}
