package middleware

import (
	"net/http"

	"fasttrack-courier/internal/models"
	"fasttrack-courier/internal/rules"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// ActorFromContext rebuilds the rules-layer actor from the context keys the
// JWT middleware populated.
func ActorFromContext(c echo.Context) rules.Actor {
	id, _ := c.Get("userID").(string)
	email, _ := c.Get("userEmail").(string)
	role, _ := c.Get("userRole").(string)
	return rules.Actor{ID: id, Email: email, Role: role}
}

// JWT returns the authentication middleware. It verifies the HS256 bearer
// token and copies the claims the handlers rely on into the echo context under
// the userID, userRole and userEmail keys.
func JWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: models.ErrInvalidToken.Error()})
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return
			}
			if sub, ok := claims["sub"].(string); ok {
				c.Set("userID", sub)
			}
			if role, ok := claims["role"].(string); ok {
				c.Set("userRole", role)
			}
			if email, ok := claims["email"].(string); ok {
				c.Set("userEmail", email)
			}
		},
	})
}

// RequireAdmin rejects non-admin callers before the handler runs. It must be
// mounted after JWT so the role claim is present.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := c.Get("userRole").(string); role != models.RoleAdmin {
			return c.JSON(http.StatusForbidden, models.ErrorResponse{Message: "Admin access required"})
		}
		return next(c)
	}
}
