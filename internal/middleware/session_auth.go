package middleware

import (
	"net/http"
	"strings"

	"github.com/bookxchange/backend/internal/models"
	"github.com/bookxchange/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const notLoggedInMessage = "You are not logged in, please login to continue"

// SessionAuth checks for a valid JWT whose session record is still live,
// and stores the authenticated user id on the context. Logging out (or a
// purge) kills the session even if the token itself has not expired.
func SessionAuth(sessions repositories.SessionRepository, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := extractToken(c)
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, notLoggedInMessage)
			}

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, notLoggedInMessage)
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, notLoggedInMessage)
			}

			// The session record must still exist; tokens alone are not
			// enough once the user has logged out.
			if _, err := sessions.GetSessionByToken(c.Request().Context(), tokenString); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, notLoggedInMessage)
			}

			c.Set("userID", userID)
			c.Set("sessionToken", tokenString)

			return next(c)
		}
	}
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the jwt_token cookie set at login.
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie("jwt_token")
	if err != nil {
		return ""
	}
	return cookie.Value
}
