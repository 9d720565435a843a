package handlers

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// getUserIDFromContext returns the authenticated user id placed on the
// context by the session middleware, or the zero ObjectID when absent.
func getUserIDFromContext(c echo.Context) primitive.ObjectID {
	id, ok := c.Get("userID").(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID
	}
	return id
}

// getSessionTokenFromContext returns the raw session token for the request.
func getSessionTokenFromContext(c echo.Context) string {
	token, _ := c.Get("sessionToken").(string)
	return token
}
