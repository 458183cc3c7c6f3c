package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/chat-app/modules/auth"
)

const (
	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "jwt"
	// userIDKey is the Locals key holding the authenticated user id.
	userIDKey = "userID"
	// sessionMaxAge matches the 7-day token lifetime.
	sessionMaxAge = 7 * 24 * time.Hour
)

// RequireAuth validates the session cookie and stores the user id in the
// request context. Requests without a valid session get a 401.
func RequireAuth(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "No token provided",
			})
		}

		userID, err := authPort.ValidateToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
			})
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// currentUserID returns the authenticated user id set by RequireAuth.
func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(userIDKey).(string)
	return userID
}

// setSessionCookie attaches the session token as an HTTP-only,
// same-site-strict cookie. Secure is tied to the deployment environment.
func (m *APIModule) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		MaxAge:   int(sessionMaxAge.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   m.env == "production",
		Path:     "/",
	})
}

// clearSessionCookie expires the session cookie immediately. A past
// Expires is used because fasthttp drops non-positive Max-Age values.
func (m *APIModule) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   m.env == "production",
		Path:     "/",
	})
}
