package api

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	// WebSocket endpoint; the client supplies its user id as a
	// handshake query parameter.
	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	m.app.Get("/ws", websocket.New(m.handleWebSocket))

	api := m.app.Group("/api")

	api.Get("/health", m.health)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", m.signup)
	authRoutes.Post("/login", m.login)
	authRoutes.Post("/logout", m.logout)
	authRoutes.Get("/check", RequireAuth(m.authPort), m.checkAuth)
	authRoutes.Put("/update-profile", RequireAuth(m.authPort), m.updateProfile)

	msgRoutes := api.Group("/messages", RequireAuth(m.authPort))
	msgRoutes.Get("/users", m.listUsers)
	msgRoutes.Get("/:id", m.getMessages)
	msgRoutes.Post("/send/:id", m.sendMessage)

	api.Get("/files/:name", m.getFile)
}

// health handles GET /api/health.
func (m *APIModule) health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:      "Server is running",
		Environment: m.env,
		Timestamp:   time.Now(),
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
		},
	})
}

// signup handles POST /api/auth/signup.
func (m *APIModule) signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	session, err := m.authPort.Signup(c.UserContext(), req.FullName, req.Email, req.Password)
	if err != nil {
		return mapServiceError(c, err)
	}

	m.setSessionCookie(c, session.Token)
	return c.Status(fiber.StatusCreated).JSON(session.User)
}

// login handles POST /api/auth/login.
func (m *APIModule) login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	session, err := m.authPort.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return mapServiceError(c, err)
	}

	m.setSessionCookie(c, session.Token)
	return c.Status(fiber.StatusOK).JSON(session.User)
}

// logout handles POST /api/auth/logout. Sessions are stateless, so all
// logout does is clear the cookie.
func (m *APIModule) logout(c *fiber.Ctx) error {
	m.clearSessionCookie(c)
	return c.Status(fiber.StatusOK).JSON(MessageResponse{
		Message: "Logged out successfully",
	})
}

// checkAuth handles GET /api/auth/check.
func (m *APIModule) checkAuth(c *fiber.Ctx) error {
	user, err := m.authPort.GetUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// updateProfile handles PUT /api/auth/update-profile.
func (m *APIModule) updateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := m.authPort.UpdateProfile(c.UserContext(), currentUserID(c), req.ProfilePic)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// listUsers handles GET /api/messages/users.
func (m *APIModule) listUsers(c *fiber.Ctx) error {
	users, err := m.authPort.ListUsers(c.UserContext(), currentUserID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// getMessages handles GET /api/messages/:id.
func (m *APIModule) getMessages(c *fiber.Ctx) error {
	messages, err := m.messagePort.Conversation(c.UserContext(), currentUserID(c), c.Params("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(messages)
}

// sendMessage handles POST /api/messages/send/:id.
func (m *APIModule) sendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	msg, err := m.messagePort.Send(c.UserContext(), currentUserID(c), c.Params("id"), req.Text, req.Image)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// getFile handles GET /api/files/:name, serving stored image blobs.
func (m *APIModule) getFile(c *fiber.Ctx) error {
	img, err := m.filesPort.GetImage(c.UserContext(), c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "File not found",
		})
	}
	c.Set(fiber.HeaderContentType, img.ContentType)
	return c.Send(img.Data)
}

// handleWebSocket handles connections at /ws. The read loop exists only
// to detect the close; clients do not send application messages upstream.
func (m *APIModule) handleWebSocket(c *websocket.Conn) {
	userID := c.Query("userId")

	connID := m.hub.Connect(userID, c)
	defer m.hub.Disconnect(connID)

	if userID == "" {
		log.Printf("[api] WebSocket client connected without userId (conn %s)", connID)
	} else {
		log.Printf("[api] WebSocket client connected: user %s (conn %s)", userID, connID)
	}

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[api] WebSocket client closed connection (conn %s)", connID)
			}
			break
		}
	}
}

// badRequest writes a 400 with the given message.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

// mapServiceError translates service errors into HTTP responses. Errors
// cross the service-container boundary as strings, so mapping is by
// known message. Unknown errors become a generic 500 and are logged,
// never echoed to the client.
func mapServiceError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password",
		})
	case strings.Contains(errStr, "receiver not found"),
		strings.Contains(errStr, "user not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "User not found",
		})
	case strings.Contains(errStr, "already in use"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Email already in use",
		})
	default:
		if msg, ok := validationMessage(errStr); ok {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "validation_error",
				Message: msg,
			})
		}
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
		})
	}
}

// validationMessage matches user-correctable service errors and returns
// the canonical client-facing message for each.
func validationMessage(errStr string) (string, bool) {
	known := []string{
		"all fields are required",
		"password must be at least 6 characters",
		"password must be at most 72 characters",
		"invalid email format",
		"message must contain text or image",
		"receiver ID is required",
		"invalid receiver ID format",
		"invalid user ID",
		"profile picture is required",
		"file size must be less than 5MB",
		"image size must be less than 10MB",
		"image size exceeds limit",
		"failed to upload image",
	}
	for _, msg := range known {
		if strings.Contains(errStr, msg) {
			return msg, true
		}
	}
	return "", false
}
