package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/model"
	authutil "github.com/sahilchouksey/study-planner/utils/auth"
	"github.com/sahilchouksey/study-planner/utils/middleware"
	"github.com/sahilchouksey/study-planner/utils/response"
	"github.com/sahilchouksey/study-planner/utils/validation"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Email = strings.ToLower(validation.SanitizeString(req.Email))

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	ip := c.IP()

	var user model.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return response.InternalServerError(c, "Failed to look up user")
		}
		h.recordFailure(c, ip)
		return response.Unauthorized(c, "Invalid email or password")
	}

	if err := authutil.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		h.recordFailure(c, ip)
		return response.Unauthorized(c, "Invalid email or password")
	}

	if err := h.bruteForceProtection.RecordSuccessfulAttempt(c, ip); err != nil {
		log.Warnf("failed to clear login attempts for %s: %v", ip, err)
	}

	expiresAt, err := h.startSession(c, &user)
	if err != nil {
		return response.InternalServerError(c, "Failed to create session")
	}

	return response.Success(c, SessionResponse{
		Message:   "Login successful",
		User:      toUserResponse(&user),
		ExpiresAt: expiresAt,
	})
}

func (h *AuthHandler) recordFailure(c *fiber.Ctx, ip string) {
	if err := h.bruteForceProtection.RecordFailedAttempt(c, ip); err != nil {
		log.Warnf("failed to record login attempt for %s: %v", ip, err)
	}
}

// Logout handles POST /api/auth/logout. It succeeds without a session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if jti, ok := middleware.GetTokenJTI(c); ok && jti != "" {
		if err := h.sessions.Delete(c.UserContext(), jti); err != nil {
			return response.InternalServerError(c, "Logout failed")
		}
	}

	middleware.ClearSessionCookie(c, h.cookieSecure)
	return response.Success(c, fiber.Map{"message": "Logout successful"})
}

// CheckAuth handles GET /api/auth/check-auth
func (h *AuthHandler) CheckAuth(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Success(c, fiber.Map{"authenticated": false})
	}

	return response.Success(c, fiber.Map{
		"authenticated": true,
		"user":          toUserResponse(user),
	})
}
