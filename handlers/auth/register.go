package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/model"
	authutil "github.com/sahilchouksey/study-planner/utils/auth"
	"github.com/sahilchouksey/study-planner/utils/middleware"
	"github.com/sahilchouksey/study-planner/utils/response"
	"github.com/sahilchouksey/study-planner/utils/validation"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	sessions             authutil.SessionStore
	bruteForceProtection *middleware.BruteForceProtection
	validator            *validation.Validator
	cookieSecure         bool
}

// NewAuthHandler creates a new auth handler. bruteForceProtection may be nil.
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, sessions authutil.SessionStore, bruteForceProtection *middleware.BruteForceProtection, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		sessions:             sessions,
		bruteForceProtection: bruteForceProtection,
		validator:            validation.NewValidator(),
		cookieSecure:         cookieSecure,
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	AcademicLevel string `json:"academicLevel" validate:"omitempty,max=50"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	AcademicLevel string    `json:"academicLevel"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SessionResponse is returned by register and login
type SessionResponse struct {
	Message   string       `json:"message"`
	User      UserResponse `json:"user"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		AcademicLevel: user.AcademicLevel,
		CreatedAt:     user.CreatedAt,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Email = strings.ToLower(validation.SanitizeString(req.Email))
	req.AcademicLevel = validation.SanitizeString(req.AcademicLevel)

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var existing int64
	if err := h.db.Model(&model.User{}).Where("email = ?", req.Email).Count(&existing).Error; err != nil {
		return response.InternalServerError(c, "Failed to check email")
	}
	if existing > 0 {
		return response.Conflict(c, "Email already registered")
	}

	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	if req.AcademicLevel == "" {
		req.AcademicLevel = model.DefaultAcademicLevel
	}
	user := model.User{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  hashedPassword,
		AcademicLevel: req.AcademicLevel,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create user")
	}

	expiresAt, err := h.startSession(c, &user)
	if err != nil {
		return response.InternalServerError(c, "Failed to create session")
	}

	return c.Status(fiber.StatusCreated).JSON(response.Response{
		Success: true,
		Data: SessionResponse{
			Message:   "Registration successful",
			User:      toUserResponse(&user),
			ExpiresAt: expiresAt,
		},
	})
}

// startSession issues a signed token, stores its session and sets the cookie
func (h *AuthHandler) startSession(c *fiber.Ctx, user *model.User) (time.Time, error) {
	issued, err := h.jwtManager.GenerateSessionToken(user.ID, user.Email)
	if err != nil {
		return time.Time{}, err
	}

	userAgent := c.Get(fiber.HeaderUserAgent)
	if len(userAgent) > 255 {
		userAgent = userAgent[:255]
	}

	if err := h.sessions.Create(c.UserContext(), &model.Session{
		ID:        issued.JTI,
		UserID:    user.ID,
		UserAgent: userAgent,
		IP:        c.IP(),
		ExpiresAt: issued.ExpiresAt,
	}); err != nil {
		return time.Time{}, err
	}

	middleware.SetSessionCookie(c, issued.Token, issued.ExpiresAt, h.cookieSecure)
	return issued.ExpiresAt, nil
}
