package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sahilchouksey/study-planner/model"
	"github.com/sahilchouksey/study-planner/utils/middleware"
	"github.com/sahilchouksey/study-planner/utils/response"
	"github.com/sahilchouksey/study-planner/utils/validation"
)

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	Name          *string `json:"name" validate:"omitnil,min=2,max=100"`
	AcademicLevel *string `json:"academicLevel" validate:"omitnil,min=1,max=50"`
}

// GetProfile retrieves the current user's profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	return response.Success(c, toUserResponse(user))
}

// UpdateProfile updates the current user's name and academic level
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name != nil {
		*req.Name = validation.SanitizeString(*req.Name)
	}
	if req.AcademicLevel != nil {
		*req.AcademicLevel = validation.SanitizeString(*req.AcademicLevel)
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.AcademicLevel != nil {
		updates["academic_level"] = *req.AcademicLevel
	}

	if len(updates) > 0 {
		if err := h.db.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, toUserResponse(&user))
}
