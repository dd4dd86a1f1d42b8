package handler

import (
	"net/http"

	"marketplace-api/internal/middleware"
	"marketplace-api/internal/model"
	"marketplace-api/pkg/database"
	"marketplace-api/pkg/logger"
	"marketplace-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Profile returns the authenticated user's profile
func Profile(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfileRequest carries partial profile fields
type UpdateProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=255"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Country *string `json:"country"`
}

// UpdateProfile applies a partial update to the authenticated user's profile
func UpdateProfile(c echo.Context) error {
	log := logger.FromEcho(c)

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse profile update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := validate.Struct(&req); err != nil {
		return respondValidation(c, err)
	}

	// Email and phone stay unique across other users
	if req.Email != nil || req.Phone != nil {
		query := database.GetDB().Model(&model.User{}).Where("id != ?", user.ID)
		if req.Email != nil && req.Phone != nil {
			query = query.Where("email = ? OR phone = ?", *req.Email, *req.Phone)
		} else if req.Email != nil {
			query = query.Where("email = ?", *req.Email)
		} else {
			query = query.Where("phone = ?", *req.Phone)
		}

		var count int64
		query.Count(&count)
		if count > 0 {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"errors": map[string]string{"email": "The email or phone has already been taken."},
			})
		}
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.State != nil {
		user.State = *req.State
	}
	if req.Country != nil {
		user.Country = *req.Country
	}

	if result := database.GetDB().Save(user); result.Error != nil {
		log.Error("Failed to update profile", zap.Uint("user_id", user.ID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "profile update failed"})
	}

	log.Info("Profile updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message": middleware.T(c, "user.updated"),
		"user":    user,
	})
}

// UpdatePasswordRequest requires the current password before changing it
type UpdatePasswordRequest struct {
	CurrentPassword         string `json:"current_password" validate:"required"`
	NewPassword             string `json:"new_password" validate:"required,min=8"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"required,eqfield=NewPassword"`
}

// UpdatePassword changes the password after re-verifying the current one.
// The wrong-password response is indistinguishable from a field error so the
// failing check is not leaked.
func UpdatePassword(c echo.Context) error {
	log := logger.FromEcho(c)

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse password update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := validate.Struct(&req); err != nil {
		return respondValidation(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		log.Warn("Password change with wrong current password", zap.Uint("user_id", user.ID))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": middleware.T(c, "user.password_incorrect"),
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "password update failed"})
	}

	if result := database.GetDB().Model(user).Update("password", string(hashed)); result.Error != nil {
		log.Error("Failed to update password", zap.Uint("user_id", user.ID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "password update failed"})
	}

	log.Info("Password updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": middleware.T(c, "user.password_updated")})
}

// DeleteAccountRequest requires the password before deleting the account
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

// DeleteAccount soft-deletes the user after password re-verification
func DeleteAccount(c echo.Context) error {
	log := logger.FromEcho(c)

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req DeleteAccountRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse account deletion request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := validate.Struct(&req); err != nil {
		return respondValidation(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Account deletion with wrong password", zap.Uint("user_id", user.ID))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": middleware.T(c, "user.password_incorrect"),
		})
	}

	if result := database.GetDB().Delete(user); result.Error != nil {
		log.Error("Failed to delete account", zap.Uint("user_id", user.ID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "account deletion failed"})
	}

	prometheus.DecreaseActiveTokens()
	log.Info("Account deleted", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": middleware.T(c, "user.account_deleted")})
}
