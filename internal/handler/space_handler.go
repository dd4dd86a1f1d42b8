package handler

import (
	"errors"
	"net/http"
	"strconv"

	"marketplace-api/internal/middleware"
	"marketplace-api/internal/model"
	"marketplace-api/pkg/database"
	"marketplace-api/pkg/logger"
	"marketplace-api/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// loadSpace fetches a space with its membership rows preloaded, since every
// policy predicate reads them.
func loadSpace(id string) (*model.Space, error) {
	var space model.Space
	err := database.GetDB().Preload("Members").Preload("Owner").First(&space, id).Error
	if err != nil {
		return nil, err
	}
	return &space, nil
}

// ListSpaces returns active spaces, paginated, with the owner attached
func ListSpaces(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordSpaceOperation("list")

	perPage := 15
	if v, err := strconv.Atoi(c.QueryParam("per_page")); err == nil && v > 0 && v <= 100 {
		perPage = v
	}
	page := 1
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}

	query := database.GetDB().Model(&model.Space{}).Where("is_active = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("Failed to count spaces", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve spaces"})
	}

	var spaces []model.Space
	result := query.
		Preload("Owner").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&spaces)
	if result.Error != nil {
		log.Error("Failed to list spaces", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve spaces"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": spaces,
		"meta": echo.Map{
			"total":        total,
			"per_page":     perPage,
			"current_page": page,
		},
	})
}

// ManagedSpaces returns the distinct union of spaces the actor owns and
// spaces where the actor holds any membership row.
func ManagedSpaces(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordSpaceOperation("managed")

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var spaces []model.Space
	result := database.GetDB().
		Distinct("spaces.*").
		Joins("LEFT JOIN space_members ON space_members.space_id = spaces.id").
		Where("spaces.owner_id = ? OR space_members.user_id = ?", actor.ID, actor.ID).
		Preload("Owner").
		Preload("Members.User").
		Find(&spaces)
	if result.Error != nil {
		log.Error("Failed to list managed spaces", zap.Uint("user_id", actor.ID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve spaces"})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": spaces})
}

// SpaceRequest defines the structure for space creation requests
type SpaceRequest struct {
	Name         string           `json:"name" validate:"required,max=255"`
	Description  string           `json:"description"`
	Address      string           `json:"address"`
	City         string           `json:"city"`
	Country      string           `json:"country"`
	ContactEmail string           `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string           `json:"contact_phone"`
	Latitude     *decimal.Decimal `json:"latitude"`
	Longitude    *decimal.Decimal `json:"longitude"`
}

// CreateSpace opens a new venue owned by the actor
func CreateSpace(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordSpaceOperation("create")

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	if !policy.CanCreateSpace(actor) {
		prometheus.RecordForbidden("space")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "This action is unauthorized"})
	}

	var req SpaceRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse space creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := validate.Struct(&req); err != nil {
		return respondValidation(c, err)
	}

	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return respondValidation(c, err)
	}

	space := model.Space{
		OwnerID:      actor.ID,
		Name:         req.Name,
		Description:  req.Description,
		Address:      req.Address,
		City:         req.City,
		Country:      req.Country,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		IsActive:     true,
	}

	if result := database.GetDB().Create(&space); result.Error != nil {
		log.Error("Failed to create space", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "space creation failed"})
	}

	log.Info("Space created",
		zap.Uint("space_id", space.ID),
		zap.String("name", space.Name),
		zap.Uint("owner_id", actor.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": middleware.T(c, "spaces.created"),
		"data":    space,
	})
}

// GetSpace returns one space. Inactive spaces are visible only to managers;
// active ones are public.
func GetSpace(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordSpaceOperation("show")

	space, err := loadSpace(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": middleware.T(c, "spaces.not_found")})
	}

	actor, _ := middleware.CurrentUser(c)
	if !policy.CanViewSpace(actor, space) {
		log.Warn("Unauthorized space view attempt", zap.Uint("space_id", space.ID))
		prometheus.RecordForbidden("space")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "This action is unauthorized"})
	}

	return c.JSON(http.StatusOK, space)
}

// SpaceUpdateRequest carries partial fields for space updates
type SpaceUpdateRequest struct {
	Name         *string          `json:"name" validate:"omitempty,max=255"`
	Description  *string          `json:"description"`
	Address      *string          `json:"address"`
	City         *string          `json:"city"`
	Country      *string          `json:"country"`
	IsActive     *bool            `json:"is_active"`
	ContactEmail *string          `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string          `json:"contact_phone"`
	Latitude     *decimal.Decimal `json:"latitude"`
	Longitude    *decimal.Decimal `json:"longitude"`
}

// UpdateSpace applies a partial update; requires space admin standing
func UpdateSpace(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordSpaceOperation("update")

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	space, err := loadSpace(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": middleware.T(c, "spaces.not_found")})
	}

	if !policy.CanUpdateSpace(actor, space) {
		log.Warn("Unauthorized space update attempt",
			zap.Uint("actor_id", actor.ID),
			zap.Uint("space_id", space.ID))
		prometheus.RecordForbidden("space")
		return c.JSON(http.StatusForbidden, echo.Map{"error": middleware.T(c, "spaces.unauthorized")})
	}

	var req SpaceUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse space update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := validate.Struct(&req); err != nil {
		return respondValidation(c, err)
	}

	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		return respondValidation(c, err)
	}

	if req.Name != nil {
		space.Name = *req.Name
	}
	if req.Description != nil {
		space.Description = *req.Description
	}
	if req.Address != nil {
		space.Address = *req.Address
	}
	if req.City != nil {
		space.City = *req.City
	}
	if req.Country != nil {
		space.Country = *req.Country
	}
	if req.IsActive != nil {
		space.IsActive = *req.IsActive
	}
	if req.ContactEmail != nil {
		space.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		space.ContactPhone = *req.ContactPhone
	}
	if req.Latitude != nil {
		space.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		space.Longitude = req.Longitude
	}

	if result := database.GetDB().Save(space); result.Error != nil {
		log.Error("Failed to update space", zap.Uint("space_id", space.ID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "space update failed"})
	}

	log.Info("Space updated", zap.Uint("space_id", space.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message": middleware.T(c, "spaces.updated"),
		"data":    space,
	})
}

// DeleteSpace removes the space; owner only, admins cannot delete
func DeleteSpace(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordSpaceOperation("delete")

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	space, err := loadSpace(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": middleware.T(c, "spaces.not_found")})
	}

	if !policy.CanDeleteSpace(actor, space) {
		log.Warn("Unauthorized space deletion attempt",
			zap.Uint("actor_id", actor.ID),
			zap.Uint("space_id", space.ID))
		prometheus.RecordForbidden("space")
		return c.JSON(http.StatusForbidden, echo.Map{"error": middleware.T(c, "spaces.unauthorized")})
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("space_id = ?", space.ID).Delete(&model.SpaceMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(space).Error
	})
	if err != nil {
		log.Error("Failed to delete space", zap.Uint("space_id", space.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "space deletion failed"})
	}

	log.Info("Space deleted", zap.Uint("space_id", space.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": middleware.T(c, "spaces.deleted")})
}

// AssignUserRequest assigns or updates a member's role
type AssignUserRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=space_admin space_worker"`
}

// AssignUser upserts a membership row: an existing member gets their role
// updated in place, never a duplicate row. The response distinguishes
// "assigned" from "updated".
func AssignUser(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordSpaceOperation("assign_user")

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	space, err := loadSpace(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": middleware.T(c, "spaces.not_found")})
	}

	if !policy.CanManageSpaceUsers(actor, space) {
		log.Warn("Unauthorized user assignment attempt",
			zap.Uint("actor_id", actor.ID),
			zap.Uint("space_id", space.ID))
		prometheus.RecordForbidden("space")
		return c.JSON(http.StatusForbidden, echo.Map{"error": middleware.T(c, "spaces.unauthorized")})
	}

	var req AssignUserRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse user assignment request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := validate.Struct(&req); err != nil {
		return respondValidation(c, err)
	}

	var target model.User
	if result := database.GetDB().First(&target, req.UserID); result.Error != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"user_id": "the selected user does not exist"},
		})
	}

	var member model.SpaceMember
	err = database.GetDB().
		Where("space_id = ? AND user_id = ?", space.ID, target.ID).
		First(&member).Error

	if err == nil {
		// Already a member: update the role in place
		if result := database.GetDB().Model(&member).Update("role", req.Role); result.Error != nil {
			log.Error("Failed to update member role", zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "role update failed"})
		}

		log.Info("Member role updated",
			zap.Uint("space_id", space.ID),
			zap.Uint("user_id", target.ID),
			zap.String("role", req.Role))
		return c.JSON(http.StatusOK, echo.Map{
			"message": middleware.T(c, "spaces.user_role_updated"),
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("Failed to look up membership", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assignment failed"})
	}

	member = model.SpaceMember{
		SpaceID: space.ID,
		UserID:  target.ID,
		Role:    req.Role,
	}
	if result := database.GetDB().Create(&member); result.Error != nil {
		log.Error("Failed to assign user", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assignment failed"})
	}

	log.Info("User assigned to space",
		zap.Uint("space_id", space.ID),
		zap.Uint("user_id", target.ID),
		zap.String("role", req.Role))
	return c.JSON(http.StatusOK, echo.Map{
		"message": middleware.T(c, "spaces.user_assigned"),
	})
}

// RemoveUser detaches a membership row. Removing a non-member succeeds;
// "already removed" is not an error.
func RemoveUser(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordSpaceOperation("remove_user")

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	space, err := loadSpace(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": middleware.T(c, "spaces.not_found")})
	}

	if !policy.CanManageSpaceUsers(actor, space) {
		prometheus.RecordForbidden("space")
		return c.JSON(http.StatusForbidden, echo.Map{"error": middleware.T(c, "spaces.unauthorized")})
	}

	userID, err := paramID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	result := database.GetDB().
		Where("space_id = ? AND user_id = ?", space.ID, userID).
		Delete(&model.SpaceMember{})
	if result.Error != nil {
		log.Error("Failed to remove member", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "removal failed"})
	}

	log.Info("User removed from space",
		zap.Uint("space_id", space.ID),
		zap.Uint("user_id", userID),
		zap.Int64("rows_affected", result.RowsAffected))
	return c.JSON(http.StatusOK, echo.Map{"message": middleware.T(c, "spaces.user_removed")})
}

// ListSpaceUsers returns each member's identity plus their pivot role
func ListSpaceUsers(c echo.Context) error {
	prometheus.RecordSpaceOperation("list_users")

	space, err := loadSpace(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": middleware.T(c, "spaces.not_found")})
	}

	actor, _ := middleware.CurrentUser(c)
	if !policy.CanViewSpace(actor, space) {
		prometheus.RecordForbidden("space")
		return c.JSON(http.StatusForbidden, echo.Map{"error": middleware.T(c, "spaces.unauthorized")})
	}

	var members []model.SpaceMember
	if result := database.GetDB().Preload("User").Where("space_id = ?", space.ID).Find(&members); result.Error != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve members"})
	}

	type memberResponse struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
		Role  string `json:"role"`
	}

	response := make([]memberResponse, 0, len(members))
	for _, m := range members {
		if m.User == nil {
			continue
		}
		response = append(response, memberResponse{
			ID:    m.User.ID,
			Name:  m.User.Name,
			Email: m.User.Email,
			Phone: m.User.Phone,
			Role:  m.Role,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"data": response})
}

// validateCoordinates checks geocoordinate bounds
func validateCoordinates(lat, lng *decimal.Decimal) error {
	if lat != nil {
		if lat.LessThan(decimal.NewFromInt(-90)) || lat.GreaterThan(decimal.NewFromInt(90)) {
			return errors.New("latitude must be between -90 and 90")
		}
	}
	if lng != nil {
		if lng.LessThan(decimal.NewFromInt(-180)) || lng.GreaterThan(decimal.NewFromInt(180)) {
			return errors.New("longitude must be between -180 and 180")
		}
	}
	return nil
}
