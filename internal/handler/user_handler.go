package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vivek04-tech/edu-interact/internal/models"
	"github.com/vivek04-tech/edu-interact/internal/service"
	appErrors "github.com/vivek04-tech/edu-interact/pkg/errors"
	"github.com/vivek04-tech/edu-interact/pkg/response"
)

// UserHandler backs the admin user directory and the combined approval
// endpoint, which flips the flag on either a user or a course.
type UserHandler struct {
	users   *service.UserService
	courses *service.CourseService
}

// NewUserHandler creates a new handler.
func NewUserHandler(users *service.UserService, courses *service.CourseService) *UserHandler {
	return &UserHandler{users: users, courses: courses}
}

// ApproveRequest is the combined approval payload.
type ApproveRequest struct {
	Type     string `json:"type" binding:"required,oneof=user course"`
	ID       string `json:"id" binding:"required"`
	Approved *bool  `json:"approved" binding:"required"`
}

// List godoc
// @Summary List users
// @Description Users with optional role and approval filters
// @Tags Admin
// @Produce json
// @Param role query string false "Role filter (student, teacher or admin)"
// @Param approved query bool false "Approval filter"
// @Success 200 {object} response.Envelope
// @Router /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter models.UserFilter
	if raw := c.Query("role"); raw != "" {
		role := models.UserRole(raw)
		if !role.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid role"))
			return
		}
		filter.Role = &role
	}
	if raw := c.Query("approved"); raw != "" {
		approved, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "approved must be true or false"))
			return
		}
		filter.IsApproved = &approved
	}

	users, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, nil)
}

// Approve godoc
// @Summary Approve a user or course
// @Description Flip the approval flag on a teacher account or a course
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body ApproveRequest true "Approval payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/approve [put]
func (h *UserHandler) Approve(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "type, id and approved are required"))
		return
	}

	switch req.Type {
	case "user":
		user, err := h.users.SetApproval(c.Request.Context(), req.ID, *req.Approved)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, user, nil)
	case "course":
		course, err := h.courses.SetApproval(c.Request.Context(), req.ID, *req.Approved)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, course, nil)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "type must be user or course"))
	}
}
