package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vivek04-tech/edu-interact/internal/service"
	appErrors "github.com/vivek04-tech/edu-interact/pkg/errors"
	"github.com/vivek04-tech/edu-interact/pkg/response"
)

// CourseHandler wires HTTP endpoints to the course service.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler creates a new handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List visible courses
// @Description Approved courses, scoped to a university when requested or implied by the session
// @Tags Courses
// @Produce json
// @Param university query string false "University scope (aktu or lu)"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	scope, err := scopeFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	courses, err := h.service.ListVisible(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Create godoc
// @Summary Publish a course
// @Description Create a course owned by the acting teacher; it stays hidden until approved
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Mine godoc
// @Summary List own courses
// @Description All courses owned by the acting teacher, approved or not
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/courses [get]
func (h *CourseHandler) Mine(c *gin.Context) {
	courses, err := h.service.ListByTeacher(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// AdminList godoc
// @Summary List courses for review
// @Description All courses with an optional approval filter
// @Tags Admin
// @Produce json
// @Param approved query bool false "Approval filter"
// @Success 200 {object} response.Envelope
// @Router /admin/courses [get]
func (h *CourseHandler) AdminList(c *gin.Context) {
	var isApproved *bool
	if raw := c.Query("approved"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "approved must be true or false"))
			return
		}
		isApproved = &parsed
	}

	courses, err := h.service.ListAdmin(c.Request.Context(), isApproved)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}
