package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vivek04-tech/edu-interact/internal/models"
	"github.com/vivek04-tech/edu-interact/internal/service"
	appErrors "github.com/vivek04-tech/edu-interact/pkg/errors"
	"github.com/vivek04-tech/edu-interact/pkg/response"
)

// OpportunityHandler wires HTTP endpoints to the opportunity service.
type OpportunityHandler struct {
	service *service.OpportunityService
}

// NewOpportunityHandler creates a new handler.
func NewOpportunityHandler(svc *service.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{service: svc}
}

// List godoc
// @Summary List open opportunities
// @Description Open opportunities for a university scope ordered by application deadline
// @Tags Opportunities
// @Produce json
// @Param university query string false "University scope (aktu or lu)"
// @Param type query string false "Opportunity type (project, internship or placement)"
// @Success 200 {object} response.Envelope
// @Router /opportunities [get]
func (h *OpportunityHandler) List(c *gin.Context) {
	var opportunityType *models.OpportunityType
	if raw := c.Query("type"); raw != "" {
		t := models.OpportunityType(raw)
		if !t.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid opportunity type"))
			return
		}
		opportunityType = &t
	}

	scope, err := scopeFromRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	opportunities, err := h.service.ListVisible(c.Request.Context(), scope, opportunityType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, opportunities, nil)
}

// Create godoc
// @Summary Create an opportunity
// @Description Admin-only creation of a careers posting for an existing company
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.CreateOpportunityRequest true "Opportunity payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/opportunities [post]
func (h *OpportunityHandler) Create(c *gin.Context) {
	var req service.CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid opportunity payload"))
		return
	}

	opportunity, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, opportunity)
}

// AdminList godoc
// @Summary List all opportunities
// @Description Opportunities of any status for the admin panel
// @Tags Admin
// @Produce json
// @Param type query string false "Type filter (project, internship or placement)"
// @Param status query string false "Status filter"
// @Param university query string false "University filter (aktu, lu or all)"
// @Success 200 {object} response.Envelope
// @Router /admin/opportunities [get]
func (h *OpportunityHandler) AdminList(c *gin.Context) {
	var filter models.OpportunityFilter
	if raw := c.Query("type"); raw != "" {
		opportunityType := models.OpportunityType(raw)
		if !opportunityType.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid opportunity type"))
			return
		}
		filter.Type = &opportunityType
	}
	if raw := c.Query("status"); raw != "" {
		status := models.OpportunityStatus(raw)
		if !status.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid opportunity status"))
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("university"); raw != "" {
		university := models.University(raw)
		if university != models.UniversityAll && !university.ValidScope() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid university"))
			return
		}
		filter.University = &university
	}

	opportunities, err := h.service.ListAdmin(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, opportunities, nil)
}

// SetStatus godoc
// @Summary Update opportunity status
// @Description Set open, closed or archived on a posting
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Opportunity ID"
// @Param payload body service.SetOpportunityStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/opportunities/{id}/status [put]
func (h *OpportunityHandler) SetStatus(c *gin.Context) {
	var req service.SetOpportunityStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	opportunity, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, opportunity, nil)
}
