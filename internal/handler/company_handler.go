package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vivek04-tech/edu-interact/internal/service"
	appErrors "github.com/vivek04-tech/edu-interact/pkg/errors"
	"github.com/vivek04-tech/edu-interact/pkg/response"
)

// CompanyHandler wires HTTP endpoints to the company service.
type CompanyHandler struct {
	service *service.CompanyService
}

// NewCompanyHandler creates a new handler.
func NewCompanyHandler(svc *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: svc}
}

// Create godoc
// @Summary Create a company
// @Description Admin-only creation of a careers company profile
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.CreateCompanyRequest true "Company payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	var req service.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid company payload"))
		return
	}

	company, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, company)
}

// List godoc
// @Summary List companies
// @Description All company profiles in the careers catalog
// @Tags Companies
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, companies, nil)
}
