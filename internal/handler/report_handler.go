package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vivek04-tech/edu-interact/internal/service"
	appErrors "github.com/vivek04-tech/edu-interact/pkg/errors"
	"github.com/vivek04-tech/edu-interact/pkg/response"
)

// ReportHandler serves roster exports for the admin panel.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Enrollments godoc
// @Summary Export an enrollment roster
// @Description Render the enrollments of a course as CSV or PDF
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param courseId query string true "Course ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/reports/enrollments [get]
func (h *ReportHandler) Enrollments(c *gin.Context) {
	courseID := c.Query("courseId")
	if courseID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "courseId is required"))
		return
	}
	format := service.ReportFormat(c.DefaultQuery("format", "csv"))

	report, err := h.service.EnrollmentRoster(c.Request.Context(), courseID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.FileName+`"`)
	c.Data(http.StatusOK, report.ContentType, report.Content)
}
