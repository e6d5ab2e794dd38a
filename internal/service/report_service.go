package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/vivek04-tech/edu-interact/internal/models"
	appErrors "github.com/vivek04-tech/edu-interact/pkg/errors"
	"github.com/vivek04-tech/edu-interact/pkg/export"
)

// ReportFormat enumerates the supported roster export formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

type rosterProvider interface {
	ListForCourse(ctx context.Context, courseID string) ([]models.EnrollmentDetail, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type titledDatasetRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// Report is a rendered roster document.
type Report struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportService renders enrollment rosters for the admin panel. Exports are
// synchronous; the statuses in the output are evaluated at render time.
type ReportService struct {
	enrollments rosterProvider
	csv         datasetRenderer
	pdf         titledDatasetRenderer
	logger      *zap.Logger
}

// NewReportService constructs ReportService.
func NewReportService(enrollments rosterProvider, csv datasetRenderer, pdf titledDatasetRenderer, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{enrollments: enrollments, csv: csv, pdf: pdf, logger: logger}
}

var rosterHeaders = []string{"Student", "Email", "Course", "Trial Start", "Trial End", "Paid", "Progress", "Status"}

// EnrollmentRoster renders the roster for one course in the requested format.
func (s *ReportService) EnrollmentRoster(ctx context.Context, courseID string, format ReportFormat) (*Report, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}

	enrollments, err := s.enrollments.ListForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: rosterHeaders, Rows: make([]map[string]string, 0, len(enrollments))}
	for _, e := range enrollments {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Student":     e.StudentName,
			"Email":       e.StudentEmail,
			"Course":      e.CourseTitle,
			"Trial Start": e.TrialStartDate.Format("2006-01-02"),
			"Trial End":   e.TrialEndDate.Format("2006-01-02"),
			"Paid":        strconv.FormatBool(e.IsPaid),
			"Progress":    strconv.Itoa(e.Progress),
			"Status":      string(e.Status),
		})
	}

	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case ReportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &Report{
			FileName:    fmt.Sprintf("enrollments_%s_%s.csv", courseID, stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case ReportFormatPDF:
		content, err := s.pdf.Render(dataset, "Enrollment Roster")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &Report{
			FileName:    fmt.Sprintf("enrollments_%s_%s.pdf", courseID, stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
