package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vivek04-tech/edu-interact/internal/models"
	"github.com/vivek04-tech/edu-interact/internal/repository"
	appErrors "github.com/vivek04-tech/edu-interact/pkg/errors"
)

type enrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	ListByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.EnrollmentDetail, error)
	UpdateProgress(ctx context.Context, id string, progress int, status models.EnrollmentStatus) error
	MarkPaid(ctx context.Context, id string, status models.EnrollmentStatus) error
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollRequest describes the enrollment creation payload.
type EnrollRequest struct {
	CourseID string `json:"course_id" validate:"required"`
}

// UpdateProgressRequest describes the progress-tracking payload.
type UpdateProgressRequest struct {
	Progress *int `json:"progress" validate:"required"`
}

// EnrollmentService orchestrates the trial-lifecycle workflows. Trial expiry
// is evaluated lazily at read time; there is no background sweep.
type EnrollmentService struct {
	repo      enrollmentRepository
	courses   courseReader
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses courseReader, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, validator: validate, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Enroll registers the acting student on a course, opening a trial window of
// the course's configured length. The store's unique key on (user, course)
// makes concurrent duplicate requests lose cleanly.
func (s *EnrollmentService) Enroll(ctx context.Context, student *models.JWTClaims, req EnrollRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course id is required")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if !course.IsApproved {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "course is not approved yet")
	}

	start := s.now()
	enrollment := &models.Enrollment{
		UserID:         student.UserID,
		CourseID:       course.ID,
		TrialStartDate: start,
		TrialEndDate:   start.AddDate(0, 0, course.TrialDays),
		IsPaid:         false,
		Progress:       0,
		Status:         models.EnrollmentStatusActive,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled in this course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	detail, err := s.repo.FindDetailByID(ctx, enrollment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment detail")
	}
	return detail, nil
}

// ListForStudent returns the acting student's enrollments, each carrying its
// lazily evaluated status.
func (s *EnrollmentService) ListForStudent(ctx context.Context, student *models.JWTClaims) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.ListByUser(ctx, student.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	now := s.now()
	for i := range enrollments {
		enrollments[i].Status = enrollments[i].StatusAt(now)
	}
	return enrollments, nil
}

// UpdateProgress stores a new progress value on an enrollment owned by the
// acting student. Reaching 100 marks the enrollment completed; completion is
// terminal.
func (s *EnrollmentService) UpdateProgress(ctx context.Context, student *models.JWTClaims, id string, req UpdateProgressRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "progress is required")
	}
	progress := *req.Progress
	if progress < 0 || progress > 100 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "progress must be between 0 and 100")
	}

	enrollment, err := s.ownedEnrollment(ctx, student, id)
	if err != nil {
		return nil, err
	}
	if enrollment.StatusAt(s.now()) == models.EnrollmentStatusExpired {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "trial period has expired")
	}

	status := enrollment.Status
	if progress >= 100 {
		status = models.EnrollmentStatusCompleted
	}
	if err := s.repo.UpdateProgress(ctx, id, progress, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update progress")
	}

	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment detail")
	}
	detail.Status = detail.StatusAt(s.now())
	return detail, nil
}

// MarkPaid converts a trial into a paid enrollment. Paid enrollments are
// exempt from trial expiry, so a lapsed trial becomes active again.
func (s *EnrollmentService) MarkPaid(ctx context.Context, student *models.JWTClaims, id string) (*models.EnrollmentDetail, error) {
	enrollment, err := s.ownedEnrollment(ctx, student, id)
	if err != nil {
		return nil, err
	}
	if enrollment.IsPaid {
		return nil, appErrors.Clone(appErrors.ErrConflict, "enrollment is already paid")
	}

	status := enrollment.Status
	if status == models.EnrollmentStatusExpired {
		status = models.EnrollmentStatusActive
	}
	if err := s.repo.MarkPaid(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark enrollment paid")
	}

	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment detail")
	}
	detail.Status = detail.StatusAt(s.now())
	return detail, nil
}

// ListForCourse returns all enrollments on a course with evaluated statuses.
// Admin-gated at the handler; feeds the roster report.
func (s *EnrollmentService) ListForCourse(ctx context.Context, courseID string) ([]models.EnrollmentDetail, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	enrollments, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course enrollments")
	}
	now := s.now()
	for i := range enrollments {
		enrollments[i].Status = enrollments[i].StatusAt(now)
	}
	return enrollments, nil
}

func (s *EnrollmentService) ownedEnrollment(ctx context.Context, student *models.JWTClaims, id string) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment.UserID != student.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "enrollment belongs to another student")
	}
	return enrollment, nil
}
