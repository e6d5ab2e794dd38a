package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vivek04-tech/edu-interact/internal/models"
	appErrors "github.com/vivek04-tech/edu-interact/pkg/errors"
)

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, error)
	SetApproval(ctx context.Context, id string, approved bool) (*models.Course, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheMetrics interface {
	RecordCacheLookup(hit bool)
}

// CreateCourseRequest describes the teacher course creation payload.
type CreateCourseRequest struct {
	Title       string            `json:"title" validate:"required,max=100"`
	Description string            `json:"description" validate:"required,max=2000"`
	University  models.University `json:"university" validate:"required"`
	Price       *float64          `json:"price" validate:"required"`
	TrialDays   int               `json:"trial_days,omitempty"`
}

// CourseService orchestrates course publishing and the approval gate.
type CourseService struct {
	repo      courseRepository
	cache     catalogCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	metrics   cacheMetrics
}

// NewCourseService constructs CourseService. Cache and metrics may be nil to
// disable catalog caching and its instrumentation.
func NewCourseService(repo courseRepository, cache catalogCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger, metrics cacheMetrics) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger, metrics: metrics}
}

// Create publishes a new course owned by the acting teacher. Courses always
// enter the catalog unapproved.
func (s *CourseService) Create(ctx context.Context, teacher *models.JWTClaims, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if !req.University.ValidScope() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid university")
	}
	if *req.Price < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "price must be a non-negative number")
	}
	trialDays := req.TrialDays
	if trialDays == 0 {
		trialDays = 7
	}
	if trialDays < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "trial days must be at least 1")
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		University:  req.University,
		TeacherID:   teacher.UserID,
		Price:       *req.Price,
		TrialDays:   trialDays,
		IsApproved:  false,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.invalidateCatalog(ctx)
	return course, nil
}

// ListVisible returns the public catalog: approved courses, optionally scoped
// to a university. Results are cached best-effort.
func (s *CourseService) ListVisible(ctx context.Context, scope *models.University) ([]models.CourseDetail, error) {
	key := courseCatalogKey(scope)
	if s.cache != nil {
		var cached []models.CourseDetail
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.recordCacheLookup(true)
			return cached, nil
		}
		s.recordCacheLookup(false)
	}

	approved := true
	courses, err := s.repo.List(ctx, models.CourseFilter{University: scope, IsApproved: &approved})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, courses, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache course catalog", zap.Error(err))
		}
	}
	return courses, nil
}

// ListByTeacher returns the courses owned by the acting teacher, including
// unapproved ones.
func (s *CourseService) ListByTeacher(ctx context.Context, teacher *models.JWTClaims) ([]models.CourseDetail, error) {
	courses, err := s.repo.List(ctx, models.CourseFilter{TeacherID: teacher.UserID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher courses")
	}
	return courses, nil
}

// ListAdmin returns courses for the admin review queue with an optional
// approval filter.
func (s *CourseService) ListAdmin(ctx context.Context, isApproved *bool) ([]models.CourseDetail, error) {
	courses, err := s.repo.List(ctx, models.CourseFilter{IsApproved: isApproved})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// SetApproval flips the approval flag. Approval is the only path to student
// visibility and enrollability.
func (s *CourseService) SetApproval(ctx context.Context, id string, approved bool) (*models.Course, error) {
	course, err := s.repo.SetApproval(ctx, id, approved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course approval")
	}
	s.invalidateCatalog(ctx)
	return course, nil
}

func (s *CourseService) recordCacheLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}

func (s *CourseService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "catalog:courses:*"); err != nil {
		s.logger.Warn("failed to invalidate course catalog cache", zap.Error(err))
	}
}

func courseCatalogKey(scope *models.University) string {
	if scope == nil {
		return "catalog:courses:all"
	}
	return fmt.Sprintf("catalog:courses:%s", *scope)
}
