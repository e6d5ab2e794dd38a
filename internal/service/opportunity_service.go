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

type opportunityRepository interface {
	Create(ctx context.Context, opportunity *models.Opportunity) error
	FindDetailByID(ctx context.Context, id string) (*models.OpportunityDetail, error)
	ListVisible(ctx context.Context, scope *models.University, opportunityType *models.OpportunityType) ([]models.OpportunityDetail, error)
	List(ctx context.Context, filter models.OpportunityFilter) ([]models.OpportunityDetail, error)
	UpdateStatus(ctx context.Context, id string, status models.OpportunityStatus) (*models.OpportunityDetail, error)
}

type companyReader interface {
	FindByID(ctx context.Context, id string) (*models.Company, error)
}

// CreateOpportunityRequest describes the admin opportunity creation payload.
// University defaults to "all" when omitted.
type CreateOpportunityRequest struct {
	Type                models.OpportunityType `json:"type" validate:"required"`
	Title               string                 `json:"title" validate:"required"`
	Description         string                 `json:"description" validate:"required"`
	CompanyID           string                 `json:"company_id" validate:"required"`
	University          models.University      `json:"university,omitempty"`
	Stipend             *float64               `json:"stipend,omitempty"`
	Duration            *string                `json:"duration,omitempty"`
	ApplicationDeadline string                 `json:"application_deadline" validate:"required"`
}

// SetOpportunityStatusRequest sets the free-form status enum.
type SetOpportunityStatusRequest struct {
	Status models.OpportunityStatus `json:"status" validate:"required"`
}

// OpportunityService orchestrates the careers catalog.
type OpportunityService struct {
	repo      opportunityRepository
	companies companyReader
	cache     catalogCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	metrics   cacheMetrics
}

// NewOpportunityService constructs OpportunityService. Cache and metrics may
// be nil.
func NewOpportunityService(repo opportunityRepository, companies companyReader, cache catalogCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger, metrics cacheMetrics) *OpportunityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpportunityService{repo: repo, companies: companies, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger, metrics: metrics}
}

// Create validates and persists a new opportunity. The referenced company
// must exist; the deadline must parse as a date.
func (s *OpportunityService) Create(ctx context.Context, req CreateOpportunityRequest) (*models.OpportunityDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid opportunity payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid opportunity type")
	}

	university := req.University
	if university == "" {
		university = models.UniversityAll
	}
	if university != models.UniversityAll && !university.ValidScope() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid university")
	}

	deadline, err := parseDeadline(req.ApplicationDeadline)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid application deadline")
	}

	if _, err := s.companies.FindByID(ctx, req.CompanyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "company not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load company")
	}

	opportunity := &models.Opportunity{
		Type:                req.Type,
		Title:               req.Title,
		Description:         req.Description,
		CompanyID:           req.CompanyID,
		University:          university,
		Stipend:             req.Stipend,
		Duration:            req.Duration,
		ApplicationDeadline: deadline,
		Status:              models.OpportunityStatusOpen,
	}
	if err := s.repo.Create(ctx, opportunity); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create opportunity")
	}

	detail, err := s.repo.FindDetailByID(ctx, opportunity.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load opportunity detail")
	}
	s.invalidateCatalog(ctx)
	return detail, nil
}

// ListVisible returns open opportunities for a scope ordered by ascending
// application deadline. Past deadlines do not hide open entries.
func (s *OpportunityService) ListVisible(ctx context.Context, scope *models.University, opportunityType *models.OpportunityType) ([]models.OpportunityDetail, error) {
	key := opportunityCatalogKey(scope, opportunityType)
	if s.cache != nil {
		var cached []models.OpportunityDetail
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.recordCacheLookup(true)
			return cached, nil
		}
		s.recordCacheLookup(false)
	}

	opportunities, err := s.repo.ListVisible(ctx, scope, opportunityType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list opportunities")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, opportunities, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache opportunity catalog", zap.Error(err))
		}
	}
	return opportunities, nil
}

// ListAdmin returns opportunities for the admin view, any status.
func (s *OpportunityService) ListAdmin(ctx context.Context, filter models.OpportunityFilter) ([]models.OpportunityDetail, error) {
	opportunities, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list opportunities")
	}
	return opportunities, nil
}

// SetStatus updates the status enum. Any of the three values may be set
// directly; there is no transition ordering.
func (s *OpportunityService) SetStatus(ctx context.Context, id string, req SetOpportunityStatusRequest) (*models.OpportunityDetail, error) {
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid opportunity status")
	}
	detail, err := s.repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "opportunity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update opportunity status")
	}
	s.invalidateCatalog(ctx)
	return detail, nil
}

func (s *OpportunityService) recordCacheLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}

func (s *OpportunityService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "catalog:opportunities:*"); err != nil {
		s.logger.Warn("failed to invalidate opportunity catalog cache", zap.Error(err))
	}
}

func opportunityCatalogKey(scope *models.University, opportunityType *models.OpportunityType) string {
	uni := "all"
	if scope != nil {
		uni = string(*scope)
	}
	kind := "any"
	if opportunityType != nil {
		kind = string(*opportunityType)
	}
	return fmt.Sprintf("catalog:opportunities:%s:%s", uni, kind)
}

func parseDeadline(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}
