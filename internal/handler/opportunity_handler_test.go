package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivek04-tech/edu-interact/internal/models"
	"github.com/vivek04-tech/edu-interact/internal/service"
)

type opportunityRepoStub struct {
	opportunities map[string]models.Opportunity
	lastScope     *models.University
	lastType      *models.OpportunityType
	lastFilter    models.OpportunityFilter
	visibleCalls  int
}

func (s *opportunityRepoStub) Create(ctx context.Context, opportunity *models.Opportunity) error {
	if s.opportunities == nil {
		s.opportunities = make(map[string]models.Opportunity)
	}
	if opportunity.ID == "" {
		opportunity.ID = "o-new"
	}
	s.opportunities[opportunity.ID] = *opportunity
	return nil
}

func (s *opportunityRepoStub) FindDetailByID(ctx context.Context, id string) (*models.OpportunityDetail, error) {
	if o, ok := s.opportunities[id]; ok {
		return &models.OpportunityDetail{Opportunity: o, CompanyName: "Acme"}, nil
	}
	return nil, sql.ErrNoRows
}

func (s *opportunityRepoStub) ListVisible(ctx context.Context, scope *models.University, opportunityType *models.OpportunityType) ([]models.OpportunityDetail, error) {
	s.lastScope = scope
	s.lastType = opportunityType
	s.visibleCalls++
	var details []models.OpportunityDetail
	for _, o := range s.opportunities {
		if o.Status == models.OpportunityStatusOpen {
			details = append(details, models.OpportunityDetail{Opportunity: o})
		}
	}
	return details, nil
}

func (s *opportunityRepoStub) List(ctx context.Context, filter models.OpportunityFilter) ([]models.OpportunityDetail, error) {
	s.lastFilter = filter
	var details []models.OpportunityDetail
	for _, o := range s.opportunities {
		details = append(details, models.OpportunityDetail{Opportunity: o})
	}
	return details, nil
}

func (s *opportunityRepoStub) UpdateStatus(ctx context.Context, id string, status models.OpportunityStatus) (*models.OpportunityDetail, error) {
	o, ok := s.opportunities[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	o.Status = status
	s.opportunities[id] = o
	return &models.OpportunityDetail{Opportunity: o}, nil
}

type companyReaderStub struct{}

func (companyReaderStub) FindByID(ctx context.Context, id string) (*models.Company, error) {
	return nil, sql.ErrNoRows
}

func newOpportunityHandler(repo *opportunityRepoStub) *OpportunityHandler {
	svc := service.NewOpportunityService(repo, companyReaderStub{}, nil, 0, nil, nil, nil)
	return NewOpportunityHandler(svc)
}

func opportunityGetContext(t *testing.T, w *httptest.ResponseRecorder, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	c.Request = req
	return c
}

func TestOpportunityHandlerAdminListAppliesTypeAndStatusFilters(t *testing.T) {
	repo := &opportunityRepoStub{opportunities: map[string]models.Opportunity{
		"o1": {ID: "o1", Type: models.OpportunityInternship, University: models.UniversityAll, Status: models.OpportunityStatusOpen, ApplicationDeadline: time.Now().Add(24 * time.Hour)},
	}}
	h := newOpportunityHandler(repo)

	w := httptest.NewRecorder()
	c := opportunityGetContext(t, w, "/admin/opportunities?type=internship&status=open")
	h.AdminList(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.lastFilter.Type)
	assert.Equal(t, models.OpportunityInternship, *repo.lastFilter.Type)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, models.OpportunityStatusOpen, *repo.lastFilter.Status)
}

func TestOpportunityHandlerAdminListUniversityFilter(t *testing.T) {
	repo := &opportunityRepoStub{}
	h := newOpportunityHandler(repo)

	w := httptest.NewRecorder()
	c := opportunityGetContext(t, w, "/admin/opportunities?university=all")
	h.AdminList(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.lastFilter.University)
	assert.Equal(t, models.UniversityAll, *repo.lastFilter.University)
}

func TestOpportunityHandlerAdminListRejectsUnknownType(t *testing.T) {
	repo := &opportunityRepoStub{}
	h := newOpportunityHandler(repo)

	w := httptest.NewRecorder()
	c := opportunityGetContext(t, w, "/admin/opportunities?type=volunteering")
	h.AdminList(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestOpportunityHandlerListRejectsUnknownUniversity(t *testing.T) {
	repo := &opportunityRepoStub{}
	h := newOpportunityHandler(repo)

	w := httptest.NewRecorder()
	c := opportunityGetContext(t, w, "/opportunities?university=bogus")
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Zero(t, repo.visibleCalls)
}

func TestOpportunityHandlerListScopesByUniversity(t *testing.T) {
	repo := &opportunityRepoStub{opportunities: map[string]models.Opportunity{
		"o1": {ID: "o1", Type: models.OpportunityPlacement, University: models.UniversityAKTU, Status: models.OpportunityStatusOpen, ApplicationDeadline: time.Now().Add(24 * time.Hour)},
	}}
	h := newOpportunityHandler(repo)

	w := httptest.NewRecorder()
	c := opportunityGetContext(t, w, "/opportunities?university=aktu")
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.lastScope)
	assert.Equal(t, models.UniversityAKTU, *repo.lastScope)
}
