package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vivek04-tech/edu-interact/internal/models"
)

// OpportunityRepository handles persistence of opportunities.
type OpportunityRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewOpportunityRepository constructs the repository. Observer may be nil.
func NewOpportunityRepository(db *sqlx.DB, observer QueryObserver) *OpportunityRepository {
	return &OpportunityRepository{db: db, observer: observer}
}

const opportunityDetailColumns = `o.id, o.type, o.title, o.description, o.company_id, o.university, o.stipend, o.duration, o.application_deadline, o.status, o.created_at, o.updated_at,
        co.name AS company_name, co.description AS company_description, co.logo AS company_logo`

// Create persists a new opportunity record.
func (r *OpportunityRepository) Create(ctx context.Context, opportunity *models.Opportunity) error {
	defer observeQuery(r.observer, "opportunity_create", time.Now())
	if opportunity.ID == "" {
		opportunity.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if opportunity.CreatedAt.IsZero() {
		opportunity.CreatedAt = now
	}
	opportunity.UpdatedAt = now
	if opportunity.Status == "" {
		opportunity.Status = models.OpportunityStatusOpen
	}
	if opportunity.University == "" {
		opportunity.University = models.UniversityAll
	}
	const query = `INSERT INTO opportunities (id, type, title, description, company_id, university, stipend, duration, application_deadline, status, created_at, updated_at)
        VALUES (:id, :type, :title, :description, :company_id, :university, :stipend, :duration, :application_deadline, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, opportunity); err != nil {
		return fmt.Errorf("create opportunity: %w", err)
	}
	return nil
}

// FindDetailByID returns an opportunity with company context.
func (r *OpportunityRepository) FindDetailByID(ctx context.Context, id string) (*models.OpportunityDetail, error) {
	defer observeQuery(r.observer, "opportunity_find_detail", time.Now())
	query := fmt.Sprintf(`SELECT %s FROM opportunities o
        LEFT JOIN companies co ON co.id = o.company_id
        WHERE o.id = $1`, opportunityDetailColumns)
	var detail models.OpportunityDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListVisible returns open opportunities for a university scope ordered by
// application deadline ascending. The deadline orders the listing but never
// filters it; past-deadline items stay visible while open.
func (r *OpportunityRepository) ListVisible(ctx context.Context, scope *models.University, opportunityType *models.OpportunityType) ([]models.OpportunityDetail, error) {
	defer observeQuery(r.observer, "opportunity_list_visible", time.Now())
	conditions := []string{"o.status = $1"}
	args := []interface{}{models.OpportunityStatusOpen}

	if scope != nil {
		conditions = append(conditions, fmt.Sprintf("(o.university = $%d OR o.university = $%d)", len(args)+1, len(args)+2))
		args = append(args, *scope, models.UniversityAll)
	}
	if opportunityType != nil {
		conditions = append(conditions, fmt.Sprintf("o.type = $%d", len(args)+1))
		args = append(args, *opportunityType)
	}

	query := fmt.Sprintf(`SELECT %s FROM opportunities o
        LEFT JOIN companies co ON co.id = o.company_id
        WHERE %s
        ORDER BY o.application_deadline ASC`, opportunityDetailColumns, strings.Join(conditions, " AND "))

	var opportunities []models.OpportunityDetail
	if err := r.db.SelectContext(ctx, &opportunities, query, args...); err != nil {
		return nil, fmt.Errorf("list visible opportunities: %w", err)
	}
	return opportunities, nil
}

// List returns opportunities matching the admin filter, newest first.
func (r *OpportunityRepository) List(ctx context.Context, filter models.OpportunityFilter) ([]models.OpportunityDetail, error) {
	defer observeQuery(r.observer, "opportunity_list", time.Now())
	var conditions []string
	var args []interface{}

	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("o.type = $%d", len(args)+1))
		args = append(args, *filter.Type)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.University != nil {
		conditions = append(conditions, fmt.Sprintf("o.university = $%d", len(args)+1))
		args = append(args, *filter.University)
	}

	query := fmt.Sprintf(`SELECT %s FROM opportunities o
        LEFT JOIN companies co ON co.id = o.company_id`, opportunityDetailColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY o.created_at DESC"

	var opportunities []models.OpportunityDetail
	if err := r.db.SelectContext(ctx, &opportunities, query, args...); err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	return opportunities, nil
}

// UpdateStatus sets the status enum and returns the updated record with
// company context.
func (r *OpportunityRepository) UpdateStatus(ctx context.Context, id string, status models.OpportunityStatus) (*models.OpportunityDetail, error) {
	defer observeQuery(r.observer, "opportunity_update_status", time.Now())
	const query = `UPDATE opportunities SET status = $2, updated_at = $3 WHERE id = $1 RETURNING id`
	var updated string
	if err := r.db.GetContext(ctx, &updated, query, id, status, time.Now().UTC()); err != nil {
		return nil, err
	}
	return r.FindDetailByID(ctx, updated)
}
