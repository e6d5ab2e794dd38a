package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vivek04-tech/edu-interact/internal/models"
)

// CompanyRepository handles persistence of companies.
type CompanyRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewCompanyRepository constructs the repository. Observer may be nil.
func NewCompanyRepository(db *sqlx.DB, observer QueryObserver) *CompanyRepository {
	return &CompanyRepository{db: db, observer: observer}
}

// Create persists a new company record. Names are unique in the store.
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	defer observeQuery(r.observer, "company_create", time.Now())
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if company.CreatedAt.IsZero() {
		company.CreatedAt = now
	}
	company.UpdatedAt = now
	const query = `INSERT INTO companies (id, name, description, logo, website, created_at, updated_at)
        VALUES (:id, :name, :description, :logo, :website, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, company); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

// FindByID returns a company by its ID.
func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*models.Company, error) {
	defer observeQuery(r.observer, "company_find_by_id", time.Now())
	const query = `SELECT id, name, description, logo, website, created_at, updated_at FROM companies WHERE id = $1`
	var company models.Company
	if err := r.db.GetContext(ctx, &company, query, id); err != nil {
		return nil, err
	}
	return &company, nil
}

// List returns all companies, newest first.
func (r *CompanyRepository) List(ctx context.Context) ([]models.Company, error) {
	defer observeQuery(r.observer, "company_list", time.Now())
	const query = `SELECT id, name, description, logo, website, created_at, updated_at FROM companies ORDER BY created_at DESC`
	var companies []models.Company
	if err := r.db.SelectContext(ctx, &companies, query); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}
