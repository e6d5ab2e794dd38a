package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vivek04-tech/edu-interact/internal/models"
)

// IsUniqueViolation reports whether the error is a PostgreSQL unique
// constraint violation. Enrollment and signup flows rely on the store
// enforcing uniqueness instead of application-level check-then-act.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// UserRepository handles persistence of users.
type UserRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewUserRepository constructs the repository. Observer may be nil.
func NewUserRepository(db *sqlx.DB, observer QueryObserver) *UserRepository {
	return &UserRepository{db: db, observer: observer}
}

// Create persists a new user record. A duplicate email surfaces as a unique
// violation from the store.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer observeQuery(r.observer, "user_create", time.Now())
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	const query = `INSERT INTO users (id, name, email, password_hash, role, university, is_approved, created_at, updated_at)
        VALUES (:id, :name, :email, :password_hash, :role, :university, :is_approved, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByEmail returns the user with the given email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer observeQuery(r.observer, "user_find_by_email", time.Now())
	const query = `SELECT id, name, email, password_hash, role, university, is_approved, created_at, updated_at
        FROM users WHERE email = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns the user with the given ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	defer observeQuery(r.observer, "user_find_by_id", time.Now())
	const query = `SELECT id, name, email, password_hash, role, university, is_approved, created_at, updated_at
        FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users matching the filter, newest first. Password hashes stay
// in the struct but are never serialised.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	defer observeQuery(r.observer, "user_list", time.Now())
	var conditions []string
	var args []interface{}

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.IsApproved != nil {
		conditions = append(conditions, fmt.Sprintf("is_approved = $%d", len(args)+1))
		args = append(args, *filter.IsApproved)
	}

	query := `SELECT id, name, email, password_hash, role, university, is_approved, created_at, updated_at FROM users`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetApproval updates the approval flag and returns the updated record.
func (r *UserRepository) SetApproval(ctx context.Context, id string, approved bool) (*models.User, error) {
	defer observeQuery(r.observer, "user_set_approval", time.Now())
	const query = `UPDATE users SET is_approved = $2, updated_at = $3 WHERE id = $1
        RETURNING id, name, email, password_hash, role, university, is_approved, created_at, updated_at`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id, approved, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &user, nil
}
