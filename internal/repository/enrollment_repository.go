package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vivek04-tech/edu-interact/internal/models"
)

// EnrollmentRepository handles persistence of enrollments. The enrollments
// table carries a compound unique key on (user_id, course_id); Create relies
// on it so concurrent duplicate requests cannot both succeed.
type EnrollmentRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewEnrollmentRepository constructs the repository. Observer may be nil.
func NewEnrollmentRepository(db *sqlx.DB, observer QueryObserver) *EnrollmentRepository {
	return &EnrollmentRepository{db: db, observer: observer}
}

// Create persists a new enrollment record. A duplicate (user, course) pair
// surfaces as a unique violation; callers detect it with IsUniqueViolation.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	defer observeQuery(r.observer, "enrollment_create", time.Now())
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = now
	}
	enrollment.UpdatedAt = now
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusActive
	}
	const query = `INSERT INTO enrollments (id, user_id, course_id, trial_start_date, trial_end_date, is_paid, progress, status, created_at, updated_at)
        VALUES (:id, :user_id, :course_id, :trial_start_date, :trial_end_date, :is_paid, :progress, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	defer observeQuery(r.observer, "enrollment_find_by_id", time.Now())
	const query = `SELECT id, user_id, course_id, trial_start_date, trial_end_date, is_paid, progress, status, created_at, updated_at
        FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindDetailByID returns an enrollment with course context.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	defer observeQuery(r.observer, "enrollment_find_detail", time.Now())
	const query = `SELECT e.id, e.user_id, e.course_id, e.trial_start_date, e.trial_end_date, e.is_paid, e.progress, e.status, e.created_at, e.updated_at,
        c.title AS course_title, c.university AS course_university
        FROM enrollments e
        LEFT JOIN courses c ON c.id = e.course_id
        WHERE e.id = $1`
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListByUser returns all enrollments owned by the user with course context,
// newest first.
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error) {
	defer observeQuery(r.observer, "enrollment_list_by_user", time.Now())
	const query = `SELECT e.id, e.user_id, e.course_id, e.trial_start_date, e.trial_end_date, e.is_paid, e.progress, e.status, e.created_at, e.updated_at,
        c.title AS course_title, c.university AS course_university
        FROM enrollments e
        LEFT JOIN courses c ON c.id = e.course_id
        WHERE e.user_id = $1
        ORDER BY e.created_at DESC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, userID); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByCourse returns all enrollments for a course with course context,
// newest first. Used by the admin roster report.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.EnrollmentDetail, error) {
	defer observeQuery(r.observer, "enrollment_list_by_course", time.Now())
	const query = `SELECT e.id, e.user_id, e.course_id, e.trial_start_date, e.trial_end_date, e.is_paid, e.progress, e.status, e.created_at, e.updated_at,
        c.title AS course_title, c.university AS course_university,
        u.name AS student_name, u.email AS student_email
        FROM enrollments e
        LEFT JOIN courses c ON c.id = e.course_id
        LEFT JOIN users u ON u.id = e.user_id
        WHERE e.course_id = $1
        ORDER BY e.created_at DESC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, courseID); err != nil {
		return nil, fmt.Errorf("list course enrollments: %w", err)
	}
	return enrollments, nil
}

// UpdateProgress stores a new progress value and status.
func (r *EnrollmentRepository) UpdateProgress(ctx context.Context, id string, progress int, status models.EnrollmentStatus) error {
	defer observeQuery(r.observer, "enrollment_update_progress", time.Now())
	const query = `UPDATE enrollments SET progress = $2, status = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, progress, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update enrollment progress: %w", err)
	}
	return nil
}

// MarkPaid flips the paid flag; a paid enrollment is active again regardless
// of any stored trial expiry.
func (r *EnrollmentRepository) MarkPaid(ctx context.Context, id string, status models.EnrollmentStatus) error {
	defer observeQuery(r.observer, "enrollment_mark_paid", time.Now())
	const query = `UPDATE enrollments SET is_paid = TRUE, status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark enrollment paid: %w", err)
	}
	return nil
}
