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

// CourseRepository handles persistence of courses.
type CourseRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewCourseRepository constructs the repository. Observer may be nil.
func NewCourseRepository(db *sqlx.DB, observer QueryObserver) *CourseRepository {
	return &CourseRepository{db: db, observer: observer}
}

// Create persists a new course record. Courses always start unapproved.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	defer observeQuery(r.observer, "course_create", time.Now())
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, title, description, university, teacher_id, price, trial_days, lecture_count, is_approved, created_at, updated_at)
        VALUES (:id, :title, :description, :university, :teacher_id, :price, :trial_days, :lecture_count, :is_approved, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	defer observeQuery(r.observer, "course_find_by_id", time.Now())
	const query = `SELECT id, title, description, university, teacher_id, price, trial_days, lecture_count, is_approved, created_at, updated_at
        FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns courses matching the filter with teacher context, newest first.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, error) {
	defer observeQuery(r.observer, "course_list", time.Now())
	var conditions []string
	var args []interface{}

	if filter.University != nil {
		conditions = append(conditions, fmt.Sprintf("c.university = $%d", len(args)+1))
		args = append(args, *filter.University)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("c.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.IsApproved != nil {
		conditions = append(conditions, fmt.Sprintf("c.is_approved = $%d", len(args)+1))
		args = append(args, *filter.IsApproved)
	}

	query := `SELECT c.id, c.title, c.description, c.university, c.teacher_id, c.price, c.trial_days, c.lecture_count, c.is_approved, c.created_at, c.updated_at,
        u.name AS teacher_name, u.email AS teacher_email
        FROM courses c
        LEFT JOIN users u ON u.id = c.teacher_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY c.created_at DESC"

	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// SetApproval updates the approval flag and returns the updated record.
func (r *CourseRepository) SetApproval(ctx context.Context, id string, approved bool) (*models.Course, error) {
	defer observeQuery(r.observer, "course_set_approval", time.Now())
	const query = `UPDATE courses SET is_approved = $2, updated_at = $3 WHERE id = $1
        RETURNING id, title, description, university, teacher_id, price, trial_days, lecture_count, is_approved, created_at, updated_at`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id, approved, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &course, nil
}
