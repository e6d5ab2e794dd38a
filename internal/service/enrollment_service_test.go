package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vivek04-tech/edu-interact/internal/models"
	appErrors "github.com/vivek04-tech/edu-interact/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments map[string]models.Enrollment
	courses     map[string][]string
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if m.enrollments == nil {
		m.enrollments = make(map[string]models.Enrollment)
	}
	for _, e := range m.enrollments {
		if e.UserID == enrollment.UserID && e.CourseID == enrollment.CourseID {
			return &pq.Error{Code: "23505", Constraint: "enrollments_user_id_course_id_key"}
		}
	}
	if enrollment.ID == "" {
		enrollment.ID = "generated"
	}
	m.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	if e, ok := m.enrollments[id]; ok {
		return &models.EnrollmentDetail{Enrollment: e, CourseTitle: "Course"}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) ListByUser(ctx context.Context, userID string) ([]models.EnrollmentDetail, error) {
	var details []models.EnrollmentDetail
	for _, e := range m.enrollments {
		if e.UserID == userID {
			details = append(details, models.EnrollmentDetail{Enrollment: e})
		}
	}
	return details, nil
}

func (m *mockEnrollmentRepo) ListByCourse(ctx context.Context, courseID string) ([]models.EnrollmentDetail, error) {
	var details []models.EnrollmentDetail
	for _, e := range m.enrollments {
		if e.CourseID == courseID {
			details = append(details, models.EnrollmentDetail{Enrollment: e, StudentName: "Student"})
		}
	}
	return details, nil
}

func (m *mockEnrollmentRepo) UpdateProgress(ctx context.Context, id string, progress int, status models.EnrollmentStatus) error {
	e, ok := m.enrollments[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.Progress = progress
	e.Status = status
	m.enrollments[id] = e
	return nil
}

func (m *mockEnrollmentRepo) MarkPaid(ctx context.Context, id string, status models.EnrollmentStatus) error {
	e, ok := m.enrollments[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.IsPaid = true
	e.Status = status
	m.enrollments[id] = e
	return nil
}

type mockCourseReader struct {
	courses map[string]models.Course
}

func (m *mockCourseReader) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func newEnrollmentService(repo *mockEnrollmentRepo, courses *mockCourseReader, now time.Time) *EnrollmentService {
	svc := NewEnrollmentService(repo, courses, validator.New(), zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func studentClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleStudent}
}

func TestEnrollmentServiceEnroll(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := &mockEnrollmentRepo{}
	courses := &mockCourseReader{courses: map[string]models.Course{
		"c1": {ID: "c1", Title: "Algorithms", TrialDays: 10, IsApproved: true},
	}}
	svc := newEnrollmentService(repo, courses, now)

	detail, err := svc.Enroll(context.Background(), studentClaims("s1"), EnrollRequest{CourseID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusActive, detail.Status)
	assert.Equal(t, now, detail.TrialStartDate)
	assert.Equal(t, now.AddDate(0, 0, 10), detail.TrialEndDate)
	assert.False(t, detail.IsPaid)
}

func TestEnrollmentServiceEnrollUnknownCourse(t *testing.T) {
	svc := newEnrollmentService(&mockEnrollmentRepo{}, &mockCourseReader{}, time.Now())

	_, err := svc.Enroll(context.Background(), studentClaims("s1"), EnrollRequest{CourseID: "missing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceEnrollUnapprovedCourse(t *testing.T) {
	courses := &mockCourseReader{courses: map[string]models.Course{"c1": {ID: "c1", TrialDays: 7, IsApproved: false}}}
	svc := newEnrollmentService(&mockEnrollmentRepo{}, courses, time.Now())

	_, err := svc.Enroll(context.Background(), studentClaims("s1"), EnrollRequest{CourseID: "c1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceEnrollDuplicate(t *testing.T) {
	now := time.Now().UTC()
	repo := &mockEnrollmentRepo{}
	courses := &mockCourseReader{courses: map[string]models.Course{"c1": {ID: "c1", TrialDays: 7, IsApproved: true}}}
	svc := newEnrollmentService(repo, courses, now)

	_, err := svc.Enroll(context.Background(), studentClaims("s1"), EnrollRequest{CourseID: "c1"})
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), studentClaims("s1"), EnrollRequest{CourseID: "c1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceListForStudentEvaluatesStatus(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"e1": {ID: "e1", UserID: "s1", CourseID: "c1", TrialStartDate: start, TrialEndDate: start.AddDate(0, 0, 7), Status: models.EnrollmentStatusActive},
		"e2": {ID: "e2", UserID: "s1", CourseID: "c2", TrialStartDate: start, TrialEndDate: start.AddDate(0, 0, 7), IsPaid: true, Status: models.EnrollmentStatusActive},
	}}
	svc := newEnrollmentService(repo, &mockCourseReader{}, start.AddDate(0, 0, 30))

	details, err := svc.ListForStudent(context.Background(), studentClaims("s1"))
	require.NoError(t, err)
	require.Len(t, details, 2)

	statuses := map[string]models.EnrollmentStatus{}
	for _, d := range details {
		statuses[d.ID] = d.Status
	}
	assert.Equal(t, models.EnrollmentStatusExpired, statuses["e1"])
	assert.Equal(t, models.EnrollmentStatusActive, statuses["e2"])
}

func TestEnrollmentServiceUpdateProgress(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"e1": {ID: "e1", UserID: "s1", CourseID: "c1", TrialStartDate: start, TrialEndDate: start.AddDate(0, 0, 7), Status: models.EnrollmentStatusActive},
	}}
	svc := newEnrollmentService(repo, &mockCourseReader{}, start.AddDate(0, 0, 2))

	progress := 40
	detail, err := svc.UpdateProgress(context.Background(), studentClaims("s1"), "e1", UpdateProgressRequest{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, 40, detail.Progress)
	assert.Equal(t, models.EnrollmentStatusActive, detail.Status)
}

func TestEnrollmentServiceUpdateProgressCompletes(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"e1": {ID: "e1", UserID: "s1", CourseID: "c1", TrialStartDate: start, TrialEndDate: start.AddDate(0, 0, 7), Status: models.EnrollmentStatusActive},
	}}
	svc := newEnrollmentService(repo, &mockCourseReader{}, start.AddDate(0, 0, 2))

	progress := 100
	detail, err := svc.UpdateProgress(context.Background(), studentClaims("s1"), "e1", UpdateProgressRequest{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusCompleted, detail.Status)
}

func TestEnrollmentServiceUpdateProgressExpiredTrial(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"e1": {ID: "e1", UserID: "s1", CourseID: "c1", TrialStartDate: start, TrialEndDate: start.AddDate(0, 0, 7), Status: models.EnrollmentStatusActive},
	}}
	svc := newEnrollmentService(repo, &mockCourseReader{}, start.AddDate(0, 0, 30))

	progress := 50
	_, err := svc.UpdateProgress(context.Background(), studentClaims("s1"), "e1", UpdateProgressRequest{Progress: &progress})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceUpdateProgressOutOfRange(t *testing.T) {
	svc := newEnrollmentService(&mockEnrollmentRepo{}, &mockCourseReader{}, time.Now())

	progress := 120
	_, err := svc.UpdateProgress(context.Background(), studentClaims("s1"), "e1", UpdateProgressRequest{Progress: &progress})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceUpdateProgressOtherStudent(t *testing.T) {
	start := time.Now().UTC()
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"e1": {ID: "e1", UserID: "s1", CourseID: "c1", TrialStartDate: start, TrialEndDate: start.AddDate(0, 0, 7), Status: models.EnrollmentStatusActive},
	}}
	svc := newEnrollmentService(repo, &mockCourseReader{}, start)

	progress := 10
	_, err := svc.UpdateProgress(context.Background(), studentClaims("intruder"), "e1", UpdateProgressRequest{Progress: &progress})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceMarkPaidReactivatesExpired(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"e1": {ID: "e1", UserID: "s1", CourseID: "c1", TrialStartDate: start, TrialEndDate: start.AddDate(0, 0, 7), Status: models.EnrollmentStatusExpired},
	}}
	svc := newEnrollmentService(repo, &mockCourseReader{}, start.AddDate(0, 0, 30))

	detail, err := svc.MarkPaid(context.Background(), studentClaims("s1"), "e1")
	require.NoError(t, err)
	assert.True(t, detail.IsPaid)
	assert.Equal(t, models.EnrollmentStatusActive, detail.Status)
}

func TestEnrollmentServiceMarkPaidTwice(t *testing.T) {
	start := time.Now().UTC()
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"e1": {ID: "e1", UserID: "s1", CourseID: "c1", TrialStartDate: start, TrialEndDate: start.AddDate(0, 0, 7), IsPaid: true, Status: models.EnrollmentStatusActive},
	}}
	svc := newEnrollmentService(repo, &mockCourseReader{}, start)

	_, err := svc.MarkPaid(context.Background(), studentClaims("s1"), "e1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceListForCourse(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"e1": {ID: "e1", UserID: "s1", CourseID: "c1", TrialStartDate: start, TrialEndDate: start.AddDate(0, 0, 7), Status: models.EnrollmentStatusActive},
	}}
	courses := &mockCourseReader{courses: map[string]models.Course{"c1": {ID: "c1", IsApproved: true}}}
	svc := newEnrollmentService(repo, courses, start.AddDate(0, 0, 30))

	details, err := svc.ListForCourse(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, models.EnrollmentStatusExpired, details[0].Status)

	_, err = svc.ListForCourse(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
