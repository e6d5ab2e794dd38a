package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vivek04-tech/edu-interact/internal/models"
	appErrors "github.com/vivek04-tech/edu-interact/pkg/errors"
)

type mockCourseRepo struct {
	courses    map[string]models.Course
	lastFilter models.CourseFilter
	listCalls  int
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.courses == nil {
		m.courses = make(map[string]models.Course)
	}
	if course.ID == "" {
		course.ID = "generated"
	}
	m.courses[course.ID] = *course
	return nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, error) {
	m.lastFilter = filter
	m.listCalls++
	var details []models.CourseDetail
	for _, c := range m.courses {
		if filter.IsApproved != nil && c.IsApproved != *filter.IsApproved {
			continue
		}
		if filter.TeacherID != "" && c.TeacherID != filter.TeacherID {
			continue
		}
		if filter.University != nil && c.University != *filter.University {
			continue
		}
		details = append(details, models.CourseDetail{Course: c})
	}
	return details, nil
}

func (m *mockCourseRepo) SetApproval(ctx context.Context, id string, approved bool) (*models.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c.IsApproved = approved
	m.courses[id] = c
	return &c, nil
}

// memoryCache is an in-process stand-in for the redis-backed cache.
type memoryCache struct {
	entries map[string][]byte
	deletes []string
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deletes = append(m.deletes, pattern)
	m.entries = make(map[string][]byte)
	return nil
}

func teacherClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleTeacher}
}

func TestCourseServiceCreate(t *testing.T) {
	repo := &mockCourseRepo{}
	cache := &memoryCache{}
	svc := NewCourseService(repo, cache, time.Minute, validator.New(), zap.NewNop(), nil)

	price := 499.0
	course, err := svc.Create(context.Background(), teacherClaims("t1"), CreateCourseRequest{
		Title:       "Operating Systems",
		Description: "Processes, memory, file systems",
		University:  models.UniversityAKTU,
		Price:       &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", course.TeacherID)
	assert.False(t, course.IsApproved)
	assert.Equal(t, 7, course.TrialDays)
	assert.Contains(t, cache.deletes, "catalog:courses:*")
}

func TestCourseServiceCreateNegativePrice(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, nil, 0, validator.New(), zap.NewNop(), nil)

	price := -1.0
	_, err := svc.Create(context.Background(), teacherClaims("t1"), CreateCourseRequest{
		Title:       "Bad",
		Description: "Bad",
		University:  models.UniversityLU,
		Price:       &price,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceCreateZeroPriceAllowed(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, nil, 0, validator.New(), zap.NewNop(), nil)

	price := 0.0
	course, err := svc.Create(context.Background(), teacherClaims("t1"), CreateCourseRequest{
		Title:       "Free Intro",
		Description: "Open lectures",
		University:  models.UniversityLU,
		Price:       &price,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, course.Price)
}

func TestCourseServiceCreateInvalidUniversity(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, nil, 0, validator.New(), zap.NewNop(), nil)

	price := 10.0
	_, err := svc.Create(context.Background(), teacherClaims("t1"), CreateCourseRequest{
		Title:       "X",
		Description: "Y",
		University:  models.University("mit"),
		Price:       &price,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceListVisibleFiltersApproved(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]models.Course{
		"c1": {ID: "c1", University: models.UniversityAKTU, IsApproved: true},
		"c2": {ID: "c2", University: models.UniversityAKTU, IsApproved: false},
	}}
	svc := NewCourseService(repo, nil, 0, validator.New(), zap.NewNop(), nil)

	scope := models.UniversityAKTU
	courses, err := svc.ListVisible(context.Background(), &scope)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "c1", courses[0].ID)
	require.NotNil(t, repo.lastFilter.IsApproved)
	assert.True(t, *repo.lastFilter.IsApproved)
}

func TestCourseServiceListVisibleUsesCache(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]models.Course{
		"c1": {ID: "c1", University: models.UniversityLU, IsApproved: true},
	}}
	cache := &memoryCache{}
	svc := NewCourseService(repo, cache, time.Minute, validator.New(), zap.NewNop(), nil)

	scope := models.UniversityLU
	_, err := svc.ListVisible(context.Background(), &scope)
	require.NoError(t, err)
	_, err = svc.ListVisible(context.Background(), &scope)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestCourseServiceSetApproval(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]models.Course{"c1": {ID: "c1"}}}
	cache := &memoryCache{}
	svc := NewCourseService(repo, cache, time.Minute, validator.New(), zap.NewNop(), nil)

	course, err := svc.SetApproval(context.Background(), "c1", true)
	require.NoError(t, err)
	assert.True(t, course.IsApproved)
	assert.Contains(t, cache.deletes, "catalog:courses:*")

	_, err = svc.SetApproval(context.Background(), "missing", true)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceListByTeacher(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]models.Course{
		"c1": {ID: "c1", TeacherID: "t1", IsApproved: false},
		"c2": {ID: "c2", TeacherID: "t2", IsApproved: true},
	}}
	svc := NewCourseService(repo, nil, 0, validator.New(), zap.NewNop(), nil)

	courses, err := svc.ListByTeacher(context.Background(), teacherClaims("t1"))
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "c1", courses[0].ID)
	// unapproved courses still show up for their owner
	assert.Nil(t, repo.lastFilter.IsApproved)
}

type recordingCacheMetrics struct {
	hits   int
	misses int
}

func (m *recordingCacheMetrics) RecordCacheLookup(hit bool) {
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func TestCourseServiceListVisibleRecordsCacheMetrics(t *testing.T) {
	repo := &mockCourseRepo{courses: map[string]models.Course{
		"c1": {ID: "c1", Title: "DBMS", University: models.UniversityAKTU, IsApproved: true},
	}}
	cache := &memoryCache{}
	metrics := &recordingCacheMetrics{}
	svc := NewCourseService(repo, cache, time.Minute, validator.New(), zap.NewNop(), metrics)

	_, err := svc.ListVisible(context.Background(), nil)
	require.NoError(t, err)
	_, err = svc.ListVisible(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, repo.listCalls)
}
