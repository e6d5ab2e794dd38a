package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivek04-tech/edu-interact/internal/models"
	"github.com/vivek04-tech/edu-interact/internal/service"
)

type userAdminRepoStub struct {
	users map[string]models.User
}

func (s *userAdminRepoStub) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	var users []models.User
	for _, u := range s.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.IsApproved != nil && u.IsApproved != *filter.IsApproved {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *userAdminRepoStub) SetApproval(ctx context.Context, id string, approved bool) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	u.IsApproved = approved
	s.users[id] = u
	return &u, nil
}

type courseRepoStub struct {
	courses map[string]models.Course
}

func (s *courseRepoStub) Create(ctx context.Context, course *models.Course) error { return nil }

func (s *courseRepoStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := s.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (s *courseRepoStub) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, error) {
	return nil, nil
}

func (s *courseRepoStub) SetApproval(ctx context.Context, id string, approved bool) (*models.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c.IsApproved = approved
	s.courses[id] = c
	return &c, nil
}

func newUserHandler(users *userAdminRepoStub, courses *courseRepoStub) *UserHandler {
	userSvc := service.NewUserService(users, nil)
	courseSvc := service.NewCourseService(courses, nil, 0, nil, nil, nil)
	return NewUserHandler(userSvc, courseSvc)
}

func approveContext(t *testing.T, w *httptest.ResponseRecorder, body ApproveRequest) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPut, "/admin/approve", bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c
}

func TestUserHandlerApproveTeacher(t *testing.T) {
	users := &userAdminRepoStub{users: map[string]models.User{
		"t1": {ID: "t1", Role: models.RoleTeacher, IsApproved: false},
	}}
	handler := newUserHandler(users, &courseRepoStub{})

	approved := true
	w := httptest.NewRecorder()
	handler.Approve(approveContext(t, w, ApproveRequest{Type: "user", ID: "t1", Approved: &approved}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, users.users["t1"].IsApproved)
}

func TestUserHandlerApproveCourse(t *testing.T) {
	courses := &courseRepoStub{courses: map[string]models.Course{
		"c1": {ID: "c1", IsApproved: false},
	}}
	handler := newUserHandler(&userAdminRepoStub{}, courses)

	approved := true
	w := httptest.NewRecorder()
	handler.Approve(approveContext(t, w, ApproveRequest{Type: "course", ID: "c1", Approved: &approved}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, courses.courses["c1"].IsApproved)
}

func TestUserHandlerApproveUnknownTarget(t *testing.T) {
	handler := newUserHandler(&userAdminRepoStub{}, &courseRepoStub{})

	approved := true
	w := httptest.NewRecorder()
	handler.Approve(approveContext(t, w, ApproveRequest{Type: "user", ID: "ghost", Approved: &approved}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandlerApproveInvalidType(t *testing.T) {
	handler := newUserHandler(&userAdminRepoStub{}, &courseRepoStub{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/admin/approve", bytes.NewBufferString(`{"type":"enrollment","id":"x","approved":true}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Approve(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandlerListFilters(t *testing.T) {
	users := &userAdminRepoStub{users: map[string]models.User{
		"t1": {ID: "t1", Role: models.RoleTeacher, IsApproved: false},
		"t2": {ID: "t2", Role: models.RoleTeacher, IsApproved: true},
		"s1": {ID: "s1", Role: models.RoleStudent, IsApproved: true},
	}}
	handler := newUserHandler(users, &courseRepoStub{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/users?role=teacher&approved=false", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "t1", envelope.Data[0].ID)
}
