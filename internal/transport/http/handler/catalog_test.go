package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studybuddy-api/internal/config"
	"github.com/studybuddy-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOptions_List(t *testing.T) {
	opts := config.DefaultStudyOptions()
	rr := httptest.NewRecorder()
	NewOptionsHandler(opts).List(rr, httptest.NewRequest(http.MethodGet, "/v1/options", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[OptionsEnvelope](t, rr)
	assert.Equal(t, opts.Colleges, resp.Colleges)
	assert.Equal(t, opts.StudySpots, resp.StudySpots)
	assert.Equal(t, opts.StudyTimes, resp.StudyTimes)
	assert.Len(t, resp.CollegeDepartments, len(opts.Colleges))
}

func TestOptions_Departments(t *testing.T) {
	h := NewOptionsHandler(config.DefaultStudyOptions())

	rr := httptest.NewRecorder()
	h.Departments(rr, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "college", "College%20of%20Arts"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, decode[DepartmentsEnvelope](t, rr).Departments, "Department of Music")

	rr = httptest.NewRecorder()
	h.Departments(rr, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "college", "College of Nowhere"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"departments":[]}`, rr.Body.String())
}

func TestCourses_Search(t *testing.T) {
	svc := &mockCourseSvc{}
	svc.On("Search", mock.Anything, "calc").Return([]domain.Course{
		{Code: "MATH101", NameEN: "Calculus I", NameZH: "微積分一"},
		{Code: "MATH102", NameZH: "微積分二"},
	}, nil)
	rr := httptest.NewRecorder()
	NewCourseHandler(svc).Search(rr, httptest.NewRequest(http.MethodGet, "/v1/courses/search?q=calc", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[CoursesEnvelope](t, rr)
	require.Len(t, resp.Courses, 2)
	assert.Equal(t, "MATH101 - Calculus I", resp.Courses[0].Display)
	assert.Equal(t, "MATH102 - 微積分二", resp.Courses[1].Display)
}

func TestCourses_SearchEmpty(t *testing.T) {
	svc := &mockCourseSvc{}
	svc.On("Search", mock.Anything, "").Return([]domain.Course{}, nil)
	rr := httptest.NewRecorder()
	NewCourseHandler(svc).Search(rr, httptest.NewRequest(http.MethodGet, "/v1/courses/search", nil))

	assert.JSONEq(t, `{"courses":[]}`, rr.Body.String())
}

func TestCourses_SearchFailure(t *testing.T) {
	svc := &mockCourseSvc{}
	svc.On("Search", mock.Anything, "calc").Return(nil, errors.New("scan courses: throttled"))
	rr := httptest.NewRecorder()
	NewCourseHandler(svc).Search(rr, httptest.NewRequest(http.MethodGet, "/v1/courses/search?q=calc", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCourses_Names(t *testing.T) {
	svc := &mockCourseSvc{}
	svc.On("Names", mock.Anything, []string{"CS101", "XX999"}).Return(map[string]string{"CS101": "Intro to CS"}, nil)
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/courses/names", jsonBody(t, map[string][]string{"course_codes": {"CS101", "XX999"}}))
	NewCourseHandler(svc).Names(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"courses":{"CS101":"Intro to CS"}}`, rr.Body.String())
}

func TestCourses_NamesInvalidBody(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/courses/names", bytes.NewBufferString("[1,2"))
	NewCourseHandler(&mockCourseSvc{}).Names(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
