package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/dto"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
)

type fakeDirectorySrv struct {
	options  []dto.AssignmentOption
	courses  []string
	students []dto.StudentRow
	err      error
	section  string
	course   string
}

func (f *fakeDirectorySrv) AssignmentOptions(context.Context) ([]dto.AssignmentOption, error) {
	return f.options, f.err
}

func (f *fakeDirectorySrv) Courses(_ context.Context, section string) ([]string, error) {
	f.section = section
	return f.courses, f.err
}

func (f *fakeDirectorySrv) Students(_ context.Context, course string) ([]dto.StudentRow, error) {
	f.course = course
	return f.students, f.err
}

func TestDirectoryHandlerAssignmentOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewDirectoryHandler(&fakeDirectorySrv{options: []dto.AssignmentOption{{ID: 7, Label: "Ana Pérez (Coordinador)"}}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/users/options", nil)

	h.AssignmentOptions(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []dto.AssignmentOption `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Ana Pérez (Coordinador)", envelope.Data[0].Label)
}

func TestDirectoryHandlerCoursesPassesSection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDirectorySrv{courses: []string{"8A"}}
	h := NewDirectoryHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/courses?section=Bachillerato", nil)

	h.Courses(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bachillerato", srv.section)
}

func TestDirectoryHandlerStudents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDirectorySrv{students: []dto.StudentRow{{ID: 1, FullName: "Luis Gómez"}, {ID: 2, FullName: "Sara Díaz"}}}
	h := NewDirectoryHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/students?course=8A", nil)

	h.Students(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, float64(2), envelope.Meta["count"])
	assert.Equal(t, "8A", srv.course)
}

func TestDirectoryHandlerStudentsValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewDirectoryHandler(&fakeDirectorySrv{err: appErrors.Clone(appErrors.ErrValidation, "course is required")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/students", nil)

	h.Students(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
