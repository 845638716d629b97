package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/dto"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
)

type fakeDirectory struct {
	users       []models.User
	courses     []string
	students    []models.Student
	err         error
	userCalls   int
	courseCalls int
}

func (f *fakeDirectory) ListUsers(context.Context) ([]models.User, error) {
	f.userCalls++
	return f.users, f.err
}

func (f *fakeDirectory) ListCourses(context.Context, string) ([]string, error) {
	f.courseCalls++
	return f.courses, f.err
}

func (f *fakeDirectory) ListStudents(context.Context, string) ([]models.Student, error) {
	return f.students, f.err
}

func TestAssignmentLabel(t *testing.T) {
	tests := []struct {
		user models.User
		want string
	}{
		{models.User{FullName: "Juan Ruiz", Role: models.RoleTeacher}, "Juan Ruiz"},
		{models.User{FullName: "Ana Pérez", Role: models.RoleCoordinator}, "Ana Pérez (Coordinador)"},
		{models.User{FullName: "Rector", Role: models.RoleAdmin}, "Rector (Admin Global)"},
		{models.User{FullName: "Sin Rol"}, "Sin Rol"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AssignmentLabel(tt.user))
	}
}

func TestInitialsAndFirstName(t *testing.T) {
	assert.Equal(t, "LG", Initials("luis gómez díaz"))
	assert.Equal(t, "ÁN", Initials("Ángela núñez"))
	assert.Equal(t, "S", Initials("Sara"))
	assert.Equal(t, "", Initials("  "))
	assert.Equal(t, "Ana", FirstName("  Ana Pérez"))
	assert.Equal(t, "", FirstName(""))
}

func TestDirectoryAssignmentOptionsCached(t *testing.T) {
	repo := &fakeDirectory{users: []models.User{
		{ID: 1, FullName: "Ana Pérez", Role: models.RoleCoordinator},
		{ID: 2, FullName: "Juan Ruiz", Role: models.RoleTeacher},
	}}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	svc := NewDirectoryService(repo, cache, time.Minute, nil)

	for i := 0; i < 2; i++ {
		options, err := svc.AssignmentOptions(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []dto.AssignmentOption{
			{ID: 1, Label: "Ana Pérez (Coordinador)"},
			{ID: 2, Label: "Juan Ruiz"},
		}, options)
	}
	assert.Equal(t, 1, repo.userCalls)
}

func TestDirectoryCoursesNeverNil(t *testing.T) {
	svc := NewDirectoryService(&fakeDirectory{}, nil, 0, nil)

	courses, err := svc.Courses(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)
}

func TestDirectoryStudents(t *testing.T) {
	repo := &fakeDirectory{students: []models.Student{{
		ID:       42,
		FullName: "Luis Gómez",
		Code:     "20231102",
		Course:   "1102",
		ActiveReports: []models.ReportSummary{
			{ID: 17, Status: models.ReportStatusFollowUp},
			{ID: 9, Status: models.ReportStatusAttended},
		},
	}}}
	svc := NewDirectoryService(repo, nil, 0, nil)

	rows, err := svc.Students(context.Background(), "1102")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, dto.StudentRow{ID: 42, FullName: "Luis Gómez", Code: "20231102", Course: "1102", Initials: "LG", ActiveReports: 1}, rows[0])

	_, err = svc.Students(context.Background(), " ")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
