package repository

import (
	"context"
	"net/url"
	"strings"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
)

// DirectoryRepository reads staff users, courses and students from the backend.
type DirectoryRepository struct {
	backend *BackendClient
}

// NewDirectoryRepository constructs a DirectoryRepository.
func NewDirectoryRepository(backend *BackendClient) *DirectoryRepository {
	return &DirectoryRepository{backend: backend}
}

// ListUsers returns the staff that can be assigned to a report.
func (r *DirectoryRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.backend.getJSON(ctx, "list_users", "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListCourses returns the distinct courses, optionally limited to a section.
func (r *DirectoryRepository) ListCourses(ctx context.Context, section string) ([]string, error) {
	query := url.Values{}
	if section = strings.TrimSpace(section); section != "" {
		query.Set("section", section)
	}
	var courses []string
	if err := r.backend.getJSON(ctx, "list_courses", "/api/courses", query, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// ListStudents returns the students enrolled in course.
func (r *DirectoryRepository) ListStudents(ctx context.Context, course string) ([]models.Student, error) {
	query := url.Values{}
	query.Set("course", course)
	var students []models.Student
	if err := r.backend.getJSON(ctx, "list_students", "/api/students", query, &students); err != nil {
		return nil, err
	}
	return students, nil
}
