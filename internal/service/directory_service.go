package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/dto"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
)

type directoryReader interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListCourses(ctx context.Context, section string) ([]string, error)
	ListStudents(ctx context.Context, course string) ([]models.Student, error)
}

// DirectoryService serves the reference data behind the report form: the
// assignment selector, the course list and course rosters.
type DirectoryService struct {
	repo     directoryReader
	cache    *CacheService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(repo directoryReader, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{repo: repo, cache: cache, logger: logger, cacheTTL: cacheTTL}
}

// AssignmentOptions lists the staff a report can be assigned to.
func (s *DirectoryService) AssignmentOptions(ctx context.Context) ([]dto.AssignmentOption, error) {
	return Remember(ctx, s.cache, "ref:users", s.cacheTTL, func(ctx context.Context) ([]dto.AssignmentOption, error) {
		users, err := s.repo.ListUsers(ctx)
		if err != nil {
			return nil, err
		}
		options := make([]dto.AssignmentOption, 0, len(users))
		for _, user := range users {
			options = append(options, dto.AssignmentOption{ID: user.ID, Label: AssignmentLabel(user)})
		}
		return options, nil
	})
}

// Courses lists the courses, optionally restricted to a section.
func (s *DirectoryService) Courses(ctx context.Context, section string) ([]string, error) {
	section = strings.TrimSpace(section)
	return Remember(ctx, s.cache, "ref:courses:"+section, s.cacheTTL, func(ctx context.Context) ([]string, error) {
		courses, err := s.repo.ListCourses(ctx, section)
		if err != nil {
			return nil, err
		}
		if courses == nil {
			courses = []string{}
		}
		return courses, nil
	})
}

// Students lists the roster of course. Rosters carry active report counts, so
// they live under the dashboard prefix and are dropped on refresh.
func (s *DirectoryService) Students(ctx context.Context, course string) ([]dto.StudentRow, error) {
	course = strings.TrimSpace(course)
	if course == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course is required")
	}
	key := fmt.Sprintf("dash:students:%s", course)
	return Remember(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) ([]dto.StudentRow, error) {
		students, err := s.repo.ListStudents(ctx, course)
		if err != nil {
			return nil, err
		}
		rows := make([]dto.StudentRow, 0, len(students))
		for _, student := range students {
			active := 0
			for _, summary := range student.ActiveReports {
				if summary.Status.Active() {
					active++
				}
			}
			rows = append(rows, dto.StudentRow{
				ID:            student.ID,
				FullName:      student.FullName,
				Code:          student.Code,
				Course:        student.Course,
				Initials:      Initials(student.FullName),
				ActiveReports: active,
			})
		}
		return rows, nil
	})
}

// AssignmentLabel renders a staff member for the selector. Teachers are shown
// by name only; other roles get the role appended.
func AssignmentLabel(user models.User) string {
	label := user.FullName
	if user.Role != "" && user.Role != models.RoleTeacher {
		label += fmt.Sprintf(" (%s)", user.Role)
	}
	return label
}

// Initials returns up to two upper-case initials of name.
func Initials(name string) string {
	initials := make([]rune, 0, 2)
	for _, part := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(part)
		initials = append(initials, unicode.ToUpper(r))
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}

// FirstName returns the first word of a full name.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
