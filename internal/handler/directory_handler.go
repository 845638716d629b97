package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/dto"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/response"
)

type directoryService interface {
	AssignmentOptions(ctx context.Context) ([]dto.AssignmentOption, error)
	Courses(ctx context.Context, section string) ([]string, error)
	Students(ctx context.Context, course string) ([]dto.StudentRow, error)
}

// DirectoryHandler exposes the reference data used by the report form.
type DirectoryHandler struct {
	service directoryService
}

// NewDirectoryHandler constructs the handler.
func NewDirectoryHandler(service directoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// AssignmentOptions godoc
// @Summary Assignment selector options
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/users/options [get]
func (h *DirectoryHandler) AssignmentOptions(c *gin.Context) {
	options, err := h.service.AssignmentOptions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options)
}

// Courses godoc
// @Summary List courses
// @Tags Directory
// @Produce json
// @Param section query string false "Section"
// @Success 200 {object} response.Envelope
// @Router /api/courses [get]
func (h *DirectoryHandler) Courses(c *gin.Context) {
	courses, err := h.service.Courses(c.Request.Context(), c.Query("section"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// Students godoc
// @Summary List students of a course
// @Tags Directory
// @Produce json
// @Param course query string true "Course"
// @Success 200 {object} response.Envelope
// @Router /api/students [get]
func (h *DirectoryHandler) Students(c *gin.Context) {
	students, err := h.service.Students(c.Request.Context(), c.Query("course"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"count": len(students)})
}
