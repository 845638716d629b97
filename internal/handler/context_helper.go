package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/dto"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/middleware"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/view"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/logger"
)

const msgDashboardUnavailable = "No fue posible cargar el tablero. Intente nuevamente."

type dashboardService interface {
	Summary(ctx context.Context, userID int64, section string) (*dto.DashboardResponse, error)
}

type rosterService interface {
	Students(ctx context.Context, course string) ([]dto.StudentRow, error)
}

func userIDFromContext(c *gin.Context) int64 {
	if claims := middleware.Claims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name)
	}
	return id, nil
}

// pageBuilder fills the dashboard template model. Load failures leave the
// page usable and show a notice instead.
type pageBuilder struct {
	dashboard dashboardService
	roster    rosterService
	links     view.Links
	logger    *zap.Logger
}

func (b *pageBuilder) newPage(c *gin.Context) *view.Page {
	page := view.NewPage(b.links)
	page.User = middleware.Claims(c)
	return page
}

func (b *pageBuilder) fill(c *gin.Context, page *view.Page, course string) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx, b.logger)
	page.Course = strings.TrimSpace(course)

	summary, err := b.dashboard.Summary(ctx, userIDFromContext(c), c.Query("section"))
	if err != nil {
		log.Warn("dashboard unavailable", zap.Error(err))
		page.Notice = msgDashboardUnavailable
	} else {
		page.Dashboard = summary
	}

	if page.Course == "" || b.roster == nil {
		return
	}
	students, err := b.roster.Students(ctx, page.Course)
	if err != nil {
		log.Warn("students unavailable", zap.String("course", page.Course), zap.Error(err))
		page.Notice = msgDashboardUnavailable
		return
	}
	page.Students = students
}
