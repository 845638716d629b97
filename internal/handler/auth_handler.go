package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/middleware"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/response"
)

const (
	devUserID    = 1
	devUserName  = "Admin Global (Dev)"
	devUserEmail = "admin@calasanz.edu.co"
)

type tokenIssuer interface {
	IssueToken(user models.User) (string, time.Time, error)
}

// AuthHandler manages the session cookie read by middleware.JWT.
type AuthHandler struct {
	issuer     tokenIssuer
	cookieName string
	secure     bool
}

// NewAuthHandler creates a new handler. secure marks the cookie HTTPS-only.
func NewAuthHandler(issuer tokenIssuer, cookieName string, secure bool) *AuthHandler {
	return &AuthHandler{issuer: issuer, cookieName: cookieName, secure: secure}
}

// DevLogin signs in without an identity provider. It is only routed in
// development.
func (h *AuthHandler) DevLogin(c *gin.Context) {
	user := models.User{
		ID:       devUserID,
		Email:    devUserEmail,
		FullName: devUserName,
		Role:     models.RoleAdmin,
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid user_id"))
			return
		}
		user.ID = id
	}
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		user.FullName = name
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		user.Role = models.UserRole(role)
	}

	token, expiresAt, err := h.issuer.IssueToken(user)
	if err != nil {
		response.Error(c, err)
		return
	}
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, token, maxAge, "/", "", h.secure, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secure, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// Me godoc
// @Summary Get current user
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /api/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, models.User{
		ID:       claims.UserID,
		Email:    claims.Email,
		FullName: claims.FullName,
		Role:     claims.Role,
	})
}
