package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
)

type fakeIssuer struct {
	user models.User
}

func (f *fakeIssuer) IssueToken(user models.User) (string, time.Time, error) {
	f.user = user
	return "signed-token", time.Now().Add(time.Hour), nil
}

func TestAuthHandlerDevLoginDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := &fakeIssuer{}
	h := NewAuthHandler(issuer, "access_token", false)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/dev-login", nil)

	h.DevLogin(c)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, int64(devUserID), issuer.user.ID)
	assert.Equal(t, models.RoleAdmin, issuer.user.Role)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "access_token", cookies[0].Name)
	assert.Equal(t, "signed-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestAuthHandlerDevLoginOverrides(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := &fakeIssuer{}
	h := NewAuthHandler(issuer, "access_token", false)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/dev-login?user_id=5&role=Docente&name=Marta+Ruiz", nil)

	h.DevLogin(c)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, int64(5), issuer.user.ID)
	assert.Equal(t, models.RoleTeacher, issuer.user.Role)
	assert.Equal(t, "Marta Ruiz", issuer.user.FullName)
}

func TestAuthHandlerDevLoginRejectsBadUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&fakeIssuer{}, "access_token", false)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/dev-login?user_id=-3", nil)

	h.DevLogin(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerLogoutClearsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&fakeIssuer{}, "access_token", false)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/logout", nil)

	h.Logout(c)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestAuthHandlerMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&fakeIssuer{}, "access_token", false)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	withClaims(c, &models.JWTClaims{UserID: 3, FullName: "Ana Pérez", Role: models.RoleCoordinator})
	h.Me(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"full_name":"Ana Pérez"`)
}
