package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-accompaniment-dashboard/internal/models"
	"github.com/noah-isme/sma-accompaniment-dashboard/internal/repository"
	appErrors "github.com/noah-isme/sma-accompaniment-dashboard/pkg/errors"
	"github.com/noah-isme/sma-accompaniment-dashboard/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// AuthOptions configures where the access token is read from.
type AuthOptions struct {
	CookieName string
	Required   bool
}

// JWT authenticates requests with a bearer header or the session cookie. The
// raw token is forwarded to the backend on every call made for the request.
// When Required is false, anonymous and invalid tokens pass through without
// claims.
func JWT(validator tokenValidator, opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokenFromRequest(c, opts.CookieName)
		if err == nil && token == "" {
			err = appErrors.ErrUnauthorized
		}

		var claims *models.JWTClaims
		if err == nil {
			claims, err = validator.ValidateToken(token)
		}
		if err != nil {
			if opts.Required {
				response.Error(c, err)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Request = c.Request.WithContext(repository.WithAccessToken(c.Request.Context(), token))
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context, cookieName string) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookieName == "" {
		return "", nil
	}
	cookie, err := c.Cookie(cookieName)
	if err != nil {
		return "", nil
	}
	return cookie, nil
}

// Claims returns the authenticated user's claims, or nil for anonymous requests.
func Claims(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
