package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-admin/utils"
)

type fakeSessions map[string]bool

func (f fakeSessions) Active(id string) bool { return f[id] }

func newAuthRouter(sessions SessionChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/private", AuthMiddleware("secret", sessions), func(c *gin.Context) {
		claims, ok := Session(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": claims.Email})
	})
	return r
}

func TestAuthMiddlewareAcceptsBearerAndCookie(t *testing.T) {
	token, err := utils.GenerateToken("secret", "s1", "admin@store.com", "Admin", time.Hour)
	require.NoError(t, err)
	r := newAuthRouter(fakeSessions{"s1": true})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "admin@store.com")
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthMiddlewareRedirectsToLogin(t *testing.T) {
	token, err := utils.GenerateToken("secret", "gone", "admin@store.com", "Admin", time.Hour)
	require.NoError(t, err)
	r := newAuthRouter(fakeSessions{})

	for name, header := range map[string]string{
		"missing": "",
		"garbage": "Bearer not-a-token",
		"ended":   "Bearer " + token,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Contains(t, rr.Body.String(), `"redirect":"/login"`)
		})
	}
}
