package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/PKL-SST-2025/BatikKita-Be/models"
	"github.com/PKL-SST-2025/BatikKita-Be/services"
)

func setupRouter(tokens *services.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", AuthRequired(tokens), func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	router.GET("/admin", AdminRequired(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	router := setupRouter(tokens)
	userID := uuid.NewString()

	token, err := tokens.Issue(userID, models.RoleCustomer)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	router := setupRouter(services.NewTokenService("test-secret"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsForgedToken(t *testing.T) {
	router := setupRouter(services.NewTokenService("test-secret"))

	forged, err := services.NewTokenService("other-secret").Issue(uuid.NewString(), models.RoleAdmin)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRequiredAcceptsAdminToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	router := setupRouter(tokens)

	token, err := tokens.Issue(uuid.NewString(), models.RoleAdmin)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRequiredRejectsCustomerToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	router := setupRouter(tokens)

	token, err := tokens.Issue(uuid.NewString(), models.RoleCustomer)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// The bare x-role header is still honored for the legacy admin dashboard.
func TestAdminRequiredAcceptsLegacyRoleHeader(t *testing.T) {
	router := setupRouter(services.NewTokenService("test-secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("x-role", "admin")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRequiredRejectsOtherRoleHeader(t *testing.T) {
	router := setupRouter(services.NewTokenService("test-secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("x-role", "customer")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
