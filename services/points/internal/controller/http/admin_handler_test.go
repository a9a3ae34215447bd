package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"flyerhub/pkg/jwt"
	"flyerhub/pkg/logger"
	"flyerhub/pkg/middleware"
	"flyerhub/services/points/internal/entity"
	"flyerhub/services/points/internal/repo/memory"
	"flyerhub/services/points/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupAdminTestRouter() (*gin.Engine, *AdminHandler) {
	gin.SetMode(gin.TestMode)
	log := logger.New()
	uc := usecase.NewPointsUseCase(memory.NewLedgerRepository(), nil, nil, 0, log)
	handler := NewAdminHandler(uc, nil, log)
	return gin.New(), handler
}

func TestGrantPoints_Success(t *testing.T) {
	router, handler := setupAdminTestRouter()
	router.POST("/admin/points/:user_id/grant", handler.GrantPoints)

	w := doJSON(t, router, "POST", "/admin/points/user-7/grant", GrantRequest{Amount: 500, Description: "promo"})

	assert.Equal(t, http.StatusCreated, w.Code)

	var transaction entity.Transaction
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &transaction))
	assert.Equal(t, "user-7", transaction.UserID)
	assert.Equal(t, string(entity.EarnReasonAdminGrant), transaction.Reason)
	assert.Equal(t, 500, transaction.BalanceAfter)
	assert.Nil(t, transaction.ExpiresAt)
}

func TestDeductPoints_CannotGoNegative(t *testing.T) {
	router, handler := setupAdminTestRouter()
	router.POST("/admin/points/:user_id/grant", handler.GrantPoints)
	router.POST("/admin/points/:user_id/deduct", handler.DeductPoints)

	w := doJSON(t, router, "POST", "/admin/points/user-7/grant", GrantRequest{Amount: 100, Description: "starter"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "POST", "/admin/points/user-7/deduct", DeductRequest{Amount: 500, Description: "oops"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(100), response["available"])

	w = doJSON(t, router, "POST", "/admin/points/user-7/deduct", DeductRequest{Amount: 40, Description: "correction"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var transaction entity.Transaction
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &transaction))
	assert.Equal(t, string(entity.SpendReasonAdminDeduct), transaction.Reason)
	assert.Equal(t, 60, transaction.BalanceAfter)
}

func TestExportHistory_NoStorageConfigured(t *testing.T) {
	router, handler := setupAdminTestRouter()
	router.POST("/admin/points/:user_id/export", handler.ExportHistory)

	w := doJSON(t, router, "POST", "/admin/points/user-7/export", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.New()
	uc := usecase.NewPointsUseCase(memory.NewLedgerRepository(), nil, nil, 0, log)
	handler := NewAdminHandler(uc, nil, log)
	jwtService := jwt.NewService("test-secret-key")

	router := gin.New()
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtService))
	admin.Use(middleware.RequireRole("admin"))
	admin.POST("/points/:user_id/grant", handler.GrantPoints)

	token, err := jwtService.GenerateToken("user-1", "viewer")
	assert.NoError(t, err)

	w := doJSONWithToken(t, router, "POST", "/admin/points/user-7/grant", GrantRequest{Amount: 10}, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := jwtService.GenerateToken("admin-1", "admin")
	assert.NoError(t, err)

	w = doJSONWithToken(t, router, "POST", "/admin/points/user-7/grant", GrantRequest{Amount: 10}, adminToken)
	assert.Equal(t, http.StatusCreated, w.Code)
}
