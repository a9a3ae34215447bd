package http

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"flyerhub/pkg/logger"
	"flyerhub/pkg/s3"
	"flyerhub/services/points/internal/usecase"

	"github.com/gin-gonic/gin"
)

const exportPageSize = 500

type AdminHandler struct {
	pointsUseCase usecase.PointsUseCase
	s3Client      *s3.Client
	logger        *logger.Logger
}

func NewAdminHandler(pointsUseCase usecase.PointsUseCase, s3Client *s3.Client, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		pointsUseCase: pointsUseCase,
		s3Client:      s3Client,
		logger:        logger,
	}
}

type GrantRequest struct {
	Amount      int    `json:"amount" binding:"required,min=1"`
	Description string `json:"description"`
}

type DeductRequest struct {
	Amount      int    `json:"amount" binding:"required,min=1"`
	Description string `json:"description"`
}

// GrantPoints godoc
// @Summary      Grant points (admin)
// @Description  Credit points to any user regardless of prior balance
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "User ID"
// @Param        request body GrantRequest true "Grant details"
// @Success      201  {object}  entity.Transaction
// @Router       /admin/points/{user_id}/grant [post]
func (h *AdminHandler) GrantPoints(c *gin.Context) {
	userID := c.Param("user_id")

	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.pointsUseCase.GrantPoints(c.Request.Context(), userID, req.Amount, req.Description)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	h.logger.Info("Admin granted %d points to user %s", req.Amount, userID)
	c.JSON(http.StatusCreated, transaction)
}

// DeductPoints godoc
// @Summary      Deduct points (admin)
// @Description  Debit points from any user; cannot force a balance negative
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "User ID"
// @Param        request body DeductRequest true "Deduct details"
// @Success      201  {object}  entity.Transaction
// @Router       /admin/points/{user_id}/deduct [post]
func (h *AdminHandler) DeductPoints(c *gin.Context) {
	userID := c.Param("user_id")

	var req DeductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.pointsUseCase.DeductPoints(c.Request.Context(), userID, req.Amount, req.Description)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	h.logger.Info("Admin deducted %d points from user %s", req.Amount, userID)
	c.JSON(http.StatusCreated, transaction)
}

// ExportHistory godoc
// @Summary      Export transaction history (admin)
// @Description  Write a user's full transaction log as CSV to the audit bucket
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "User ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/points/{user_id}/export [post]
func (h *AdminHandler) ExportHistory(c *gin.Context) {
	if h.s3Client == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit export storage is not configured"})
		return
	}

	userID := c.Param("user_id")
	ctx := c.Request.Context()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"id", "type", "amount", "balance_after", "reason", "description", "reference_id", "reference_type", "expires_at", "created_at"})

	rows := 0
	for page := 1; ; page++ {
		transactions, _, err := h.pointsUseCase.GetTransactions(ctx, userID, page, exportPageSize)
		if err != nil {
			respondLedgerError(c, h.logger, err)
			return
		}
		if len(transactions) == 0 {
			break
		}
		for _, transaction := range transactions {
			expiresAt := ""
			if transaction.ExpiresAt != nil {
				expiresAt = transaction.ExpiresAt.Format(time.RFC3339)
			}
			w.Write([]string{
				transaction.ID,
				string(transaction.Type),
				strconv.Itoa(transaction.Amount),
				strconv.Itoa(transaction.BalanceAfter),
				transaction.Reason,
				transaction.Description,
				transaction.ReferenceID,
				transaction.ReferenceType,
				expiresAt,
				transaction.CreatedAt.Format(time.RFC3339),
			})
			rows++
		}
		if len(transactions) < exportPageSize {
			break
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		h.logger.Error("Failed to build audit export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}

	key := fmt.Sprintf("audit/points/%s/%s.csv", userID, time.Now().UTC().Format("20060102T150405Z"))
	if _, err := h.s3Client.Upload(key, buf.Bytes(), "text/csv"); err != nil {
		h.logger.Error("Failed to upload audit export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload export"})
		return
	}

	h.logger.Info("Exported %d transactions for user %s to %s", rows, userID, key)
	c.JSON(http.StatusOK, gin.H{"key": key, "rows": rows})
}
