package http

import (
	"errors"
	"net/http"
	"strconv"

	"flyerhub/pkg/logger"
	"flyerhub/services/points/internal/entity"
	"flyerhub/services/points/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PointsHandler struct {
	pointsUseCase   usecase.PointsUseCase
	historyPageSize int
	logger          *logger.Logger
}

func NewPointsHandler(pointsUseCase usecase.PointsUseCase, historyPageSize int, logger *logger.Logger) *PointsHandler {
	if historyPageSize <= 0 {
		historyPageSize = 20
	}
	return &PointsHandler{
		pointsUseCase:   pointsUseCase,
		historyPageSize: historyPageSize,
		logger:          logger,
	}
}

type EarnRequest struct {
	Reason        string `json:"reason" binding:"required"`
	Amount        int    `json:"amount" binding:"required,min=1"`
	ReferenceID   string `json:"reference_id"`
	ReferenceType string `json:"reference_type"`
	Description   string `json:"description"`
}

type SpendRequest struct {
	Reason        string `json:"reason" binding:"required"`
	Amount        int    `json:"amount" binding:"required,min=1"`
	ReferenceID   string `json:"reference_id"`
	ReferenceType string `json:"reference_type"`
	Description   string `json:"description"`
}

// respondLedgerError maps ledger errors to HTTP statuses. Business-rule
// failures come back as client errors; anything else is a 500.
func respondLedgerError(c *gin.Context, log *logger.Logger, err error) {
	var insufficient *entity.InsufficientBalanceError
	switch {
	case errors.Is(err, entity.ErrInvalidAmount), errors.Is(err, entity.ErrUnknownReason):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "insufficient balance",
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
	case errors.Is(err, entity.ErrBalanceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrDailyCapReached):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrLedgerBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "retryable": true})
	default:
		log.Error("Ledger operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// Earn godoc
// @Summary      Earn points
// @Description  Credit points to the authenticated user for a business event
// @Tags         points
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body EarnRequest true "Earn details"
// @Success      201  {object}  entity.Transaction
// @Failure      400  {object}  map[string]interface{}
// @Router       /points/earn [post]
func (h *PointsHandler) Earn(c *gin.Context) {
	userID := c.GetString("user_id")

	var req EarnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.pointsUseCase.Earn(c.Request.Context(), usecase.EarnParams{
		UserID:        userID,
		Reason:        entity.EarnReason(req.Reason),
		Amount:        req.Amount,
		ReferenceID:   req.ReferenceID,
		ReferenceType: req.ReferenceType,
		Description:   req.Description,
	})
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// Spend godoc
// @Summary      Spend points
// @Description  Debit points from the authenticated user's balance
// @Tags         points
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SpendRequest true "Spend details"
// @Success      201  {object}  entity.Transaction
// @Failure      400  {object}  map[string]interface{}
// @Router       /points/spend [post]
func (h *PointsHandler) Spend(c *gin.Context) {
	userID := c.GetString("user_id")

	var req SpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.pointsUseCase.Spend(c.Request.Context(), usecase.SpendParams{
		UserID:        userID,
		Reason:        entity.SpendReason(req.Reason),
		Amount:        req.Amount,
		ReferenceID:   req.ReferenceID,
		ReferenceType: req.ReferenceType,
		Description:   req.Description,
	})
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// GetBalance godoc
// @Summary      Get balance
// @Description  Get the points balance for the authenticated user
// @Tags         points
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Balance
// @Router       /points/balance [get]
func (h *PointsHandler) GetBalance(c *gin.Context) {
	userID := c.GetString("user_id")

	balance, err := h.pointsUseCase.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// GetTransactions godoc
// @Summary      Get transaction history
// @Description  Paged transaction history for the authenticated user, newest first
// @Tags         points
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page (1-based)"
// @Param        limit query int false "Page size"
// @Success      200  {object}  map[string]interface{}
// @Router       /points/transactions [get]
func (h *PointsHandler) GetTransactions(c *gin.Context) {
	userID := c.GetString("user_id")

	page := 1
	limit := h.historyPageSize

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	transactions, total, err := h.pointsUseCase.GetTransactions(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": transactions,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetSummary godoc
// @Summary      Get wallet summary
// @Description  Balance plus the 10 most recent transactions
// @Tags         points
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Summary
// @Router       /points/summary [get]
func (h *PointsHandler) GetSummary(c *gin.Context) {
	userID := c.GetString("user_id")

	summary, err := h.pointsUseCase.GetSummary(c.Request.Context(), userID)
	if err != nil {
		respondLedgerError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
