package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/astralpay/wallet-api/internal/middleware"
	"github.com/astralpay/wallet-api/internal/models"
	"github.com/astralpay/wallet-api/internal/service"
	"github.com/astralpay/wallet-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	svc    *service.Service
	logger *utils.Logger
}

func NewWalletHandler(svc *service.Service, logger *utils.Logger) *WalletHandler {
	return &WalletHandler{svc: svc, logger: logger}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyProcessed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (h *WalletHandler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

type depositRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency models.Currency `json:"currency" binding:"required,oneof=BTC RUB"`
}

type withdrawRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Currency      models.Currency `json:"currency" binding:"required,oneof=BTC RUB"`
	WalletAddress string          `json:"wallet_address" binding:"required,max=100"`
}

// GET /api/wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	wallet, err := h.svc.GetOrCreateWallet(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wallet)
}

// POST /api/wallet/deposit
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.CreateDeposit(c.Request.Context(), c.GetString(middleware.ContextUserID), req.Amount, req.Currency)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction":     result.Transaction,
		"deposit_address": result.DepositAddress,
		"message":         "Send funds to the provided address. Transaction will be confirmed automatically.",
	})
}

// POST /api/wallet/withdraw
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.CreateWithdrawal(c.Request.Context(), c.GetString(middleware.ContextUserID),
		req.Amount, req.Currency, req.WalletAddress)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"withdrawal_request": result.WithdrawalRequest,
		"transaction":        result.Transaction,
		"fee":                result.Fee,
		"total_amount":       result.TotalAmount,
		"message":            "Withdrawal request submitted. It will be processed by an administrator.",
	})
}

// GET /api/wallet/transactions
func (h *WalletHandler) Transactions(c *gin.Context) {
	filter, err := parseHistoryFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transactions, total, err := h.svc.TransactionHistory(c.Request.Context(), c.GetString(middleware.ContextUserID), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   transactions,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// GET /api/wallet/balance
func (h *WalletHandler) Balance(c *gin.Context) {
	summary, err := h.svc.BalanceSummary(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func parseHistoryFilter(c *gin.Context) (models.TransactionFilter, error) {
	var filter models.TransactionFilter

	if v := c.Query("type"); v != "" {
		t := models.TransactionType(v)
		filter.Type = &t
	}
	if v := c.Query("status"); v != "" {
		st := models.TransactionStatus(v)
		filter.Status = &st
	}
	if v := c.Query("currency"); v != "" {
		cur := models.Currency(v)
		filter.Currency = &cur
	}
	if v := c.Query("from_date"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &from
	}
	if v := c.Query("to_date"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, err
		}
		filter.ToDate = &to
	}

	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset"))

	return filter, nil
}
