package handler

import (
	"net/http"
	"strconv"

	"github.com/astralpay/wallet-api/internal/middleware"
	"github.com/astralpay/wallet-api/internal/models"
	"github.com/astralpay/wallet-api/internal/service"
	"github.com/astralpay/wallet-api/utils"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	svc    *service.Service
	logger *utils.Logger
}

func NewAdminHandler(svc *service.Service, logger *utils.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

func (h *AdminHandler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// GET /api/admin/finance/transactions
func (h *AdminHandler) Transactions(c *gin.Context) {
	var status *models.TransactionStatus
	if v := c.Query("status"); v != "" {
		st := models.TransactionStatus(v)
		status = &st
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	transactions, total, err := h.svc.ListTransactions(c.Request.Context(), status, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": transactions, "total": total})
}

// GET /api/admin/finance/withdrawals
func (h *AdminHandler) Withdrawals(c *gin.Context) {
	var status *models.WithdrawalStatus
	if v := c.Query("status"); v != "" {
		st := models.WithdrawalStatus(v)
		status = &st
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	withdrawals, total, err := h.svc.ListWithdrawals(c.Request.Context(), status, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": withdrawals, "total": total})
}

// POST /api/admin/finance/withdrawals/:id/approve
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	withdrawal, err := h.svc.ApproveWithdrawal(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Withdrawal approved successfully",
		"withdrawal": withdrawal,
	})
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// POST /api/admin/finance/withdrawals/:id/reject
func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withdrawal, err := h.svc.RejectWithdrawal(c.Request.Context(), c.Param("id"),
		c.GetString(middleware.ContextUserID), req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Withdrawal rejected successfully",
		"withdrawal": withdrawal,
	})
}

// POST /api/admin/finance/deposits/:id/complete
func (h *AdminHandler) CompleteDeposit(c *gin.Context) {
	transaction, err := h.svc.CompleteDeposit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Deposit completed successfully",
		"transaction": transaction,
	})
}
