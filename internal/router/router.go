package router

import (
	"github.com/astralpay/wallet-api/internal/handler"
	"github.com/astralpay/wallet-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

func SetupRouter(walletHandler *handler.WalletHandler, adminHandler *handler.AdminHandler, jwtSecret string) *gin.Engine {
	r := gin.Default()

	auth := middleware.Auth(jwtSecret)

	wallet := r.Group("/api/wallet", auth)
	{
		wallet.GET("", walletHandler.GetWallet)
		wallet.POST("/deposit", walletHandler.Deposit)
		wallet.POST("/withdraw", walletHandler.Withdraw)
		wallet.GET("/transactions", walletHandler.Transactions)
		wallet.GET("/balance", walletHandler.Balance)
	}

	finance := r.Group("/api/admin/finance", auth, middleware.AdminOnly())
	{
		finance.GET("/transactions", adminHandler.Transactions)
		finance.GET("/withdrawals", adminHandler.Withdrawals)
		finance.POST("/withdrawals/:id/approve", adminHandler.ApproveWithdrawal)
		finance.POST("/withdrawals/:id/reject", adminHandler.RejectWithdrawal)
		finance.POST("/deposits/:id/complete", adminHandler.CompleteDeposit)
	}

	return r
}
