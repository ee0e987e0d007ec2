package main

import (
	"github.com/astralpay/wallet-api/config"
	"github.com/astralpay/wallet-api/db"
	"github.com/astralpay/wallet-api/internal/handler"
	"github.com/astralpay/wallet-api/internal/notifier"
	"github.com/astralpay/wallet-api/internal/repository"
	"github.com/astralpay/wallet-api/internal/router"
	"github.com/astralpay/wallet-api/internal/service"
	"github.com/astralpay/wallet-api/utils"
)

func main() {
	logger := utils.InitLogger()
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		logger.Fatal("Failed to load config: ", err)
	}

	database, err := db.ConnectDb(cfg.DB_URL, logger)
	if err != nil {
		logger.Fatal(err)
	}

	if err := db.Migrate(database, true, logger); err != nil {
		logger.Fatal(err)
	}

	repo := repository.NewRepository(database, logger)

	var adminNotifier service.Notifier
	if cfg.TelegramBotToken != "" {
		tg, err := notifier.NewTelegram(cfg.TelegramBotToken, cfg.AdminChatID, logger)
		if err != nil {
			logger.Fatal("Failed to create telegram notifier: ", err)
		}
		adminNotifier = tg
	}

	walletService, err := service.NewService(repo, &cfg, adminNotifier, logger)
	if err != nil {
		logger.Fatal("Failed to create wallet service: ", err)
	}

	walletHandler := handler.NewWalletHandler(walletService, logger)
	adminHandler := handler.NewAdminHandler(walletService, logger)

	r := router.SetupRouter(walletHandler, adminHandler, cfg.JWTSecret)

	logger.Infof("🚀 Wallet API listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal(err)
	}
}
