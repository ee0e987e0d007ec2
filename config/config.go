package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr  string `mapstructure:"HTTP_ADDR"`
	DB_URL    string `mapstructure:"DB_URL"`
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Optional HD wallet seed. When empty, deposit addresses are random
	// placeholders instead of derived ones.
	MasterKeySeed string `mapstructure:"MASTER_KEY_SEED"`
	BTCTestnet    bool   `mapstructure:"BTC_TESTNET"`

	// Admin notifications via Telegram. Disabled when the token is empty.
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	AdminChatID      int64  `mapstructure:"ADMIN_CHAT_ID"`

	// Wallet parameters, previously a mutable admin settings object.
	BTCFeePercent       float64 `mapstructure:"BTC_FEE_PERCENT"`
	BTCFeeMinimum       float64 `mapstructure:"BTC_FEE_MINIMUM"`
	RUBFeePercent       float64 `mapstructure:"RUB_FEE_PERCENT"`
	MinWithdrawalBTC    float64 `mapstructure:"MIN_WITHDRAWAL_BTC"`
	MaxWithdrawalBTC    float64 `mapstructure:"MAX_WITHDRAWAL_BTC"`
	HistoryDefaultLimit int     `mapstructure:"HISTORY_DEFAULT_LIMIT"`
}

func LoadConfig(path string) (config Config, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return config, fmt.Errorf("failed to resolve config path: %w", err)
	}

	viper.AddConfigPath(filepath.Dir(absPath))
	viper.SetConfigName(filepath.Base(absPath))
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("BTC_FEE_PERCENT", 0.005)
	viper.SetDefault("BTC_FEE_MINIMUM", 0.00001)
	viper.SetDefault("RUB_FEE_PERCENT", 0.02)
	viper.SetDefault("MIN_WITHDRAWAL_BTC", 0.0001)
	viper.SetDefault("MAX_WITHDRAWAL_BTC", 10)
	viper.SetDefault("HISTORY_DEFAULT_LIMIT", 20)

	if err := viper.ReadInConfig(); err != nil {
		return config, fmt.Errorf("failed to read config: %w", err)
	}

	if err := viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}
