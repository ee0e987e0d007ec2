package service

import (
	"context"
	"sync"
	"time"

	"github.com/astralpay/wallet-api/config"
	"github.com/astralpay/wallet-api/internal/models"
	"github.com/astralpay/wallet-api/utils"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	repo     Repository
	logger   *utils.Logger
	config   *config.Config
	notifier Notifier

	feeRates      utils.FeeRates
	minWithdrawal decimal.Decimal
	maxWithdrawal decimal.Decimal

	// HD деривация адресов, включается при наличии мастер-ключа
	masterKey   *hdkeychain.ExtendedKey
	netParams   *chaincfg.Params
	addressMu   sync.Mutex
	addressIdx  uint32
	addressInit bool
}

type Repository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	CreditUserBalance(ctx context.Context, tx *gorm.DB, userID string, currency models.Currency, amount decimal.Decimal) error
	DebitUserBalance(ctx context.Context, tx *gorm.DB, userID string, currency models.Currency, amount decimal.Decimal) (bool, error)

	GetWalletByUserID(ctx context.Context, userID string) (*models.Wallet, error)
	CreateWalletIfAbsent(ctx context.Context, wallet *models.Wallet) error
	CountWallets(ctx context.Context) (int64, error)
	AdjustWalletBalance(ctx context.Context, tx *gorm.DB, userID string, currency models.Currency, delta decimal.Decimal) error

	CreateTransaction(ctx context.Context, tx *gorm.DB, transaction *models.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error)
	GetTransactionByWithdrawalID(ctx context.Context, withdrawalID string) (*models.Transaction, error)
	MarkTransactionProcessed(ctx context.Context, tx *gorm.DB, id string, status models.TransactionStatus, txid string) (bool, error)
	ListUserTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, int64, error)
	ListTransactions(ctx context.Context, status *models.TransactionStatus, limit, offset int) ([]models.Transaction, int64, error)
	SumPendingTransactions(ctx context.Context, userID string, txType models.TransactionType, currency models.Currency) (decimal.Decimal, error)

	CreateWithdrawal(ctx context.Context, tx *gorm.DB, withdrawal *models.WithdrawalRequest) error
	GetWithdrawalByID(ctx context.Context, id string) (*models.WithdrawalRequest, error)
	ListWithdrawals(ctx context.Context, status *models.WithdrawalStatus, limit, offset int) ([]models.WithdrawalRequest, int64, error)
	MarkWithdrawalProcessed(ctx context.Context, tx *gorm.DB, id string, status models.WithdrawalStatus, adminID string, reason *string, processedAt time.Time) (bool, error)

	CreateActivityLog(ctx context.Context, entry *models.ActivityLog) error

	BeginTransaction(ctx context.Context) (*gorm.DB, error)
	Commit(tx *gorm.DB) error
	Rollback(tx *gorm.DB)
}

// Notifier pushes withdrawal lifecycle events to the admin channel.
// Implementations must not block the request path.
type Notifier interface {
	WithdrawalCreated(withdrawal *models.WithdrawalRequest)
	WithdrawalProcessed(withdrawal *models.WithdrawalRequest)
}

func NewService(repo Repository, cfg *config.Config, notifier Notifier, logger *utils.Logger) (*Service, error) {
	s := &Service{
		repo:     repo,
		logger:   logger,
		config:   cfg,
		notifier: notifier,
		feeRates: utils.FeeRates{
			BTCPercent: decimal.NewFromFloat(cfg.BTCFeePercent),
			BTCMinimum: decimal.NewFromFloat(cfg.BTCFeeMinimum),
			RUBPercent: decimal.NewFromFloat(cfg.RUBFeePercent),
		},
		minWithdrawal: decimal.NewFromFloat(cfg.MinWithdrawalBTC),
		maxWithdrawal: decimal.NewFromFloat(cfg.MaxWithdrawalBTC),
		netParams:     &chaincfg.MainNetParams,
	}

	if cfg.BTCTestnet {
		s.netParams = &chaincfg.TestNet3Params
	}

	if cfg.MasterKeySeed != "" {
		masterKey, err := hdkeychain.NewKeyFromString(cfg.MasterKeySeed)
		if err != nil {
			return nil, err
		}
		s.masterKey = masterKey
	}

	return s, nil
}

// generateDepositAddress derives the next HD address when a master key is
// configured and falls back to a placeholder otherwise. Uniqueness is
// enforced by the index on wallets.btc_address either way.
func (s *Service) generateDepositAddress(ctx context.Context) (string, error) {
	if s.masterKey == nil {
		return utils.GenerateAddress(), nil
	}

	s.addressMu.Lock()
	defer s.addressMu.Unlock()

	// Resume derivation past the addresses already handed out, so a
	// restart cannot re-issue an existing wallet's address.
	if !s.addressInit {
		count, err := s.repo.CountWallets(ctx)
		if err != nil {
			return "", err
		}
		s.addressIdx = uint32(count)
		s.addressInit = true
	}

	child, err := s.masterKey.Derive(s.addressIdx)
	if err != nil {
		return "", err
	}

	addr, err := child.Address(s.netParams)
	if err != nil {
		return "", err
	}

	s.addressIdx++
	return addr.EncodeAddress(), nil
}

// logActivity records an audit entry, best effort.
func (s *Service) logActivity(ctx context.Context, userID, action, details string) {
	entry := &models.ActivityLog{
		ID:      uuid.NewString(),
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	if err := s.repo.CreateActivityLog(ctx, entry); err != nil {
		s.logger.Warnf("Failed to write activity log for user %s: %v", userID, err)
	}
}
