package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionFee        TransactionType = "fee"
	TransactionTransfer   TransactionType = "transfer"
)

type Currency string

const (
	CurrencyBTC Currency = "BTC"
	CurrencyRUB Currency = "RUB"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "pending"
	WithdrawalApproved  WithdrawalStatus = "approved"
	WithdrawalRejected  WithdrawalStatus = "rejected"
	WithdrawalCompleted WithdrawalStatus = "completed"
)

type User struct {
	ID         string          `gorm:"primaryKey;type:uuid" json:"id"`
	Username   string          `gorm:"uniqueIndex;size:50" json:"username"`
	Email      string          `gorm:"uniqueIndex;size:100" json:"email"`
	Role       UserRole        `gorm:"size:20;default:user" json:"role"`
	BalanceBTC decimal.Decimal `gorm:"type:decimal(18,8);default:0" json:"balance_btc"`
	BalanceRUB decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"balance_rub"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Wallet       *Wallet       `gorm:"foreignKey:UserID" json:"wallet,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}

type Wallet struct {
	ID         string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string          `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	BTCAddress string          `gorm:"uniqueIndex;size:100" json:"btc_address"`
	BalanceBTC decimal.Decimal `gorm:"type:decimal(18,8);default:0" json:"balance_btc"`
	BalanceRUB decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"balance_rub"`
	IsActive   bool            `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type Transaction struct {
	ID            string            `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string            `gorm:"type:uuid;index;index:idx_tx_user_status_created,priority:1" json:"user_id"`
	WalletID      *string           `gorm:"type:uuid;index" json:"wallet_id,omitempty"`
	Type          TransactionType   `gorm:"size:20" json:"type"`
	Amount        decimal.Decimal   `gorm:"type:decimal(18,8)" json:"amount"`
	Currency      Currency          `gorm:"size:8" json:"currency"`
	Status        TransactionStatus `gorm:"size:20;default:pending;index;index:idx_tx_user_status_created,priority:2" json:"status"`
	TxID          string            `gorm:"size:100" json:"txid,omitempty"`
	WalletAddress string            `gorm:"size:100" json:"wallet_address,omitempty"`
	Fee           decimal.Decimal   `gorm:"type:decimal(18,8);default:0" json:"fee"`

	// Direct link to the withdrawal request this transaction settles.
	WithdrawalRequestID *string `gorm:"type:uuid;index" json:"withdrawal_request_id,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_tx_user_status_created,priority:3" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WithdrawalRequest struct {
	ID              string           `gorm:"primaryKey;type:uuid" json:"id"`
	UserID          string           `gorm:"type:uuid;index:idx_wr_user_status,priority:1" json:"user_id"`
	Amount          decimal.Decimal  `gorm:"type:decimal(18,8)" json:"amount"`
	Currency        Currency         `gorm:"size:8" json:"currency"`
	WalletAddress   string           `gorm:"size:100" json:"wallet_address"`
	Status          WithdrawalStatus `gorm:"size:20;default:pending;index;index:idx_wr_user_status,priority:2" json:"status"`
	ApprovedBy      *string          `gorm:"type:uuid" json:"approved_by,omitempty"`
	RejectionReason *string          `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time        `gorm:"index" json:"created_at"`
	ProcessedAt     *time.Time       `json:"processed_at,omitempty"`
}

type ActivityLog struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"type:uuid;index" json:"user_id"`
	Action    string    `gorm:"size:100" json:"action"`
	Details   string    `gorm:"type:text" json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionFilter narrows the history query; nil fields are skipped.
type TransactionFilter struct {
	Type     *TransactionType
	Status   *TransactionStatus
	Currency *Currency
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

type BalanceSummary struct {
	BTCAddress            string          `json:"btc_address"`
	BalanceBTC            decimal.Decimal `json:"balance_btc"`
	BalanceRUB            decimal.Decimal `json:"balance_rub"`
	PendingDepositsBTC    decimal.Decimal `json:"pending_deposits_btc"`
	PendingWithdrawalsBTC decimal.Decimal `json:"pending_withdrawals_btc"`
	AvailableBTC          decimal.Decimal `json:"available_btc"`
}
