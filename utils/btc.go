package utils

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"

	"github.com/shopspring/decimal"
)

const (
	BTCScale = 8
	RUBScale = 2
)

var (
	bech32Regex = regexp.MustCompile(`^(bc1|tb1)[a-z0-9]{39,59}$`)
	legacyRegex = regexp.MustCompile(`^[13][a-km-zA-HJ-NP-Z1-9]{25,34}$`)
)

// FeeRates holds the withdrawal commission parameters. Values come from
// configuration, defaults match the platform settings (0.5% BTC with a
// floor, 2% RUB).
type FeeRates struct {
	BTCPercent decimal.Decimal
	BTCMinimum decimal.Decimal
	RUBPercent decimal.Decimal
}

func DefaultFeeRates() FeeRates {
	return FeeRates{
		BTCPercent: decimal.NewFromFloat(0.005),
		BTCMinimum: decimal.NewFromFloat(0.00001),
		RUBPercent: decimal.NewFromFloat(0.02),
	}
}

// CalculateFee returns the commission for a withdrawal, rounded to the
// currency scale. Unknown currencies are free.
func CalculateFee(amount decimal.Decimal, currency string, rates FeeRates) decimal.Decimal {
	switch currency {
	case "BTC":
		fee := amount.Mul(rates.BTCPercent)
		if fee.LessThan(rates.BTCMinimum) {
			fee = rates.BTCMinimum
		}
		return fee.Round(BTCScale)
	case "RUB":
		return amount.Mul(rates.RUBPercent).Round(RUBScale)
	}
	return decimal.Zero
}

// ValidateBTCAddress checks the shape of a bech32 or legacy base58 address.
// No checksum verification, the storage layer never depends on it.
func ValidateBTCAddress(address string) bool {
	return bech32Regex.MatchString(address) || legacyRegex.MatchString(address)
}

// GenerateAddress produces a bech32-shaped deposit address. Not derived
// from a key; see the service-level HD derivation for the real thing.
func GenerateAddress() string {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return "bc1q" + hex.EncodeToString(buf)[:38]
}

// GenerateTxID returns an opaque hex identifier standing in for a network
// transaction id.
func GenerateTxID() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// CurrencyScale returns the number of fractional digits stored for a
// currency.
func CurrencyScale(currency string) int32 {
	if currency == "RUB" {
		return RUBScale
	}
	return BTCScale
}
