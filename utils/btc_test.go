package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFee(t *testing.T) {
	rates := DefaultFeeRates()

	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"btc percentage", "0.05", "BTC", "0.00025"},
		{"btc minimum floor", "0.001", "BTC", "0.00001"},
		{"btc at floor boundary", "0.002", "BTC", "0.00001"},
		{"btc large", "1", "BTC", "0.005"},
		{"rub two percent", "100", "RUB", "2"},
		{"rub rounds to kopecks", "0.333", "RUB", "0.01"},
		{"unknown currency is free", "100", "XYZ", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			want := decimal.RequireFromString(tt.want)

			got := CalculateFee(amount, tt.currency, rates)
			assert.True(t, want.Equal(got), "want %s, got %s", want, got)
		})
	}
}

func TestValidateBTCAddress(t *testing.T) {
	valid := []string{
		"bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh",
		"tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx",
		"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		"3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy",
	}
	for _, addr := range valid {
		assert.True(t, ValidateBTCAddress(addr), "expected %s to validate", addr)
	}

	invalid := []string{
		"",
		"bc1q",                     // too short
		"bc1QUPPERCASEISNOTBECH32ADDRESSCHARSETXX", // bech32 is lowercase
		"0A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",       // bad prefix
		"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfN0",       // 0 not in base58
		"not-an-address",
	}
	for _, addr := range invalid {
		assert.False(t, ValidateBTCAddress(addr), "expected %s to fail", addr)
	}
}

func TestGenerateAddressShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		addr := GenerateAddress()
		require.True(t, ValidateBTCAddress(addr), "generated address %s must self-validate", addr)
		require.False(t, seen[addr], "generated address repeated: %s", addr)
		seen[addr] = true
	}
}

func TestGenerateTxID(t *testing.T) {
	a := GenerateTxID()
	b := GenerateTxID()

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
