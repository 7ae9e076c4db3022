// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// Transaction represents a single classified financial transaction.
// Amounts are signed: negative values are expenses, positive values income.
type Transaction struct {
	Date          time.Time
	ID            string
	Description   string // Raw transaction description
	Merchant      string // Standardized merchant name
	Category      string // Predicted category
	PaymentMethod string
	Hash          string
	Amount        float64

	// Confidence of the upstream classification, if available
	Confidence *float64
}

// IsExpense reports whether the transaction is an expense.
func (t *Transaction) IsExpense() bool {
	return t.Amount < 0
}

// IsIncome reports whether the transaction is income.
func (t *Transaction) IsIncome() bool {
	return t.Amount > 0
}

// AbsAmount returns the unsigned transaction amount.
func (t *Transaction) AbsAmount() float64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Merchant,
		t.Description)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Validate checks that the transaction is usable for analysis. Rows that
// fail validation are skipped by the statistics, not rejected wholesale.
func (t *Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("transaction %s: date is required", t.ID)
	}
	if strings.TrimSpace(t.Merchant) == "" && strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("transaction %s: merchant or description is required", t.ID)
	}
	return nil
}

// MerchantOrDescription returns the standardized merchant, falling back to
// the raw description when no merchant was extracted upstream.
func (t *Transaction) MerchantOrDescription() string {
	if t.Merchant != "" {
		return t.Merchant
	}
	return t.Description
}
