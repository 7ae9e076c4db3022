package testutil

import (
	"fmt"
	"time"

	"github.com/spendscope/spendscope/internal/model"
)

// TxnBuilder constructs transaction fixtures with sensible defaults so
// tests only state what they care about.
type TxnBuilder struct {
	date          time.Time
	merchant      string
	category      string
	description   string
	paymentMethod string
	amount        float64
	seq           int
}

// NewTxnBuilder creates a builder anchored at the given date.
func NewTxnBuilder(date time.Time) *TxnBuilder {
	return &TxnBuilder{
		date:          date,
		merchant:      "Test Merchant",
		category:      "General",
		description:   "test purchase",
		paymentMethod: "debit card",
		amount:        -10.00,
	}
}

// On sets the transaction date.
func (b *TxnBuilder) On(date time.Time) *TxnBuilder {
	b.date = date
	return b
}

// At sets the merchant.
func (b *TxnBuilder) At(merchant string) *TxnBuilder {
	b.merchant = merchant
	return b
}

// In sets the category.
func (b *TxnBuilder) In(category string) *TxnBuilder {
	b.category = category
	return b
}

// Amount sets the signed amount. Expenses are negative.
func (b *TxnBuilder) Amount(amount float64) *TxnBuilder {
	b.amount = amount
	return b
}

// Paying sets the payment method.
func (b *TxnBuilder) Paying(method string) *TxnBuilder {
	b.paymentMethod = method
	return b
}

// Build produces one transaction and advances the internal sequence so
// repeated builds yield distinct IDs.
func (b *TxnBuilder) Build() model.Transaction {
	b.seq++
	txn := model.Transaction{
		ID:            fmt.Sprintf("txn-%s-%d", b.merchant, b.seq),
		Date:          b.date,
		Description:   b.description,
		Merchant:      b.merchant,
		Category:      b.category,
		PaymentMethod: b.paymentMethod,
		Amount:        b.amount,
	}
	txn.Hash = txn.GenerateHash()
	return txn
}

// Series builds n transactions spaced interval apart, starting at the
// anchor date.
func (b *TxnBuilder) Series(n int, interval time.Duration) []model.Transaction {
	txns := make([]model.Transaction, 0, n)
	date := b.date
	for i := 0; i < n; i++ {
		b.date = date.Add(time.Duration(i) * interval)
		txns = append(txns, b.Build())
	}
	b.date = date
	return txns
}

// MonthlyExpenses builds one expense per month for the given amounts,
// anchored at the builder's date, all in the same category.
func (b *TxnBuilder) MonthlyExpenses(amounts ...float64) []model.Transaction {
	txns := make([]model.Transaction, 0, len(amounts))
	date := b.date
	for i, amount := range amounts {
		b.date = date.AddDate(0, i, 0)
		b.amount = -amount
		txns = append(txns, b.Build())
	}
	b.date = date
	return txns
}
