package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a single income or expense record in the ledger.
// Date is the calendar day the transaction applies to, distinct from
// CreatedAt which records when the row was written.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Amount      float64         `gorm:"not null" json:"amount"`
	Category    string          `gorm:"size:50;not null" json:"category"`
	Description string          `gorm:"size:200" json:"description"`
	Date        time.Time       `gorm:"type:date;not null" json:"date"`
	Type        TransactionType `gorm:"size:10;not null" json:"type"`
	CreatedAt   time.Time       `json:"created_at"`
}
