package services

import (
	"time"

	"moneta/internal/models"
	"moneta/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, password string) (*models.User, error)
	VerifyCredentials(username, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
}

// ThrottleServicer defines the contract for IP login throttling. Check
// reports whether an IP is currently banned and how long the ban has left.
// RecordAttempt appends a login attempt and creates a ban once the failure
// threshold is crossed within the trailing window.
type ThrottleServicer interface {
	Check(ip string) (remaining time.Duration, banned bool)
	RecordAttempt(ip, username string, success bool)
}

// TransactionUpdate holds optional fields for a partial transaction update.
// Only non-nil fields are applied.
type TransactionUpdate struct {
	Amount      *float64
	Category    *string
	Description *string
	Date        *time.Time
	Type        *models.TransactionType
}

// TransactionServicer defines the contract for ledger operations. Every
// operation verifies that the record belongs to the acting user; a mismatch
// is reported as Forbidden, never silently filtered.
type TransactionServicer interface {
	CreateTransaction(userID uint, amount float64, category, description string, date time.Time, txType models.TransactionType) (*models.Transaction, error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// MonthlySummary aggregates income and expense totals for one month.
type MonthlySummary struct {
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// YearlySummary aggregates income and expense totals for one year.
type YearlySummary struct {
	Year    int     `json:"year"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// CategorySummary holds the expense total for one category.
type CategorySummary struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// StatisticsServicer defines the contract for ledger aggregation. All
// aggregations are scoped to the acting user.
type StatisticsServicer interface {
	Monthly(userID uint, year int) ([]MonthlySummary, error)
	Yearly(userID uint) ([]YearlySummary, error)
	ByCategory(userID uint, year, month *int) ([]CategorySummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
