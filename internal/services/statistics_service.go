package services

import (
	"sort"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// statisticsService computes rollups over the caller's ledger. Each call
// scans the caller's rows and aggregates in Go; ledger size is expected to
// stay small enough that no caching layer is warranted.
type statisticsService struct {
	db *gorm.DB
}

// NewStatisticsService creates a new StatisticsServicer.
func NewStatisticsService(db *gorm.DB) StatisticsServicer {
	return &statisticsService{db: db}
}

// Monthly sums income and expense per month of the given year. All twelve
// months are reported; months without transactions carry zero sums.
func (s *statisticsService) Monthly(userID uint, year int) ([]MonthlySummary, error) {
	transactions, err := s.ledgerRows(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]MonthlySummary, 12)
	for i := range summaries {
		summaries[i].Month = i + 1
	}

	for _, t := range transactions {
		if t.Date.Year() != year {
			continue
		}
		entry := &summaries[int(t.Date.Month())-1]
		switch t.Type {
		case models.TransactionTypeIncome:
			entry.Income += t.Amount
		case models.TransactionTypeExpense:
			entry.Expense += t.Amount
		}
	}

	for i := range summaries {
		summaries[i].Balance = summaries[i].Income - summaries[i].Expense
	}

	return summaries, nil
}

// Yearly sums income and expense per distinct year present in the caller's
// ledger, ordered ascending by year.
func (s *statisticsService) Yearly(userID uint) ([]YearlySummary, error) {
	transactions, err := s.ledgerRows(userID)
	if err != nil {
		return nil, err
	}

	byYear := make(map[int]*YearlySummary)
	for _, t := range transactions {
		year := t.Date.Year()
		entry, ok := byYear[year]
		if !ok {
			entry = &YearlySummary{Year: year}
			byYear[year] = entry
		}
		switch t.Type {
		case models.TransactionTypeIncome:
			entry.Income += t.Amount
		case models.TransactionTypeExpense:
			entry.Expense += t.Amount
		}
	}

	summaries := make([]YearlySummary, 0, len(byYear))
	for _, entry := range byYear {
		entry.Balance = entry.Income - entry.Expense
		summaries = append(summaries, *entry)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Year < summaries[j].Year })

	return summaries, nil
}

// ByCategory sums expense amounts grouped by category, optionally filtered
// to a year and/or month. Categories without matching expenses are omitted.
func (s *statisticsService) ByCategory(userID uint, year, month *int) ([]CategorySummary, error) {
	transactions, err := s.ledgerRows(userID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, t := range transactions {
		if t.Type != models.TransactionTypeExpense {
			continue
		}
		if year != nil && t.Date.Year() != *year {
			continue
		}
		if month != nil && int(t.Date.Month()) != *month {
			continue
		}
		totals[t.Category] += t.Amount
	}

	summaries := make([]CategorySummary, 0, len(totals))
	for category, amount := range totals {
		summaries = append(summaries, CategorySummary{Category: category, Amount: amount})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Category < summaries[j].Category })

	return summaries, nil
}

// ledgerRows loads the columns the aggregations need for one user.
func (s *statisticsService) ledgerRows(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.Model(&models.Transaction{}).
		Select("amount", "category", "date", "type").
		Where("user_id = ?", userID).
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}
