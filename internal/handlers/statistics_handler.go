package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/services"
)

// StatisticsHandler handles ledger aggregation requests.
type StatisticsHandler struct {
	statisticsService services.StatisticsServicer
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(statisticsService services.StatisticsServicer) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

// parseIntQuery reads an optional integer query parameter.
func parseIntQuery(c *gin.Context, name string) (*int, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+name)
	}
	return &n, nil
}

// Monthly returns income/expense/balance per month of a year
// @Summary     Monthly statistics
// @Description Income, expense, and balance for each month of the given year
// @Tags        statistics
// @Produce     json
// @Security    BearerAuth
// @Param       year query int false "Year (default: current year)"
// @Success     200 {array} services.MonthlySummary "Twelve entries, one per month"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Router      /statistics/monthly [get]
func (h *StatisticsHandler) Monthly(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	yearParam, err := parseIntQuery(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}
	year := time.Now().UTC().Year()
	if yearParam != nil {
		year = *yearParam
	}

	summaries, err := h.statisticsService.Monthly(userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// Yearly returns income/expense/balance per year present in the ledger
// @Summary     Yearly statistics
// @Description Income, expense, and balance for every year with transactions
// @Tags        statistics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.YearlySummary "One entry per year, ascending"
// @Router      /statistics/yearly [get]
func (h *StatisticsHandler) Yearly(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summaries, err := h.statisticsService.Yearly(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// Categories returns expense totals grouped by category
// @Summary     Category statistics
// @Description Expense totals per category, filtered to a year and month (default: current)
// @Tags        statistics
// @Produce     json
// @Security    BearerAuth
// @Param       year query int false "Year (default: current year)"
// @Param       month query int false "Month 1-12 (default: current month)"
// @Success     200 {array} services.CategorySummary "Non-zero categories only"
// @Failure     400 {object} ErrorResponse "Invalid year or month"
// @Router      /statistics/categories [get]
func (h *StatisticsHandler) Categories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := parseIntQuery(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, err := parseIntQuery(c, "month")
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Match the month filter to the current calendar period when absent.
	now := time.Now().UTC()
	if year == nil {
		y := now.Year()
		year = &y
	}
	if month == nil {
		m := int(now.Month())
		month = &m
	}

	summaries, err := h.statisticsService.ByCategory(userID, year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}
