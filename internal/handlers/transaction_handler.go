package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/events"
	"moneta/internal/logger"
	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/services"
)

// TransactionHandler handles ledger requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
	publisher          events.Publisher
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(
	transactionService services.TransactionServicer,
	auditService services.AuditServicer,
	publisher events.Publisher,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		auditService:       auditService,
		publisher:          publisher,
	}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	Amount      *float64               `json:"amount" binding:"required"`
	Category    string                 `json:"category" binding:"required,max=50"`
	Description string                 `json:"description" binding:"max=200"`
	Date        string                 `json:"date" binding:"required,dateformat"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
}

// UpdateTransactionRequest represents a partial update; only provided fields
// are applied.
type UpdateTransactionRequest struct {
	Amount      *float64                `json:"amount"`
	Category    *string                 `json:"category" binding:"omitempty,max=50"`
	Description *string                 `json:"description" binding:"omitempty,max=200"`
	Date        *string                 `json:"date" binding:"omitempty,dateformat"`
	Type        *models.TransactionType `json:"type" binding:"omitempty,transaction_type"`
}

// TransactionResponse represents a transaction in the response
type TransactionResponse struct {
	ID          uint                   `json:"id"`
	UserID      uint                   `json:"user_id"`
	Amount      float64                `json:"amount"`
	Category    string                 `json:"category"`
	Description string                 `json:"description"`
	Date        string                 `json:"date"`
	Type        models.TransactionType `json:"type"`
	CreatedAt   string                 `json:"created_at"`
}

func newTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		Date:        formatDate(t.Date),
		Type:        t.Type,
		CreatedAt:   formatTimestamp(t.CreatedAt),
	}
}

// publishEvent emits a ledger change event. Failures are logged, never
// surfaced to the client.
func (h *TransactionHandler) publishEvent(c *gin.Context, action string, transactionID, userID uint) {
	event := events.NewTransactionEvent(action, transactionID, userID)
	if err := h.publisher.PublishTransactionEvent(c.Request.Context(), event); err != nil {
		logger.Get().Errorw("failed to publish transaction event",
			"error", err,
			"action", action,
			"transaction_id", transactionID,
		)
	}
}

// Create handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record a new income or expense for the authenticated user
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} TransactionResponse "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID,
		*req.Amount,
		req.Category,
		req.Description,
		date,
		req.Type,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": req.Type, "amount": *req.Amount, "category": req.Category})
	h.publishEvent(c, "created", transaction.ID, userID)

	c.JSON(http.StatusCreated, gin.H{"transaction": newTransactionResponse(transaction)})
}

// Get returns a single transaction owned by the caller
// @Summary     Get a transaction
// @Description Retrieve one transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} TransactionResponse "Transaction"
// @Failure     403 {object} ErrorResponse "Owned by another user"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": newTransactionResponse(transaction)})
}

// List returns the caller's transactions, newest date first
// @Summary     List transactions
// @Description Paginated list of the caller's transactions ordered by date descending
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number (default 1)"
// @Success     200 {object} pagination.PageResponse[TransactionResponse] "Transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	items := make([]TransactionResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, newTransactionResponse(&result.Items[i]))
	}

	c.JSON(http.StatusOK, pagination.PageResponse[TransactionResponse]{
		Items:       items,
		Total:       result.Total,
		Pages:       result.Pages,
		CurrentPage: result.CurrentPage,
	})
}

// Update applies a partial update to an owned transaction
// @Summary     Update a transaction
// @Description Apply a partial update; only provided fields change
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} TransactionResponse "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Owned by another user"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.TransactionUpdate{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Type:        req.Type,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
		update.Date = &date
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": transaction.Type, "amount": transaction.Amount, "category": transaction.Category})
	h.publishEvent(c, "updated", transaction.ID, userID)

	c.JSON(http.StatusOK, gin.H{"transaction": newTransactionResponse(transaction)})
}

// Delete removes an owned transaction
// @Summary     Delete a transaction
// @Description Remove one transaction by ID; irreversible
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} map[string]string "Confirmation"
// @Failure     403 {object} ErrorResponse "Owned by another user"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)
	h.publishEvent(c, "deleted", transactionID, userID)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}
