package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/damon-houk/mini-backoffice/internal/domain/entity"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/logger"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// transactionReader is the read side of the transaction service
type transactionReader interface {
	List(ctx context.Context) ([]entity.Transaction, error)
	GetByID(ctx context.Context, id uint64) (*entity.Transaction, error)
	GetBySenderAccountID(ctx context.Context, accountID uint64) ([]entity.Transaction, error)
	GetByReceiverAccountID(ctx context.Context, accountID uint64) ([]entity.Transaction, error)
}

// transactionCreator validates a creation payload and stores the transaction
type transactionCreator interface {
	Create(ctx context.Context, payload map[string]string) (*entity.Transaction, error)
}

// TransactionHandler handles HTTP requests for transactions
type TransactionHandler struct {
	reader  transactionReader
	creator transactionCreator
	logger  logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(reader transactionReader, creator transactionCreator, log logger.Logger) *TransactionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionHandler{
		reader:  reader,
		creator: creator,
		logger:  log,
	}
}

// ListTransactions handles listing every transaction
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	txs, err := h.reader.List(r.Context())
	if err != nil {
		sendServiceError(w, h.logger, "list transactions", err, requestID)
		return
	}

	h.logger.Debug("Transactions listed", map[string]interface{}{
		"request_id": requestID,
		"count":      len(txs),
	})

	writeJSON(w, http.StatusOK, newTransactionResponses(txs))
}

// GetTransaction handles retrieving a transaction by ID
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid transaction ID", err.Error(), http.StatusBadRequest, requestID)
		return
	}

	tx, err := h.reader.GetByID(r.Context(), id)
	if err != nil {
		sendServiceError(w, h.logger, "get transaction", err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, newTransactionResponse(*tx))
}

// GetTransactionsBySender handles listing the transactions an account sent
func (h *TransactionHandler) GetTransactionsBySender(w http.ResponseWriter, r *http.Request) {
	h.listByAccount(w, r, "list transactions by sender", h.reader.GetBySenderAccountID)
}

// GetTransactionsByReceiver handles listing the transactions an account received
func (h *TransactionHandler) GetTransactionsByReceiver(w http.ResponseWriter, r *http.Request) {
	h.listByAccount(w, r, "list transactions by receiver", h.reader.GetByReceiverAccountID)
}

func (h *TransactionHandler) listByAccount(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	query func(ctx context.Context, accountID uint64) ([]entity.Transaction, error),
) {
	requestID := middleware.GetRequestID(r.Context())

	accountID, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid account ID", err.Error(), http.StatusBadRequest, requestID)
		return
	}

	txs, err := query(r.Context(), accountID)
	if err != nil {
		sendServiceError(w, h.logger, operation, err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, newTransactionResponses(txs))
}

// CreateTransaction handles the creation of a new transaction and returns it
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling create transaction request", map[string]interface{}{
		"request_id": requestID,
		"method":     r.Method,
		"path":       r.URL.Path,
	})

	payload, err := decodePayload(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(err, entity.ErrSchemaViolation) {
			sendServiceError(w, h.logger, "create transaction", err, requestID)
			return
		}

		sendBodyError(w, h.logger, err, requestID)
		return
	}

	tx, err := h.creator.Create(r.Context(), payload)
	if err != nil {
		sendServiceError(w, h.logger, "create transaction", err, requestID)
		return
	}

	writeJSON(w, http.StatusCreated, newTransactionResponse(*tx))
}

// RegisterRoutes registers the transaction handler routes
func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/transaction", h.ListTransactions).Methods(http.MethodGet)
	router.HandleFunc("/api/transaction/", h.ListTransactions).Methods(http.MethodGet)
	router.HandleFunc("/api/transaction/create", h.CreateTransaction).Methods(http.MethodPost)
	router.HandleFunc("/api/transaction/{id}", h.GetTransaction).Methods(http.MethodGet)
	router.HandleFunc("/api/transaction/account/sender/{id}", h.GetTransactionsBySender).Methods(http.MethodGet)
	router.HandleFunc("/api/transaction/account/receiver/{id}", h.GetTransactionsByReceiver).Methods(http.MethodGet)

	h.logger.Info("Transaction routes registered", map[string]interface{}{
		"routes": []string{
			"GET /api/transaction",
			"GET /api/transaction/{id}",
			"GET /api/transaction/account/sender/{id}",
			"GET /api/transaction/account/receiver/{id}",
			"POST /api/transaction/create",
		},
	})
}
