package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/damon-houk/mini-backoffice/internal/domain/entity"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/logger"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// accountService is the subset of the account service the handler needs
type accountService interface {
	FindAccountByName(ctx context.Context, name string) (*entity.Account, error)
	GetAccount(ctx context.Context, id uint64) (*entity.Account, error)
	ListAccounts(ctx context.Context) ([]entity.Account, error)
	CreateAccount(ctx context.Context, name string, balance decimal.Decimal) (*entity.Account, error)
}

// AccountHandler handles HTTP requests for accounts
type AccountHandler struct {
	service accountService
	logger  logger.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(service accountService, log logger.Logger) *AccountHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &AccountHandler{
		service: service,
		logger:  log,
	}
}

// ListAccounts handles listing every account
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		sendServiceError(w, h.logger, "list accounts", err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponses(accounts))
}

// GetAccount handles retrieving an account by ID
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid account ID", err.Error(), http.StatusBadRequest, requestID)
		return
	}

	account, err := h.service.GetAccount(r.Context(), id)
	if err != nil {
		sendServiceError(w, h.logger, "get account", err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(*account))
}

// GetAccountByName handles retrieving an account by its name
func (h *AccountHandler) GetAccountByName(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	account, err := h.service.FindAccountByName(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		sendServiceError(w, h.logger, "get account by name", err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(*account))
}

// CreateAccount handles the creation of a new account
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req CreateAccountRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		sendBodyError(w, h.logger, err, requestID)
		return
	}

	balance := decimal.Zero
	if raw := strings.TrimSpace(string(req.Balance)); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			sendErrorResponse(w, h.logger, "Invalid balance",
				"Balance must be a decimal number", http.StatusBadRequest, requestID)
			return
		}
		balance = parsed
	}

	account, err := h.service.CreateAccount(r.Context(), req.Name, balance)
	if err != nil {
		sendServiceError(w, h.logger, "create account", err, requestID)
		return
	}

	writeJSON(w, http.StatusCreated, newAccountResponse(*account))
}

// RegisterRoutes registers the account handler routes
func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/account", h.ListAccounts).Methods(http.MethodGet)
	router.HandleFunc("/api/account/", h.ListAccounts).Methods(http.MethodGet)
	router.HandleFunc("/api/account/create", h.CreateAccount).Methods(http.MethodPost)
	router.HandleFunc("/api/account/name/{name}", h.GetAccountByName).Methods(http.MethodGet)
	router.HandleFunc("/api/account/{id}", h.GetAccount).Methods(http.MethodGet)

	h.logger.Info("Account routes registered", map[string]interface{}{
		"routes": []string{
			"GET /api/account",
			"GET /api/account/{id}",
			"GET /api/account/name/{name}",
			"POST /api/account/create",
		},
	})
}
