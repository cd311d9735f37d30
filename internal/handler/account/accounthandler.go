package accounthandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/TheRmarkable/Common-Component-Backend/internal/domain"
	"github.com/TheRmarkable/Common-Component-Backend/internal/handler/middleware"
	"github.com/TheRmarkable/Common-Component-Backend/pkg/dto"
	"github.com/TheRmarkable/Common-Component-Backend/pkg/logger"
)

type LedgerService interface {
	Account(ctx context.Context, accountID string) (*domain.Account, error)
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal, currency string) (*domain.Account, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, currency string) (*domain.Account, error)
	Transfer(ctx context.Context, accountID string, amount decimal.Decimal, currency string) (*domain.Account, error)
}

type WithdrawalService interface {
	Request(ctx context.Context, accountID string, amount decimal.Decimal, currency, requestingUserID string) (*domain.Account, error)
	ApproveOrReject(ctx context.Context, accountID, transactionID string, approve bool, principal domain.Principal) (*domain.Account, error)
	Cancel(ctx context.Context, accountID, transactionID string, principal domain.Principal) (*domain.Account, error)
}

type AccountHandler struct {
	ledger      LedgerService
	withdrawals WithdrawalService
}

func New(ledger LedgerService, withdrawals WithdrawalService) *AccountHandler {
	return &AccountHandler{
		ledger:      ledger,
		withdrawals: withdrawals,
	}
}

func (h *AccountHandler) Account(w http.ResponseWriter, r *http.Request) {
	account, err := h.ledger.Account(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toAccountDTO(account))
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, h.ledger.Deposit)
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, h.ledger.Withdraw)
}

func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	h.mutation(w, r, h.ledger.Transfer)
}

func (h *AccountHandler) mutation(w http.ResponseWriter, r *http.Request, apply func(context.Context, string, decimal.Decimal, string) (*domain.Account, error)) {
	var m dto.Mutation

	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		logger.Log.Warn("error while decoding a ledger mutation request")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}
	defer closeBody(r.Body)

	if err := m.IsValid(); err != nil {
		logger.Log.Warn("invalid ledger mutation fields", logger.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account, err := apply(r.Context(), chi.URLParam(r, "id"), m.Amount, m.Currency)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toAccountDTO(account))
}

func (h *AccountHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var m dto.Mutation

	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		logger.Log.Warn("error while decoding a withdrawal request")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}
	defer closeBody(r.Body)

	if err := m.IsValid(); err != nil {
		logger.Log.Warn("invalid withdrawal request fields", logger.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	principal := middleware.PrincipalFrom(r)

	account, err := h.withdrawals.Request(r.Context(), chi.URLParam(r, "id"), m.Amount, m.Currency, principal.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toAccountDTO(account))
}

func (h *AccountHandler) ApproveRejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	var ar dto.ApproveReject

	if err := json.NewDecoder(r.Body).Decode(&ar); err != nil {
		logger.Log.Warn("error while decoding an approve-reject request")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return
	}
	defer closeBody(r.Body)

	principal := middleware.PrincipalFrom(r)

	account, err := h.withdrawals.ApproveOrReject(
		r.Context(),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "txID"),
		ar.Approve,
		principal,
	)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toAccountDTO(account))
}

func (h *AccountHandler) CancelWithdrawal(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r)

	account, err := h.withdrawals.Cancel(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "txID"), principal)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toAccountDTO(account))
}

// respondError maps domain errors to HTTP statuses without losing the error
// kind: the message of the matched sentinel is what the client sees.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrUserNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrMissingCurrency):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrInsufficientFunds):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	case errors.Is(err, domain.ErrInvalidTransactionState), errors.Is(err, domain.ErrVersionConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrPermissionDenied), errors.Is(err, domain.ErrUserNotVerified):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		logger.Log.Error("error while processing account operation", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func toAccountDTO(account *domain.Account) dto.Account {
	resp := dto.Account{
		ID:           account.ID,
		UserID:       account.UserID,
		Balances:     make([]dto.Balance, 0, len(account.Balances)),
		Transactions: make([]dto.Transaction, 0, len(account.Transactions)),
	}

	for _, b := range account.Balances {
		resp.Balances = append(resp.Balances, dto.Balance{Currency: b.Currency, Amount: b.Amount})
	}

	for _, tx := range account.Transactions {
		resp.Transactions = append(resp.Transactions, dto.Transaction{
			ID:        tx.ID,
			Kind:      string(tx.Kind),
			Amount:    tx.Amount,
			Currency:  tx.Currency,
			Timestamp: tx.Timestamp.Format(time.RFC3339),
			Status:    string(tx.Status),
		})
	}

	return resp
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("error while encoding response to JSON", logger.Error(err))
	}
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logger.Log.Error("error while closing request body", logger.Error(err))
	}
}
