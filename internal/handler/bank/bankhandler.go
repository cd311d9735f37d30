package bankhandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/TheRmarkable/Common-Component-Backend/internal/domain"
	"github.com/TheRmarkable/Common-Component-Backend/internal/handler/middleware"
	"github.com/TheRmarkable/Common-Component-Backend/internal/service"
	"github.com/TheRmarkable/Common-Component-Backend/pkg/dto"
	"github.com/TheRmarkable/Common-Component-Backend/pkg/logger"
)

type BankService interface {
	AddUserBank(principal domain.Principal, userID string, input service.BankInput) (*domain.BankAccount, error)
	UserBanks(principal domain.Principal, userID string) ([]domain.BankAccount, error)
	UpdateUserBank(principal domain.Principal, userID, bankID string, input service.BankInput) (*domain.BankAccount, error)
	DeleteUserBank(principal domain.Principal, userID, bankID string) error
	AddCorporateBank(principal domain.Principal, input service.BankInput) (*domain.BankAccount, error)
	UpdateCorporateBank(principal domain.Principal, bankID string, input service.BankInput) (*domain.BankAccount, error)
	DeleteCorporateBank(principal domain.Principal, bankID string) error
	CorporateBanks(principal domain.Principal) ([]domain.BankAccount, error)
}

type BankHandler struct {
	srv BankService
}

func New(srv BankService) *BankHandler {
	return &BankHandler{srv: srv}
}

func (h *BankHandler) UserBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.srv.UserBanks(middleware.PrincipalFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toBankDTOs(banks))
}

func (h *BankHandler) AddUserBank(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBank(w, r, true)
	if !ok {
		return
	}

	bank, err := h.srv.AddUserBank(middleware.PrincipalFrom(r), chi.URLParam(r, "id"), input)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toBankDTO(bank))
}

func (h *BankHandler) UpdateUserBank(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBank(w, r, false)
	if !ok {
		return
	}

	bank, err := h.srv.UpdateUserBank(middleware.PrincipalFrom(r), chi.URLParam(r, "id"), chi.URLParam(r, "bankID"), input)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toBankDTO(bank))
}

func (h *BankHandler) DeleteUserBank(w http.ResponseWriter, r *http.Request) {
	err := h.srv.DeleteUserBank(middleware.PrincipalFrom(r), chi.URLParam(r, "id"), chi.URLParam(r, "bankID"))
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *BankHandler) CorporateBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.srv.CorporateBanks(middleware.PrincipalFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toBankDTOs(banks))
}

func (h *BankHandler) AddCorporateBank(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBank(w, r, true)
	if !ok {
		return
	}

	bank, err := h.srv.AddCorporateBank(middleware.PrincipalFrom(r), input)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toBankDTO(bank))
}

func (h *BankHandler) UpdateCorporateBank(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBank(w, r, false)
	if !ok {
		return
	}

	bank, err := h.srv.UpdateCorporateBank(middleware.PrincipalFrom(r), chi.URLParam(r, "bankID"), input)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, toBankDTO(bank))
}

func (h *BankHandler) DeleteCorporateBank(w http.ResponseWriter, r *http.Request) {
	err := h.srv.DeleteCorporateBank(middleware.PrincipalFrom(r), chi.URLParam(r, "bankID"))
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// decodeBank parses the request body; validation of required fields only
// applies on creation, since updates may be partial.
func decodeBank(w http.ResponseWriter, r *http.Request, validate bool) (service.BankInput, bool) {
	var bank dto.Bank

	if err := json.NewDecoder(r.Body).Decode(&bank); err != nil {
		logger.Log.Warn("error while decoding a bank request")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return service.BankInput{}, false
	}
	defer closeBody(r.Body)

	if validate {
		if err := bank.IsValid(); err != nil {
			logger.Log.Warn("invalid bank fields", logger.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return service.BankInput{}, false
		}
	}

	return service.BankInput{
		BankName:      bank.BankName,
		AccountNumber: bank.AccountNumber,
		BranchCode:    bank.BranchCode,
	}, true
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBankAccountNotFound), errors.Is(err, domain.ErrUserNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidAccountNumber):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrPermissionDenied):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		logger.Log.Error("error while processing bank operation", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func toBankDTO(bank *domain.BankAccount) dto.BankAccount {
	return dto.BankAccount{
		ID:            bank.ID,
		Type:          string(bank.Type),
		BankName:      bank.BankName,
		AccountNumber: bank.AccountNumber,
		BranchCode:    bank.BranchCode,
		CreatedBy:     bank.CreatedBy,
		CreatedAt:     bank.CreatedAt.Format(time.RFC3339),
	}
}

func toBankDTOs(banks []domain.BankAccount) []dto.BankAccount {
	dtos := make([]dto.BankAccount, 0, len(banks))
	for i := range banks {
		dtos = append(dtos, toBankDTO(&banks[i]))
	}

	return dtos
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
