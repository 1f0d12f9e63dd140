package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"banktech/internal/logging"
	"banktech/internal/models"
	"banktech/internal/money"
	"banktech/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the balance operation error taxonomy onto HTTP.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *services.AccountNotFoundError
	switch {
	case errors.As(err, &notFound):
		body := map[string]string{"error": "account_not_found", "account": notFound.Number}
		if notFound.Side != "" {
			body["side"] = notFound.Side
		}
		respondJSON(w, http.StatusNotFound, body)
	case errors.Is(err, services.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, services.ErrSameAccount):
		respondError(w, http.StatusBadRequest, "same_account")
	case errors.Is(err, services.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInsufficientFunds):
		respondError(w, http.StatusUnprocessableEntity, "insufficient_funds")
	case errors.Is(err, services.ErrBalanceOverflow):
		respondError(w, http.StatusUnprocessableEntity, "balance_overflow")
	case errors.Is(err, services.ErrDuplicateKey):
		respondError(w, http.StatusConflict, "duplicate_account")
	default:
		logging.FromContext(r.Context()).Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error")
	}
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

type accountResponse struct {
	Number         string             `json:"number"`
	HolderName     string             `json:"holder_name"`
	Email          *string            `json:"email,omitempty"`
	TaxID          *string            `json:"tax_id,omitempty"`
	AccountType    models.AccountType `json:"account_type"`
	Balance        string             `json:"balance"`
	BalanceDisplay string             `json:"balance_display"`
	Currency       string             `json:"currency"`
	CreatedAt      time.Time          `json:"created_at"`
}

func (h *Handler) toAccountResponse(account models.Account) accountResponse {
	return accountResponse{
		Number:         account.Number,
		HolderName:     account.HolderName,
		Email:          account.Email,
		TaxID:          account.TaxID,
		AccountType:    account.AccountType,
		Balance:        money.FormatMinor(account.Balance),
		BalanceDisplay: money.FormatDisplay(h.cfg.Currency, account.Balance),
		Currency:       h.cfg.Currency,
		CreatedAt:      account.CreatedAt,
	}
}

type entryResponse struct {
	ID                 int64            `json:"id"`
	SourceAccount      *string          `json:"source_account,omitempty"`
	DestinationAccount *string          `json:"destination_account,omitempty"`
	Kind               models.EntryKind `json:"kind"`
	Amount             string           `json:"amount"`
	Description        string           `json:"description"`
	Timestamp          time.Time        `json:"timestamp"`
}

func toEntryResponse(entry models.LedgerEntry) entryResponse {
	return entryResponse{
		ID:                 entry.ID,
		SourceAccount:      entry.SourceAccount,
		DestinationAccount: entry.DestinationAccount,
		Kind:               entry.Kind,
		Amount:             money.FormatMinor(entry.Amount),
		Description:        entry.Description,
		Timestamp:          entry.Timestamp,
	}
}
