package handlers

import (
	"net/http"

	"banktech/internal/money"
	"banktech/internal/services"
	"banktech/internal/validator"
)

type movementRequest struct {
	AccountNumber string `json:"account_number" validate:"required,account_number"`
	Amount        string `json:"amount" validate:"required"`
	Description   string `json:"description" validate:"max=200"`
}

type transferRequest struct {
	SourceAccount      string `json:"source_account" validate:"required,account_number"`
	DestinationAccount string `json:"destination_account" validate:"required,account_number"`
	Amount             string `json:"amount" validate:"required"`
	Description        string `json:"description" validate:"max=200"`
}

type balanceResponse struct {
	AccountNumber  string `json:"account_number"`
	Balance        string `json:"balance"`
	BalanceDisplay string `json:"balance_display"`
	Currency       string `json:"currency"`
}

func (h *Handler) balance(number string, minor int64) balanceResponse {
	return balanceResponse{
		AccountNumber:  number,
		Balance:        money.FormatMinor(minor),
		BalanceDisplay: money.FormatDisplay(h.cfg.Currency, minor),
		Currency:       h.cfg.Currency,
	}
}

// decodeMovement parses and validates a deposit or withdrawal body. Sign
// checks are left to the service so every entry point reports them alike.
func decodeMovement(w http.ResponseWriter, r *http.Request) (movementRequest, int64, bool) {
	var req movementRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return req, 0, false
	}
	if err := validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return req, 0, false
	}
	amount, err := money.ParseMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return req, 0, false
	}
	return req, amount, true
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	req, amount, ok := decodeMovement(w, r)
	if !ok {
		return
	}
	balance, err := h.service.Deposit(r.Context(), services.DepositRequest{
		AccountNumber: req.AccountNumber,
		Amount:        amount,
		Description:   req.Description,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.balance(req.AccountNumber, balance))
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	req, amount, ok := decodeMovement(w, r)
	if !ok {
		return
	}
	balance, err := h.service.Withdraw(r.Context(), services.WithdrawRequest{
		AccountNumber: req.AccountNumber,
		Amount:        amount,
		Description:   req.Description,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.balance(req.AccountNumber, balance))
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := money.ParseMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	result, err := h.service.Transfer(r.Context(), services.TransferRequest{
		SourceAccount:      req.SourceAccount,
		DestinationAccount: req.DestinationAccount,
		Amount:             amount,
		Description:        req.Description,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"entry_id":    result.EntryID,
		"source":      h.balance(req.SourceAccount, result.SourceBalance),
		"destination": h.balance(req.DestinationAccount, result.DestinationBalance),
	})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), services.DefaultLimit)
	entries, err := h.service.Ledger(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, toEntryResponse(entry))
	}
	respondJSON(w, http.StatusOK, response)
}
