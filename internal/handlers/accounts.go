package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"banktech/internal/logging"
	"banktech/internal/models"
	"banktech/internal/money"
	"banktech/internal/reporting"
	"banktech/internal/services"
	"banktech/internal/validator"
)

type createAccountRequest struct {
	Number         string `json:"number" validate:"required,account_number"`
	HolderName     string `json:"holder_name" validate:"required,max=120"`
	Email          string `json:"email" validate:"omitempty,email"`
	TaxID          string `json:"tax_id" validate:"omitempty,tax_id"`
	InitialBalance string `json:"initial_balance"`
	AccountType    string `json:"account_type" validate:"omitempty,oneof=CHECKING SAVINGS PAYROLL"`
	Description    string `json:"description" validate:"max=200"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	initial := int64(0)
	if req.InitialBalance != "" {
		parsed, err := money.ParseMinor(req.InitialBalance)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_amount")
			return
		}
		initial = parsed
	}
	account, err := h.service.CreateAccount(r.Context(), services.CreateAccountRequest{
		Number:         req.Number,
		HolderName:     req.HolderName,
		Email:          req.Email,
		TaxID:          req.TaxID,
		InitialBalance: initial,
		AccountType:    models.AccountType(req.AccountType),
		Description:    req.Description,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.toAccountResponse(account))
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, h.toAccountResponse(account))
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.GetAccount(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.toAccountResponse(account))
}

type statementLineResponse struct {
	reporting.StatementLine
	Amount string `json:"amount"`
}

type statementResponse struct {
	Account      accountResponse         `json:"account"`
	Lines        []statementLineResponse `json:"lines"`
	TotalCredits string                  `json:"total_credits"`
	TotalDebits  string                  `json:"total_debits"`
}

func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), services.DefaultLimit)
	statement, err := h.reporter.Statement(r.Context(), chi.URLParam(r, "number"), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	response := statementResponse{
		Account:      h.toAccountResponse(statement.Account),
		Lines:        make([]statementLineResponse, 0, len(statement.Lines)),
		TotalCredits: money.FormatMinor(statement.TotalCredits),
		TotalDebits:  money.FormatMinor(statement.TotalDebits),
	}
	for _, line := range statement.Lines {
		response.Lines = append(response.Lines, statementLineResponse{
			StatementLine: line,
			Amount:        money.FormatMinor(line.Amount),
		})
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) StatementCSV(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	limit := parseInt(r.URL.Query().Get("limit"), services.MaxLimit)
	statement, err := h.reporter.Statement(r.Context(), number, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=statement-%s.csv", number))
	w.WriteHeader(http.StatusOK)
	if err := reporting.WriteStatementCSV(w, statement); err != nil {
		logging.FromContext(r.Context()).Warn("statement export interrupted", zap.Error(err))
	}
}
