package handlers

import (
	"net/http"
	"strings"

	"banktech/internal/auth"
	"banktech/internal/money"
	"banktech/internal/validator"
	"banktech/internal/websocket"
)

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reporter.Summary(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"summary":               summary,
		"total_balance":         money.FormatMinor(summary.TotalBalance),
		"total_balance_display": money.FormatDisplay(summary.Currency, summary.TotalBalance),
	})
}

// WSBalances authenticates from the query string because browsers cannot set
// headers on websocket handshakes.
func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	if _, err := auth.ParseToken(h.cfg.JWTSecret, token); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	number := r.URL.Query().Get("account")
	if err := validator.ValidateAccountNumber(number); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.service.GetAccount(r.Context(), number); err != nil {
		respondServiceError(w, r, err)
		return
	}
	websocket.ServeWS(w, r, h.hub, number)
}

