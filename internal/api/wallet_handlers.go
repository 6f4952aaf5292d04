package api

import (
	"context"
	"net/http"

	"github.com/fastprodman/golfwager/internal/domain"
)

// GetBalanceHandler handles GET /wallet
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	bal, err := h.wallet.GetBalance(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"userId":  userID,
		"balance": bal.String(),
	})
}

// DepositHandler handles POST /wallet/deposit
func (h *HandlerProvider) DepositHandler(w http.ResponseWriter, r *http.Request) {
	h.moveFunds(w, r, h.wallet.Deposit)
}

// WithdrawHandler handles POST /wallet/withdraw
func (h *HandlerProvider) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	h.moveFunds(w, r, h.wallet.Withdraw)
}

type fundsOp func(ctx context.Context, userID string, amount domain.Money) (domain.Transaction, error)

func (h *HandlerProvider) moveFunds(w http.ResponseWriter, r *http.Request, op fundsOp) {
	var req amountRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := domain.ParseMoney(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be > 0")
		return
	}

	txn, err := op(r.Context(), userIDFrom(r.Context()), amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(txn))
}

// ListTransactionsHandler handles GET /wallet/transactions
func (h *HandlerProvider) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txns, err := h.wallet.History(r.Context(), userIDFrom(r.Context()), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionResponse(t))
	}

	writeJSON(w, http.StatusOK, out)
}

// StatsHandler handles GET /wallet/stats
func (h *HandlerProvider) StatsHandler(w http.ResponseWriter, r *http.Request) {
	st, err := h.accounts.Stats(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatsResponse(st))
}
