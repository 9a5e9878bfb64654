package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ledgerline/ledgerline/internal/httpx"
	"github.com/ledgerline/ledgerline/internal/models"
	"github.com/ledgerline/ledgerline/internal/services"
	"github.com/ledgerline/ledgerline/internal/validation"
)

var paymentMethods = []string{
	models.MethodStripe, models.MethodPayPal, models.MethodBankTransfer, models.MethodCash,
}

type TransactionHandler struct {
	transactions *services.TransactionService
}

func NewTransactionHandler(transactions *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txs, err := h.transactions.List(r.Context(), queryUint(r, "client_id"))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_transactions", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": txs, "total": len(txs)})
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ClientID  uint    `json:"client_id"`
		Date      string  `json:"date"`
		Amount    float64 `json:"amount"`
		Reference string  `json:"reference"`
		Method    string  `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	if in.ClientID == 0 {
		v["client_id"] = "required"
	}
	validation.PositiveFloat("amount", in.Amount, v)
	if in.Method != "" {
		validation.OneOf("method", in.Method, paymentMethods, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	date, err := parseDate(in.Date)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date", nil)
		return
	}
	tx := models.Transaction{
		ClientID:  in.ClientID,
		Date:      date,
		Amount:    in.Amount,
		Reference: in.Reference,
		Method:    in.Method,
	}
	if err := h.transactions.Create(r.Context(), &tx); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tx)
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.transactions.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
