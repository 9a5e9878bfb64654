package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ledgerline/ledgerline/internal/httpx"
	"github.com/ledgerline/ledgerline/internal/models"
	"github.com/ledgerline/ledgerline/internal/services"
	"github.com/ledgerline/ledgerline/internal/validation"
)

var quoteStatuses = []string{
	models.QuoteStatusDraft, models.QuoteStatusPending,
	models.QuoteStatusAccepted, models.QuoteStatusExpired,
}

type QuoteHandler struct {
	quotes *services.QuoteService
}

func NewQuoteHandler(quotes *services.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

type quoteInput struct {
	ClientID uint               `json:"client_id"`
	Date     string             `json:"date"`
	Status   string             `json:"status"`
	Items    []invoiceItemInput `json:"items"`
}

func (in quoteInput) validate(requireClient bool) validation.Violations {
	v := validation.Violations{}
	if requireClient && in.ClientID == 0 {
		v["client_id"] = "required"
	}
	if in.Status != "" {
		validation.OneOf("status", in.Status, quoteStatuses, v)
	}
	for _, it := range in.Items {
		validation.Required("items.description", it.Description, v)
		validation.PositiveFloat("items.quantity", it.Quantity, v)
		validation.NonNegativeFloat("items.rate", it.Rate, v)
	}
	return v
}

func (in quoteInput) toModel() (models.Quote, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return models.Quote{}, err
	}
	q := models.Quote{
		ClientID: in.ClientID,
		Date:     date,
		Status:   in.Status,
	}
	for _, it := range in.Items {
		q.Items = append(q.Items, models.QuoteItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
		})
	}
	return q, nil
}

func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quotes.List(r.Context(), queryUint(r, "client_id"), r.URL.Query().Get("status"))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_quotes", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": quotes, "total": len(quotes)})
}

func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in quoteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.validate(true); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	q, err := in.toModel()
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date", nil)
		return
	}
	if q.Date.IsZero() {
		q.Date = time.Now()
	}
	if err := h.quotes.Create(r.Context(), &q); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	q, err := h.quotes.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in quoteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.validate(false); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	q, err := in.toModel()
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date", nil)
		return
	}
	updated, err := h.quotes.Update(r.Context(), id, &q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.quotes.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// Convert turns the quote into a draft invoice carrying the same items.
func (h *QuoteHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	inv, err := h.quotes.Convert(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrQuoteAlreadyConverted) {
			httpx.JSONError(w, http.StatusConflict, "already_converted", nil)
			return
		}
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}
