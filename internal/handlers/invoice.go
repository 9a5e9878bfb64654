package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ledgerline/ledgerline/internal/httpx"
	"github.com/ledgerline/ledgerline/internal/models"
	"github.com/ledgerline/ledgerline/internal/services"
	"github.com/ledgerline/ledgerline/internal/validation"
)

var invoiceStatuses = []string{
	models.InvoiceStatusDraft, models.InvoiceStatusSent, models.InvoiceStatusPaid,
	models.InvoiceStatusOverdue, models.InvoiceStatusCancelled,
}

type InvoiceHandler struct {
	invoices *services.InvoiceService
}

func NewInvoiceHandler(invoices *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

type invoiceItemInput struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

type invoiceInput struct {
	ClientID  uint               `json:"client_id"`
	Date      string             `json:"date"`
	DueDate   string             `json:"due_date"`
	Status    string             `json:"status"`
	Items     []invoiceItemInput `json:"items"`
	TaxRate   float64            `json:"tax_rate"`
	Discount  float64            `json:"discount"`
	Shipping  float64            `json:"shipping"`
	CarNumber string             `json:"car_number"`
	Notes     string             `json:"notes"`
}

func (in invoiceInput) validate(requireClient bool) validation.Violations {
	v := validation.Violations{}
	if requireClient && in.ClientID == 0 {
		v["client_id"] = "required"
	}
	if in.Status != "" {
		validation.OneOf("status", in.Status, invoiceStatuses, v)
	}
	validation.NonNegativeFloat("tax_rate", in.TaxRate, v)
	validation.NonNegativeFloat("shipping", in.Shipping, v)
	for _, it := range in.Items {
		validation.Required("items.description", it.Description, v)
		validation.PositiveFloat("items.quantity", it.Quantity, v)
		validation.NonNegativeFloat("items.rate", it.Rate, v)
	}
	return v
}

func (in invoiceInput) toModel() (models.Invoice, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return models.Invoice{}, err
	}
	due, err := parseDate(in.DueDate)
	if err != nil {
		return models.Invoice{}, err
	}
	inv := models.Invoice{
		ClientID:  in.ClientID,
		Date:      date,
		DueDate:   due,
		Status:    in.Status,
		TaxRate:   in.TaxRate,
		Discount:  in.Discount,
		Shipping:  in.Shipping,
		CarNumber: in.CarNumber,
		Notes:     in.Notes,
	}
	for _, it := range in.Items {
		inv.Items = append(inv.Items, models.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
		})
	}
	return inv, nil
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := services.InvoiceListOptions{
		ClientID: queryUint(r, "client_id"),
		Status:   r.URL.Query().Get("status"),
		Limit:    queryInt(r, "limit"),
		Offset:   queryInt(r, "offset"),
	}
	invs, total, err := h.invoices.List(r.Context(), opts)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": invs, "total": total})
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in invoiceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.validate(true); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	inv, err := in.toModel()
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date", nil)
		return
	}
	if inv.Date.IsZero() {
		inv.Date = time.Now()
	}
	if inv.DueDate.IsZero() {
		inv.DueDate = inv.Date.AddDate(0, 0, 14)
	}
	if err := h.invoices.Create(r.Context(), &inv); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	inv, err := h.invoices.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in invoiceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := in.validate(false); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	inv, err := in.toModel()
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date", nil)
		return
	}
	updated, err := h.invoices.Update(r.Context(), id, &inv)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.invoices.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// Send emails an invoice to the given recipient and moves it to "sent".
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("to", in.To, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.invoices.Send(r.Context(), id, in.To, in.Subject, in.Body); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"sent": true})
}
