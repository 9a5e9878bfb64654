package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/activity"
	"github.com/ledgerline/ledgerline/internal/models"
	"github.com/ledgerline/ledgerline/internal/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Client{}, &models.Settings{},
		&models.Invoice{}, &models.InvoiceItem{},
		&models.Quote{}, &models.QuoteItem{},
		&models.Task{}, &models.Transaction{}, &models.Activity{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type handlerSet struct {
	db           *gorm.DB
	clients      *ClientHandler
	invoices     *InvoiceHandler
	quotes       *QuoteHandler
	tasks        *TaskHandler
	transactions *TransactionHandler
	activities   *ActivityHandler
	settings     *SettingsHandler
}

func newHandlers(t *testing.T) *handlerSet {
	t.Helper()
	db := setupTestDB(t)
	log := zap.NewNop()
	activities := services.NewActivityService(db, log)
	rec := activity.NewRecorder(activities, log)
	settings := services.NewSettingsService(db)
	invoices := services.NewInvoiceService(db, rec, settings, services.NewLogMailer(log), log)
	return &handlerSet{
		db:           db,
		clients:      NewClientHandler(services.NewClientService(db, log)),
		invoices:     NewInvoiceHandler(invoices),
		quotes:       NewQuoteHandler(services.NewQuoteService(db, rec, invoices, log)),
		tasks:        NewTaskHandler(services.NewTaskService(db, rec, log)),
		transactions: NewTransactionHandler(services.NewTransactionService(db, rec, log)),
		activities:   NewActivityHandler(activities),
		settings:     NewSettingsHandler(settings),
	}
}

func jsonReq(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func seedClientRow(t *testing.T, db *gorm.DB) models.Client {
	t.Helper()
	c := models.Client{Name: "Acme", Email: "acme@test"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return c
}

func TestClientCreateValidation(t *testing.T) {
	hs := newHandlers(t)

	w := httptest.NewRecorder()
	hs.clients.Create(w, jsonReq(http.MethodPost, "/clients", `{"company":"NoName Ltd"}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "validation_failed") {
		t.Fatalf("expected validation_failed, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	hs.clients.Create(w, jsonReq(http.MethodPost, "/clients", `{"name":"Acme","email":"a@test"}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created["id"] == nil || created["name"] != "Acme" {
		t.Fatalf("unexpected response: %#v", created)
	}
}

func TestClientGetNotFound(t *testing.T) {
	hs := newHandlers(t)
	req := httptest.NewRequest(http.MethodGet, "/clients/42", nil)
	req.SetPathValue("id", "42")
	w := httptest.NewRecorder()
	hs.clients.Get(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("expected not_found, got %s", w.Body.String())
	}
}

func TestInvoiceCreateJSON(t *testing.T) {
	hs := newHandlers(t)
	client := seedClientRow(t, hs.db)

	body := fmt.Sprintf(`{"client_id":%d,"tax_rate":15,"items":[{"description":"Service","quantity":2,"rate":100}]}`, client.ID)
	w := httptest.NewRecorder()
	hs.invoices.Create(w, jsonReq(http.MethodPost, "/invoices", body))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var inv models.Invoice
	if err := json.Unmarshal(w.Body.Bytes(), &inv); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if inv.Number != "INV-0001" || inv.Subtotal != 200 || inv.Tax != 30 || inv.Total != 230 {
		t.Fatalf("unexpected invoice: %#v", inv)
	}
	if inv.DueDate.Before(inv.Date) {
		t.Fatalf("default due date should follow the issue date")
	}
}

func TestInvoiceCreateRejectsBadInput(t *testing.T) {
	hs := newHandlers(t)

	w := httptest.NewRecorder()
	hs.invoices.Create(w, jsonReq(http.MethodPost, "/invoices", `{"items":[{"description":"","quantity":0,"rate":-1}]}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "validation_failed" || resp.Details["client_id"] != "required" {
		t.Fatalf("unexpected response: %#v", resp)
	}

	w = httptest.NewRecorder()
	hs.invoices.Create(w, jsonReq(http.MethodPost, "/invoices", `{"client_id":1,"date":"not-a-date"}`))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "invalid_date") {
		t.Fatalf("expected invalid_date, got %d %s", w.Code, w.Body.String())
	}
}

func TestInvoiceSendEndpoint(t *testing.T) {
	hs := newHandlers(t)
	client := seedClientRow(t, hs.db)
	inv := models.Invoice{Number: "INV-0001", ClientID: client.ID}
	if err := hs.db.Create(&inv).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	req := jsonReq(http.MethodPost, "/invoices/1/send", `{}`)
	req.SetPathValue("id", fmt.Sprint(inv.ID))
	w := httptest.NewRecorder()
	hs.invoices.Send(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing recipient should fail, got %d", w.Code)
	}

	req = jsonReq(http.MethodPost, "/invoices/1/send", `{"to":"acme@test"}`)
	req.SetPathValue("id", fmt.Sprint(inv.ID))
	w = httptest.NewRecorder()
	hs.invoices.Send(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var got models.Invoice
	if err := hs.db.First(&got, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != models.InvoiceStatusSent {
		t.Fatalf("expected sent got %q", got.Status)
	}
}

func TestQuoteConvertEndpoint(t *testing.T) {
	hs := newHandlers(t)
	client := seedClientRow(t, hs.db)

	body := fmt.Sprintf(`{"client_id":%d,"items":[{"description":"Audit","quantity":1,"rate":300}]}`, client.ID)
	w := httptest.NewRecorder()
	hs.quotes.Create(w, jsonReq(http.MethodPost, "/quotes", body))
	if w.Code != http.StatusCreated {
		t.Fatalf("create quote: %d %s", w.Code, w.Body.String())
	}
	var q models.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/quotes/1/convert", nil)
	req.SetPathValue("id", fmt.Sprint(q.ID))
	w = httptest.NewRecorder()
	hs.quotes.Convert(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("convert: %d %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/quotes/1/convert", nil)
	req.SetPathValue("id", fmt.Sprint(q.ID))
	w = httptest.NewRecorder()
	hs.quotes.Convert(w, req)
	if w.Code != http.StatusConflict || !strings.Contains(w.Body.String(), "already_converted") {
		t.Fatalf("expected 409 already_converted, got %d %s", w.Code, w.Body.String())
	}
}

func TestTaskCreateRejectsBadPriority(t *testing.T) {
	hs := newHandlers(t)
	w := httptest.NewRecorder()
	hs.tasks.Create(w, jsonReq(http.MethodPost, "/tasks", `{"title":"x","priority":"urgent"}`))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "priority") {
		t.Fatalf("expected priority violation, got %d %s", w.Code, w.Body.String())
	}
}

func TestTransactionCreateEndpoint(t *testing.T) {
	hs := newHandlers(t)
	client := seedClientRow(t, hs.db)

	w := httptest.NewRecorder()
	hs.transactions.Create(w, jsonReq(http.MethodPost, "/transactions", `{"amount":0}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}

	body := fmt.Sprintf(`{"client_id":%d,"amount":250.5,"method":"cash","reference":"INV-1001"}`, client.ID)
	w = httptest.NewRecorder()
	hs.transactions.Create(w, jsonReq(http.MethodPost, "/transactions", body))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d %s", w.Code, w.Body.String())
	}

	var count int64
	hs.db.Model(&models.Activity{}).Where("type = ?", "payment_received").Count(&count)
	if count != 1 {
		t.Fatalf("expected payment_received activity, got %d", count)
	}
}

func TestTimelineViewValidation(t *testing.T) {
	hs := newHandlers(t)
	client := seedClientRow(t, hs.db)

	req := httptest.NewRequest(http.MethodGet, "/clients/1/activity?view=bogus", nil)
	req.SetPathValue("id", fmt.Sprint(client.ID))
	w := httptest.NewRecorder()
	hs.activities.Timeline(w, req)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "invalid_view") {
		t.Fatalf("expected invalid_view, got %d %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/clients/1/activity", nil)
	req.SetPathValue("id", fmt.Sprint(client.ID))
	w = httptest.NewRecorder()
	hs.activities.Timeline(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
}

func TestAddNoteEndpoint(t *testing.T) {
	hs := newHandlers(t)
	client := seedClientRow(t, hs.db)

	req := jsonReq(http.MethodPost, "/clients/1/notes", `{"body":"called them","created_by":"sam"}`)
	req.SetPathValue("id", fmt.Sprint(client.ID))
	w := httptest.NewRecorder()
	hs.activities.AddNote(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d %s", w.Code, w.Body.String())
	}
	var entry map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry["type"] != "note" || entry["body"] != "called them" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	hs := newHandlers(t)

	w := httptest.NewRecorder()
	hs.settings.Get(w, httptest.NewRequest(http.MethodGet, "/settings", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "INV-") {
		t.Fatalf("expected defaults, got %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	hs.settings.Update(w, jsonReq(http.MethodPut, "/settings", `{"business_name":"Garage","tax_rate_default":15,"currency":"EUR"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	var s models.Settings
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.BusinessName != "Garage" || s.Currency != "EUR" || s.TaxRateDefault != 15 {
		t.Fatalf("unexpected settings: %#v", s)
	}
}
