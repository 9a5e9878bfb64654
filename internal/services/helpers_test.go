package services

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/activity"
	"github.com/ledgerline/ledgerline/internal/models"
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

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type testStack struct {
	db           *gorm.DB
	activities   *ActivityService
	settings     *SettingsService
	invoices     *InvoiceService
	quotes       *QuoteService
	tasks        *TaskService
	transactions *TransactionService
	clients      *ClientService
	mailer       *fakeMailer
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	db := setupTestDB(t)
	log := zap.NewNop()
	activities := NewActivityService(db, log)
	rec := activity.NewRecorder(activities, log)
	settings := NewSettingsService(db)
	mailer := &fakeMailer{}
	invoices := NewInvoiceService(db, rec, settings, mailer, log)
	return &testStack{
		db:           db,
		activities:   activities,
		settings:     settings,
		invoices:     invoices,
		quotes:       NewQuoteService(db, rec, invoices, log),
		tasks:        NewTaskService(db, rec, log),
		transactions: NewTransactionService(db, rec, log),
		clients:      NewClientService(db, log),
		mailer:       mailer,
	}
}

func seedClient(t *testing.T, db *gorm.DB, name string) models.Client {
	t.Helper()
	c := models.Client{Name: name, Company: name + " Ltd", Email: name + "@test"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return c
}

func clientActivities(t *testing.T, db *gorm.DB, clientID uint) []models.Activity {
	t.Helper()
	var rows []models.Activity
	if err := db.Where("client_id = ?", clientID).Order("id asc").Find(&rows).Error; err != nil {
		t.Fatalf("load activities: %v", err)
	}
	return rows
}
