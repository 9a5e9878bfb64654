package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/activity"
	"github.com/ledgerline/ledgerline/internal/finance"
	"github.com/ledgerline/ledgerline/internal/models"
)

// ErrQuoteAlreadyConverted guards double conversion of a quote.
var ErrQuoteAlreadyConverted = errors.New("quote already converted to an invoice")

// QuoteService mirrors InvoiceService for quotes and owns the
// quote→invoice conversion.
type QuoteService struct {
	db       *gorm.DB
	rec      *activity.Recorder
	invoices *InvoiceService
	log      *zap.Logger
}

func NewQuoteService(db *gorm.DB, rec *activity.Recorder, invoices *InvoiceService, log *zap.Logger) *QuoteService {
	return &QuoteService{db: db, rec: rec, invoices: invoices, log: log}
}

func quoteSnapshot(q *models.Quote) activity.QuoteSnapshot {
	return activity.QuoteSnapshot{
		ID:       q.ID,
		ClientID: q.ClientID,
		Number:   q.Number,
		Status:   q.Status,
		Total:    q.Total,
	}
}

// ApplyQuoteTotal derives the quote total from its items. Quotes carry no
// tax/discount/shipping modifiers, so the total equals the subtotal.
func ApplyQuoteTotal(q *models.Quote) {
	items := make([]finance.Item, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, finance.Item{Quantity: it.Quantity, Rate: it.Rate})
	}
	q.Total = finance.Compute(items, finance.Modifiers{}).Total
}

// Create persists a new quote and records quote_created after commit.
func (s *QuoteService) Create(ctx context.Context, q *models.Quote) error {
	var client models.Client
	if err := s.db.WithContext(ctx).First(&client, q.ClientID).Error; err != nil {
		return err
	}
	if q.Status == "" {
		q.Status = models.QuoteStatusPending
	}
	for i := range q.Items {
		q.Items[i].Position = i
	}
	ApplyQuoteTotal(q)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if q.Number == "" {
			num, err := nextDocumentNumber(tx, &models.Quote{}, quotePrefix)
			if err != nil {
				return err
			}
			q.Number = num
		}
		return tx.Create(q).Error
	})
	if err != nil {
		return fmt.Errorf("creating quote: %w", err)
	}

	var hooks activity.Hooks
	hooks.Add(s.rec.Hook(activity.QuoteChange{
		Op:    activity.OpCreate,
		After: quoteSnapshot(q),
	}))
	hooks.Run(ctx)
	return nil
}

// Update replaces the quote's fields and items; a status change records a
// status_change activity after commit.
func (s *QuoteService) Update(ctx context.Context, id uint, in *models.Quote) (*models.Quote, error) {
	var before models.Quote
	if err := s.db.WithContext(ctx).First(&before, id).Error; err != nil {
		return nil, err
	}

	updated := before
	if in.ClientID != 0 {
		updated.ClientID = in.ClientID
	}
	if !in.Date.IsZero() {
		updated.Date = in.Date
	}
	if in.Status != "" {
		updated.Status = in.Status
	}
	updated.Items = in.Items
	for i := range updated.Items {
		updated.Items[i].ID = 0
		updated.Items[i].QuoteID = id
		updated.Items[i].Position = i
	}
	ApplyQuoteTotal(&updated)

	items := updated.Items
	updated.Items = nil
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&models.QuoteItem{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return tx.Save(&updated).Error
	})
	if err != nil {
		return nil, fmt.Errorf("updating quote: %w", err)
	}
	updated.Items = items

	var hooks activity.Hooks
	hooks.Add(s.rec.Hook(activity.QuoteChange{
		Op:     activity.OpUpdate,
		Before: ptr(quoteSnapshot(&before)),
		After:  quoteSnapshot(&updated),
	}))
	hooks.Run(ctx)
	return &updated, nil
}

func (s *QuoteService) Get(ctx context.Context, id uint) (*models.Quote, error) {
	var q models.Quote
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *QuoteService) List(ctx context.Context, clientID uint, status string) ([]models.Quote, error) {
	q := s.db.WithContext(ctx).Model(&models.Quote{})
	if clientID != 0 {
		q = q.Where("client_id = ?", clientID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var quotes []models.Quote
	err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("id desc").Find(&quotes).Error
	return quotes, err
}

func (s *QuoteService) Delete(ctx context.Context, id uint) error {
	var q models.Quote
	if err := s.db.WithContext(ctx).First(&q, id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&models.QuoteItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Quote{}, id).Error
	})
}

// Convert turns an accepted quote into a draft invoice with the same
// items. The new invoice flows through InvoiceService.Create, so it gets
// a number and an invoice_created activity like any other invoice.
func (s *QuoteService) Convert(ctx context.Context, id uint) (*models.Invoice, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.ConvertedToInvoiceID != 0 {
		return nil, ErrQuoteAlreadyConverted
	}

	now := time.Now()
	inv := &models.Invoice{
		ClientID: q.ClientID,
		Date:     now,
		DueDate:  now.AddDate(0, 0, 14),
		Status:   models.InvoiceStatusDraft,
		Notes:    fmt.Sprintf("Created from quote %s", q.Number),
	}
	for _, it := range q.Items {
		inv.Items = append(inv.Items, models.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
		})
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Quote{}).
		Where("id = ?", id).Update("converted_to_invoice_id", inv.ID).Error; err != nil {
		// the invoice exists either way; only the back-reference is lost
		s.log.Warn("failed to record quote conversion",
			zap.Uint("quote_id", id), zap.Uint("invoice_id", inv.ID), zap.Error(err))
	}
	return inv, nil
}
