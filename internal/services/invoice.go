package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/activity"
	"github.com/ledgerline/ledgerline/internal/finance"
	"github.com/ledgerline/ledgerline/internal/models"
)

// InvoiceService encapsulates invoice business logic: totals derivation,
// number assignment, and the activity side effects of each mutation.
type InvoiceService struct {
	db       *gorm.DB
	rec      *activity.Recorder
	settings *SettingsService
	mailer   Mailer
	log      *zap.Logger
}

func NewInvoiceService(db *gorm.DB, rec *activity.Recorder, settings *SettingsService, mailer Mailer, log *zap.Logger) *InvoiceService {
	return &InvoiceService{db: db, rec: rec, settings: settings, mailer: mailer, log: log}
}

// InvoiceListOptions narrows and pages List results.
type InvoiceListOptions struct {
	ClientID uint
	Status   string
	Limit    int
	Offset   int
}

// ApplyTotals recomputes the stored subtotal/tax/total from the invoice's
// items and modifiers. Called on every create and update.
func ApplyTotals(inv *models.Invoice) {
	items := make([]finance.Item, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, finance.Item{Quantity: it.Quantity, Rate: it.Rate})
	}
	t := finance.Compute(items, finance.Modifiers{
		TaxRatePercent: inv.TaxRate,
		Discount:       inv.Discount,
		Shipping:       inv.Shipping,
	})
	inv.Subtotal = t.Subtotal
	inv.Tax = t.Tax
	inv.Total = t.Total
}

func invoiceSnapshot(inv *models.Invoice) activity.InvoiceSnapshot {
	return activity.InvoiceSnapshot{
		ID:       inv.ID,
		ClientID: inv.ClientID,
		Number:   inv.Number,
		Status:   inv.Status,
		Total:    inv.Total,
	}
}

// Create persists a new invoice. The number is assigned from the settings
// prefix when blank, and the invoice_created activity is recorded after
// commit, best-effort.
func (s *InvoiceService) Create(ctx context.Context, inv *models.Invoice) error {
	var client models.Client
	if err := s.db.WithContext(ctx).First(&client, inv.ClientID).Error; err != nil {
		return err
	}
	if inv.Status == "" {
		inv.Status = models.InvoiceStatusDraft
	}
	for i := range inv.Items {
		inv.Items[i].Position = i
	}
	ApplyTotals(inv)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if inv.Number == "" {
			st, err := s.settings.Get(ctx)
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			num, err := nextDocumentNumber(tx, &models.Invoice{}, st.InvoicePrefix)
			if err != nil {
				return err
			}
			inv.Number = num
		}
		return tx.Create(inv).Error
	})
	if err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	var hooks activity.Hooks
	hooks.Add(s.rec.Hook(activity.InvoiceChange{
		Op:    activity.OpCreate,
		After: invoiceSnapshot(inv),
	}))
	hooks.Run(ctx)
	return nil
}

// Update replaces the invoice's fields and items and recomputes totals.
// A status change observed between the before/after snapshots records a
// status_change activity after commit.
func (s *InvoiceService) Update(ctx context.Context, id uint, in *models.Invoice) (*models.Invoice, error) {
	var before models.Invoice
	if err := s.db.WithContext(ctx).First(&before, id).Error; err != nil {
		return nil, err
	}

	updated := before
	updated.ClientID = in.ClientID
	if in.ClientID == 0 {
		updated.ClientID = before.ClientID
	}
	if !in.Date.IsZero() {
		updated.Date = in.Date
	}
	if !in.DueDate.IsZero() {
		updated.DueDate = in.DueDate
	}
	if in.Status != "" {
		updated.Status = in.Status
	}
	updated.TaxRate = in.TaxRate
	updated.Discount = in.Discount
	updated.Shipping = in.Shipping
	updated.CarNumber = in.CarNumber
	updated.Notes = in.Notes
	updated.Items = in.Items
	for i := range updated.Items {
		updated.Items[i].ID = 0
		updated.Items[i].InvoiceID = id
		updated.Items[i].Position = i
	}
	ApplyTotals(&updated)

	items := updated.Items
	updated.Items = nil
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
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
		return nil, fmt.Errorf("updating invoice: %w", err)
	}
	updated.Items = items

	var hooks activity.Hooks
	hooks.Add(s.rec.Hook(activity.InvoiceChange{
		Op:     activity.OpUpdate,
		Before: ptr(invoiceSnapshot(&before)),
		After:  invoiceSnapshot(&updated),
	}))
	hooks.Run(ctx)
	return &updated, nil
}

// Get loads one invoice with its items.
func (s *InvoiceService) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&inv, id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// List returns invoices newest-first with the total row count.
func (s *InvoiceService) List(ctx context.Context, opts InvoiceListOptions) ([]models.Invoice, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Invoice{})
	if opts.ClientID != 0 {
		q = q.Where("client_id = ?", opts.ClientID)
	}
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if opts.Limit <= 0 || opts.Limit > 200 {
		opts.Limit = 50
	}
	var invs []models.Invoice
	err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("id desc").Limit(opts.Limit).Offset(opts.Offset).Find(&invs).Error
	if err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

// Delete removes the invoice and its items. The timeline keeps any
// entries that referenced it; the activity log is append-only.
func (s *InvoiceService) Delete(ctx context.Context, id uint) error {
	var inv models.Invoice
	if err := s.db.WithContext(ctx).First(&inv, id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Invoice{}, id).Error
	})
}

// Send emails the invoice. On success the status moves to "sent"
// (best-effort) and both the status_change and email_sent activities are
// recorded after the fact. A mailer failure aborts before any write.
func (s *InvoiceService) Send(ctx context.Context, id uint, to, subject, body string) error {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if subject == "" {
		subject = fmt.Sprintf("Invoice %s", inv.Number)
	}
	if body == "" {
		body = fmt.Sprintf("Please find your invoice %s attached or linked. Thank you.", inv.Number)
	}
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		return fmt.Errorf("sending invoice email: %w", err)
	}

	var hooks activity.Hooks
	if inv.Status != models.InvoiceStatusSent {
		before := invoiceSnapshot(inv)
		if err := s.db.WithContext(ctx).Model(&models.Invoice{}).
			Where("id = ?", id).Update("status", models.InvoiceStatusSent).Error; err != nil {
			// email already went out; the status update is best-effort
			s.log.Warn("invoice status update failed after send",
				zap.Uint("invoice_id", id), zap.Error(err))
		} else {
			after := before
			after.Status = models.InvoiceStatusSent
			hooks.Add(s.rec.Hook(activity.InvoiceChange{
				Op:     activity.OpUpdate,
				Before: &before,
				After:  after,
			}))
		}
	}
	hooks.Add(s.rec.Hook(activity.InvoiceEmailed{
		InvoiceID: inv.ID,
		ClientID:  inv.ClientID,
		Number:    inv.Number,
		To:        to,
		Subject:   subject,
	}))
	hooks.Run(ctx)
	return nil
}

func ptr[T any](v T) *T { return &v }
