package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/activity"
	"github.com/ledgerline/ledgerline/internal/models"
)

// TransactionService records payments. Transactions are immutable once
// written; only create, list and delete exist.
type TransactionService struct {
	db  *gorm.DB
	rec *activity.Recorder
	log *zap.Logger
}

func NewTransactionService(db *gorm.DB, rec *activity.Recorder, log *zap.Logger) *TransactionService {
	return &TransactionService{db: db, rec: rec, log: log}
}

// Create persists the payment and records payment_received after commit.
func (s *TransactionService) Create(ctx context.Context, t *models.Transaction) error {
	var client models.Client
	if err := s.db.WithContext(ctx).First(&client, t.ClientID).Error; err != nil {
		return err
	}
	if t.Method == "" {
		t.Method = models.MethodStripe
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	var hooks activity.Hooks
	hooks.Add(s.rec.Hook(activity.PaymentReceived{
		TransactionID: t.ID,
		ClientID:      t.ClientID,
		Amount:        t.Amount,
		Method:        t.Method,
		Reference:     t.Reference,
	}))
	hooks.Run(ctx)
	return nil
}

func (s *TransactionService) List(ctx context.Context, clientID uint) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Model(&models.Transaction{})
	if clientID != 0 {
		q = q.Where("client_id = ?", clientID)
	}
	var txs []models.Transaction
	err := q.Order("date desc, id desc").Find(&txs).Error
	return txs, err
}

func (s *TransactionService) Delete(ctx context.Context, id uint) error {
	var t models.Transaction
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Transaction{}, id).Error
}
