package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/models"
)

var searchSanitizer = regexp.MustCompile(`[^a-zA-Z0-9 @.\-_]`)

// ClientService manages contacts and the cascade that runs when one is
// removed.
type ClientService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewClientService(db *gorm.DB, log *zap.Logger) *ClientService {
	return &ClientService{db: db, log: log}
}

func (s *ClientService) Create(ctx context.Context, c *models.Client) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	return nil
}

// List returns clients, optionally matched against name/company/email.
func (s *ClientService) List(ctx context.Context, search string) ([]models.Client, error) {
	q := s.db.WithContext(ctx).Model(&models.Client{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(searchSanitizer.ReplaceAllString(search, "")) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(company) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}
	var clients []models.Client
	err := q.Order("name asc").Find(&clients).Error
	return clients, err
}

func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ClientService) Update(ctx context.Context, id uint, in *models.Client) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.Company = in.Company
	c.Email = in.Email
	c.Phone = in.Phone
	c.Address = in.Address
	c.Tags = in.Tags
	c.Twitter = in.Twitter
	c.LinkedIn = in.LinkedIn
	if err := s.db.WithContext(ctx).Save(&c).Error; err != nil {
		return nil, fmt.Errorf("updating client: %w", err)
	}
	return &c, nil
}

// Delete removes the client and everything that hangs off it in one
// transaction: activity entries, invoices, quotes and transactions are
// deleted (cascade, applied uniformly); tasks survive but lose their
// client link.
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	var c models.Client
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		invoiceIDs := tx.Model(&models.Invoice{}).Select("id").Where("client_id = ?", id)
		if err := tx.Where("invoice_id IN (?)", invoiceIDs).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.Invoice{}).Error; err != nil {
			return err
		}
		quoteIDs := tx.Model(&models.Quote{}).Select("id").Where("client_id = ?", id)
		if err := tx.Where("quote_id IN (?)", quoteIDs).Delete(&models.QuoteItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.Quote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Task{}).Where("client_id = ?", id).
			Update("client_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Client{}, id).Error
	})
}
