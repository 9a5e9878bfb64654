package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/models"
)

// SettingsService manages the single business-settings row.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the settings row, creating it with defaults on first use.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	var st models.Settings
	err := s.db.WithContext(ctx).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		st = models.Settings{InvoicePrefix: "INV-", Currency: "MUR"}
		if cerr := s.db.WithContext(ctx).Create(&st).Error; cerr != nil {
			return nil, fmt.Errorf("creating default settings: %w", cerr)
		}
		return &st, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Update overwrites the business settings with the provided values.
func (s *SettingsService) Update(ctx context.Context, in *models.Settings) (*models.Settings, error) {
	st, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	st.BusinessName = in.BusinessName
	st.BusinessAddress = in.BusinessAddress
	st.BusinessEmail = in.BusinessEmail
	st.BusinessPhone = in.BusinessPhone
	st.BusinessWebsite = in.BusinessWebsite
	st.LogoURL = in.LogoURL
	if in.InvoicePrefix != "" {
		st.InvoicePrefix = in.InvoicePrefix
	}
	st.TaxRateDefault = in.TaxRateDefault
	if in.Currency != "" {
		st.Currency = in.Currency
	}
	if err := s.db.WithContext(ctx).Save(st).Error; err != nil {
		return nil, fmt.Errorf("saving settings: %w", err)
	}
	return st, nil
}
