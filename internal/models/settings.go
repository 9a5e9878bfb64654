package models

import "time"

// Settings is the single-row business configuration used to seed new
// records (invoice prefix, default tax rate, currency). It is loaded once
// per request and passed explicitly rather than read as ambient state.
type Settings struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	BusinessName    string  `json:"business_name"`
	BusinessAddress string  `json:"business_address"`
	BusinessEmail   string  `json:"business_email"`
	BusinessPhone   string  `json:"business_phone"`
	BusinessWebsite string  `json:"business_website"`
	LogoURL         string  `json:"logo_url"`
	InvoicePrefix   string  `gorm:"not null;default:'INV-'" json:"invoice_prefix"`
	TaxRateDefault  float64 `json:"tax_rate_default"` // percent
	Currency        string  `gorm:"not null;default:'MUR'" json:"currency"` // MUR, USD, EUR
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
