package models

import "time"

// Quote statuses
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusPending  = "pending"
	QuoteStatusAccepted = "accepted"
	QuoteStatusExpired  = "expired"
)

type Quote struct {
	ID                   uint        `gorm:"primaryKey" json:"id"`
	Number               string      `gorm:"size:40;not null;index" json:"number"`
	ClientID             uint        `gorm:"not null;index" json:"client_id"`
	Client               Client      `gorm:"foreignKey:ClientID" json:"-"`
	Date                 time.Time   `gorm:"not null" json:"date"`
	Status               string      `gorm:"not null;default:'pending'" json:"status"` // draft, pending, accepted, expired
	Items                []QuoteItem `gorm:"foreignKey:QuoteID" json:"items"`
	Total                float64     `gorm:"not null" json:"total"`
	ConvertedToInvoiceID uint        `json:"converted_to_invoice_id,omitempty"` // set once the quote becomes an invoice
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

type QuoteItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	QuoteID     uint    `gorm:"not null;index" json:"-"`
	Position    int     `gorm:"not null" json:"position"`
	Description string  `gorm:"not null" json:"description"`
	Quantity    float64 `gorm:"not null" json:"quantity"`
	Rate        float64 `gorm:"not null" json:"rate"`
}
