package models

import "time"

// Invoice statuses
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice stores its computed subtotal/tax/total; they are recomputed from
// the items and modifiers on every edit, never mutated independently.
type Invoice struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Number    string        `gorm:"size:40;not null;uniqueIndex" json:"number"`
	ClientID  uint          `gorm:"not null;index" json:"client_id"`
	Client    Client        `gorm:"foreignKey:ClientID" json:"-"`
	Date      time.Time     `gorm:"not null" json:"date"`
	DueDate   time.Time     `gorm:"not null" json:"due_date"`
	Status    string        `gorm:"not null;default:'draft'" json:"status"` // draft, sent, paid, overdue, cancelled
	Items     []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
	TaxRate   float64       `json:"tax_rate"`  // percent
	Discount  float64       `json:"discount"`  // flat amount
	Shipping  float64       `json:"shipping"`  // flat amount
	CarNumber string        `json:"car_number"` // vehicle / job reference
	Notes     string        `json:"notes"`
	Subtotal  float64       `gorm:"not null" json:"subtotal"`
	Tax       float64       `gorm:"not null" json:"tax"`
	Total     float64       `gorm:"not null" json:"total"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// InvoiceItem is one billable line. Items have no identity beyond their
// position in the parent invoice.
type InvoiceItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	InvoiceID   uint    `gorm:"not null;index" json:"-"`
	Position    int     `gorm:"not null" json:"position"`
	Description string  `gorm:"not null" json:"description"`
	Quantity    float64 `gorm:"not null" json:"quantity"`
	Rate        float64 `gorm:"not null" json:"rate"`
}
