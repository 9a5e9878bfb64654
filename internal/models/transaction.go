package models

import "time"

// Payment methods
const (
	MethodStripe       = "stripe"
	MethodPayPal       = "paypal"
	MethodBankTransfer = "bank_transfer"
	MethodCash         = "cash"
)

// Transaction records a payment received from a client.
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"not null" json:"date"`
	Amount    float64   `gorm:"not null" json:"amount"`
	ClientID  uint      `gorm:"not null;index" json:"client_id"`
	Client    Client    `gorm:"foreignKey:ClientID" json:"-"`
	Reference string    `json:"reference"` // e.g. invoice number
	Method    string    `gorm:"not null;default:'stripe'" json:"method"` // stripe, paypal, bank_transfer, cash
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
