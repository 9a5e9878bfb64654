package models

import "time"

// Activity is one immutable timeline event attached to a client.
// Rows are append-only: created once, never updated by normal flow.
// RelatedCollection and RelatedID are both set or both empty.
type Activity struct {
	ID                uint   `gorm:"primaryKey"`
	ClientID          uint   `gorm:"not null;index"`
	Client            Client `gorm:"foreignKey:ClientID"`
	Type              string `gorm:"not null;default:'note';index"`
	Body              string
	RelatedCollection string // invoices, quotes, tasks, transactions
	RelatedID         uint
	Meta              string // JSON payload keyed by type (invoiceNumber, oldStatus, ...)
	CreatedBy         string // optional actor reference
	CreatedAt         time.Time
}
