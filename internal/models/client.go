package models

import "time"

// Client is the CRM contact; invoices, quotes, tasks, transactions and
// activity entries all reference one client by ID.
type Client struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null;index" json:"name"`
	Company   string `gorm:"index" json:"company"`
	Email     string `gorm:"index" json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Tags      string `json:"tags"` // comma-separated labels for filtering
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
