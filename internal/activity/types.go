// Package activity derives per-client timeline events from committed
// record mutations and filters the resulting timeline into views. The
// derivation runs strictly after the primary write succeeds and is
// best-effort: a lost entry never fails the mutation that triggered it.
package activity

import "time"

// Type enumerates timeline event kinds.
type Type string

const (
	TypeNote            Type = "note"
	TypeInvoiceCreated  Type = "invoice_created"
	TypeQuoteCreated    Type = "quote_created"
	TypeQuoteSent       Type = "quote_sent"
	TypeTaskAssigned    Type = "task_assigned"
	TypeTaskCompleted   Type = "task_completed"
	TypeEmailSent       Type = "email_sent"
	TypeStatusChange    Type = "status_change"
	TypePaymentReceived Type = "payment_received"
)

// Collection names the record kinds a timeline event may reference.
type Collection string

const (
	CollectionInvoices     Collection = "invoices"
	CollectionQuotes       Collection = "quotes"
	CollectionTasks        Collection = "tasks"
	CollectionTransactions Collection = "transactions"
)

// Entry is one timeline event. Related and RelatedID are both set or both
// empty. Meta carries contextual data keyed by type (invoiceNumber,
// oldStatus, amount, ...).
type Entry struct {
	ID        uint           `json:"id"`
	ClientID  uint           `json:"client_id"`
	Type      Type           `json:"type"`
	Body      string         `json:"body,omitempty"`
	Related   Collection     `json:"related_collection,omitempty"`
	RelatedID uint           `json:"related_id,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedBy string         `json:"created_by,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
