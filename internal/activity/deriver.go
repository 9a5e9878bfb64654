package activity

import "fmt"

// Op is the mutation kind a change describes.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
)

// Change is a committed record mutation that may produce a timeline
// entry. The concrete types below form a closed set, one per record
// kind, so a missing case is a compile-time hole in Derive rather than a
// silent runtime miss.
type Change interface {
	derive() (Entry, bool)
}

// Derive applies the rule table to a change. The boolean is false when no
// rule matches (no client, unrelated field update, etc.); that is a
// normal outcome, not an error.
func Derive(c Change) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	return c.derive()
}

// InvoiceSnapshot captures the invoice fields the deriver inspects.
type InvoiceSnapshot struct {
	ID       uint
	ClientID uint
	Number   string
	Status   string
	Total    float64
}

// InvoiceChange covers invoice create/update. Before is nil on create.
type InvoiceChange struct {
	Op     Op
	Before *InvoiceSnapshot
	After  InvoiceSnapshot
}

func (c InvoiceChange) derive() (Entry, bool) {
	if c.After.ClientID == 0 {
		return Entry{}, false
	}
	switch c.Op {
	case OpCreate:
		return Entry{
			ClientID:  c.After.ClientID,
			Type:      TypeInvoiceCreated,
			Body:      fmt.Sprintf("Invoice %s created", c.After.Number),
			Related:   CollectionInvoices,
			RelatedID: c.After.ID,
			Meta: map[string]any{
				"invoiceNumber": c.After.Number,
				"total":         c.After.Total,
			},
		}, true
	case OpUpdate:
		if c.Before == nil || c.Before.Status == c.After.Status {
			return Entry{}, false
		}
		return Entry{
			ClientID:  c.After.ClientID,
			Type:      TypeStatusChange,
			Body:      fmt.Sprintf("Invoice %s: %s → %s", c.After.Number, c.Before.Status, c.After.Status),
			Related:   CollectionInvoices,
			RelatedID: c.After.ID,
			Meta: map[string]any{
				"entity":        "invoice",
				"oldStatus":     c.Before.Status,
				"newStatus":     c.After.Status,
				"invoiceNumber": c.After.Number,
			},
		}, true
	}
	return Entry{}, false
}

// QuoteSnapshot captures the quote fields the deriver inspects.
type QuoteSnapshot struct {
	ID       uint
	ClientID uint
	Number   string
	Status   string
	Total    float64
}

// QuoteChange covers quote create/update. Before is nil on create.
type QuoteChange struct {
	Op     Op
	Before *QuoteSnapshot
	After  QuoteSnapshot
}

func (c QuoteChange) derive() (Entry, bool) {
	if c.After.ClientID == 0 {
		return Entry{}, false
	}
	switch c.Op {
	case OpCreate:
		return Entry{
			ClientID:  c.After.ClientID,
			Type:      TypeQuoteCreated,
			Body:      fmt.Sprintf("Quote %s created", c.After.Number),
			Related:   CollectionQuotes,
			RelatedID: c.After.ID,
			Meta: map[string]any{
				"quoteNumber": c.After.Number,
				"total":       c.After.Total,
			},
		}, true
	case OpUpdate:
		if c.Before == nil || c.Before.Status == c.After.Status {
			return Entry{}, false
		}
		return Entry{
			ClientID:  c.After.ClientID,
			Type:      TypeStatusChange,
			Body:      fmt.Sprintf("Quote %s: %s → %s", c.After.Number, c.Before.Status, c.After.Status),
			Related:   CollectionQuotes,
			RelatedID: c.After.ID,
			Meta: map[string]any{
				"entity":      "quote",
				"oldStatus":   c.Before.Status,
				"newStatus":   c.After.Status,
				"quoteNumber": c.After.Number,
			},
		}, true
	}
	return Entry{}, false
}

// TaskSnapshot captures the task fields the deriver inspects. ClientID is
// zero for unlinked tasks.
type TaskSnapshot struct {
	ID        uint
	ClientID  uint
	Title     string
	Priority  string
	Completed bool
}

// TaskChange covers task create/update. Updates only emit when completed
// flips false→true.
type TaskChange struct {
	Op     Op
	Before *TaskSnapshot
	After  TaskSnapshot
}

func (c TaskChange) derive() (Entry, bool) {
	if c.After.ClientID == 0 {
		return Entry{}, false
	}
	switch c.Op {
	case OpCreate:
		return Entry{
			ClientID:  c.After.ClientID,
			Type:      TypeTaskAssigned,
			Body:      fmt.Sprintf("Task %q assigned", c.After.Title),
			Related:   CollectionTasks,
			RelatedID: c.After.ID,
			Meta: map[string]any{
				"title":    c.After.Title,
				"priority": c.After.Priority,
			},
		}, true
	case OpUpdate:
		if c.Before == nil || c.Before.Completed || !c.After.Completed {
			return Entry{}, false
		}
		return Entry{
			ClientID:  c.After.ClientID,
			Type:      TypeTaskCompleted,
			Body:      fmt.Sprintf("Task %q completed", c.After.Title),
			Related:   CollectionTasks,
			RelatedID: c.After.ID,
			Meta:      map[string]any{"title": c.After.Title},
		}, true
	}
	return Entry{}, false
}

// PaymentReceived covers transaction creation. Transactions are immutable
// once recorded, so there is no update arm.
type PaymentReceived struct {
	TransactionID uint
	ClientID      uint
	Amount        float64
	Method        string
	Reference     string
}

func (c PaymentReceived) derive() (Entry, bool) {
	if c.ClientID == 0 {
		return Entry{}, false
	}
	body := fmt.Sprintf("Payment of %.2f received", c.Amount)
	if c.Reference != "" {
		body += fmt.Sprintf(" (%s)", c.Reference)
	}
	return Entry{
		ClientID:  c.ClientID,
		Type:      TypePaymentReceived,
		Body:      body,
		Related:   CollectionTransactions,
		RelatedID: c.TransactionID,
		Meta: map[string]any{
			"amount":    c.Amount,
			"method":    c.Method,
			"reference": c.Reference,
		},
	}, true
}

// InvoiceEmailed is the explicit "send" action, distinct from a field
// mutation on the invoice itself.
type InvoiceEmailed struct {
	InvoiceID uint
	ClientID  uint
	Number    string
	To        string
	Subject   string
}

func (c InvoiceEmailed) derive() (Entry, bool) {
	if c.ClientID == 0 {
		return Entry{}, false
	}
	return Entry{
		ClientID:  c.ClientID,
		Type:      TypeEmailSent,
		Body:      fmt.Sprintf("Invoice %s sent to %s", c.Number, c.To),
		Related:   CollectionInvoices,
		RelatedID: c.InvoiceID,
		Meta: map[string]any{
			"subject":       c.Subject,
			"to":            c.To,
			"invoiceNumber": c.Number,
		},
	}, true
}
