package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveInvoiceCreate(t *testing.T) {
	e, ok := Derive(InvoiceChange{
		Op:    OpCreate,
		After: InvoiceSnapshot{ID: 7, ClientID: 3, Number: "INV-0007", Total: 1100},
	})
	require.True(t, ok)
	assert.Equal(t, TypeInvoiceCreated, e.Type)
	assert.Equal(t, uint(3), e.ClientID)
	assert.Equal(t, CollectionInvoices, e.Related)
	assert.Equal(t, uint(7), e.RelatedID)
	assert.Equal(t, "INV-0007", e.Meta["invoiceNumber"])
	assert.Equal(t, 1100.0, e.Meta["total"])
	assert.Equal(t, "Invoice INV-0007 created", e.Body)
}

func TestDeriveInvoiceStatusChange(t *testing.T) {
	e, ok := Derive(InvoiceChange{
		Op:     OpUpdate,
		Before: &InvoiceSnapshot{ID: 7, ClientID: 3, Number: "INV-0007", Status: "draft"},
		After:  InvoiceSnapshot{ID: 7, ClientID: 3, Number: "INV-0007", Status: "sent"},
	})
	require.True(t, ok)
	assert.Equal(t, TypeStatusChange, e.Type)
	assert.Equal(t, "invoice", e.Meta["entity"])
	assert.Equal(t, "draft", e.Meta["oldStatus"])
	assert.Equal(t, "sent", e.Meta["newStatus"])
	assert.Equal(t, "INV-0007", e.Meta["invoiceNumber"])
}

func TestDeriveInvoiceUpdateUnrelatedFields(t *testing.T) {
	// notes/amount edits without a status change must not emit
	_, ok := Derive(InvoiceChange{
		Op:     OpUpdate,
		Before: &InvoiceSnapshot{ID: 7, ClientID: 3, Status: "draft", Total: 100},
		After:  InvoiceSnapshot{ID: 7, ClientID: 3, Status: "draft", Total: 250},
	})
	assert.False(t, ok)
}

func TestDeriveSkipsWithoutClient(t *testing.T) {
	_, ok := Derive(InvoiceChange{Op: OpCreate, After: InvoiceSnapshot{ID: 1}})
	assert.False(t, ok)
	_, ok = Derive(TaskChange{Op: OpCreate, After: TaskSnapshot{ID: 2, Title: "call"}})
	assert.False(t, ok)
	_, ok = Derive(PaymentReceived{TransactionID: 3, Amount: 10})
	assert.False(t, ok)
}

func TestDeriveQuote(t *testing.T) {
	e, ok := Derive(QuoteChange{
		Op:    OpCreate,
		After: QuoteSnapshot{ID: 4, ClientID: 2, Number: "Q-0004", Total: 500},
	})
	require.True(t, ok)
	assert.Equal(t, TypeQuoteCreated, e.Type)
	assert.Equal(t, "Q-0004", e.Meta["quoteNumber"])

	e, ok = Derive(QuoteChange{
		Op:     OpUpdate,
		Before: &QuoteSnapshot{ID: 4, ClientID: 2, Number: "Q-0004", Status: "pending"},
		After:  QuoteSnapshot{ID: 4, ClientID: 2, Number: "Q-0004", Status: "accepted"},
	})
	require.True(t, ok)
	assert.Equal(t, "quote", e.Meta["entity"])
	assert.Equal(t, "accepted", e.Meta["newStatus"])
}

func TestDeriveTaskCompletionFlip(t *testing.T) {
	e, ok := Derive(TaskChange{
		Op:     OpUpdate,
		Before: &TaskSnapshot{ID: 9, ClientID: 1, Title: "Follow up", Completed: false},
		After:  TaskSnapshot{ID: 9, ClientID: 1, Title: "Follow up", Completed: true},
	})
	require.True(t, ok)
	assert.Equal(t, TypeTaskCompleted, e.Type)
	assert.Equal(t, "Follow up", e.Meta["title"])

	// already completed: no re-emission
	_, ok = Derive(TaskChange{
		Op:     OpUpdate,
		Before: &TaskSnapshot{ID: 9, ClientID: 1, Completed: true},
		After:  TaskSnapshot{ID: 9, ClientID: 1, Completed: true},
	})
	assert.False(t, ok)

	// un-completing is not an event either
	_, ok = Derive(TaskChange{
		Op:     OpUpdate,
		Before: &TaskSnapshot{ID: 9, ClientID: 1, Completed: true},
		After:  TaskSnapshot{ID: 9, ClientID: 1, Completed: false},
	})
	assert.False(t, ok)
}

func TestDerivePaymentReceived(t *testing.T) {
	e, ok := Derive(PaymentReceived{
		TransactionID: 12, ClientID: 5, Amount: 250.5, Method: "cash", Reference: "INV-1001",
	})
	require.True(t, ok)
	assert.Equal(t, TypePaymentReceived, e.Type)
	assert.Equal(t, 250.5, e.Meta["amount"])
	assert.Equal(t, "cash", e.Meta["method"])
	assert.Equal(t, "INV-1001", e.Meta["reference"])
	assert.Equal(t, "Payment of 250.50 received (INV-1001)", e.Body)
}

func TestDeriveInvoiceEmailed(t *testing.T) {
	e, ok := Derive(InvoiceEmailed{
		InvoiceID: 7, ClientID: 3, Number: "INV-0007",
		To: "billing@acme.test", Subject: "Invoice INV-0007",
	})
	require.True(t, ok)
	assert.Equal(t, TypeEmailSent, e.Type)
	assert.Equal(t, "billing@acme.test", e.Meta["to"])
	assert.Equal(t, "Invoice INV-0007", e.Meta["subject"])
}

func TestDeriveNilChange(t *testing.T) {
	_, ok := Derive(nil)
	assert.False(t, ok)
}
