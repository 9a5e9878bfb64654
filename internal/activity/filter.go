package activity

// View names a timeline filter. Views are recomputed from the full entry
// list on every request, never maintained incrementally.
type View string

const (
	ViewAll      View = "all"
	ViewNotes    View = "note"
	ViewInvoices View = "invoices"
	ViewQuotes   View = "quotes"
	ViewEmails   View = "emails"
	ViewPayments View = "payments"
	ViewTasks    View = "tasks"
)

// Views lists the selectable views in display order.
var Views = []View{ViewAll, ViewNotes, ViewInvoices, ViewQuotes, ViewEmails, ViewPayments, ViewTasks}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

// Matches reports whether the entry belongs to the view. status_change
// entries route by their meta "entity" field.
func Matches(e Entry, v View) bool {
	switch v {
	case ViewNotes:
		return e.Type == TypeNote
	case ViewInvoices:
		return e.Type == TypeInvoiceCreated ||
			(e.Type == TypeStatusChange && metaEntity(e) == "invoice")
	case ViewQuotes:
		return e.Type == TypeQuoteCreated || e.Type == TypeQuoteSent ||
			(e.Type == TypeStatusChange && metaEntity(e) == "quote")
	case ViewEmails:
		return e.Type == TypeEmailSent
	case ViewPayments:
		return e.Type == TypePaymentReceived
	case ViewTasks:
		return e.Type == TypeTaskAssigned || e.Type == TypeTaskCompleted
	}
	return true // "all" and anything unknown
}

// Filter returns the entries matching the view, preserving order.
func Filter(entries []Entry, v View) []Entry {
	if v == ViewAll || v == "" {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, v) {
			out = append(out, e)
		}
	}
	return out
}

func metaEntity(e Entry) string {
	if e.Meta == nil {
		return ""
	}
	s, _ := e.Meta["entity"].(string)
	return s
}
