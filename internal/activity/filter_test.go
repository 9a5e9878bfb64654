package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTimeline() []Entry {
	return []Entry{
		{ID: 1, Type: TypeNote, Body: "called them"},
		{ID: 2, Type: TypeInvoiceCreated},
		{ID: 3, Type: TypeStatusChange, Meta: map[string]any{"entity": "invoice"}},
		{ID: 4, Type: TypeQuoteCreated},
		{ID: 5, Type: TypeQuoteSent},
		{ID: 6, Type: TypeStatusChange, Meta: map[string]any{"entity": "quote"}},
		{ID: 7, Type: TypeEmailSent},
		{ID: 8, Type: TypePaymentReceived},
		{ID: 9, Type: TypeTaskAssigned},
		{ID: 10, Type: TypeTaskCompleted},
	}
}

func ids(entries []Entry) []uint {
	out := make([]uint, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterViews(t *testing.T) {
	timeline := sampleTimeline()

	assert.Len(t, Filter(timeline, ViewAll), len(timeline))
	assert.Equal(t, []uint{1}, ids(Filter(timeline, ViewNotes)))
	assert.Equal(t, []uint{2, 3}, ids(Filter(timeline, ViewInvoices)))
	assert.Equal(t, []uint{4, 5, 6}, ids(Filter(timeline, ViewQuotes)))
	assert.Equal(t, []uint{7}, ids(Filter(timeline, ViewEmails)))
	assert.Equal(t, []uint{8}, ids(Filter(timeline, ViewPayments)))
	assert.Equal(t, []uint{9, 10}, ids(Filter(timeline, ViewTasks)))
}

func TestFilterStatusChangeWithoutEntity(t *testing.T) {
	// a status_change with no meta entity belongs to neither tab
	timeline := []Entry{{ID: 1, Type: TypeStatusChange}}
	assert.Empty(t, Filter(timeline, ViewInvoices))
	assert.Empty(t, Filter(timeline, ViewQuotes))
	assert.Len(t, Filter(timeline, ViewAll), 1)
}

func TestFilterRederivable(t *testing.T) {
	// filtering is pure: repeated application over the same list agrees
	timeline := sampleTimeline()
	first := Filter(timeline, ViewQuotes)
	second := Filter(timeline, ViewQuotes)
	assert.Equal(t, first, second)
	assert.Len(t, timeline, 10) // input untouched
}

func TestViewValid(t *testing.T) {
	for _, v := range Views {
		assert.True(t, v.Valid())
	}
	assert.False(t, View("bogus").Valid())
}
