package spark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTranscriptsPartition(t *testing.T) {
	e := newTestEnv(t)
	e.addMessage(msg{pk: 1, subject: "Standup notes", from: "spark@readdle.com", received: 1718450000, meta: transcriptMeta("tr-1", 1, "Daily Standup")})
	e.addMessage(msg{pk: 2, subject: "Quick sync", from: "spark@readdle.com", received: 1718460000, meta: transcriptMeta("tr-2", 1, "")})
	e.addMessage(msg{pk: 3, subject: "Invoice", from: "billing@acme.com", received: 1718470000, inbox: true})

	list, err := e.store.ListTranscripts(TranscriptListOptions{IncludeAdHoc: true})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Transcripts, 2)
	// Newest first.
	assert.Equal(t, int64(2), list.Transcripts[0].MessagePk)
	assert.Equal(t, int64(1), list.Transcripts[1].MessagePk)
	assert.False(t, list.Transcripts[0].IsCalendarEvent)
	assert.True(t, list.Transcripts[1].IsCalendarEvent)

	// Without ad-hoc meetings only the calendar-backed transcript remains.
	list, err = e.store.ListTranscripts(TranscriptListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Transcripts, 1)
	assert.Equal(t, int64(1), list.Transcripts[0].MessagePk)
}

func TestListTranscriptsOnlyKept(t *testing.T) {
	e := newTestEnv(t)
	for pk := int64(1); pk <= 5; pk++ {
		e.addMessage(msg{pk: pk, subject: "Kept", from: "spark@readdle.com", received: 1718450000 + pk, meta: transcriptMeta("kept", 1, "Weekly")})
	}
	e.addMessage(msg{pk: 6, subject: "Discarded", from: "spark@readdle.com", received: 1718460000, meta: transcriptMeta("gone", 0, "Weekly")})

	list, err := e.store.ListTranscripts(TranscriptListOptions{OnlyKept: true})
	require.NoError(t, err)
	assert.Equal(t, 5, list.Total)
	assert.Len(t, list.Transcripts, 5)
	for _, tr := range list.Transcripts {
		assert.NotEqual(t, int64(6), tr.MessagePk)
	}
}

func TestListTranscriptsTotalUnaffectedByLimit(t *testing.T) {
	e := newTestEnv(t)
	for pk := int64(1); pk <= 4; pk++ {
		e.addMessage(msg{pk: pk, subject: "Call", from: "spark@readdle.com", received: 1718450000 + pk, meta: transcriptMeta("tr", 1, "Sync")})
	}

	list, err := e.store.ListTranscripts(TranscriptListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, list.Total)
	assert.Len(t, list.Transcripts, 2)
}

func TestListTranscriptsTextLength(t *testing.T) {
	e := newTestEnv(t)
	e.addMessage(msg{pk: 1, subject: "With text", from: "spark@readdle.com", received: 1718450000, meta: transcriptMeta("tr-1", 1, "Sync")})
	e.addMessage(msg{pk: 2, subject: "Without text", from: "spark@readdle.com", received: 1718460000, meta: transcriptMeta("tr-2", 1, "Sync")})
	e.addBody(1, "Alice: hello everyone")

	list, err := e.store.ListTranscripts(TranscriptListOptions{IncludeAdHoc: true})
	require.NoError(t, err)
	require.Len(t, list.Transcripts, 2)

	byPk := map[int64]int{}
	for _, tr := range list.Transcripts {
		byPk[tr.MessagePk] = tr.TextLength
	}
	assert.Equal(t, len("Alice: hello everyone"), byPk[1])
	assert.Equal(t, 0, byPk[2])
}

func TestGetTranscript(t *testing.T) {
	e := newTestEnv(t)
	e.addMessage(msg{pk: 1, subject: "Planning", from: "spark@readdle.com", to: "me@example.com", received: 1718450000, meta: transcriptMeta("tr-1", 1, "Planning")})
	e.addMessage(msg{pk: 2, subject: "Plain email", from: "someone@example.com", received: 1718460000, inbox: true})
	e.addBody(1, "Bob: let's plan the quarter")

	tr, err := e.store.GetTranscript(1, "")
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, "Planning", tr.Subject)
	assert.Equal(t, "tr-1", tr.TranscriptID)
	assert.Equal(t, "Bob: let's plan the quarter", tr.FullText)
	assert.True(t, tr.Metadata.IsKept)
	require.NotNil(t, tr.Metadata.EventSummary)
	assert.Equal(t, "Planning", *tr.Metadata.EventSummary)

	// Lookup by transcript id resolves to the same row.
	tr, err = e.store.GetTranscript(0, "tr-1")
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, int64(1), tr.MessagePk)

	// A non-transcript message is invisible through this surface.
	tr, err = e.store.GetTranscript(2, "")
	require.NoError(t, err)
	assert.Nil(t, tr)

	// Unknown pk and unknown id both miss cleanly.
	tr, err = e.store.GetTranscript(99, "")
	require.NoError(t, err)
	assert.Nil(t, tr)
	tr, err = e.store.GetTranscript(0, "nope")
	require.NoError(t, err)
	assert.Nil(t, tr)
}

func TestSearchTranscripts(t *testing.T) {
	e := newTestEnv(t)
	e.addMessage(msg{pk: 1, subject: "Roadmap review", from: "spark@readdle.com", received: 1718450000, meta: transcriptMeta("tr-1", 1, "Roadmap")})
	e.addMessage(msg{pk: 2, subject: "Not a transcript", from: "other@example.com", received: 1718460000, inbox: true})
	e.addBody(1, "we discussed the roadmap for next quarter")
	e.addBody(2, "roadmap mentioned in a plain email")
	// An orphaned index row: the message was deleted from the store.
	e.addBody(99, "roadmap ghost entry")

	res, err := e.store.SearchTranscripts(SearchTranscriptOptions{Query: "roadmap", IncludeContext: true})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, int64(1), res.Results[0].MessagePk)
	assert.Contains(t, res.Results[0].Excerpt, "<mark>")
	assert.Greater(t, res.Results[0].RelevanceScore, 0.0)
}

func TestSearchTranscriptsQuoteEscaping(t *testing.T) {
	e := newTestEnv(t)
	e.addMessage(msg{pk: 1, subject: "Sync", from: "spark@readdle.com", received: 1718450000, meta: transcriptMeta("tr-1", 1, "Sync")})
	e.addBody(1, "nothing relevant here")

	// Malformed quoting must not produce a query error.
	res, err := e.store.SearchTranscripts(SearchTranscriptOptions{Query: `say "hello`})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
}

func TestGetStatistics(t *testing.T) {
	e := newTestEnv(t)
	e.addMessage(msg{pk: 1, subject: "A", from: "spark@readdle.com", received: 1718450000, meta: transcriptMeta("tr-1", 1, "Weekly")})
	e.addMessage(msg{pk: 2, subject: "B", from: "spark@readdle.com", received: 1718460000, meta: transcriptMeta("tr-2", 0, "")})
	e.addMessage(msg{pk: 3, subject: "C", from: "other@example.com", received: 1718470000, inbox: true})
	e.addBody(1, "some transcript text")

	stats, err := e.store.GetStatistics()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTranscripts)
	assert.Equal(t, 1, stats.CalendarMeetings)
	assert.Equal(t, 1, stats.AdHocMeetings)
	assert.Equal(t, 1, stats.KeptTranscripts)
	assert.Equal(t, 1, stats.DeletedTranscripts)
	assert.Equal(t, 1, stats.WithFullText)
	require.NotNil(t, stats.DateRange.Earliest)
	require.NotNil(t, stats.DateRange.Latest)
	require.Len(t, stats.TopSenders, 1)
	assert.Equal(t, "spark@readdle.com", stats.TopSenders[0].Email)
	assert.Equal(t, 2, stats.TopSenders[0].Count)
}
