package spark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEmailsFolders(t *testing.T) {
	e := newTestEnv(t)
	e.addMessage(msg{pk: 1, subject: "Inbox one", from: "a@example.com", received: 100, inbox: true, unread: true})
	e.addMessage(msg{pk: 2, subject: "Inbox two", from: "b@example.com", received: 200, inbox: true})
	e.addMessage(msg{pk: 3, subject: "Sent one", from: "me@example.com", received: 300, sent: true})
	e.addMessage(msg{pk: 4, subject: "Transcript", from: "spark@readdle.com", received: 400, inbox: true, meta: transcriptMeta("tr-1", 1, "Sync")})

	list, err := e.store.ListEmails(EmailListOptions{Folder: "inbox"})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Emails, 2)
	assert.Equal(t, int64(2), list.Emails[0].MessagePk)
	assert.Equal(t, int64(1), list.Emails[1].MessagePk)
	assert.True(t, list.Emails[1].Unread)

	list, err = e.store.ListEmails(EmailListOptions{Folder: "sent"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Emails, 1)
	assert.Equal(t, int64(3), list.Emails[0].MessagePk)

	// "all" still excludes the transcript-marked row.
	list, err = e.store.ListEmails(EmailListOptions{Folder: "all"})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)

	_, err = e.store.ListEmails(EmailListOptions{Folder: "archive"})
	require.Error(t, err)
}

func TestListEmailsSenderFilter(t *testing.T) {
	e := newTestEnv(t)
	e.addMessage(msg{pk: 1, subject: "From Bob", from: "Bob Bittner <bob@netapp.com>", received: 100, inbox: true})
	e.addMessage(msg{pk: 2, subject: "From Alice", from: "alice@example.com", received: 200, inbox: true})

	list, err := e.store.ListEmails(EmailListOptions{Folder: "inbox", Sender: "bittner"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Emails, 1)
	assert.Equal(t, int64(1), list.Emails[0].MessagePk)
}

func TestListEmailsTotalUnaffectedByLimit(t *testing.T) {
	e := newTestEnv(t)
	for pk := int64(1); pk <= 5; pk++ {
		e.addMessage(msg{pk: pk, subject: "Mail", from: "a@example.com", received: 100 + pk, inbox: true})
	}

	list, err := e.store.ListEmails(EmailListOptions{Folder: "inbox", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, list.Total)
	assert.Len(t, list.Emails, 2)
}

func TestGetEmail(t *testing.T) {
	e := newTestEnv(t)
	e.addMessage(msg{pk: 1, subject: "Hello", from: "a@example.com", to: "me@example.com", received: 1718450000, inbox: true, starred: true})
	e.addMessage(msg{pk: 2, subject: "Transcript", from: "spark@readdle.com", received: 1718460000, meta: transcriptMeta("tr-1", 1, "Sync")})
	e.addBody(1, "full body text here")

	email, err := e.store.GetEmail(1)
	require.NoError(t, err)
	require.NotNil(t, email)
	assert.Equal(t, "Hello", email.Subject)
	assert.Equal(t, "full body text here", email.Body)
	assert.True(t, email.Starred)

	// Transcript-marked rows never surface as emails.
	email, err = e.store.GetEmail(2)
	require.NoError(t, err)
	assert.Nil(t, email)

	email, err = e.store.GetEmail(42)
	require.NoError(t, err)
	assert.Nil(t, email)
}

func TestGetEmailWithoutIndexedBody(t *testing.T) {
	e := newTestEnv(t)
	e.addMessage(msg{pk: 1, subject: "No body", from: "a@example.com", received: 100, inbox: true})

	email, err := e.store.GetEmail(1)
	require.NoError(t, err)
	require.NotNil(t, email)
	assert.Empty(t, email.Body)
}

func TestSearchEmailsDropsDeletedRows(t *testing.T) {
	e := newTestEnv(t)
	e.addMessage(msg{pk: 1, subject: "Budget mail", from: "a@example.com", received: 100, inbox: true})
	e.addBody(1, "the budget numbers are attached")
	// Indexed but deleted from the message store.
	e.addBody(2, "budget ghost")
	// Indexed but a transcript: excluded from the email surface.
	e.addMessage(msg{pk: 3, subject: "Budget call", from: "spark@readdle.com", received: 300, meta: transcriptMeta("tr-1", 1, "Budget")})
	e.addBody(3, "budget discussion transcript")

	res, err := e.store.SearchEmails("budget", 10)
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, int64(1), res.Results[0].MessagePk)
	assert.Contains(t, res.Results[0].Excerpt, "<mark>budget</mark>")
	assert.Equal(t, 1, res.Total)
}

func TestFindActionItems(t *testing.T) {
	e := newTestEnv(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	e.setNow(now)

	recent := now.AddDate(0, 0, -2).Unix()
	stale := now.AddDate(0, 0, -30).Unix()

	e.addMessage(msg{pk: 1, subject: "Review request", from: "a@example.com", received: recent, inbox: true})
	e.addBody(1, "please review the attached draft")
	e.addMessage(msg{pk: 2, subject: "Old request", from: "b@example.com", received: stale, inbox: true})
	e.addBody(2, "please review this one too")
	e.addMessage(msg{pk: 3, subject: "Newsletter", from: "news@example.com", received: recent, inbox: true})
	e.addBody(3, "nothing actionable in here")

	items, err := e.store.FindActionItems(7, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].MessagePk)
	assert.Contains(t, items[0].Excerpt, "<mark>")
}

func TestFindPendingResponses(t *testing.T) {
	e := newTestEnv(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	e.setNow(now)

	twoDaysAgo := now.AddDate(0, 0, -2).Unix()
	oneDayAgo := now.AddDate(0, 0, -1).Unix()

	// Conversation 1: answered. Inbox message followed by a sent reply.
	e.addMessage(msg{pk: 1, subject: "Question", from: "a@example.com", received: twoDaysAgo, conversation: 1, inbox: true})
	e.addMessage(msg{pk: 2, subject: "Re: Question", from: "me@example.com", received: oneDayAgo, conversation: 1, sent: true})

	// Conversation 2: still waiting.
	e.addMessage(msg{pk: 3, subject: "Ping", from: "b@example.com", received: twoDaysAgo, conversation: 2, inbox: true})

	// Conversation 3: the reply predates the latest inbound message.
	e.addMessage(msg{pk: 4, subject: "Re: Thread", from: "me@example.com", received: twoDaysAgo, conversation: 3, sent: true})
	e.addMessage(msg{pk: 5, subject: "Thread follow-up", from: "c@example.com", received: oneDayAgo, conversation: 3, inbox: true})

	pending, err := e.store.FindPendingResponses(7, 20)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	byPk := map[int64]int{}
	for _, p := range pending {
		byPk[p.MessagePk] = p.DaysWaiting
	}
	assert.Contains(t, byPk, int64(3))
	assert.Contains(t, byPk, int64(5))
	assert.NotContains(t, byPk, int64(1))
	assert.Equal(t, 2, byPk[3])
	assert.Equal(t, 1, byPk[5])
}
