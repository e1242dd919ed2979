package spark

import (
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// testEnv owns throwaway copies of the three database files plus
// read-write handles for seeding them.
type testEnv struct {
	t     *testing.T
	store *Store
	dir   string

	messages *sql.DB
	search   *sql.DB
	calendar *sql.DB
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func openRW(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+path)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustExec(t *testing.T, db *sql.DB, stmt string, args ...interface{}) {
	t.Helper()
	_, err := db.Exec(stmt, args...)
	require.NoError(t, err)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	messagesPath := filepath.Join(dir, "messages.sqlite")
	searchPath := filepath.Join(dir, "search_fts5.sqlite")
	calendarPath := filepath.Join(dir, "calendar.sqlite")

	messages := openRW(t, messagesPath)
	mustExec(t, messages, `
		CREATE TABLE messages (
			pk INTEGER PRIMARY KEY,
			subject TEXT,
			messageFrom TEXT,
			messageTo TEXT,
			receivedDate INTEGER,
			conversationPk INTEGER,
			inbox INTEGER DEFAULT 0,
			sent INTEGER DEFAULT 0,
			drafts INTEGER DEFAULT 0,
			unread INTEGER DEFAULT 0,
			starred INTEGER DEFAULT 0,
			meta TEXT
		)
	`)
	mustExec(t, messages, `
		CREATE TABLE attachments (
			pk INTEGER PRIMARY KEY,
			messagePk INTEGER,
			fileName TEXT,
			mimeType TEXT,
			size INTEGER
		)
	`)

	search := openRW(t, searchPath)
	mustExec(t, search, `CREATE VIRTUAL TABLE messagesfts USING fts5(messagePk UNINDEXED, searchBody)`)

	calendar := openRW(t, calendarPath)
	mustExec(t, calendar, `
		CREATE TABLE events (
			pk INTEGER PRIMARY KEY,
			summary TEXT,
			description TEXT,
			startDate INTEGER,
			endDate INTEGER,
			location TEXT,
			allDay INTEGER DEFAULT 0,
			status TEXT DEFAULT 'confirmed',
			conferenceLink TEXT,
			organizer TEXT
		)
	`)
	mustExec(t, calendar, `
		CREATE TABLE attendees (
			eventPk INTEGER,
			name TEXT,
			email TEXT,
			status TEXT,
			role TEXT
		)
	`)

	store, err := NewStore(messagesPath, searchPath, calendarPath, DefaultHeuristics(), testLogger())
	require.NoError(t, err)

	return &testEnv{
		t:        t,
		store:    store,
		dir:      dir,
		messages: messages,
		search:   search,
		calendar: calendar,
	}
}

func (e *testEnv) setNow(now time.Time) {
	e.store.now = func() time.Time { return now }
}

// msg is one seeded message row. Zero-valued flags stay zero.
type msg struct {
	pk           int64
	subject      string
	from         string
	to           string
	received     int64
	conversation int64
	inbox        bool
	sent         bool
	unread       bool
	starred      bool
	meta         string
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (e *testEnv) addMessage(m msg) {
	e.t.Helper()
	var meta interface{}
	if m.meta != "" {
		meta = m.meta
	}
	mustExec(e.t, e.messages, `
		INSERT INTO messages (pk, subject, messageFrom, messageTo, receivedDate, conversationPk, inbox, sent, unread, starred, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.pk, m.subject, m.from, m.to, m.received, m.conversation,
		b2i(m.inbox), b2i(m.sent), b2i(m.unread), b2i(m.starred), meta)
}

func (e *testEnv) addBody(pk int64, body string) {
	e.t.Helper()
	mustExec(e.t, e.search, `INSERT INTO messagesfts (messagePk, searchBody) VALUES (?, ?)`, pk, body)
}

func (e *testEnv) addAttachment(pk, messagePk int64, fileName, mimeType string, size int64) {
	e.t.Helper()
	mustExec(e.t, e.messages, `
		INSERT INTO attachments (pk, messagePk, fileName, mimeType, size)
		VALUES (?, ?, ?, ?, ?)
	`, pk, messagePk, fileName, mimeType, size)
}

type event struct {
	pk             int64
	summary        string
	start          int64
	end            int64
	status         string
	conferenceLink string
	organizer      string
	location       string
	allDay         bool
}

func (e *testEnv) addEvent(ev event) {
	e.t.Helper()
	if ev.status == "" {
		ev.status = "confirmed"
	}
	mustExec(e.t, e.calendar, `
		INSERT INTO events (pk, summary, description, startDate, endDate, location, allDay, status, conferenceLink, organizer)
		VALUES (?, ?, '', ?, ?, ?, ?, ?, ?, ?)
	`, ev.pk, ev.summary, ev.start, ev.end, ev.location, b2i(ev.allDay), ev.status, ev.conferenceLink, ev.organizer)
}

func (e *testEnv) addAttendee(eventPk int64, name, email, status string) {
	e.t.Helper()
	mustExec(e.t, e.calendar, `
		INSERT INTO attendees (eventPk, name, email, status, role)
		VALUES (?, ?, ?, ?, 'required')
	`, eventPk, name, email, status)
}

// transcriptMeta builds the meta blob that marks a message as carrying a
// meeting transcript.
func transcriptMeta(id string, kept int, eventSummary string) string {
	if eventSummary != "" {
		return fmt.Sprintf(`{"mtid":"%s","mtsd":1718445600000,"mted":1718449200000,"mtes":"%s","mtsl":"en","mtss":true,"mtsap":true,"mtskp":%d}`,
			id, eventSummary, kept)
	}
	return fmt.Sprintf(`{"mtid":"%s","mtsd":1718445600000,"mted":1718449200000,"mtsl":"en","mtss":true,"mtsap":true,"mtskp":%d}`, id, kept)
}

func TestNewStoreMissingDatabase(t *testing.T) {
	dir := t.TempDir()
	_, err := NewStore(
		filepath.Join(dir, "missing.sqlite"),
		filepath.Join(dir, "missing_fts.sqlite"),
		filepath.Join(dir, "missing_cal.sqlite"),
		DefaultHeuristics(),
		testLogger(),
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "database not found")
}
