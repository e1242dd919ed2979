package spark

import (
	"database/sql"
	"fmt"

	"github.com/brandon/mcp-spark/pkg/types"
)

// TranscriptListOptions filters ListTranscripts. Zero values mean "no
// filter" except OnlyKept/IncludeAdHoc, which callers set explicitly.
type TranscriptListOptions struct {
	StartDate    string
	EndDate      string
	IncludeAdHoc bool
	OnlyKept     bool
	Limit        int
	Offset       int
}

// ListTranscripts lists transcript-marked messages, newest first, together
// with the true filtered total.
func (s *Store) ListTranscripts(opts TranscriptListOptions) (*types.TranscriptList, error) {
	conn, err := s.openMessages()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	conditions := []string{isTranscript}
	var args []interface{}

	if opts.OnlyKept {
		conditions = append(conditions, "json_extract(meta, '$.mtskp') = 1")
	}
	if opts.StartDate != "" {
		t, err := parseDate(opts.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date %q: %w", opts.StartDate, err)
		}
		conditions = append(conditions, "receivedDate >= ?")
		args = append(args, t.Unix())
	}
	if opts.EndDate != "" {
		t, err := parseDate(opts.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date %q: %w", opts.EndDate, err)
		}
		conditions = append(conditions, "receivedDate <= ?")
		args = append(args, t.Unix())
	}
	if !opts.IncludeAdHoc {
		conditions = append(conditions, "json_extract(meta, '$.mtes') IS NOT NULL")
	}

	where := whereClause(conditions)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM messages %s", where)
	if err := conn.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count transcripts: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT pk, subject, messageFrom, receivedDate, meta
		FROM messages
		%s
		ORDER BY receivedDate DESC
		LIMIT ? OFFSET ?
	`, where)
	args = append(args, limit, opts.Offset)

	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}
	defer rows.Close()

	transcripts := []types.TranscriptSummary{}
	var pks []int64
	for rows.Next() {
		var (
			pk       int64
			subject  sql.NullString
			sender   sql.NullString
			received int64
			meta     sql.NullString
		)
		if err := rows.Scan(&pk, &subject, &sender, &received, &meta); err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}

		m := parseMeta(meta)
		transcripts = append(transcripts, types.TranscriptSummary{
			MessagePk:        pk,
			Subject:          orEmpty(subject, "Untitled"),
			Sender:           orEmpty(sender, "Unknown"),
			ReceivedDate:     formatUnix(received),
			MeetingStartDate: msToISO(m.MeetingStartMs),
			MeetingEndDate:   msToISO(m.MeetingEndMs),
			TranscriptID:     m.TranscriptID,
			IsCalendarEvent:  m.EventSummary != nil,
			EventSummary:     m.EventSummary,
		})
		pks = append(pks, pk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcripts: %w", err)
	}

	lengths, err := s.textLengths(pks)
	if err != nil {
		return nil, err
	}
	for i := range transcripts {
		n := lengths[transcripts[i].MessagePk]
		transcripts[i].TextLength = n
		transcripts[i].HasFullText = n > 0
	}

	return &types.TranscriptList{Transcripts: transcripts, Total: total}, nil
}

// GetTranscript fetches a full transcript by message pk or transcript id.
// A missing row, or a row without the transcript marker, returns nil.
func (s *Store) GetTranscript(messagePk int64, transcriptID string) (*types.Transcript, error) {
	conn, err := s.openMessages()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if messagePk == 0 && transcriptID != "" {
		err := conn.QueryRow(
			"SELECT pk FROM messages WHERE json_extract(meta, '$.mtid') = ?",
			transcriptID,
		).Scan(&messagePk)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve transcript id: %w", err)
		}
	}
	if messagePk == 0 {
		return nil, nil
	}

	var (
		subject    sql.NullString
		sender     sql.NullString
		recipients sql.NullString
		received   int64
		meta       sql.NullString
	)
	err = conn.QueryRow(`
		SELECT subject, messageFrom, messageTo, receivedDate, meta
		FROM messages
		WHERE pk = ?
	`, messagePk).Scan(&subject, &sender, &recipients, &received, &meta)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript: %w", err)
	}

	m := parseMeta(meta)
	if m.TranscriptID == "" {
		// Not a transcript-bearing message.
		return nil, nil
	}

	fullText, err := s.searchBody(messagePk)
	if err != nil {
		return nil, err
	}

	return &types.Transcript{
		MessagePk:        messagePk,
		Subject:          orEmpty(subject, "Untitled"),
		Sender:           orEmpty(sender, "Unknown"),
		Recipients:       orEmpty(recipients, ""),
		ReceivedDate:     formatUnix(received),
		MeetingStartDate: msToISO(m.MeetingStartMs),
		MeetingEndDate:   msToISO(m.MeetingEndMs),
		TranscriptID:     m.TranscriptID,
		FullText:         fullText,
		Metadata: types.TranscriptMetadata{
			Language:      m.Language,
			Status:        m.Status,
			AutoProcessed: m.AutoProcessed,
			IsKept:        m.Kept == 1,
			EventSummary:  m.EventSummary,
		},
	}, nil
}

// SearchTranscriptOptions filters SearchTranscripts.
type SearchTranscriptOptions struct {
	Query          string
	StartDate      string
	EndDate        string
	Limit          int
	IncludeContext bool
}

// SearchTranscripts runs a ranked full-text search and joins the hits back
// to transcript-marked message rows in application code. Hits whose message
// row is gone are dropped; rank order from the index drives the result
// order. The index is over-fetched 2x so the post-join page stays near the
// requested limit.
func (s *Store) SearchTranscripts(opts SearchTranscriptOptions) (*types.SearchResults, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	hits, err := s.ftsQuery(escapeFTS(opts.Query), limit*2, opts.IncludeContext)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return &types.SearchResults{Results: []types.SearchHit{}, Total: 0}, nil
	}

	conn, err := s.openMessages()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	pks := make([]int64, len(hits))
	for i, h := range hits {
		pks[i] = h.messagePk
	}

	conditions := []string{
		fmt.Sprintf("pk IN (%s)", inPlaceholders(len(pks))),
		isTranscript,
	}
	args := int64Args(pks)

	if opts.StartDate != "" {
		t, err := parseDate(opts.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start date %q: %w", opts.StartDate, err)
		}
		conditions = append(conditions, "receivedDate >= ?")
		args = append(args, t.Unix())
	}
	if opts.EndDate != "" {
		t, err := parseDate(opts.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date %q: %w", opts.EndDate, err)
		}
		conditions = append(conditions, "receivedDate <= ?")
		args = append(args, t.Unix())
	}

	query := fmt.Sprintf(`
		SELECT pk, subject, messageFrom, receivedDate
		FROM messages
		%s
	`, whereClause(conditions))

	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcript metadata: %w", err)
	}
	defer rows.Close()

	meta := make(map[int64]types.SearchHit)
	for rows.Next() {
		var (
			pk       int64
			subject  sql.NullString
			sender   sql.NullString
			received int64
		)
		if err := rows.Scan(&pk, &subject, &sender, &received); err != nil {
			return nil, fmt.Errorf("failed to scan transcript metadata: %w", err)
		}
		meta[pk] = types.SearchHit{
			MessagePk:    pk,
			Subject:      orEmpty(subject, "Untitled"),
			Sender:       orEmpty(sender, "Unknown"),
			ReceivedDate: formatUnix(received),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript metadata: %w", err)
	}

	results := []types.SearchHit{}
	for _, h := range hits {
		row, ok := meta[h.messagePk]
		if !ok {
			continue
		}
		row.Excerpt = h.excerpt
		row.RelevanceScore = h.score
		results = append(results, row)
		if len(results) >= limit {
			break
		}
	}

	return &types.SearchResults{Results: results, Total: len(results)}, nil
}

// GetStatistics summarizes the transcript collection.
func (s *Store) GetStatistics() (*types.TranscriptStatistics, error) {
	conn, err := s.openMessages()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var (
		total, calendarMeetings, adHoc, kept sql.NullInt64
		earliest, latest                     sql.NullString
	)
	err = conn.QueryRow(`
		SELECT
			COUNT(*),
			SUM(CASE WHEN json_extract(meta, '$.mtes') IS NOT NULL THEN 1 ELSE 0 END),
			SUM(CASE WHEN json_extract(meta, '$.mtes') IS NULL THEN 1 ELSE 0 END),
			SUM(CASE WHEN json_extract(meta, '$.mtskp') = 1 THEN 1 ELSE 0 END),
			MIN(datetime(receivedDate, 'unixepoch')),
			MAX(datetime(receivedDate, 'unixepoch'))
		FROM messages
		WHERE meta LIKE '%mtid%'
	`).Scan(&total, &calendarMeetings, &adHoc, &kept, &earliest, &latest)
	if err != nil {
		return nil, fmt.Errorf("failed to compute transcript statistics: %w", err)
	}

	rows, err := conn.Query("SELECT pk FROM messages WHERE meta LIKE '%mtid%'")
	if err != nil {
		return nil, fmt.Errorf("failed to list transcript pks: %w", err)
	}
	var pks []int64
	for rows.Next() {
		var pk int64
		if err := rows.Scan(&pk); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan transcript pk: %w", err)
		}
		pks = append(pks, pk)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript pks: %w", err)
	}

	lengths, err := s.textLengths(pks)
	if err != nil {
		return nil, err
	}
	withFullText := 0
	for _, n := range lengths {
		if n > 0 {
			withFullText++
		}
	}

	senderRows, err := conn.Query(`
		SELECT messageFrom, COUNT(*) as count
		FROM messages
		WHERE meta LIKE '%mtid%'
		GROUP BY messageFrom
		ORDER BY count DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query top senders: %w", err)
	}
	defer senderRows.Close()

	topSenders := []types.SenderCount{}
	for senderRows.Next() {
		var (
			email sql.NullString
			count int
		)
		if err := senderRows.Scan(&email, &count); err != nil {
			return nil, fmt.Errorf("failed to scan sender: %w", err)
		}
		topSenders = append(topSenders, types.SenderCount{
			Email: orEmpty(email, "Unknown"),
			Count: count,
		})
	}
	if err := senderRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read top senders: %w", err)
	}

	stats := &types.TranscriptStatistics{
		TotalTranscripts: int(total.Int64),
		CalendarMeetings: int(calendarMeetings.Int64),
		AdHocMeetings:    int(adHoc.Int64),
		KeptTranscripts:  int(kept.Int64),
		WithFullText:     withFullText,
		TopSenders:       topSenders,
	}
	stats.DeletedTranscripts = stats.TotalTranscripts - stats.KeptTranscripts
	if earliest.Valid {
		stats.DateRange.Earliest = &earliest.String
	}
	if latest.Valid {
		stats.DateRange.Latest = &latest.String
	}
	return stats, nil
}

// textLengths batch fetches indexed body lengths from the full-text
// database. Absence from the index means zero length, not an error.
func (s *Store) textLengths(pks []int64) (map[int64]int, error) {
	lengths := make(map[int64]int)
	if len(pks) == 0 {
		return lengths, nil
	}

	conn, err := s.openSearch()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	query := fmt.Sprintf(`
		SELECT messagePk, length(searchBody)
		FROM messagesfts
		WHERE messagePk IN (%s)
	`, inPlaceholders(len(pks)))

	rows, err := conn.Query(query, int64Args(pks)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query text lengths: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pk int64
			n  sql.NullInt64
		)
		if err := rows.Scan(&pk, &n); err != nil {
			return nil, fmt.Errorf("failed to scan text length: %w", err)
		}
		lengths[pk] = int(n.Int64)
	}
	return lengths, rows.Err()
}

// searchBody fetches the indexed body for a single message; empty when the
// message was never indexed.
func (s *Store) searchBody(pk int64) (string, error) {
	conn, err := s.openSearch()
	if err != nil {
		return "", err
	}
	defer conn.Close()

	var body sql.NullString
	err = conn.QueryRow("SELECT searchBody FROM messagesfts WHERE messagePk = ?", pk).Scan(&body)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to fetch indexed body: %w", err)
	}
	return body.String, nil
}
