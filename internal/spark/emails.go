package spark

import (
	"database/sql"
	"fmt"

	"github.com/brandon/mcp-spark/pkg/types"
)

// EmailListOptions filters ListEmails. Folder is "inbox", "sent", or "all".
type EmailListOptions struct {
	Folder string
	Sender string
	Limit  int
	Offset int
}

// ListEmails lists non-transcript messages, newest first, with the true
// filtered total.
func (s *Store) ListEmails(opts EmailListOptions) (*types.EmailList, error) {
	conn, err := s.openMessages()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	conditions := []string{notTranscript}
	var args []interface{}

	switch opts.Folder {
	case "", "inbox":
		conditions = append(conditions, "inbox = 1")
	case "sent":
		conditions = append(conditions, "sent = 1")
	case "all":
	default:
		return nil, fmt.Errorf("unknown folder %q (want inbox, sent, or all)", opts.Folder)
	}

	if opts.Sender != "" {
		conditions = append(conditions, "messageFrom LIKE ?")
		args = append(args, "%"+opts.Sender+"%")
	}

	where := whereClause(conditions)

	var total int
	if err := conn.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM messages %s", where), args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count emails: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT pk, subject, messageFrom, messageTo, receivedDate, unread, starred
		FROM messages
		%s
		ORDER BY receivedDate DESC
		LIMIT ? OFFSET ?
	`, where)
	args = append(args, limit, opts.Offset)

	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query emails: %w", err)
	}
	defer rows.Close()

	emails := []types.EmailSummary{}
	for rows.Next() {
		e, err := scanEmailSummary(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read emails: %w", err)
	}

	return &types.EmailList{Emails: emails, Total: total}, nil
}

func scanEmailSummary(rows *sql.Rows) (types.EmailSummary, error) {
	var (
		pk              int64
		subject         sql.NullString
		sender          sql.NullString
		recipients      sql.NullString
		received        int64
		unread, starred int
	)
	if err := rows.Scan(&pk, &subject, &sender, &recipients, &received, &unread, &starred); err != nil {
		return types.EmailSummary{}, fmt.Errorf("failed to scan email: %w", err)
	}
	return types.EmailSummary{
		MessagePk:    pk,
		Subject:      orEmpty(subject, "(no subject)"),
		Sender:       orEmpty(sender, "Unknown"),
		Recipients:   orEmpty(recipients, ""),
		ReceivedDate: formatUnix(received),
		Unread:       unread == 1,
		Starred:      starred == 1,
	}, nil
}

// SearchEmails runs a ranked full-text search joined back to non-transcript
// message rows. A hit whose message row has since been deleted from the
// transactional store is dropped, not returned with null fields.
func (s *Store) SearchEmails(query string, limit int) (*types.SearchResults, error) {
	if limit <= 0 {
		limit = 10
	}

	hits, err := s.ftsQuery(escapeFTS(query), limit*2, true)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return &types.SearchResults{Results: []types.SearchHit{}, Total: 0}, nil
	}

	pks := make([]int64, len(hits))
	for i, h := range hits {
		pks[i] = h.messagePk
	}

	meta, err := s.emailHeadlines(pks)
	if err != nil {
		return nil, err
	}

	results := []types.SearchHit{}
	for _, h := range hits {
		row, ok := meta[h.messagePk]
		if !ok {
			continue
		}
		results = append(results, types.SearchHit{
			MessagePk:      h.messagePk,
			Subject:        row.Subject,
			Sender:         row.Sender,
			ReceivedDate:   row.ReceivedDate,
			Excerpt:        h.excerpt,
			RelevanceScore: h.score,
		})
		if len(results) >= limit {
			break
		}
	}

	return &types.SearchResults{Results: results, Total: len(results)}, nil
}

// emailHeadlines batch fetches headline fields for non-transcript messages
// constrained to a pk set.
func (s *Store) emailHeadlines(pks []int64) (map[int64]types.EmailSummary, error) {
	conn, err := s.openMessages()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	query := fmt.Sprintf(`
		SELECT pk, subject, messageFrom, messageTo, receivedDate, unread, starred
		FROM messages
		WHERE pk IN (%s) AND %s
	`, inPlaceholders(len(pks)), notTranscript)

	rows, err := conn.Query(query, int64Args(pks)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query email headlines: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]types.EmailSummary)
	for rows.Next() {
		e, err := scanEmailSummary(rows)
		if err != nil {
			return nil, err
		}
		out[e.MessagePk] = e
	}
	return out, rows.Err()
}

// GetEmail fetches one non-transcript message with its indexed body; nil
// when absent or transcript-marked.
func (s *Store) GetEmail(pk int64) (*types.Email, error) {
	conn, err := s.openMessages()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var (
		subject         sql.NullString
		sender          sql.NullString
		recipients      sql.NullString
		received        int64
		unread, starred int
		meta            sql.NullString
	)
	err = conn.QueryRow(`
		SELECT subject, messageFrom, messageTo, receivedDate, unread, starred, meta
		FROM messages
		WHERE pk = ?
	`, pk).Scan(&subject, &sender, &recipients, &received, &unread, &starred, &meta)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email: %w", err)
	}

	if parseMeta(meta).TranscriptID != "" {
		// Transcript-marked rows never surface through the email surface.
		return nil, nil
	}

	body, err := s.searchBody(pk)
	if err != nil {
		return nil, err
	}

	return &types.Email{
		MessagePk:    pk,
		Subject:      orEmpty(subject, "(no subject)"),
		Sender:       orEmpty(sender, "Unknown"),
		Recipients:   orEmpty(recipients, ""),
		ReceivedDate: formatUnix(received),
		Unread:       unread == 1,
		Starred:      starred == 1,
		Body:         body,
	}, nil
}

// FindActionItems surfaces recent emails whose indexed body matches the
// action phrase disjunction, relevance order, transcripts excluded.
func (s *Store) FindActionItems(days, limit int) ([]types.ActionItem, error) {
	if days <= 0 {
		days = 7
	}
	if limit <= 0 {
		limit = 20
	}

	hits, err := s.ftsQuery(actionPhraseQuery(s.heur.ActionPhrases), limit*2, true)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return []types.ActionItem{}, nil
	}

	pks := make([]int64, len(hits))
	for i, h := range hits {
		pks[i] = h.messagePk
	}

	conn, err := s.openMessages()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	cutoff := s.now().AddDate(0, 0, -days).Unix()
	query := fmt.Sprintf(`
		SELECT pk, subject, messageFrom, receivedDate
		FROM messages
		WHERE pk IN (%s) AND %s AND receivedDate >= ?
	`, inPlaceholders(len(pks)), notTranscript)
	args := append(int64Args(pks), cutoff)

	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query action items: %w", err)
	}
	defer rows.Close()

	meta := make(map[int64]types.ActionItem)
	for rows.Next() {
		var (
			pk       int64
			subject  sql.NullString
			sender   sql.NullString
			received int64
		)
		if err := rows.Scan(&pk, &subject, &sender, &received); err != nil {
			return nil, fmt.Errorf("failed to scan action item: %w", err)
		}
		meta[pk] = types.ActionItem{
			MessagePk:    pk,
			Subject:      orEmpty(subject, "(no subject)"),
			Sender:       orEmpty(sender, "Unknown"),
			ReceivedDate: formatUnix(received),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read action items: %w", err)
	}

	items := []types.ActionItem{}
	for _, h := range hits {
		row, ok := meta[h.messagePk]
		if !ok {
			continue
		}
		row.Excerpt = h.excerpt
		row.RelevanceScore = h.score
		items = append(items, row)
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

// FindPendingResponses finds inbox messages whose conversation has no
// later sent message: nobody from this side has replied since.
func (s *Store) FindPendingResponses(days, limit int) ([]types.PendingResponse, error) {
	if days <= 0 {
		days = 7
	}
	if limit <= 0 {
		limit = 20
	}

	conn, err := s.openMessages()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	now := s.now()
	cutoff := now.AddDate(0, 0, -days).Unix()

	rows, err := conn.Query(fmt.Sprintf(`
		SELECT m.pk, m.conversationPk, m.subject, m.messageFrom, m.receivedDate
		FROM messages m
		WHERE m.inbox = 1
		  AND %s
		  AND m.receivedDate >= ?
		  AND NOT EXISTS (
			SELECT 1 FROM messages r
			WHERE r.conversationPk = m.conversationPk
			  AND r.sent = 1
			  AND r.receivedDate > m.receivedDate
		  )
		ORDER BY m.receivedDate DESC
		LIMIT ?
	`, "(m.meta IS NULL OR m.meta NOT LIKE '%mtid%')"), cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending responses: %w", err)
	}
	defer rows.Close()

	pending := []types.PendingResponse{}
	for rows.Next() {
		var (
			pk, conv int64
			subject  sql.NullString
			sender   sql.NullString
			received int64
		)
		if err := rows.Scan(&pk, &conv, &subject, &sender, &received); err != nil {
			return nil, fmt.Errorf("failed to scan pending response: %w", err)
		}
		pending = append(pending, types.PendingResponse{
			MessagePk:      pk,
			ConversationPk: conv,
			Subject:        orEmpty(subject, "(no subject)"),
			Sender:         orEmpty(sender, "Unknown"),
			ReceivedDate:   formatUnix(received),
			DaysWaiting:    int(now.Unix()-received) / 86400,
		})
	}
	return pending, rows.Err()
}
