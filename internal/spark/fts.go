package spark

import (
	"database/sql"
	"fmt"
	"strings"
)

// ftsHit is one ranked row from the full-text index, before the
// application-side join back to the message store.
type ftsHit struct {
	messagePk int64
	excerpt   string
	score     float64
}

// escapeFTS escapes quotes in caller-supplied search terms before they are
// bound to a MATCH expression. Internally built expressions (the action
// phrase disjunction) bypass this.
func escapeFTS(query string) string {
	q := strings.ReplaceAll(query, "\"", "\"\"")
	return strings.ReplaceAll(q, "'", "''")
}

// ftsQuery runs a MATCH against the index, rank order. With context, the
// excerpt is a highlighted snippet; without, the raw indexed body.
func (s *Store) ftsQuery(match string, limit int, withContext bool) ([]ftsHit, error) {
	conn, err := s.openSearch()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var stmt string
	if withContext {
		stmt = `
			SELECT messagePk, snippet(messagesfts, 1, '<mark>', '</mark>', '...', 64), rank
			FROM messagesfts
			WHERE searchBody MATCH ?
			ORDER BY rank
			LIMIT ?
		`
	} else {
		stmt = `
			SELECT messagePk, searchBody, rank
			FROM messagesfts
			WHERE searchBody MATCH ?
			ORDER BY rank
			LIMIT ?
		`
	}

	rows, err := conn.Query(stmt, match, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to run full-text search: %w", err)
	}
	defer rows.Close()

	var hits []ftsHit
	for rows.Next() {
		var (
			pk      int64
			excerpt sql.NullString
			rank    float64
		)
		if err := rows.Scan(&pk, &excerpt, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan search hit: %w", err)
		}
		// FTS5 rank is more negative for better matches; flip so higher
		// means more relevant.
		hits = append(hits, ftsHit{messagePk: pk, excerpt: excerpt.String, score: -rank})
	}
	return hits, rows.Err()
}

// actionPhraseQuery builds the fixed phrase disjunction for action-item
// detection.
func actionPhraseQuery(phrases []string) string {
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = fmt.Sprintf("\"%s\"", p)
	}
	return strings.Join(quoted, " OR ")
}
