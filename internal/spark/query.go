package spark

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"
)

// Transcript partition predicates. The partition is query-time policy, not
// schema: every email path excludes the marker, every transcript path
// requires it.
const (
	isTranscript  = "meta LIKE '%mtid%'"
	notTranscript = "(meta IS NULL OR meta NOT LIKE '%mtid%')"
)

// whereClause joins accumulated predicate fragments. An empty set yields an
// empty clause, never a tautological placeholder.
func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conditions, " AND ")
}

// inPlaceholders returns a ?,?,... list sized for an IN predicate.
func inPlaceholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func int64Args(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// joinOrdered merges a driving ordered id list with rows batch-fetched from
// the complementary database. Ids missing from the map are dropped
// silently: the two stores are separate files and are not transactionally
// consistent with each other.
func joinOrdered[T any](order []int64, byPk map[int64]T) []T {
	out := make([]T, 0, len(order))
	for _, pk := range order {
		if row, ok := byPk[pk]; ok {
			out = append(out, row)
		}
	}
	return out
}

// messageMeta is the transcript-bearing slice of the message meta blob.
// The blob is foreign production data; unknown keys are ignored and a
// malformed blob decodes to the zero value.
type messageMeta struct {
	TranscriptID   string  `json:"mtid"`
	MeetingStartMs int64   `json:"mtsd"`
	MeetingEndMs   int64   `json:"mted"`
	EventSummary   *string `json:"mtes"`
	Language       *string `json:"mtsl"`
	Status         bool    `json:"mtss"`
	AutoProcessed  bool    `json:"mtsap"`
	Kept           int     `json:"mtskp"`
}

func parseMeta(raw sql.NullString) messageMeta {
	var m messageMeta
	if !raw.Valid || raw.String == "" {
		return m
	}
	if err := json.Unmarshal([]byte(raw.String), &m); err != nil {
		return messageMeta{}
	}
	return m
}

// formatUnix renders a stored unix timestamp the way sqlite's
// datetime(..., 'unixepoch') does.
func formatUnix(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04:05")
}

// formatLocal renders a calendar timestamp in local time; display
// conversion happens at query time, not storage time.
func formatLocal(ts int64) string {
	return time.Unix(ts, 0).In(time.Local).Format("2006-01-02 15:04:05")
}

// msToISO converts a millisecond epoch to an ISO timestamp, nil for zero.
func msToISO(ms int64) *string {
	if ms == 0 {
		return nil
	}
	s := time.Unix(ms/1000, (ms%1000)*int64(time.Millisecond)).Format("2006-01-02T15:04:05")
	return &s
}

// parseDate accepts an ISO date or timestamp filter argument.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// orEmpty maps NULLable text columns to their display fallback.
func orEmpty(ns sql.NullString, fallback string) string {
	if ns.Valid && ns.String != "" {
		return ns.String
	}
	return fallback
}
