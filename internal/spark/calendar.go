package spark

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/brandon/mcp-spark/pkg/types"
)

// ListEvents lists upcoming events within a forward window, soonest first,
// with the true filtered total. Timestamps render in local time at query
// time.
func (s *Store) ListEvents(daysAhead, limit int) (*types.EventList, error) {
	if daysAhead <= 0 {
		daysAhead = 1
	}
	if limit <= 0 {
		limit = 20
	}

	conn, err := s.openCalendar()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	now := s.now()
	from := now.Unix()
	to := now.AddDate(0, 0, daysAhead).Unix()

	var total int
	err = conn.QueryRow(`
		SELECT COUNT(*) FROM events
		WHERE startDate >= ? AND startDate <= ? AND status != 'cancelled'
	`, from, to).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	rows, err := conn.Query(`
		SELECT pk, summary, description, startDate, endDate, location, allDay, status, conferenceLink, organizer
		FROM events
		WHERE startDate >= ? AND startDate <= ? AND status != 'cancelled'
		ORDER BY startDate ASC
		LIMIT ?
	`, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []types.Event{}
	var pks []int64
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
		pks = append(pks, ev.EventPk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	attendees, err := attendeesFor(conn, pks)
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Attendees = attendees[events[i].EventPk]
	}

	return &types.EventList{Events: events, Total: total}, nil
}

// GetEventDetails fetches one event with its attendees; nil when absent.
func (s *Store) GetEventDetails(pk int64) (*types.Event, error) {
	conn, err := s.openCalendar()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return getEvent(conn, pk)
}

func getEvent(conn *sql.DB, pk int64) (*types.Event, error) {
	row := conn.QueryRow(`
		SELECT pk, summary, description, startDate, endDate, location, allDay, status, conferenceLink, organizer
		FROM events
		WHERE pk = ?
	`, pk)

	ev, err := scanEventRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	attendees, err := attendeesFor(conn, []int64{pk})
	if err != nil {
		return nil, err
	}
	ev.Attendees = attendees[pk]
	return &ev, nil
}

// eventWindow carries raw epochs alongside the rendered event; prep
// classification needs the numbers, not the display strings.
type eventWindow struct {
	ev    types.Event
	start int64
	end   int64
}

// FindEventsNeedingPrep flags upcoming events likely requiring
// preparation: more than the threshold attendee count, a conference link,
// or a duration past the threshold.
func (s *Store) FindEventsNeedingPrep(hoursAhead, limit int) ([]types.PrepEvent, error) {
	if hoursAhead <= 0 {
		hoursAhead = 24
	}
	if limit <= 0 {
		limit = 20
	}

	conn, err := s.openCalendar()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	now := s.now()
	from := now.Unix()
	to := from + int64(hoursAhead)*3600

	rows, err := conn.Query(`
		SELECT pk, summary, description, startDate, endDate, location, allDay, status, conferenceLink, organizer
		FROM events
		WHERE startDate >= ? AND startDate <= ? AND status != 'cancelled'
		ORDER BY startDate ASC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming events: %w", err)
	}

	var windows []eventWindow
	var pks []int64
	for rows.Next() {
		w, err := scanEventWindow(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		windows = append(windows, w)
		pks = append(pks, w.ev.EventPk)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read upcoming events: %w", err)
	}

	attendees, err := attendeesFor(conn, pks)
	if err != nil {
		return nil, err
	}

	prep := []types.PrepEvent{}
	for _, w := range windows {
		att := attendees[w.ev.EventPk]
		duration := w.end - w.start
		needsPrep := len(att) > s.heur.PrepMinAttendees ||
			w.ev.HasConferenceLink ||
			duration > int64(s.heur.PrepMinDuration.Seconds())
		if !needsPrep {
			continue
		}

		w.ev.Attendees = att
		hoursUntil := float64(w.start-now.Unix()) / 3600
		prep = append(prep, types.PrepEvent{
			Event:           w.ev,
			AttendeeCount:   len(att),
			DurationMinutes: int(duration / 60),
			HoursUntilStart: math.Round(hoursUntil*10) / 10,
		})
		if len(prep) >= limit {
			break
		}
	}
	return prep, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEventFields(r rowScanner) (eventWindow, error) {
	var (
		pk             int64
		summary        sql.NullString
		description    sql.NullString
		start, end     int64
		location       sql.NullString
		allDay         int
		status         sql.NullString
		conferenceLink sql.NullString
		organizer      sql.NullString
	)
	if err := r.Scan(&pk, &summary, &description, &start, &end, &location, &allDay, &status, &conferenceLink, &organizer); err != nil {
		return eventWindow{}, err
	}
	return eventWindow{
		ev: types.Event{
			EventPk:           pk,
			Summary:           orEmpty(summary, "Untitled"),
			Description:       description.String,
			StartDate:         formatLocal(start),
			EndDate:           formatLocal(end),
			Location:          location.String,
			AllDay:            allDay == 1,
			Status:            orEmpty(status, "confirmed"),
			HasConferenceLink: conferenceLink.Valid && conferenceLink.String != "",
			Organizer:         organizer.String,
		},
		start: start,
		end:   end,
	}, nil
}

func scanEvent(rows *sql.Rows) (types.Event, error) {
	w, err := scanEventFields(rows)
	if err != nil {
		return types.Event{}, fmt.Errorf("failed to scan event: %w", err)
	}
	return w.ev, nil
}

func scanEventRow(row *sql.Row) (types.Event, error) {
	w, err := scanEventFields(row)
	if err != nil {
		return types.Event{}, err
	}
	return w.ev, nil
}

func scanEventWindow(rows *sql.Rows) (eventWindow, error) {
	w, err := scanEventFields(rows)
	if err != nil {
		return eventWindow{}, fmt.Errorf("failed to scan event: %w", err)
	}
	return w, nil
}

// attendeesFor batch fetches attendees for a pk set.
func attendeesFor(conn *sql.DB, pks []int64) (map[int64][]types.Attendee, error) {
	out := make(map[int64][]types.Attendee)
	if len(pks) == 0 {
		return out, nil
	}

	query := fmt.Sprintf(`
		SELECT eventPk, name, email, status, role
		FROM attendees
		WHERE eventPk IN (%s)
		ORDER BY eventPk, email
	`, inPlaceholders(len(pks)))

	rows, err := conn.Query(query, int64Args(pks)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			eventPk int64
			name    sql.NullString
			email   sql.NullString
			status  sql.NullString
			role    sql.NullString
		)
		if err := rows.Scan(&eventPk, &name, &email, &status, &role); err != nil {
			return nil, fmt.Errorf("failed to scan attendee: %w", err)
		}
		out[eventPk] = append(out[eventPk], types.Attendee{
			Name:   name.String,
			Email:  email.String,
			Status: status.String,
			Role:   role.String,
		})
	}
	return out, rows.Err()
}
