package spark

import (
	"fmt"
	"strings"

	"github.com/brandon/mcp-spark/pkg/types"
)

// GetDailyBriefing assembles the fixed daily composition by calling each
// primitive with its stock parameters. No additional fusion happens here.
func (s *Store) GetDailyBriefing() (*types.DailyBriefing, error) {
	events, err := s.ListEvents(1, 20)
	if err != nil {
		return nil, fmt.Errorf("briefing events: %w", err)
	}

	unread, err := s.listUnreadInbox(s.heur.BriefingUnreadLimit)
	if err != nil {
		return nil, fmt.Errorf("briefing unread: %w", err)
	}

	actions, err := s.FindActionItems(s.heur.BriefingActionDays, 20)
	if err != nil {
		return nil, fmt.Errorf("briefing action items: %w", err)
	}

	pending, err := s.FindPendingResponses(s.heur.BriefingPendingDays, 20)
	if err != nil {
		return nil, fmt.Errorf("briefing pending responses: %w", err)
	}

	prep, err := s.FindEventsNeedingPrep(s.heur.BriefingPrepHours, 20)
	if err != nil {
		return nil, fmt.Errorf("briefing prep events: %w", err)
	}

	return &types.DailyBriefing{
		Date:              s.now().Format("2006-01-02"),
		TodaysEvents:      events.Events,
		UnreadEmails:      unread,
		ActionItems:       actions,
		PendingResponses:  pending,
		EventsNeedingPrep: prep,
	}, nil
}

func (s *Store) listUnreadInbox(limit int) ([]types.EmailSummary, error) {
	conn, err := s.openMessages()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.Query(fmt.Sprintf(`
		SELECT pk, subject, messageFrom, messageTo, receivedDate, unread, starred
		FROM messages
		WHERE inbox = 1 AND unread = 1 AND %s
		ORDER BY receivedDate DESC
		LIMIT ?
	`, notTranscript), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unread inbox: %w", err)
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
	return emails, rows.Err()
}

// FindContextForMeeting collects correspondence from an event's
// participants within a trailing window, newest first, capped.
func (s *Store) FindContextForMeeting(eventPk int64, daysBack int) (*types.MeetingContext, error) {
	if daysBack <= 0 {
		daysBack = 30
	}

	cal, err := s.openCalendar()
	if err != nil {
		return nil, err
	}
	ev, err := getEvent(cal, eventPk)
	cal.Close()
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, nil
	}

	// Participant address set: attendees plus organizer, de-duplicated.
	seen := make(map[string]bool)
	participants := []string{}
	add := func(addr string) {
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr == "" || seen[addr] {
			return
		}
		seen[addr] = true
		participants = append(participants, addr)
	}
	for _, a := range ev.Attendees {
		add(a.Email)
	}
	add(ev.Organizer)

	related := []types.EmailSummary{}
	if len(participants) > 0 {
		related, err = s.emailsFromSenders(participants, daysBack, s.heur.ContextEmailCap)
		if err != nil {
			return nil, err
		}
	}

	return &types.MeetingContext{
		Event:         *ev,
		Participants:  participants,
		RelatedEmails: related,
		DaysBack:      daysBack,
	}, nil
}

// emailsFromSenders lists non-transcript messages whose sender matches any
// of the addresses within the trailing window, newest first.
func (s *Store) emailsFromSenders(addresses []string, daysBack, limit int) ([]types.EmailSummary, error) {
	conn, err := s.openMessages()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	conditions := []string{notTranscript, "receivedDate >= ?"}
	args := []interface{}{s.now().AddDate(0, 0, -daysBack).Unix()}

	matches := make([]string, len(addresses))
	for i, addr := range addresses {
		matches[i] = "messageFrom LIKE ?"
		args = append(args, "%"+addr+"%")
	}
	conditions = append(conditions, "("+strings.Join(matches, " OR ")+")")

	query := fmt.Sprintf(`
		SELECT pk, subject, messageFrom, messageTo, receivedDate, unread, starred
		FROM messages
		%s
		ORDER BY receivedDate DESC
		LIMIT ?
	`, whereClause(conditions))
	args = append(args, limit)

	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participant emails: %w", err)
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
	return emails, rows.Err()
}
