package types

// Attendee is one participant of a calendar event.
type Attendee struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
	Role   string `json:"role"`
}

// Event is one calendar occurrence rendered in local time.
type Event struct {
	EventPk           int64      `json:"eventPk"`
	Summary           string     `json:"summary"`
	Description       string     `json:"description,omitempty"`
	StartDate         string     `json:"startDate"`
	EndDate           string     `json:"endDate"`
	Location          string     `json:"location,omitempty"`
	AllDay            bool       `json:"allDay"`
	Status            string     `json:"status"`
	HasConferenceLink bool       `json:"hasConferenceLink"`
	Organizer         string     `json:"organizer"`
	Attendees         []Attendee `json:"attendees,omitempty"`
}

// EventList pairs a page of events with the true filtered total.
type EventList struct {
	Events []Event `json:"events"`
	Total  int     `json:"total"`
}

// PrepEvent is an upcoming event flagged as likely needing preparation.
type PrepEvent struct {
	Event
	AttendeeCount   int     `json:"attendeeCount"`
	DurationMinutes int     `json:"durationMinutes"`
	HoursUntilStart float64 `json:"hoursUntilStart"`
}

// DailyBriefing is the fixed composition returned by get_daily_briefing.
type DailyBriefing struct {
	Date              string            `json:"date"`
	TodaysEvents      []Event           `json:"todaysEvents"`
	UnreadEmails      []EmailSummary    `json:"unreadEmails"`
	ActionItems       []ActionItem      `json:"actionItems"`
	PendingResponses  []PendingResponse `json:"pendingResponses"`
	EventsNeedingPrep []PrepEvent       `json:"eventsNeedingPrep"`
}

// MeetingContext pairs an event with recent correspondence from its
// participants.
type MeetingContext struct {
	Event         Event          `json:"event"`
	Participants  []string       `json:"participants"`
	RelatedEmails []EmailSummary `json:"relatedEmails"`
	DaysBack      int            `json:"daysBack"`
}
