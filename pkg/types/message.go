package types

// TranscriptSummary is one row of a transcript listing.
type TranscriptSummary struct {
	MessagePk        int64   `json:"messagePk"`
	Subject          string  `json:"subject"`
	Sender           string  `json:"sender"`
	ReceivedDate     string  `json:"receivedDate"`
	MeetingStartDate *string `json:"meetingStartDate"`
	MeetingEndDate   *string `json:"meetingEndDate"`
	TranscriptID     string  `json:"transcriptId"`
	IsCalendarEvent  bool    `json:"isCalendarEvent"`
	EventSummary     *string `json:"eventSummary"`
	TextLength       int     `json:"textLength"`
	HasFullText      bool    `json:"hasFullText"`
}

// TranscriptList pairs a page of transcripts with the true filtered total.
type TranscriptList struct {
	Transcripts []TranscriptSummary `json:"transcripts"`
	Total       int                 `json:"total"`
}

// TranscriptMetadata holds the transcript-specific keys parsed out of the
// message meta blob.
type TranscriptMetadata struct {
	Language      *string `json:"language"`
	Status        bool    `json:"status"`
	AutoProcessed bool    `json:"autoProcessed"`
	IsKept        bool    `json:"isKept"`
	EventSummary  *string `json:"eventSummary"`
}

// Transcript is a full transcript with its indexed text.
type Transcript struct {
	MessagePk        int64              `json:"messagePk"`
	Subject          string             `json:"subject"`
	Sender           string             `json:"sender"`
	Recipients       string             `json:"recipients"`
	ReceivedDate     string             `json:"receivedDate"`
	MeetingStartDate *string            `json:"meetingStartDate"`
	MeetingEndDate   *string            `json:"meetingEndDate"`
	TranscriptID     string             `json:"transcriptId"`
	FullText         string             `json:"fullText"`
	Metadata         TranscriptMetadata `json:"metadata"`
}

// SearchHit is one full-text match joined back to its message row.
type SearchHit struct {
	MessagePk      int64   `json:"messagePk"`
	Subject        string  `json:"subject"`
	Sender         string  `json:"sender"`
	ReceivedDate   string  `json:"receivedDate"`
	Excerpt        string  `json:"excerpt"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// SearchResults pairs search hits with the post-join total.
type SearchResults struct {
	Results []SearchHit `json:"results"`
	Total   int         `json:"total"`
}

// EmailSummary is one row of an email listing.
type EmailSummary struct {
	MessagePk    int64  `json:"messagePk"`
	Subject      string `json:"subject"`
	Sender       string `json:"sender"`
	Recipients   string `json:"recipients"`
	ReceivedDate string `json:"receivedDate"`
	Unread       bool   `json:"unread"`
	Starred      bool   `json:"starred"`
}

// EmailList pairs a page of emails with the true filtered total.
type EmailList struct {
	Emails []EmailSummary `json:"emails"`
	Total  int            `json:"total"`
}

// Email is a full email with its indexed body text.
type Email struct {
	MessagePk    int64  `json:"messagePk"`
	Subject      string `json:"subject"`
	Sender       string `json:"sender"`
	Recipients   string `json:"recipients"`
	ReceivedDate string `json:"receivedDate"`
	Unread       bool   `json:"unread"`
	Starred      bool   `json:"starred"`
	Body         string `json:"body"`
}

// ActionItem is an email matched by the action-phrase search.
type ActionItem struct {
	MessagePk      int64   `json:"messagePk"`
	Subject        string  `json:"subject"`
	Sender         string  `json:"sender"`
	ReceivedDate   string  `json:"receivedDate"`
	Excerpt        string  `json:"excerpt"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// PendingResponse is an inbox email with no later sent reply in its thread.
type PendingResponse struct {
	MessagePk      int64  `json:"messagePk"`
	ConversationPk int64  `json:"conversationPk"`
	Subject        string `json:"subject"`
	Sender         string `json:"sender"`
	ReceivedDate   string `json:"receivedDate"`
	DaysWaiting    int    `json:"daysWaiting"`
}

// SenderCount is one entry of the top-senders statistic.
type SenderCount struct {
	Email string `json:"email"`
	Count int    `json:"count"`
}

// DateRange bounds a statistics result.
type DateRange struct {
	Earliest *string `json:"earliest"`
	Latest   *string `json:"latest"`
}

// TranscriptStatistics summarizes the transcript collection.
type TranscriptStatistics struct {
	TotalTranscripts   int           `json:"totalTranscripts"`
	CalendarMeetings   int           `json:"calendarMeetings"`
	AdHocMeetings      int           `json:"adHocMeetings"`
	KeptTranscripts    int           `json:"keptTranscripts"`
	DeletedTranscripts int           `json:"deletedTranscripts"`
	WithFullText       int           `json:"withFullText"`
	DateRange          DateRange     `json:"dateRange"`
	TopSenders         []SenderCount `json:"topSenders"`
}
