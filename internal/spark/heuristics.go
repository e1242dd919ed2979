package spark

import "time"

// Heuristics gathers the tunable classification policy used by the derived
// queries. The values are policy, not physics; defaults match long-standing
// behavior and tests exercise the boundaries directly.
type Heuristics struct {
	// ActionPhrases is the disjunction of triggers for action-item
	// detection, run against the full-text index.
	ActionPhrases []string

	// PrepMinAttendees: an event qualifies for prep when it has more than
	// this many attendees.
	PrepMinAttendees int

	// PrepMinDuration: an event qualifies for prep when it runs longer
	// than this.
	PrepMinDuration time.Duration

	// Briefing windows.
	BriefingUnreadLimit int
	BriefingActionDays  int
	BriefingPendingDays int
	BriefingPrepHours   int

	// ContextEmailCap bounds find_context_for_meeting results.
	ContextEmailCap int
}

// DefaultHeuristics returns the stock policy.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		ActionPhrases: []string{
			"todo",
			"action item",
			"please review",
			"need to",
			"can you",
			"could you",
			"deadline",
			"urgent",
			"waiting for",
		},
		PrepMinAttendees:    1,
		PrepMinDuration:     30 * time.Minute,
		BriefingUnreadLimit: 10,
		BriefingActionDays:  3,
		BriefingPendingDays: 7,
		BriefingPrepHours:   24,
		ContextEmailCap:     20,
	}
}
