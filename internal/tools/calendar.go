package tools

import (
	"fmt"
)

// calendarTools covers events plus the combined mail/calendar views.
func (r *Registry) calendarTools() []Tool {
	return []Tool{
		newTool(
			"list_events",
			"List calendar events",
			objectSchema(map[string]interface{}{
				"daysAhead": propDefault("number", "Days ahead", 1),
				"limit":     propDefault("number", "Max results", 20),
			}),
			func(params map[string]interface{}) (interface{}, error) {
				return r.store.ListEvents(intArg(params, "daysAhead", 1), intArg(params, "limit", 20))
			},
		),
		newTool(
			"get_event_details",
			"Get event details by ID",
			objectSchema(map[string]interface{}{
				"eventPk": prop("number", "Event ID"),
			}, "eventPk"),
			func(params map[string]interface{}) (interface{}, error) {
				pk, ok := int64Arg(params, "eventPk")
				if !ok {
					return nil, fmt.Errorf("eventPk required")
				}
				event, err := r.store.GetEventDetails(pk)
				if err != nil {
					return nil, err
				}
				if event == nil {
					return Text("Event not found"), nil
				}
				return event, nil
			},
		),
		newTool(
			"find_events_needing_prep",
			"Find events needing preparation",
			objectSchema(map[string]interface{}{
				"hoursAhead": propDefault("number", "Hours ahead", 24),
				"limit":      propDefault("number", "Max results", 20),
			}),
			func(params map[string]interface{}) (interface{}, error) {
				return r.store.FindEventsNeedingPrep(intArg(params, "hoursAhead", 24), intArg(params, "limit", 20))
			},
		),
		newTool(
			"get_daily_briefing",
			"Get today's briefing",
			objectSchema(map[string]interface{}{}),
			func(params map[string]interface{}) (interface{}, error) {
				return r.store.GetDailyBriefing()
			},
		),
		newTool(
			"find_context_for_meeting",
			"Find emails for meeting",
			objectSchema(map[string]interface{}{
				"eventPk":  prop("number", "Event ID"),
				"daysBack": propDefault("number", "Days back", 30),
			}, "eventPk"),
			func(params map[string]interface{}) (interface{}, error) {
				pk, ok := int64Arg(params, "eventPk")
				if !ok {
					return nil, fmt.Errorf("eventPk required")
				}
				context, err := r.store.FindContextForMeeting(pk, intArg(params, "daysBack", 30))
				if err != nil {
					return nil, err
				}
				if context == nil {
					return Text("Event not found"), nil
				}
				return context, nil
			},
		),
	}
}
