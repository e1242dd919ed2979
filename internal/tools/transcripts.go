package tools

import (
	"fmt"

	"github.com/brandon/mcp-spark/internal/spark"
)

// transcriptTools covers the meeting-transcript surface of the message
// store.
func (r *Registry) transcriptTools() []Tool {
	return []Tool{
		newTool(
			"list_meeting_transcripts",
			"List recent meeting transcripts",
			objectSchema(map[string]interface{}{
				"limit": propDefault("number", "Max results", 20),
			}),
			func(params map[string]interface{}) (interface{}, error) {
				return r.store.ListTranscripts(spark.TranscriptListOptions{
					Limit:    intArg(params, "limit", 20),
					OnlyKept: true,
				})
			},
		),
		newTool(
			"get_meeting_transcript",
			"Get full transcript by ID",
			objectSchema(map[string]interface{}{
				"messagePk": prop("number", "Message ID"),
			}, "messagePk"),
			func(params map[string]interface{}) (interface{}, error) {
				pk, ok := int64Arg(params, "messagePk")
				if !ok {
					return nil, fmt.Errorf("messagePk required")
				}
				transcript, err := r.store.GetTranscript(pk, "")
				if err != nil {
					return nil, err
				}
				if transcript == nil {
					return Text("Transcript not found"), nil
				}
				return transcript, nil
			},
		),
		newTool(
			"search_meeting_transcripts",
			"Search transcript content",
			objectSchema(map[string]interface{}{
				"query": prop("string", "Search terms"),
				"limit": propDefault("number", "Max results", 10),
			}, "query"),
			func(params map[string]interface{}) (interface{}, error) {
				query := strArg(params, "query")
				if query == "" {
					return nil, fmt.Errorf("query required")
				}
				return r.store.SearchTranscripts(spark.SearchTranscriptOptions{
					Query: query,
					Limit: intArg(params, "limit", 10),
				})
			},
		),
		newTool(
			"get_transcript_statistics",
			"Get transcript stats",
			objectSchema(map[string]interface{}{}),
			func(params map[string]interface{}) (interface{}, error) {
				return r.store.GetStatistics()
			},
		),
	}
}
