package tools

import (
	"fmt"

	"github.com/brandon/mcp-spark/internal/spark"
)

const listEmailsDescription = `List recent emails from a folder. PREFERRED for finding emails by sender or recent activity.

WHEN TO USE THIS vs search_emails:
- Use list_emails when looking for emails FROM a specific person (use sender filter)
- Use list_emails when looking for recent correspondence
- Use list_emails first to browse recent activity, then search_emails for specific content

This tool is more reliable than search_emails for finding threads by correspondent.`

const searchEmailsDescription = `Search email body content using SQLite FTS5 full-text search.

IMPORTANT - FTS5 BEHAVIOR:
- Multiple words are AND-ed: "Bittner NetApp" only matches if BOTH words appear in the email body
- This often FAILS for finding threads because names may be in headers/signatures, not body text
- If a multi-word search returns nothing, TRY EACH WORD SEPARATELY

SEARCH STRATEGY (do this in order):
1. First try list_emails with sender filter to find emails from a person
2. If searching for a topic/project, use a SINGLE distinctive keyword, not multiple words
3. If first search fails, try alternative terms (company name, project name, invoice number separately)
4. For phrases, use quotes: "exact phrase here"

EXAMPLES:
- Looking for "Bittner about NetApp"? First try list_emails with sender="bittner", OR search for just "NetApp"
- Looking for invoice #INV-123? Search for "INV-123" alone
- Multi-word searches like "John Smith project update" will likely fail - try "project update" or check sender="john.smith"`

// emailTools covers regular (non-transcript) mail.
func (r *Registry) emailTools() []Tool {
	return []Tool{
		newTool(
			"list_emails",
			listEmailsDescription,
			objectSchema(map[string]interface{}{
				"folder": propDefault("string", "inbox/sent/all", "inbox"),
				"sender": prop("string", "Filter by sender email or name (partial match)"),
				"limit":  propDefault("number", "Max results", 20),
			}),
			func(params map[string]interface{}) (interface{}, error) {
				folder := strArg(params, "folder")
				if folder == "" {
					folder = "inbox"
				}
				return r.store.ListEmails(spark.EmailListOptions{
					Folder: folder,
					Sender: strArg(params, "sender"),
					Limit:  intArg(params, "limit", 20),
				})
			},
		),
		newTool(
			"search_emails",
			searchEmailsDescription,
			objectSchema(map[string]interface{}{
				"query": prop("string", "Search terms. Use single keywords for best results. Multiple words are AND-ed together."),
				"limit": propDefault("number", "Max results", 10),
			}, "query"),
			func(params map[string]interface{}) (interface{}, error) {
				query := strArg(params, "query")
				if query == "" {
					return nil, fmt.Errorf("query required")
				}
				return r.store.SearchEmails(query, intArg(params, "limit", 10))
			},
		),
		newTool(
			"get_email",
			"Get full email by ID",
			objectSchema(map[string]interface{}{
				"messagePk": prop("number", "Message ID"),
			}, "messagePk"),
			func(params map[string]interface{}) (interface{}, error) {
				pk, ok := int64Arg(params, "messagePk")
				if !ok {
					return nil, fmt.Errorf("messagePk required")
				}
				email, err := r.store.GetEmail(pk)
				if err != nil {
					return nil, err
				}
				if email == nil {
					return Text("Email not found"), nil
				}
				return email, nil
			},
		),
		newTool(
			"find_action_items",
			"Find emails with todos",
			objectSchema(map[string]interface{}{
				"days":  propDefault("number", "Days back", 7),
				"limit": propDefault("number", "Max results", 20),
			}),
			func(params map[string]interface{}) (interface{}, error) {
				return r.store.FindActionItems(intArg(params, "days", 7), intArg(params, "limit", 20))
			},
		),
		newTool(
			"find_pending_responses",
			"Find emails needing replies",
			objectSchema(map[string]interface{}{
				"days":  propDefault("number", "Days back", 7),
				"limit": propDefault("number", "Max results", 20),
			}),
			func(params map[string]interface{}) (interface{}, error) {
				return r.store.FindPendingResponses(intArg(params, "days", 7), intArg(params, "limit", 20))
			},
		),
	}
}
