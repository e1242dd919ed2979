package tools

import (
	"fmt"
)

// attachmentTools covers attachment metadata, local content, and search.
func (r *Registry) attachmentTools() []Tool {
	return []Tool{
		newTool(
			"list_attachments",
			"List attachments for an email",
			objectSchema(map[string]interface{}{
				"messagePk": prop("number", "Message ID"),
			}, "messagePk"),
			func(params map[string]interface{}) (interface{}, error) {
				pk, ok := int64Arg(params, "messagePk")
				if !ok {
					return nil, fmt.Errorf("messagePk required")
				}
				return r.store.ListAttachments(pk)
			},
		),
		newTool(
			"get_attachment",
			"Get attachment content with text extraction for PDFs/docs",
			objectSchema(map[string]interface{}{
				"messagePk":       prop("number", "Message ID"),
				"attachmentIndex": propDefault("number", "Attachment index (0-based)", 0),
				"extractText":     propDefault("boolean", "Extract text from PDFs/docs", true),
			}, "messagePk"),
			func(params map[string]interface{}) (interface{}, error) {
				pk, ok := int64Arg(params, "messagePk")
				if !ok {
					return nil, fmt.Errorf("messagePk required")
				}
				content, err := r.store.GetAttachment(pk, intArg(params, "attachmentIndex", 0), boolArg(params, "extractText", true))
				if err != nil {
					return nil, err
				}
				if content == nil {
					return Text("Attachment not found"), nil
				}
				return content, nil
			},
		),
		newTool(
			"search_attachments",
			"Search for emails with attachments",
			objectSchema(map[string]interface{}{
				"filename": prop("string", "Filename pattern (use * as wildcard)"),
				"mimeType": prop("string", "MIME type filter (e.g., application/pdf)"),
				"limit":    propDefault("number", "Max results", 20),
			}),
			func(params map[string]interface{}) (interface{}, error) {
				return r.store.SearchAttachments(strArg(params, "filename"), strArg(params, "mimeType"), intArg(params, "limit", 20))
			},
		),
	}
}
