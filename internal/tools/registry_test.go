package tools

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon/mcp-spark/internal/config"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	reg, err := NewRegistry(&config.Config{SearchResultLimit: 100}, nil, nil, logger)
	require.NoError(t, err)
	return reg
}

func TestRegistryRegistersAllTools(t *testing.T) {
	reg := testRegistry(t)

	names := []string{
		"list_meeting_transcripts", "get_meeting_transcript",
		"search_meeting_transcripts", "get_transcript_statistics",
		"list_emails", "search_emails", "get_email",
		"find_action_items", "find_pending_responses",
		"list_events", "get_event_details", "find_events_needing_prep",
		"get_daily_briefing", "find_context_for_meeting",
		"list_attachments", "get_attachment", "search_attachments",
		"get_pdf_form_fields", "fill_pdf_form", "sign_pdf",
		"fill_and_sign_pdf", "annotate_pdf", "get_pdf_layout",
		"save_pdf_template", "list_pdf_templates", "delete_pdf_template",
		"fill_from_template",
	}
	assert.Len(t, reg.ListTools(), len(names))

	for _, name := range names {
		tool, ok := reg.GetTool(name)
		require.True(t, ok, name)
		assert.Equal(t, name, tool.Name())
		assert.NotEmpty(t, tool.Description(), name)
		assert.Equal(t, "object", tool.InputSchema()["type"], name)
	}

	_, ok := reg.GetTool("unknown_tool")
	assert.False(t, ok)
}

func TestGetToolDefinitions(t *testing.T) {
	reg := testRegistry(t)

	defs := reg.GetToolDefinitions()
	assert.Len(t, defs, len(reg.ListTools()))
	for _, def := range defs {
		assert.Contains(t, def, "name")
		assert.Contains(t, def, "description")
		assert.Contains(t, def, "inputSchema")
	}
}

// Required-argument checks run before any store or PDF access, so a
// registry with nil backends exercises them.
func TestRequiredArguments(t *testing.T) {
	reg := testRegistry(t)

	cases := map[string]string{
		"get_meeting_transcript":     "messagePk required",
		"search_meeting_transcripts": "query required",
		"search_emails":              "query required",
		"get_email":                  "messagePk required",
		"get_event_details":          "eventPk required",
		"find_context_for_meeting":   "eventPk required",
		"list_attachments":           "messagePk required",
		"get_attachment":             "messagePk required",
		"get_pdf_form_fields":        "filePath required",
		"fill_pdf_form":              "filePath required",
		"sign_pdf":                   "filePath required",
		"fill_and_sign_pdf":          "filePath required",
		"annotate_pdf":               "filePath required",
		"get_pdf_layout":             "filePath required",
		"save_pdf_template":          "templateName required",
		"delete_pdf_template":        "templateName required",
		"fill_from_template":         "filePath required",
	}
	for name, want := range cases {
		tool, ok := reg.GetTool(name)
		require.True(t, ok, name)

		_, err := tool.Execute(nil)
		require.Error(t, err, name)
		assert.EqualError(t, err, want, name)
	}
}

func TestFillPDFFormRequiresValues(t *testing.T) {
	reg := testRegistry(t)
	tool, _ := reg.GetTool("fill_pdf_form")

	_, err := tool.Execute(map[string]interface{}{"filePath": "/tmp/x.pdf"})
	assert.EqualError(t, err, "fields or checkboxes required")
}

func TestAnnotatePDFRequiresAnnotations(t *testing.T) {
	reg := testRegistry(t)
	tool, _ := reg.GetTool("annotate_pdf")

	_, err := tool.Execute(map[string]interface{}{"filePath": "/tmp/x.pdf"})
	assert.EqualError(t, err, "annotations required")
}

func TestArgumentCoercion(t *testing.T) {
	params := map[string]interface{}{
		"count":      float64(7),
		"countStr":   "9",
		"bad":        "nope",
		"pk":         float64(42),
		"pkStr":      "43",
		"width":      float64(1.5),
		"widthStr":   "2.5",
		"flag":       true,
		"name":       "inbox",
		"fields":     map[string]interface{}{"a": "1", "n": float64(2)},
		"checkboxes": map[string]interface{}{"x": true, "s": "true"},
		"items":      []interface{}{map[string]interface{}{"k": "v"}, "skipped"},
	}

	assert.Equal(t, 7, intArg(params, "count", 0))
	assert.Equal(t, 9, intArg(params, "countStr", 0))
	assert.Equal(t, 5, intArg(params, "bad", 5))
	assert.Equal(t, 5, intArg(params, "absent", 5))

	pk, ok := int64Arg(params, "pk")
	assert.True(t, ok)
	assert.Equal(t, int64(42), pk)
	pk, ok = int64Arg(params, "pkStr")
	assert.True(t, ok)
	assert.Equal(t, int64(43), pk)
	_, ok = int64Arg(params, "absent")
	assert.False(t, ok)

	assert.InDelta(t, 1.5, floatArg(params, "width", 0), 0.001)
	assert.InDelta(t, 2.5, floatArg(params, "widthStr", 0), 0.001)
	assert.InDelta(t, 3.0, floatArg(params, "absent", 3.0), 0.001)

	require.NotNil(t, floatPtr(params, "width"))
	assert.Nil(t, floatPtr(params, "absent"))

	assert.True(t, boolArg(params, "flag", false))
	assert.True(t, boolArg(params, "absent", true))

	assert.Equal(t, "inbox", strArg(params, "name"))
	assert.Empty(t, strArg(params, "absent"))

	// Map coercion keeps only entries of the right type.
	assert.Equal(t, map[string]string{"a": "1"}, strMapArg(params, "fields"))
	assert.Equal(t, map[string]bool{"x": true}, boolMapArg(params, "checkboxes"))
	assert.Nil(t, strMapArg(params, "absent"))

	items := listArg(params, "items")
	require.Len(t, items, 1)
	assert.Equal(t, "v", items[0]["k"])
}

func TestExecuteNilParams(t *testing.T) {
	called := false
	tool := newTool("t", "d", objectSchema(nil), func(params map[string]interface{}) (interface{}, error) {
		called = true
		assert.NotNil(t, params)
		return Text("ok"), nil
	})

	res, err := tool.Execute(nil)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, Text("ok"), res)
}
