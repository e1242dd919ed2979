package tools

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-spark/internal/config"
	"github.com/brandon/mcp-spark/internal/pdf"
	"github.com/brandon/mcp-spark/internal/spark"
)

// Registry manages MCP tools
type Registry struct {
	config *config.Config
	store  *spark.Store
	pdf    *pdf.Operations
	logger *logrus.Logger
	tools  map[string]Tool
}

// Tool represents an MCP tool
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]interface{}
	Execute(params map[string]interface{}) (interface{}, error)
}

// Text is a tool result delivered to the client verbatim instead of as
// JSON, used for lookup misses and short notices.
type Text string

// NewRegistry creates a new tool registry
func NewRegistry(cfg *config.Config, store *spark.Store, pdfOps *pdf.Operations, logger *logrus.Logger) (*Registry, error) {
	reg := &Registry{
		config: cfg,
		store:  store,
		pdf:    pdfOps,
		logger: logger,
		tools:  make(map[string]Tool),
	}

	reg.registerTools()

	return reg, nil
}

// registerTools registers all available tools
func (r *Registry) registerTools() {
	var toolList []Tool
	toolList = append(toolList, r.transcriptTools()...)
	toolList = append(toolList, r.emailTools()...)
	toolList = append(toolList, r.calendarTools()...)
	toolList = append(toolList, r.attachmentTools()...)
	toolList = append(toolList, r.pdfTools()...)
	toolList = append(toolList, r.templateTools()...)

	for _, tool := range toolList {
		r.tools[tool.Name()] = tool
		r.logger.WithField("tool", tool.Name()).Debug("Registered tool")
	}

	r.logger.WithField("count", len(r.tools)).Info("Registered tools")
}

// GetTool returns a tool by name
func (r *Registry) GetTool(name string) (Tool, bool) {
	tool, exists := r.tools[name]
	return tool, exists
}

// ListTools returns all registered tools
func (r *Registry) ListTools() []Tool {
	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	return tools
}

// GetToolDefinitions returns tool definitions for MCP
func (r *Registry) GetToolDefinitions() []map[string]interface{} {
	definitions := make([]map[string]interface{}, 0, len(r.tools))
	for _, tool := range r.tools {
		definitions = append(definitions, map[string]interface{}{
			"name":        tool.Name(),
			"description": tool.Description(),
			"inputSchema": tool.InputSchema(),
		})
	}
	return definitions
}

// handlerTool adapts a function to the Tool interface. Every tool here is
// a thin argument decoder over a store or PDF call, so one struct serves
// them all.
type handlerTool struct {
	name        string
	description string
	schema      map[string]interface{}
	handler     func(params map[string]interface{}) (interface{}, error)
}

func newTool(name, description string, schema map[string]interface{}, handler func(params map[string]interface{}) (interface{}, error)) *handlerTool {
	return &handlerTool{name: name, description: description, schema: schema, handler: handler}
}

// Name returns the tool name
func (t *handlerTool) Name() string { return t.name }

// Description returns the tool description
func (t *handlerTool) Description() string { return t.description }

// InputSchema returns the JSON schema for tool inputs
func (t *handlerTool) InputSchema() map[string]interface{} { return t.schema }

// Execute executes the tool
func (t *handlerTool) Execute(params map[string]interface{}) (interface{}, error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	return t.handler(params)
}

// schema and prop assemble JSON schemas the way MCP clients expect them.

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	s := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func propDefault(typ, description string, def interface{}) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description, "default": def}
}

// Argument coercion. MCP clients send numbers as float64 and sometimes as
// strings; tools accept both.

func strArg(params map[string]interface{}, key string) string {
	s, _ := params[key].(string)
	return s
}

func intArg(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func int64Arg(params map[string]interface{}, key string) (int64, bool) {
	switch v := params[key].(type) {
	case float64:
		return int64(v), true
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func floatArg(params map[string]interface{}, key string, def float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func floatPtr(params map[string]interface{}, key string) *float64 {
	switch v := params[key].(type) {
	case float64:
		return &v
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}

func boolArg(params map[string]interface{}, key string, def bool) bool {
	if b, ok := params[key].(bool); ok {
		return b
	}
	return def
}

func strMapArg(params map[string]interface{}, key string) map[string]string {
	raw, ok := params[key].(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func boolMapArg(params map[string]interface{}, key string) map[string]bool {
	raw, ok := params[key].(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]bool, len(raw))
	for k, v := range raw {
		if b, ok := v.(bool); ok {
			out[k] = b
		}
	}
	return out
}

func listArg(params map[string]interface{}, key string) []map[string]interface{} {
	raw, ok := params[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}
