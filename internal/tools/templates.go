package tools

import (
	"fmt"

	"github.com/brandon/mcp-spark/pkg/types"
)

func templateFieldSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"fieldName": prop("string", "Name for this field (e.g., 'name', 'address')"),
			"page":      prop("number", "Page number (1-indexed, -1 for last)"),
			"x":         prop("number", "X position in points"),
			"y":         prop("number", "Y position in points from bottom"),
			"fontSize":  propDefault("number", "Font size", 12),
			"type": map[string]interface{}{
				"type":    "string",
				"enum":    []string{"text", "signature", "date"},
				"default": "text",
			},
			"width": propDefault("number", "Width for signature fields", 150),
		},
		"required": []string{"fieldName", "page", "x", "y"},
	}
}

func decodeTemplateFields(items []map[string]interface{}) []types.TemplateField {
	fields := make([]types.TemplateField, 0, len(items))
	for _, m := range items {
		fieldType := strArg(m, "type")
		if fieldType == "" {
			fieldType = "text"
		}
		fields = append(fields, types.TemplateField{
			FieldName: strArg(m, "fieldName"),
			Page:      intArg(m, "page", -1),
			X:         floatArg(m, "x", 0),
			Y:         floatArg(m, "y", 0),
			FontSize:  floatArg(m, "fontSize", 0),
			Type:      fieldType,
			Width:     floatArg(m, "width", 0),
		})
	}
	return fields
}

// templateTools covers saved fill templates and their replay.
func (r *Registry) templateTools() []Tool {
	return []Tool{
		newTool(
			"save_pdf_template",
			"Save a reusable template for filling PDFs with annotations",
			objectSchema(map[string]interface{}{
				"templateName": prop("string", "Name for the template (e.g., 'protective_order')"),
				"fields": map[string]interface{}{
					"type":        "array",
					"description": "List of field definitions",
					"items":       templateFieldSchema(),
				},
				"description": prop("string", "Description of the template"),
			}, "templateName", "fields"),
			func(params map[string]interface{}) (interface{}, error) {
				name := strArg(params, "templateName")
				if name == "" {
					return nil, fmt.Errorf("templateName required")
				}
				fields := decodeTemplateFields(listArg(params, "fields"))
				if len(fields) == 0 {
					return nil, fmt.Errorf("fields required")
				}
				return r.pdf.Templates.Save(types.Template{
					Name:        name,
					Description: strArg(params, "description"),
					Fields:      fields,
				})
			},
		),
		newTool(
			"list_pdf_templates",
			"List all saved PDF templates",
			objectSchema(map[string]interface{}{}),
			func(params map[string]interface{}) (interface{}, error) {
				return r.pdf.Templates.List()
			},
		),
		newTool(
			"delete_pdf_template",
			"Delete a saved PDF template",
			objectSchema(map[string]interface{}{
				"templateName": prop("string", "Name of template to delete"),
			}, "templateName"),
			func(params map[string]interface{}) (interface{}, error) {
				name := strArg(params, "templateName")
				if name == "" {
					return nil, fmt.Errorf("templateName required")
				}
				return r.pdf.Templates.Delete(name)
			},
		),
		newTool(
			"fill_from_template",
			"Fill a PDF using a saved template",
			objectSchema(map[string]interface{}{
				"filePath":           prop("string", "Path to source PDF"),
				"templateName":       prop("string", "Name of the saved template"),
				"values":             prop("object", "Field values (use 'auto' for date fields to insert current date)"),
				"sign":               propDefault("boolean", "Add signature to signature fields", false),
				"signatureImagePath": prop("string", "Path to signature image (optional)"),
				"outputPath":         prop("string", "Output path (default: output directory)"),
			}, "filePath", "templateName", "values"),
			func(params map[string]interface{}) (interface{}, error) {
				filePath := strArg(params, "filePath")
				if filePath == "" {
					return nil, fmt.Errorf("filePath required")
				}
				name := strArg(params, "templateName")
				if name == "" {
					return nil, fmt.Errorf("templateName required")
				}
				return r.pdf.FillFromTemplate(
					filePath,
					name,
					strMapArg(params, "values"),
					boolArg(params, "sign", false),
					strArg(params, "signatureImagePath"),
					strArg(params, "outputPath"),
				)
			},
		),
	}
}
