package tools

import (
	"fmt"

	"github.com/brandon/mcp-spark/internal/pdf"
)

// annotationItemSchema describes one freeform text placement.
func annotationItemSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"page":      prop("number", "Page number (1-indexed, -1 for last)"),
			"text":      prop("string", "Text to add"),
			"x":         prop("number", "X position in points from left"),
			"y":         prop("number", "Y position in points from bottom (PDF coords)"),
			"yFromTop":  prop("number", "Y position from top (preferred)"),
			"fontSize":  propDefault("number", "Font size", 12),
			"fontColor": propDefault("string", "Hex color (e.g., '000000')", "000000"),
		},
		"required": []string{"page", "text", "x"},
	}
}

func decodeAnnotations(items []map[string]interface{}) []pdf.Annotation {
	anns := make([]pdf.Annotation, 0, len(items))
	for _, m := range items {
		anns = append(anns, pdf.Annotation{
			Page:     intArg(m, "page", -1),
			Text:     strArg(m, "text"),
			X:        floatArg(m, "x", 0),
			Y:        floatArg(m, "y", 0),
			YFromTop: floatPtr(m, "yFromTop"),
			FontSize: floatArg(m, "fontSize", 0),
			Color:    strArg(m, "fontColor"),
		})
	}
	return anns
}

// pdfTools covers form fill, signing, annotation, and layout analysis.
func (r *Registry) pdfTools() []Tool {
	return []Tool{
		newTool(
			"get_pdf_form_fields",
			"List fillable form fields in a PDF",
			objectSchema(map[string]interface{}{
				"filePath": prop("string", "Path to PDF file"),
			}, "filePath"),
			func(params map[string]interface{}) (interface{}, error) {
				filePath := strArg(params, "filePath")
				if filePath == "" {
					return nil, fmt.Errorf("filePath required")
				}
				return r.pdf.GetFormFields(filePath)
			},
		),
		newTool(
			"fill_pdf_form",
			"Fill out form fields in a PDF and save",
			objectSchema(map[string]interface{}{
				"filePath":   prop("string", "Path to source PDF"),
				"fields":     prop("object", "Text field names mapped to string values"),
				"checkboxes": prop("object", "Checkbox field names mapped to boolean values"),
				"outputPath": prop("string", "Output path (default: output directory)"),
				"flatten":    propDefault("boolean", "Make fields non-editable", false),
			}, "filePath"),
			func(params map[string]interface{}) (interface{}, error) {
				filePath := strArg(params, "filePath")
				if filePath == "" {
					return nil, fmt.Errorf("filePath required")
				}
				fields := strMapArg(params, "fields")
				checkboxes := boolMapArg(params, "checkboxes")
				if len(fields) == 0 && len(checkboxes) == 0 {
					return nil, fmt.Errorf("fields or checkboxes required")
				}
				return r.pdf.FillForm(filePath, fields, checkboxes, strArg(params, "outputPath"), boolArg(params, "flatten", false))
			},
		),
		newTool(
			"sign_pdf",
			"Add signature image to a PDF (uses configured default signature if not specified)",
			objectSchema(map[string]interface{}{
				"filePath":           prop("string", "Path to source PDF"),
				"signatureImagePath": prop("string", "Path to signature image (optional, uses default)"),
				"page":               propDefault("number", "Page number (1-indexed, -1 for last)", -1),
				"x":                  prop("number", "X position in points"),
				"y":                  prop("number", "Y position in points from bottom"),
				"yFromTop":           prop("number", "Y position of signature LINE from top - signature bottom aligns here (preferred)"),
				"width":              propDefault("number", "Signature width in points", 150),
				"outputPath":         prop("string", "Output path (default: output directory)"),
			}, "filePath"),
			func(params map[string]interface{}) (interface{}, error) {
				filePath := strArg(params, "filePath")
				if filePath == "" {
					return nil, fmt.Errorf("filePath required")
				}
				return r.pdf.AddSignature(filePath, pdf.SignOptions{
					SignaturePath: strArg(params, "signatureImagePath"),
					Page:          intArg(params, "page", -1),
					X:             floatPtr(params, "x"),
					Y:             floatPtr(params, "y"),
					YFromTop:      floatPtr(params, "yFromTop"),
					Width:         floatArg(params, "width", 150),
					OutputPath:    strArg(params, "outputPath"),
				})
			},
		),
		newTool(
			"fill_and_sign_pdf",
			"Fill form fields and add signature in one step (uses configured default signature if not specified)",
			objectSchema(map[string]interface{}{
				"filePath":           prop("string", "Path to source PDF"),
				"signatureImagePath": prop("string", "Path to signature image (optional, uses default)"),
				"fields":             prop("object", "Text field names mapped to string values"),
				"checkboxes":         prop("object", "Checkbox field names mapped to boolean values"),
				"signatureField":     prop("string", "Form field name to place signature in (auto-positions)"),
				"page":               propDefault("number", "Signature page (1-indexed, -1 for last)", -1),
				"x":                  prop("number", "Signature X position in points from left"),
				"y":                  prop("number", "Signature Y position in points from bottom"),
				"yFromTop":           prop("number", "Y position of signature LINE from top - signature bottom aligns here (preferred)"),
				"width":              propDefault("number", "Signature width", 150),
				"outputPath":         prop("string", "Output path (default: output directory)"),
				"flatten":            propDefault("boolean", "Make fields non-editable", false),
				"textAnnotations": map[string]interface{}{
					"type":        "array",
					"description": "Text annotations for non-fillable blanks",
					"items":       annotationItemSchema(),
				},
			}, "filePath"),
			func(params map[string]interface{}) (interface{}, error) {
				filePath := strArg(params, "filePath")
				if filePath == "" {
					return nil, fmt.Errorf("filePath required")
				}
				return r.pdf.FillAndSign(filePath, pdf.FillSignOptions{
					Fields:         strMapArg(params, "fields"),
					Checkboxes:     boolMapArg(params, "checkboxes"),
					Annotations:    decodeAnnotations(listArg(params, "textAnnotations")),
					SignatureField: strArg(params, "signatureField"),
					Signature: pdf.SignOptions{
						SignaturePath: strArg(params, "signatureImagePath"),
						Page:          intArg(params, "page", -1),
						X:             floatPtr(params, "x"),
						Y:             floatPtr(params, "y"),
						YFromTop:      floatPtr(params, "yFromTop"),
						Width:         floatArg(params, "width", 150),
					},
					OutputPath: strArg(params, "outputPath"),
					Flatten:    boolArg(params, "flatten", false),
				})
			},
		),
		newTool(
			"annotate_pdf",
			"Add text annotations to any PDF at specified coordinates (works on PDFs without form fields)",
			objectSchema(map[string]interface{}{
				"filePath": prop("string", "Path to source PDF"),
				"annotations": map[string]interface{}{
					"type":        "array",
					"description": "List of text annotations to add",
					"items":       annotationItemSchema(),
				},
				"outputPath": prop("string", "Output path (default: output directory)"),
				"flatten":    propDefault("boolean", "Make annotations permanent", false),
			}, "filePath", "annotations"),
			func(params map[string]interface{}) (interface{}, error) {
				filePath := strArg(params, "filePath")
				if filePath == "" {
					return nil, fmt.Errorf("filePath required")
				}
				anns := decodeAnnotations(listArg(params, "annotations"))
				if len(anns) == 0 {
					return nil, fmt.Errorf("annotations required")
				}
				return r.pdf.Annotate(filePath, anns, strArg(params, "outputPath"), boolArg(params, "flatten", false))
			},
		),
		newTool(
			"get_pdf_layout",
			"Analyze PDF pages to find coordinates for annotations (helps position text on blank lines)",
			objectSchema(map[string]interface{}{
				"filePath":         prop("string", "Path to PDF file"),
				"page":             prop("number", "Specific page (1-indexed, -1 for last, omit for all)"),
				"detectBlankLines": propDefault("boolean", "Try to detect fill-in lines", true),
			}, "filePath"),
			func(params map[string]interface{}) (interface{}, error) {
				filePath := strArg(params, "filePath")
				if filePath == "" {
					return nil, fmt.Errorf("filePath required")
				}
				return r.pdf.GetLayout(filePath, intArg(params, "page", 0), boolArg(params, "detectBlankLines", true))
			},
		),
	}
}
