// Package extract turns attachment files into tool-friendly text. Every
// extractor catches its own failures and reports them as a bracketed
// message with the "error" content type; a broken attachment must never
// take down the enclosing tool call.
package extract

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/jhillyerd/enmime"
	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// Content types reported alongside extracted content.
const (
	TypeText   = "extracted_text"
	TypeBase64 = "base64"
	TypeError  = "error"
)

// Text extracts readable content from a file by MIME type. Unknown binary
// types fall through to base64. The file is expected to exist.
func Text(path, mimeType string) (string, string) {
	switch {
	case mimeType == "application/pdf":
		text, err := pdfText(path)
		if err != nil {
			return fmt.Sprintf("[PDF extraction failed: %v]", err), TypeError
		}
		return text, TypeText

	case mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		mimeType == "application/msword":
		text, err := docxText(path)
		if err != nil {
			return fmt.Sprintf("[Word document extraction failed: %v]", err), TypeError
		}
		return text, TypeText

	case mimeType == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		mimeType == "application/vnd.ms-excel":
		text, err := xlsxText(path)
		if err != nil {
			return fmt.Sprintf("[Excel extraction failed: %v]", err), TypeError
		}
		return text, TypeText

	case mimeType == "message/rfc822":
		text, err := emlText(path)
		if err != nil {
			return fmt.Sprintf("[Email extraction failed: %v]", err), TypeError
		}
		return text, TypeText

	case strings.HasPrefix(mimeType, "text/"),
		mimeType == "application/ics":
		text, err := textFile(path)
		if err != nil {
			return fmt.Sprintf("[Text file read failed: %v]", err), TypeError
		}
		return text, TypeText

	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Sprintf("[Failed to read file: %v]", err), TypeError
		}
		return base64.StdEncoding.EncodeToString(data), TypeBase64
	}
}

// pdfText extracts per-page text with page-number markers.
func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, fmt.Sprintf("--- Page %d ---\n%s", i, text))
		}
	}

	if len(pages) == 0 {
		return "[No extractable text found in PDF]", nil
	}
	return strings.Join(pages, "\n\n"), nil
}

// docxText extracts non-blank paragraphs.
func docxText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", err
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		p, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if text := strings.TrimSpace(p.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	if len(paragraphs) == 0 {
		return "[No extractable text found in document]", nil
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

// xlsxText renders each sheet as tab-separated rows, skipping blank rows.
func xlsxText(path string) (string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return "", err
	}
	defer wb.Close()

	var sheets []string
	for _, name := range wb.GetSheetList() {
		rows, err := wb.GetRows(name)
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			blank := true
			for _, cell := range row {
				if strings.TrimSpace(cell) != "" {
					blank = false
					break
				}
			}
			if !blank {
				lines = append(lines, strings.Join(row, "\t"))
			}
		}
		if len(lines) > 0 {
			sheets = append(sheets, fmt.Sprintf("=== Sheet: %s ===\n%s", name, strings.Join(lines, "\n")))
		}
	}

	if len(sheets) == 0 {
		return "[No extractable data found in spreadsheet]", nil
	}
	return strings.Join(sheets, "\n\n"), nil
}

// emlText extracts the headline headers and text body of an attached
// message.
func emlText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	env, err := enmime.ReadEnvelope(f)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, h := range []string{"From", "To", "Date", "Subject"} {
		if v := env.GetHeader(h); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", h, v)
		}
	}
	b.WriteString("\n")
	b.WriteString(env.Text)

	if strings.TrimSpace(env.Text) == "" {
		return "[No extractable text found in message]", nil
	}
	return b.String(), nil
}

// textFile reads the file as text with best-effort decoding: invalid bytes
// are replaced, never raised.
func textFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
