package pdf

import (
	"fmt"
	"regexp"
	"strings"

	ltpdf "github.com/ledongthuc/pdf"

	"github.com/brandon/mcp-spark/pkg/types"
)

// underscoreRunRe marks a fill-in line drawn as underscore characters.
var underscoreRunRe = regexp.MustCompile(`_{5,}`)

// pageRows extracts the text rows of one page. The parser panics on some
// malformed content streams, which callers see as an error.
func pageRows(p ltpdf.Page) (rows ltpdf.Rows, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse page text: %v", r)
		}
	}()
	return p.GetTextByRow()
}

// layoutForPage builds the layout of one 1-indexed page.
func layoutForPage(reader *ltpdf.Reader, page int, pageW, pageH float64, detectBlanks bool) (types.PageLayout, error) {
	layout := types.PageLayout{
		Page:      page,
		Width:     pageW,
		Height:    pageH,
		TextLines: []types.TextLine{},
	}

	rows, err := pageRows(reader.Page(page))
	if err != nil {
		return layout, err
	}

	for _, row := range rows {
		if len(row.Content) == 0 {
			continue
		}
		var sb strings.Builder
		for _, t := range row.Content {
			sb.WriteString(t.S)
		}
		text := sb.String()
		if strings.TrimSpace(text) == "" {
			continue
		}

		y := float64(row.Position)
		layout.TextLines = append(layout.TextLines, types.TextLine{
			Text:     text,
			X:        row.Content[0].X,
			Y:        y,
			YFromTop: pageH - y,
		})

		if !detectBlanks {
			continue
		}
		// A run of underscores inside a row is a fill-in line; report the
		// chunk it lives in so a caller can drop text onto it.
		for _, t := range row.Content {
			if !underscoreRunRe.MatchString(t.S) {
				continue
			}
			layout.BlankLines = append(layout.BlankLines, types.BlankLine{
				X:        t.X,
				Y:        y,
				YFromTop: pageH - y,
				Width:    t.W,
				Source:   "underscores",
			})
		}
	}
	return layout, nil
}

// GetLayout analyzes the text placement of a PDF. page 0 means every
// page; -1 means the last. detectBlanks adds candidate fill-in lines
// found as underscore runs.
func (o *Operations) GetLayout(path string, page int, detectBlanks bool) (*types.LayoutResult, error) {
	if err := requireFile(path, "PDF"); err != nil {
		return nil, err
	}

	dims, err := o.pageDims(path)
	if err != nil {
		return nil, err
	}

	f, reader, err := ltpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages := make([]int, 0, len(dims))
	if page == 0 {
		for i := 1; i <= len(dims); i++ {
			pages = append(pages, i)
		}
	} else {
		p, err := resolvePage(page, len(dims))
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}

	result := &types.LayoutResult{PageCount: len(dims)}
	for _, p := range pages {
		layout, err := layoutForPage(reader, p, dims[p-1][0], dims[p-1][1], detectBlanks)
		if err != nil {
			return nil, err
		}
		result.Pages = append(result.Pages, layout)
	}
	return result, nil
}
