package pdf

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-spark/pkg/types"
)

const defaultFontSize = 12.0

var hexColorRe = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// Annotation is one piece of freeform text to place on a page. Y measures
// from the page bottom unless YFromTop is set, which wins.
type Annotation struct {
	Page     int
	Text     string
	X        float64
	Y        float64
	YFromTop *float64
	FontSize float64
	Color    string
}

// annotationDesc renders the stamp parameters for one annotation.
func annotationDesc(a Annotation, pageH float64) string {
	size := a.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	color := a.Color
	if !hexColorRe.MatchString(color) {
		color = "000000"
	}
	y := annotationY(pageH, a.Y, a.YFromTop)
	return fmt.Sprintf("font:Helvetica, points:%d, pos:bl, off:%.2f %.2f, scale:1 abs, fillc:#%s, rot:0",
		int(size), a.X, y, color)
}

// stampAnnotations applies each annotation as a text stamp, chaining
// through scratch files so every stamp sees the previous one's output.
// src and dst may be the same path.
func (o *Operations) stampAnnotations(src, dst string, anns []Annotation) (int, error) {
	if len(anns) == 0 {
		if src != dst {
			if err := copyFile(src, dst); err != nil {
				return 0, err
			}
		}
		return 0, nil
	}

	dims, err := o.pageDims(src)
	if err != nil {
		return 0, err
	}

	cur := src
	var scratch []string
	defer func() {
		for _, p := range scratch {
			os.Remove(p)
		}
	}()

	for i, a := range anns {
		pageSel := a.Page
		if pageSel == 0 {
			pageSel = -1
		}
		page, err := resolvePage(pageSel, len(dims))
		if err != nil {
			return 0, err
		}

		next := dst
		if i < len(anns)-1 {
			next = tempFile(".pdf")
			scratch = append(scratch, next)
		}

		desc := annotationDesc(a, dims[page-1][1])
		if err := api.AddTextWatermarksFile(cur, next, []string{strconv.Itoa(page)}, true, a.Text, desc, o.conf); err != nil {
			return 0, fmt.Errorf("failed to place annotation %q: %w", a.Text, err)
		}
		cur = next
	}
	return len(anns), nil
}

// Annotate places freeform text on a PDF at explicit coordinates. Works
// on documents with no form fields at all.
func (o *Operations) Annotate(path string, anns []Annotation, outputPath string, flatten bool) (*types.AnnotateResult, error) {
	if err := requireFile(path, "PDF"); err != nil {
		return nil, err
	}
	out, err := o.outputPath(path, outputPath, "annotated")
	if err != nil {
		return nil, err
	}

	added, err := o.stampAnnotations(path, out, anns)
	if err != nil {
		return nil, err
	}

	o.logger.WithFields(logrus.Fields{
		"output":      out,
		"annotations": added,
	}).Info("Annotated PDF")

	return &types.AnnotateResult{
		Success:          true,
		OutputPath:       out,
		AnnotationsAdded: added,
		Flattened:        flatten,
	}, nil
}
