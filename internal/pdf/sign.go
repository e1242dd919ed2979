package pdf

import (
	"fmt"
	"os"
	"strconv"

	ltpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-spark/pkg/types"
)

// defaultSignatureWidth is the placed width in points when a call does not
// specify one.
const defaultSignatureWidth = 150.0

// SignOptions controls where a signature image lands. A zero Page means
// last page. Nil coordinates fall back to the bottom-right corner.
type SignOptions struct {
	SignaturePath string
	Page          int
	X             *float64
	Y             *float64
	YFromTop      *float64
	Width         float64
	OutputPath    string
}

// FillSignOptions bundles the inputs of the combined fill-and-sign flow.
// SignatureField, when set and present in the document, overrides the
// coordinate-based placement with the field widget's rectangle.
type FillSignOptions struct {
	Fields         map[string]string
	Checkboxes     map[string]bool
	Annotations    []Annotation
	SignatureField string
	Signature      SignOptions
	OutputPath     string
	Flatten        bool
}

// stampSignature stamps the image onto one page of src, anchored at the
// rectangle's bottom-left corner and scaled to its width.
func (o *Operations) stampSignature(src, dst string, page int, imgPath string, r Rect) error {
	nativeW, err := imageWidthPt(imgPath)
	if err != nil {
		return fmt.Errorf("failed to read signature image: %w", err)
	}
	if nativeW == 0 {
		return fmt.Errorf("signature image %s has zero width", imgPath)
	}

	desc := fmt.Sprintf("pos:bl, off:%.2f %.2f, scale:%.4f abs, rot:0", r.X, r.Y, r.W/nativeW)
	if err := api.AddImageWatermarksFile(src, dst, []string{strconv.Itoa(page)}, true, imgPath, desc, o.conf); err != nil {
		return fmt.Errorf("failed to place signature: %w", err)
	}
	return nil
}

// fieldRect locates a form field's widget rectangle by field name.
// Returns the 1-indexed page and the widget rect in from-bottom
// coordinates, or ok=false when no widget carries the name.
func fieldRect(path, name string) (page int, r Rect, ok bool) {
	f, reader, err := ltpdf.Open(path)
	if err != nil {
		return 0, Rect{}, false
	}
	defer f.Close()

	for i := 1; i <= reader.NumPage(); i++ {
		annots := reader.Page(i).V.Key("Annots")
		if annots.IsNull() {
			continue
		}
		for j := 0; j < annots.Len(); j++ {
			annot := annots.Index(j)
			if annot.Key("T").RawString() != name {
				continue
			}
			rect := annot.Key("Rect")
			if rect.Len() != 4 {
				continue
			}
			llx, lly := rect.Index(0).Float64(), rect.Index(1).Float64()
			urx, ury := rect.Index(2).Float64(), rect.Index(3).Float64()
			return i, Rect{X: llx, Y: lly, W: urx - llx, H: ury - lly}, true
		}
	}
	return 0, Rect{}, false
}

// AddSignature places a signature image on one page of a PDF.
func (o *Operations) AddSignature(path string, opts SignOptions) (*types.SignResult, error) {
	if err := requireFile(path, "PDF"); err != nil {
		return nil, err
	}
	sig, err := o.signaturePathOrDefault(opts.SignaturePath)
	if err != nil {
		return nil, err
	}
	out, err := o.outputPath(path, opts.OutputPath, "signed")
	if err != nil {
		return nil, err
	}

	dims, err := o.pageDims(path)
	if err != nil {
		return nil, err
	}
	pageSel := opts.Page
	if pageSel == 0 {
		pageSel = -1
	}
	page, err := resolvePage(pageSel, len(dims))
	if err != nil {
		return nil, err
	}

	width := opts.Width
	if width <= 0 {
		width = defaultSignatureWidth
	}
	aspect, err := imageAspect(sig)
	if err != nil {
		return nil, err
	}

	r := signatureRect(dims[page-1][0], dims[page-1][1], aspect, width, opts.X, opts.Y, opts.YFromTop)
	if err := o.stampSignature(path, out, page, sig, r); err != nil {
		return nil, err
	}

	o.logger.WithFields(logrus.Fields{
		"output": out,
		"page":   page,
	}).Info("Signed PDF")

	return &types.SignResult{
		Success:    true,
		OutputPath: out,
		Page:       page,
		Position:   types.Position{X: r.X, Y: r.Y, Width: r.W, Height: r.H},
	}, nil
}

// FillAndSign fills form fields, applies freeform annotations, and places
// a signature, all in one pass over the document.
func (o *Operations) FillAndSign(path string, opts FillSignOptions) (*types.FillSignResult, error) {
	if err := requireFile(path, "PDF"); err != nil {
		return nil, err
	}
	sig, err := o.signaturePathOrDefault(opts.Signature.SignaturePath)
	if err != nil {
		return nil, err
	}
	out, err := o.outputPath(path, opts.OutputPath, "filled_signed")
	if err != nil {
		return nil, err
	}

	work := tempFile(".pdf")
	defer os.Remove(work)

	updated, err := o.fillInto(path, work, opts.Fields, opts.Checkboxes)
	if err != nil {
		return nil, err
	}

	annotated := 0
	if len(opts.Annotations) > 0 {
		annotated, err = o.stampAnnotations(work, work, opts.Annotations)
		if err != nil {
			return nil, err
		}
	}

	dims, err := o.pageDims(work)
	if err != nil {
		return nil, err
	}

	var (
		page   int
		r      Rect
		placed bool
	)
	if opts.SignatureField != "" {
		if pg, rect, ok := fieldRect(path, opts.SignatureField); ok {
			page, r, placed = pg, rect, true
		}
	}
	if !placed {
		pageSel := opts.Signature.Page
		if pageSel == 0 {
			pageSel = -1
		}
		page, err = resolvePage(pageSel, len(dims))
		if err != nil {
			return nil, err
		}
		width := opts.Signature.Width
		if width <= 0 {
			width = defaultSignatureWidth
		}
		aspect, err := imageAspect(sig)
		if err != nil {
			return nil, err
		}
		r = signatureRect(dims[page-1][0], dims[page-1][1], aspect, width,
			opts.Signature.X, opts.Signature.Y, opts.Signature.YFromTop)
	}

	if err := o.stampSignature(work, out, page, sig, r); err != nil {
		return nil, err
	}

	o.logger.WithFields(logrus.Fields{
		"output":      out,
		"fields":      updated,
		"annotations": annotated,
		"page":        page,
	}).Info("Filled and signed PDF")

	return &types.FillSignResult{
		Success:           true,
		OutputPath:        out,
		FieldsUpdated:     updated,
		AnnotationsAdded:  annotated,
		SignaturePage:     page,
		SignaturePosition: &types.Position{X: r.X, Y: r.Y, Width: r.W, Height: r.H},
		Flattened:         opts.Flatten,
	}, nil
}
