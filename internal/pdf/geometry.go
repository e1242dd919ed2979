package pdf

import "fmt"

// Pages are 1-indexed at the tool surface; -1 selects the last page. At
// rest, vertical coordinates measure distance from the page bottom (PDF
// convention). yFromTop is the alternative convention: the distance of an
// anchor line from the page top, with the placed rectangle's bottom edge
// sitting on that line. When both are supplied, yFromTop wins.

// defaultMargin offsets the fallback bottom-right placement.
const defaultMargin = 50.0

// Rect is a placed rectangle: X from the left edge, Y the bottom edge from
// the page bottom.
type Rect struct {
	X, Y, W, H float64
}

// resolvePage maps a 1-indexed page selector (-1 = last) to a concrete
// page number.
func resolvePage(page, pageCount int) (int, error) {
	if page == -1 {
		return pageCount, nil
	}
	if page < 1 || page > pageCount {
		return 0, fmt.Errorf("invalid page number %d: PDF has %d pages", page, pageCount)
	}
	return page, nil
}

// signatureRect computes the placement rectangle for an image of the given
// aspect ratio (height/width) at the requested width. Height always equals
// width times the aspect ratio, regardless of page size. Nil coordinates
// fall back to bottom-right with the default margin.
func signatureRect(pageW, pageH, aspect, width float64, x, y, yFromTop *float64) Rect {
	r := Rect{W: width, H: width * aspect}

	if x != nil {
		r.X = *x
	} else {
		r.X = pageW - r.W - defaultMargin
	}

	switch {
	case yFromTop != nil:
		// Anchor line measured from the top; the image bottom sits on it.
		r.Y = pageH - *yFromTop
	case y != nil:
		r.Y = *y
	default:
		r.Y = defaultMargin
	}

	return r
}

// annotationY resolves the vertical coordinate of a text annotation to the
// from-bottom convention.
func annotationY(pageH float64, y float64, yFromTop *float64) float64 {
	if yFromTop != nil {
		return pageH - *yFromTop
	}
	return y
}
