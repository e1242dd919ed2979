// Package pdf implements stateless PDF document operations: form
// enumeration and fill, signature and freeform text placement, layout
// introspection, and persisted fill templates. Each operation opens the
// document, mutates, saves, and releases within the one call.
package pdf

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"
)

// Operations performs stateless PDF edits. SignaturePath and OutputDir
// come from configuration and apply when a call omits them.
type Operations struct {
	SignaturePath string
	OutputDir     string
	Templates     *TemplateStore

	conf   *model.Configuration
	logger *logrus.Logger
}

// NewOperations creates the PDF operations component.
func NewOperations(signaturePath, outputDir string, templates *TemplateStore, logger *logrus.Logger) *Operations {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Operations{
		SignaturePath: signaturePath,
		OutputDir:     outputDir,
		Templates:     templates,
		conf:          conf,
		logger:        logger,
	}
}

// outputPath picks the destination for a produced PDF: the explicit path
// when given, otherwise <OutputDir>/<stem>_<suffix>.pdf.
func (o *Operations) outputPath(srcPath, explicit, suffix string) (string, error) {
	var out string
	if explicit != "" {
		out = explicit
	} else {
		stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
		out = filepath.Join(o.OutputDir, fmt.Sprintf("%s_%s.pdf", stem, suffix))
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return out, nil
}

// tempFile names a scratch file for intermediate pdfcpu artifacts.
func tempFile(ext string) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("spark-mcp-%s%s", uuid.NewString(), ext))
}

// signaturePathOrDefault resolves the signature image for a call.
func (o *Operations) signaturePathOrDefault(explicit string) (string, error) {
	path := explicit
	if path == "" {
		path = o.SignaturePath
	}
	if path == "" {
		return "", fmt.Errorf("no signature image provided and no default configured")
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("signature image not found: %s", path)
	}
	return path, nil
}

// imageAspect returns height/width for an image file.
func imageAspect(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	if cfg.Width == 0 {
		return 0, fmt.Errorf("image %s has zero width", path)
	}
	return float64(cfg.Height) / float64(cfg.Width), nil
}

// imageWidthPt returns the image's natural width in points (1px = 1pt at
// the library's 72dpi assumption).
func imageWidthPt(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, err
	}
	return float64(cfg.Width), nil
}

// pageDims returns per-page widths and heights, 0-indexed.
func (o *Operations) pageDims(path string) ([][2]float64, error) {
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}
	out := make([][2]float64, len(dims))
	for i, d := range dims {
		out[i] = [2]float64{d.Width, d.Height}
	}
	return out, nil
}

// requireFile asserts a caller-supplied path exists.
func requireFile(path, what string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%s not found: %s", what, path)
	}
	return nil
}

// copyFile duplicates src to dst; several flows need a mutable working
// copy of the source document.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
