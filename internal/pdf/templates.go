package pdf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-spark/pkg/types"
)

// templateNameRe keeps template names usable as file names.
var templateNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// TemplateStore persists fill templates as one JSON file per template
// under a single directory.
type TemplateStore struct {
	dir    string
	logger *logrus.Logger
}

// NewTemplateStore creates a store rooted at dir. The directory is
// created on first save.
func NewTemplateStore(dir string, logger *logrus.Logger) *TemplateStore {
	return &TemplateStore{dir: dir, logger: logger}
}

func (s *TemplateStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func validTemplateName(name string) error {
	if !templateNameRe.MatchString(name) {
		return fmt.Errorf("invalid template name %q: use letters, digits, '-' and '_'", name)
	}
	return nil
}

// Save writes a template, overwriting any previous one with the name.
func (s *TemplateStore) Save(t types.Template) (*types.TemplateOpResult, error) {
	if err := validTemplateName(t.Name); err != nil {
		return nil, err
	}
	if len(t.Fields) == 0 {
		return nil, fmt.Errorf("template %q has no fields", t.Name)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create template directory: %w", err)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode template: %w", err)
	}
	if err := os.WriteFile(s.path(t.Name), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write template: %w", err)
	}

	s.logger.WithField("template", t.Name).Info("Saved PDF template")
	return &types.TemplateOpResult{Success: true, Name: t.Name, Status: "saved"}, nil
}

// Get loads a template by name. Returns nil when it does not exist.
func (s *TemplateStore) Get(name string) (*types.Template, error) {
	if err := validTemplateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}
	var t types.Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return &t, nil
}

// Delete removes a template. Deleting a missing template is reported,
// not an error.
func (s *TemplateStore) Delete(name string) (*types.TemplateOpResult, error) {
	if err := validTemplateName(name); err != nil {
		return nil, err
	}
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return &types.TemplateOpResult{Success: false, Name: name, Status: "not found"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete template %s: %w", name, err)
	}
	s.logger.WithField("template", name).Info("Deleted PDF template")
	return &types.TemplateOpResult{Success: true, Name: name, Status: "deleted"}, nil
}

// List returns every saved template, sorted by name. Files that fail to
// parse are skipped.
func (s *TemplateStore) List() (*types.TemplateList, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return &types.TemplateList{Templates: []types.Template{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	templates := []types.Template{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var t types.Template
		if err := json.Unmarshal(data, &t); err != nil {
			s.logger.WithField("file", e.Name()).Warn("Skipping unreadable template")
			continue
		}
		templates = append(templates, t)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })

	return &types.TemplateList{Templates: templates, Total: len(templates)}, nil
}

// FillFromTemplate replays a saved template onto a PDF: text and date
// fields become annotations, signature fields become image stamps when
// sign is requested. Date fields valued "auto" get today's date.
func (o *Operations) FillFromTemplate(path, templateName string, values map[string]string, sign bool, signaturePath, outputPath string) (*types.TemplateFillResult, error) {
	if err := requireFile(path, "PDF"); err != nil {
		return nil, err
	}
	tpl, err := o.Templates.Get(templateName)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, fmt.Errorf("template not found: %s", templateName)
	}
	out, err := o.outputPath(path, outputPath, "filled")
	if err != nil {
		return nil, err
	}

	var (
		anns []Annotation
		sigs []types.TemplateField
	)
	for _, f := range tpl.Fields {
		switch f.Type {
		case "signature":
			if sign {
				sigs = append(sigs, f)
			}
		case "date":
			v, ok := values[f.FieldName]
			if !ok {
				continue
			}
			if v == "auto" {
				v = time.Now().Format("January 2, 2006")
			}
			anns = append(anns, Annotation{Page: f.Page, Text: v, X: f.X, Y: f.Y, FontSize: f.FontSize})
		default:
			v, ok := values[f.FieldName]
			if !ok {
				continue
			}
			anns = append(anns, Annotation{Page: f.Page, Text: v, X: f.X, Y: f.Y, FontSize: f.FontSize})
		}
	}

	var sig string
	if len(sigs) > 0 {
		sig, err = o.signaturePathOrDefault(signaturePath)
		if err != nil {
			return nil, err
		}
	}

	dims, err := o.pageDims(path)
	if err != nil {
		return nil, err
	}

	var scratch []string
	defer func() {
		for _, p := range scratch {
			os.Remove(p)
		}
	}()

	cur := path
	if len(anns) > 0 {
		next := out
		if len(sigs) > 0 {
			next = tempFile(".pdf")
			scratch = append(scratch, next)
		}
		if _, err := o.stampAnnotations(cur, next, anns); err != nil {
			return nil, err
		}
		cur = next
	}

	aspect := 0.0
	if len(sigs) > 0 {
		if aspect, err = imageAspect(sig); err != nil {
			return nil, err
		}
	}
	for i, f := range sigs {
		pageSel := f.Page
		if pageSel == 0 {
			pageSel = -1
		}
		page, err := resolvePage(pageSel, len(dims))
		if err != nil {
			return nil, err
		}
		width := f.Width
		if width <= 0 {
			width = defaultSignatureWidth
		}
		next := out
		if i < len(sigs)-1 {
			next = tempFile(".pdf")
			scratch = append(scratch, next)
		}
		r := Rect{X: f.X, Y: f.Y, W: width, H: width * aspect}
		if err := o.stampSignature(cur, next, page, sig, r); err != nil {
			return nil, err
		}
		cur = next
	}

	if cur == path {
		if err := copyFile(path, out); err != nil {
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
	}

	o.logger.WithFields(logrus.Fields{
		"output":     out,
		"template":   templateName,
		"fields":     len(anns),
		"signatures": len(sigs),
	}).Info("Filled PDF from template")

	return &types.TemplateFillResult{
		Success:          true,
		OutputPath:       out,
		Template:         templateName,
		FieldsPlaced:     len(anns),
		SignaturesPlaced: len(sigs),
	}, nil
}
