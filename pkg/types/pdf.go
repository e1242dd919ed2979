package types

// FormField describes one fillable field of a PDF form.
type FormField struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Value   string   `json:"value"`
	Options []string `json:"options,omitempty"`
}

// FormFieldList pairs form fields with their count.
type FormFieldList struct {
	Fields  []FormField `json:"fields"`
	Total   int         `json:"total"`
	Message string      `json:"message,omitempty"`
}

// Position is a placed rectangle in from-bottom page coordinates.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FillResult reports a completed form-fill operation.
type FillResult struct {
	Success       bool   `json:"success"`
	OutputPath    string `json:"outputPath"`
	FieldsUpdated int    `json:"fieldsUpdated"`
	Flattened     bool   `json:"flattened"`
}

// SignResult reports a completed signature placement.
type SignResult struct {
	Success    bool     `json:"success"`
	OutputPath string   `json:"outputPath"`
	Page       int      `json:"page"`
	Position   Position `json:"position"`
}

// FillSignResult reports a combined fill-and-sign operation.
type FillSignResult struct {
	Success           bool      `json:"success"`
	OutputPath        string    `json:"outputPath"`
	FieldsUpdated     int       `json:"fieldsUpdated"`
	AnnotationsAdded  int       `json:"annotationsAdded"`
	SignaturePage     int       `json:"signaturePage,omitempty"`
	SignaturePosition *Position `json:"signaturePosition,omitempty"`
	Flattened         bool      `json:"flattened"`
}

// AnnotateResult reports a freeform annotation pass.
type AnnotateResult struct {
	Success          bool   `json:"success"`
	OutputPath       string `json:"outputPath"`
	AnnotationsAdded int    `json:"annotationsAdded"`
	Flattened        bool   `json:"flattened"`
}

// TextLine is one extracted line of PDF text with both vertical
// coordinate conventions.
type TextLine struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	YFromTop float64 `json:"yFromTop"`
}

// BlankLine is a candidate fill-in line detected on a page.
type BlankLine struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	YFromTop float64 `json:"yFromTop"`
	Width    float64 `json:"width"`
	Source   string  `json:"source"`
}

// PageLayout is the layout analysis of one page.
type PageLayout struct {
	Page       int         `json:"page"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	TextLines  []TextLine  `json:"textLines"`
	BlankLines []BlankLine `json:"blankLines,omitempty"`
}

// LayoutResult is the layout analysis of a document.
type LayoutResult struct {
	Pages     []PageLayout `json:"pages"`
	PageCount int          `json:"pageCount"`
}

// TemplateField is one placement inside a saved PDF template. Coordinates
// are from-bottom page points.
type TemplateField struct {
	FieldName string  `json:"fieldName"`
	Page      int     `json:"page"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	FontSize  float64 `json:"fontSize"`
	Type      string  `json:"type"`
	Width     float64 `json:"width"`
}

// Template is a named, persisted list of field placements.
type Template struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Fields      []TemplateField `json:"fields"`
}

// TemplateList enumerates saved templates.
type TemplateList struct {
	Templates []Template `json:"templates"`
	Total     int        `json:"total"`
}

// TemplateOpResult reports a template save/delete.
type TemplateOpResult struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
	Status  string `json:"status"`
}

// TemplateFillResult reports a template replay onto a PDF.
type TemplateFillResult struct {
	Success          bool   `json:"success"`
	OutputPath       string `json:"outputPath"`
	Template         string `json:"template"`
	FieldsPlaced     int    `json:"fieldsPlaced"`
	SignaturesPlaced int    `json:"signaturesPlaced"`
}
