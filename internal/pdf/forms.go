package pdf

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-spark/pkg/types"
)

// formJSON mirrors the library's form export/fill document. Groups we do
// not touch survive a decode/encode round trip untouched only if listed
// here, so all known groups are declared.
type formJSON struct {
	Forms []formGroups `json:"forms"`
}

type formGroups struct {
	TextFields  []textField  `json:"textfield,omitempty"`
	DateFields  []dateField  `json:"datefield,omitempty"`
	CheckBoxes  []checkBox   `json:"checkbox,omitempty"`
	RadioGroups []radioGroup `json:"radiobuttongroup,omitempty"`
	ComboBoxes  []comboBox   `json:"combobox,omitempty"`
	ListBoxes   []listBox    `json:"listbox,omitempty"`
}

type textField struct {
	Pages     []int  `json:"pages,omitempty"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Default   string `json:"default,omitempty"`
	Value     string `json:"value"`
	Multiline bool   `json:"multiline,omitempty"`
	Locked    bool   `json:"locked,omitempty"`
}

type dateField struct {
	Pages  []int  `json:"pages,omitempty"`
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Format string `json:"format,omitempty"`
	Value  string `json:"value"`
	Locked bool   `json:"locked,omitempty"`
}

type checkBox struct {
	Pages   []int  `json:"pages,omitempty"`
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Default bool   `json:"default,omitempty"`
	Value   bool   `json:"value"`
	Locked  bool   `json:"locked,omitempty"`
}

type radioGroup struct {
	Pages   []int    `json:"pages,omitempty"`
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	Options []string `json:"options,omitempty"`
	Value   string   `json:"value"`
	Locked  bool     `json:"locked,omitempty"`
}

type comboBox struct {
	Pages    []int    `json:"pages,omitempty"`
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Options  []string `json:"options,omitempty"`
	Value    string   `json:"value"`
	Editable bool     `json:"editable,omitempty"`
	Locked   bool     `json:"locked,omitempty"`
}

type listBox struct {
	Pages   []int    `json:"pages,omitempty"`
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	Options []string `json:"options,omitempty"`
	Values  []string `json:"values,omitempty"`
	Multi   bool     `json:"multi,omitempty"`
	Locked  bool     `json:"locked,omitempty"`
}

// exportForm dumps the document's form to the JSON structure; a document
// without a form yields an empty structure, not an error.
func (o *Operations) exportForm(path string) (*formJSON, error) {
	tmp := tempFile(".json")
	defer os.Remove(tmp)

	if err := api.ExportFormFile(path, tmp, o.conf); err != nil {
		return &formJSON{}, nil
	}

	data, err := os.ReadFile(tmp)
	if err != nil {
		return nil, fmt.Errorf("failed to read exported form: %w", err)
	}
	var form formJSON
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("failed to parse exported form: %w", err)
	}
	return &form, nil
}

// GetFormFields lists the fillable fields of a PDF form.
func (o *Operations) GetFormFields(path string) (*types.FormFieldList, error) {
	if err := requireFile(path, "PDF"); err != nil {
		return nil, err
	}

	form, err := o.exportForm(path)
	if err != nil {
		return nil, err
	}

	fields := []types.FormField{}
	for _, g := range form.Forms {
		for _, f := range g.TextFields {
			fields = append(fields, types.FormField{Name: f.Name, Type: "text", Value: f.Value})
		}
		for _, f := range g.DateFields {
			fields = append(fields, types.FormField{Name: f.Name, Type: "date", Value: f.Value})
		}
		for _, f := range g.CheckBoxes {
			fields = append(fields, types.FormField{Name: f.Name, Type: "checkbox", Value: strconv.FormatBool(f.Value)})
		}
		for _, f := range g.RadioGroups {
			fields = append(fields, types.FormField{Name: f.Name, Type: "button", Value: f.Value, Options: f.Options})
		}
		for _, f := range g.ComboBoxes {
			fields = append(fields, types.FormField{Name: f.Name, Type: "dropdown", Value: f.Value, Options: f.Options})
		}
		for _, f := range g.ListBoxes {
			fields = append(fields, types.FormField{Name: f.Name, Type: "listbox", Value: strings.Join(f.Values, ", "), Options: f.Options})
		}
	}

	list := &types.FormFieldList{Fields: fields, Total: len(fields)}
	if len(fields) == 0 {
		list.Message = "No fillable form fields found"
	}
	return list, nil
}

// applyValues mutates the form structure in place, returning how many
// fields matched. Names with no matching field are ignored: forms vary by
// producer and a partial fill is still useful.
func applyValues(form *formJSON, fields map[string]string, checkboxes map[string]bool) int {
	updated := 0
	for gi := range form.Forms {
		g := &form.Forms[gi]
		for i := range g.TextFields {
			if v, ok := fields[g.TextFields[i].Name]; ok {
				g.TextFields[i].Value = v
				updated++
			}
		}
		for i := range g.DateFields {
			if v, ok := fields[g.DateFields[i].Name]; ok {
				g.DateFields[i].Value = v
				updated++
			}
		}
		for i := range g.RadioGroups {
			if v, ok := fields[g.RadioGroups[i].Name]; ok {
				g.RadioGroups[i].Value = v
				updated++
			}
		}
		for i := range g.ComboBoxes {
			if v, ok := fields[g.ComboBoxes[i].Name]; ok {
				g.ComboBoxes[i].Value = v
				updated++
			}
		}
		for i := range g.ListBoxes {
			if v, ok := fields[g.ListBoxes[i].Name]; ok {
				g.ListBoxes[i].Values = []string{v}
				updated++
			}
		}
		for i := range g.CheckBoxes {
			if v, ok := checkboxes[g.CheckBoxes[i].Name]; ok {
				g.CheckBoxes[i].Value = v
				updated++
			}
		}
	}
	return updated
}

// fillInto fills the form and writes the result to out. With nothing
// matched the source is passed through unchanged.
func (o *Operations) fillInto(path, out string, fields map[string]string, checkboxes map[string]bool) (int, error) {
	form, err := o.exportForm(path)
	if err != nil {
		return 0, err
	}

	updated := applyValues(form, fields, checkboxes)
	if updated == 0 {
		if err := copyFile(path, out); err != nil {
			return 0, fmt.Errorf("failed to write output: %w", err)
		}
		return 0, nil
	}

	tmp := tempFile(".json")
	defer os.Remove(tmp)

	data, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to encode form values: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write form values: %w", err)
	}

	if err := api.FillFormFile(path, tmp, out, o.conf); err != nil {
		return 0, fmt.Errorf("failed to fill form: %w", err)
	}
	return updated, nil
}

// FillForm applies text and checkbox values to a PDF form and saves the
// result.
func (o *Operations) FillForm(path string, fields map[string]string, checkboxes map[string]bool, outputPath string, flatten bool) (*types.FillResult, error) {
	if err := requireFile(path, "PDF"); err != nil {
		return nil, err
	}

	out, err := o.outputPath(path, outputPath, "filled")
	if err != nil {
		return nil, err
	}

	updated, err := o.fillInto(path, out, fields, checkboxes)
	if err != nil {
		return nil, err
	}

	o.logger.WithFields(logrus.Fields{
		"output":  out,
		"updated": updated,
	}).Info("Filled PDF form")

	return &types.FillResult{
		Success:       true,
		OutputPath:    out,
		FieldsUpdated: updated,
		Flattened:     flatten,
	}, nil
}
