// Package render maps field types to their widget renderers. Every field
// type resolves to a pair of renderers: a disabled builder preview shown
// while the form is being laid out, and the live display widget bound to a
// name and value. Unrecognized types degrade to a visible placeholder so a
// single bad field never takes down the rest of the form.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/formbench/formbench/model"
)

type Mode int

const (
	// Builder renders a non-interactive preview of the eventual widget.
	Builder Mode = iota
	// Display renders the live, fillable widget.
	Display
)

// Bindings carries the per-field wiring a display widget needs: the input
// name the value is submitted under and the current value, if any.
type Bindings struct {
	Name  string
	Value any
}

type widget struct {
	Field    model.Field
	Options  []string
	Name     string
	Value    any
	Disabled bool
}

type renderFunc func(w widget) (template.HTML, error)

type renderer struct {
	builder renderFunc
	display renderFunc
}

// Field renders one field in the given mode. Dispatch is by field type with
// an explicit fallback for unknown tags; option-bearing widgets receive
// their options already decoded, renderers never see the raw encoding.
func Field(mode Mode, f model.Field, b Bindings) (template.HTML, error) {
	r, ok := registry[f.Type]
	if !ok {
		r = unknown
	}

	w := widget{Field: f, Name: b.Name, Value: b.Value}
	if f.Type.HasOptions() {
		w.Options = model.DecodeOptions(f.Options)
	}
	if mode == Builder {
		w.Disabled = true
		return r.builder(w)
	}
	return r.display(w)
}

// Form renders a whole form: header (title, description) followed by every
// field in display order. In display mode each field is named q_<id>;
// builder previews are named after the client temp id instead.
func Form(mode Mode, form model.Form, values map[int]any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := headerTmpl.Execute(&buf, form); err != nil {
		return "", err
	}
	for _, f := range form.Fields {
		b := Bindings{Name: fieldName(f)}
		if values != nil {
			b.Value = values[f.ID]
		}
		html, err := Field(mode, f, b)
		if err != nil {
			return "", fmt.Errorf("render form field %q: %w", f.Text, err)
		}
		buf.WriteString(string(html))
	}
	return template.HTML(buf.String()), nil
}

func fieldName(f model.Field) string {
	if f.ID != 0 {
		return fmt.Sprintf("q_%d", f.ID)
	}
	return fmt.Sprintf("tmp_%d", f.TempID)
}

var funcs = template.FuncMap{
	"chosen": chosen,
	"scale": func(n int) []int {
		s := make([]int, n)
		for i := range s {
			s[i] = i + 1
		}
		return s
	},
}

// chosen reports whether an option is part of the bound value, which may be
// a scalar or a list depending on the widget.
func chosen(value any, option string) bool {
	switch v := value.(type) {
	case string:
		return v == option
	case []string:
		for _, s := range v {
			if s == option {
				return true
			}
		}
	case []any:
		for _, s := range v {
			if fmt.Sprintf("%v", s) == option {
				return true
			}
		}
	}
	return false
}

func tmpl(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(text))
}

var (
	headerTmpl = tmpl("header", `<div class="form-header">
<h1>{{.Title}}</h1>
{{if .Description}}<p>{{.Description}}</p>{{end}}
</div>
`)

	labelText = `{{if .Field.Text}}<label for="{{.Name}}">{{.Field.Text}}{{if .Field.Required}}<span class="required">*</span>{{end}}</label>
{{end}}`

	inputTmpl = tmpl("input", `<div class="field field-{{.Field.Type}}">
`+labelText+`<input type="{{if eq .Field.Type "number"}}number{{else if eq .Field.Type "datetime"}}datetime-local{{else}}text{{end}}" id="{{.Name}}" name="{{.Name}}" placeholder="{{.Field.Placeholder}}" value="{{if .Value}}{{.Value}}{{end}}"{{if .Disabled}} disabled{{end}}>
</div>
`)

	paragraphTmpl = tmpl("paragraph", `<div class="field field-paragraph">
`+labelText+`<textarea id="{{.Name}}" name="{{.Name}}" placeholder="{{.Field.Placeholder}}"{{if .Disabled}} disabled{{end}}>{{if .Value}}{{.Value}}{{end}}</textarea>
</div>
`)

	dropdownTmpl = tmpl("dropdown", `<div class="field field-dropdown">
`+labelText+`<select id="{{.Name}}" name="{{.Name}}"{{if .Disabled}} disabled{{end}}>
<option value=""></option>
{{$w := .}}{{range .Options}}<option value="{{.}}"{{if chosen $w.Value .}} selected{{end}}>{{.}}</option>
{{end}}</select>
</div>
`)

	choiceTmpl = tmpl("choice", `<div class="field field-{{.Field.Type}}">
`+labelText+`{{$w := .}}{{range .Options}}<div class="option">
<input type="{{if eq $w.Field.Type "checkboxes"}}checkbox{{else}}radio{{end}}" name="{{$w.Name}}" value="{{.}}"{{if chosen $w.Value .}} checked{{end}}{{if $w.Disabled}} disabled{{end}}> {{.}}
</div>
{{end}}</div>
`)

	ratingTmpl = tmpl("rating", `<div class="field field-rating">
`+labelText+`{{$w := .}}{{range scale 5}}<input type="radio" name="{{$w.Name}}" value="{{.}}"{{if chosen $w.Value (printf "%d" .)}} checked{{end}}{{if $w.Disabled}} disabled{{end}}> {{.}}
{{end}}</div>
`)

	fileTmpl = tmpl("file", `<div class="field field-file">
`+labelText+`<input type="file" id="{{.Name}}" name="{{.Name}}"{{if .Disabled}} disabled{{end}}>
</div>
`)

	titleTmpl = tmpl("title_text", `<div class="field field-title-text">
<h2>{{.Field.Text}}</h2>
</div>
`)

	dividerTmpl = tmpl("divider", `<hr class="field-divider">
`)

	unknownTmpl = tmpl("unknown", `<div class="field field-unknown">Unknown question type &quot;{{.Field.Type}}&quot;</div>
`)
)

func fromTemplate(t *template.Template) renderFunc {
	return func(w widget) (template.HTML, error) {
		var buf bytes.Buffer
		if err := t.Execute(&buf, w); err != nil {
			return "", err
		}
		return template.HTML(buf.String()), nil
	}
}

// both builds a renderer whose preview is the display widget rendered
// disabled, which keeps the builder layout true to the final form.
func both(t *template.Template) renderer {
	f := fromTemplate(t)
	return renderer{builder: f, display: f}
}

var registry = map[model.FieldType]renderer{
	model.TypeText:           both(inputTmpl),
	model.TypeEmail:          both(inputTmpl),
	model.TypeTime:           both(inputTmpl),
	model.TypeNumber:         both(inputTmpl),
	model.TypeDatetime:       both(inputTmpl),
	model.TypeParagraph:      both(paragraphTmpl),
	model.TypeDropdown:       both(dropdownTmpl),
	model.TypeMultipleChoice: both(choiceTmpl),
	model.TypeCheckboxes:     both(choiceTmpl),
	model.TypeRating:         both(ratingTmpl),
	model.TypeFile:           both(fileTmpl),
	model.TypeTitleText:      both(titleTmpl),
	model.TypeDivider:        both(dividerTmpl),
}

var unknown = both(unknownTmpl)

// Known reports whether a type has a dedicated renderer. Useful for builder
// palettes that should only offer supported types.
func Known(t model.FieldType) bool {
	_, ok := registry[t]
	return ok
}

// TypeLabel is the human name shown in the builder palette.
func TypeLabel(t model.FieldType) string {
	label := strings.ReplaceAll(string(t), "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
