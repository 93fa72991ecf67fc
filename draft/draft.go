// Package draft holds the in-progress form definition being edited: the
// ordered field list plus the add/update/delete/reorder operations the
// builder surface performs on it. A Draft belongs to a single editing
// session and is not safe for concurrent use.
package draft

import (
	"errors"
	"fmt"

	"github.com/formbench/formbench/model"
)

var ErrSaveInFlight = errors.New("draft: a save is already in flight")

type Draft struct {
	FormID      int
	Title       string
	Description string
	Category    string

	fields   []model.Field
	selected int // temp id of the field under edit, 0 when idle
	nextTemp int
	saving   bool
}

func New() *Draft {
	return &Draft{}
}

// FromForm builds a draft from a persisted form loaded for editing. Every
// field gets a client temp id so it stays addressable through reorders even
// though it already has a server identity.
func FromForm(form model.Form) *Draft {
	d := &Draft{
		FormID:      form.ID,
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
	}
	for _, f := range form.Fields {
		d.nextTemp++
		f.TempID = d.nextTemp
		d.fields = append(d.fields, f)
	}
	return d
}

// Fields returns a copy of the field list in display order.
func (d *Draft) Fields() []model.Field {
	out := make([]model.Field, len(d.fields))
	copy(out, d.fields)
	return out
}

func (d *Draft) Len() int {
	return len(d.fields)
}

// AddField appends a new field of the given type with editing defaults and
// selects it. Option-bearing types start with three generic options so the
// preview has something to show.
func (d *Draft) AddField(t model.FieldType) model.Field {
	d.nextTemp++
	f := model.Field{
		TempID:      d.nextTemp,
		Type:        t,
		Text:        fmt.Sprintf("New %s question", t),
		Required:    false,
		Placeholder: defaultPlaceholder(t),
	}
	if t.HasOptions() {
		f.Options = []string{"Option 1", "Option 2", "Option 3"}
	}
	d.fields = append(d.fields, f)
	d.selected = f.TempID
	return f
}

func defaultPlaceholder(t model.FieldType) string {
	switch t {
	case model.TypeText, model.TypeParagraph, model.TypeEmail:
		return "Your answer"
	case model.TypeNumber:
		return "0"
	default:
		return ""
	}
}

// UpdateField replaces the stored field matching the given one: by server id
// when both sides have one, by client temp id otherwise. Unknown fields are
// ignored.
func (d *Draft) UpdateField(updated model.Field) bool {
	for i, f := range d.fields {
		match := (f.ID != 0 && updated.ID != 0 && f.ID == updated.ID) ||
			(updated.TempID != 0 && f.TempID == updated.TempID)
		if !match {
			continue
		}
		updated.TempID = f.TempID
		d.fields[i] = updated
		return true
	}
	return false
}

// DeleteField removes the field with the given temp id. Deleting the field
// under edit clears the selection.
func (d *Draft) DeleteField(tempID int) bool {
	for i, f := range d.fields {
		if f.TempID != tempID {
			continue
		}
		d.fields = append(d.fields[:i], d.fields[i+1:]...)
		if d.selected == tempID {
			d.selected = 0
		}
		return true
	}
	return false
}

// Reorder moves the field at index from to index to. Returns false when the
// move was a no-op so callers can skip emitting a change event.
func (d *Draft) Reorder(from, to int) bool {
	n := len(d.fields)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	d.fields = Move(d.fields, from, to)
	return true
}

// Select marks the field with the given temp id as under edit; 0 returns the
// builder to its idle state. Selecting an unknown field is ignored.
func (d *Draft) Select(tempID int) {
	if tempID == 0 {
		d.selected = 0
		return
	}
	for _, f := range d.fields {
		if f.TempID == tempID {
			d.selected = tempID
			return
		}
	}
}

// Selected returns the field under edit, if any.
func (d *Draft) Selected() (model.Field, bool) {
	if d.selected == 0 {
		return model.Field{}, false
	}
	for _, f := range d.fields {
		if f.TempID == d.selected {
			return f, true
		}
	}
	return model.Field{}, false
}

// SaveSet is the partition of the draft's fields submitted on save: fields
// without a server id must be created, the rest updated. Order values are
// contiguous 1..N following the arrangement at the moment of saving.
type SaveSet struct {
	New      []model.Field
	Existing []model.Field
	// Override tells the server to reconcile the submitted list against the
	// stored one (editing a persisted form) instead of plain bulk-create.
	Override bool
}

func (d *Draft) SaveSet() SaveSet {
	numbered := Renumber(d.fields)
	set := SaveSet{Override: d.FormID != 0}
	for _, f := range numbered {
		if f.Saved() {
			set.Existing = append(set.Existing, f)
		} else {
			set.New = append(set.New, f)
		}
	}
	return set
}

// All returns the full renumbered field list (new and existing together) in
// display order, as submitted on edit saves.
func (s SaveSet) All() []model.Field {
	all := make([]model.Field, 0, len(s.New)+len(s.Existing))
	all = append(all, s.New...)
	all = append(all, s.Existing...)
	// restore display order
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[j].Order < all[i].Order {
				all[i], all[j] = all[j], all[i]
			}
		}
	}
	return all
}

// BeginSave flips the in-flight flag guarding the save control. A second
// save attempt while one is pending is rejected rather than queued.
func (d *Draft) BeginSave() error {
	if d.saving {
		return ErrSaveInFlight
	}
	d.saving = true
	return nil
}

func (d *Draft) EndSave() {
	d.saving = false
}

func (d *Draft) Saving() bool {
	return d.saving
}

// Form renders the draft as a model.Form for preview purposes. Field order
// follows current positions; no renumbering is persisted.
func (d *Draft) Form() model.Form {
	return model.Form{
		ID:          d.FormID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Fields:      d.Fields(),
	}
}
