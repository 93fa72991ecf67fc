package model

import (
	"encoding/json"
	"fmt"
)

type FieldType string

const (
	TypeText           FieldType = "text"
	TypeParagraph      FieldType = "paragraph"
	TypeNumber         FieldType = "number"
	TypeDropdown       FieldType = "dropdown"
	TypeCheckboxes     FieldType = "checkboxes"
	TypeMultipleChoice FieldType = "multiple_choice"
	TypeDatetime       FieldType = "datetime"
	TypeRating         FieldType = "rating"
	TypeFile           FieldType = "file"
	TypeTitleText      FieldType = "title_text"
	TypeDivider        FieldType = "divider"

	// Accepted for backwards compatibility, rendered as plain text inputs.
	TypeEmail FieldType = "email"
	TypeTime  FieldType = "time"
)

func ValidFieldTypes() []FieldType {
	return []FieldType{
		TypeText,
		TypeParagraph,
		TypeNumber,
		TypeDropdown,
		TypeCheckboxes,
		TypeMultipleChoice,
		TypeDatetime,
		TypeRating,
		TypeFile,
		TypeTitleText,
		TypeDivider,
		TypeEmail,
		TypeTime,
	}
}

func (t FieldType) Valid() bool {
	for _, v := range ValidFieldTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// HasOptions reports whether fields of this type carry a list of
// selectable choices.
func (t FieldType) HasOptions() bool {
	return t == TypeDropdown || t == TypeCheckboxes || t == TypeMultipleChoice
}

// IsLayout reports whether this is a layout pseudo-type: rendered in the
// builder and viewer, occupies an order slot, but never collects an answer.
func (t FieldType) IsLayout() bool {
	return t == TypeTitleText || t == TypeDivider
}

// IntBool is a boolean persisted as 0/1. The API emits integers but some
// older form definitions round-trip JSON booleans, so both are accepted.
type IntBool bool

func (b IntBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (b *IntBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "0", "false", "null":
		*b = false
	case "1", "true":
		*b = true
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("model: invalid bool value %s", data)
		}
		*b = n != 0
	}
	return nil
}

type Field struct {
	ID          int       `json:"id,omitempty"`
	Text        string    `json:"text"`
	Type        FieldType `json:"type"`
	Required    IntBool   `json:"required"`
	Options     any       `json:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Order       int       `json:"order,omitempty"`

	// TempID identifies a field client-side before the server has assigned
	// an ID. Assigned once at creation, never reused within a draft.
	TempID int `json:"-"`
}

// Saved reports whether the field has a server identity. Unsaved fields must
// be created, never updated.
func (f Field) Saved() bool {
	return f.ID != 0
}

// Form statuses as reported by the API.
const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusPublished = "published"
)

type Form struct {
	ID          int     `json:"id,omitempty"`
	URLToken    string  `json:"url_token,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Status      string  `json:"status,omitempty"`
	Fields      []Field `json:"questions"`
}

type Submission struct {
	URLToken string   `json:"url_token"`
	Email    string   `json:"email"`
	Answers  []Answer `json:"submissions"`
}

type Answer struct {
	QuestionID int `json:"question_id"`
	Value      any `json:"answer"`
}

// Answer value shapes for option-bearing and file fields.
type SelectedOptions struct {
	SelectedOptions []string `json:"selected_options"`
}

type FileRef struct {
	File any `json:"file"`
}
