// Package submit turns collected form values into the wire payload the API
// expects, and runs the pre-flight validation gating the network call.
package submit

import (
	"fmt"
	"regexp"

	"github.com/formbench/formbench/model"
)

// FieldError is a validation failure surfaced inline next to the offending
// field, never as a generic notification.
type FieldError struct {
	QuestionID int
	Label      string
	Message    string
}

func (e FieldError) Error() string {
	if e.Label == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Label, e.Message)
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s.]+$`)

// ValidEmail checks the standard local@domain.tld shape; a missing TLD
// ("foo@bar") is rejected.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// Validate checks required fields and the respondent email before the
// payload is built. A non-empty result blocks submission.
func Validate(fields []model.Field, values map[int]any, email string) []FieldError {
	var errs []FieldError

	if email == "" {
		errs = append(errs, FieldError{Label: "email", Message: "email is required"})
	} else if !ValidEmail(email) {
		errs = append(errs, FieldError{Label: "email", Message: "invalid email address"})
	}

	for _, f := range fields {
		if f.Type.IsLayout() || !bool(f.Required) {
			continue
		}
		if isEmpty(values[f.ID]) {
			errs = append(errs, FieldError{
				QuestionID: f.ID,
				Label:      f.Text,
				Message:    "this question is required",
			})
		}
	}
	return errs
}

// Build produces the submission payload from the form's fields (in display
// order) and the collected values keyed by question id. Fields without a
// server id, layout pseudo-fields, and unanswered fields are omitted;
// required-ness is Validate's concern, not Build's.
func Build(fields []model.Field, values map[int]any, urlToken, email string) model.Submission {
	sub := model.Submission{
		URLToken: urlToken,
		Email:    email,
		Answers:  []model.Answer{},
	}

	for _, f := range fields {
		if !f.Saved() || f.Type.IsLayout() {
			continue
		}
		value := values[f.ID]
		if isEmpty(value) {
			continue
		}

		switch f.Type {
		case model.TypeCheckboxes:
			sub.Answers = append(sub.Answers, model.Answer{
				QuestionID: f.ID,
				Value:      model.SelectedOptions{SelectedOptions: toList(value)},
			})
		case model.TypeDropdown, model.TypeMultipleChoice:
			sub.Answers = append(sub.Answers, model.Answer{
				QuestionID: f.ID,
				Value:      model.SelectedOptions{SelectedOptions: []string{toString(value)}},
			})
		case model.TypeFile:
			sub.Answers = append(sub.Answers, model.Answer{
				QuestionID: f.ID,
				Value:      model.FileRef{File: value},
			})
		default:
			sub.Answers = append(sub.Answers, model.Answer{
				QuestionID: f.ID,
				Value:      value,
			})
		}
	}
	return sub
}

func isEmpty(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case []string:
		return len(value) == 0
	case []any:
		return len(value) == 0
	default:
		return false
	}
}

// toList coerces a checkboxes value to a list, wrapping a lone scalar in a
// singleton. A single ticked box arrives as a scalar from form decoding.
func toList(v any) []string {
	switch value := v.(type) {
	case []string:
		return value
	case []any:
		out := make([]string, len(value))
		for i, e := range value {
			out[i] = toString(e)
		}
		return out
	default:
		return []string{toString(v)}
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
