package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestIntBoolMarshal(t *testing.T) {
	f := Field{Text: "ok?", Type: TypeText, Required: true}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"required":1`) {
		t.Errorf("required not marshaled as 1: %s", data)
	}

	f.Required = false
	data, _ = json.Marshal(f)
	if !strings.Contains(string(data), `"required":0`) {
		t.Errorf("required not marshaled as 0: %s", data)
	}
}

func TestIntBoolUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want IntBool
	}{
		{`{"type":"text","text":"","required":1}`, true},
		{`{"type":"text","text":"","required":0}`, false},
		{`{"type":"text","text":"","required":true}`, true},
		{`{"type":"text","text":"","required":false}`, false},
	}
	for _, c := range cases {
		var f Field
		if err := json.Unmarshal([]byte(c.in), &f); err != nil {
			t.Fatalf("%s: %s", c.in, err)
		}
		if f.Required != c.want {
			t.Errorf("%s: required = %v, want %v", c.in, f.Required, c.want)
		}
	}
}

func TestFieldTypePredicates(t *testing.T) {
	for _, tt := range []FieldType{TypeDropdown, TypeCheckboxes, TypeMultipleChoice} {
		if !tt.HasOptions() {
			t.Errorf("%s should bear options", tt)
		}
	}
	if TypeText.HasOptions() {
		t.Error("text should not bear options")
	}

	for _, tt := range []FieldType{TypeTitleText, TypeDivider} {
		if !tt.IsLayout() {
			t.Errorf("%s should be a layout pseudo-type", tt)
		}
	}
	if TypeRating.IsLayout() {
		t.Error("rating should not be a layout pseudo-type")
	}

	if FieldType("bogus").Valid() {
		t.Error("bogus should not be a valid type")
	}
}

func TestAnswerWireFormat(t *testing.T) {
	sub := Submission{
		URLToken: "tok123",
		Email:    "a@b.com",
		Answers: []Answer{
			{QuestionID: 7, Value: "hello"},
			{QuestionID: 9, Value: SelectedOptions{SelectedOptions: []string{"x"}}},
		},
	}
	data, err := json.Marshal(sub)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`"url_token":"tok123"`,
		`"submissions":[`,
		`"question_id":7`,
		`"answer":"hello"`,
		`"selected_options":["x"]`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("submission JSON missing %s: %s", want, data)
		}
	}
}
