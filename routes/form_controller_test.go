package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/formbench/formbench/app"
	"github.com/formbench/formbench/client"
	"github.com/formbench/formbench/model"
)

type apiStub struct {
	form      model.Form
	responses []model.Submission
}

func (s *apiStub) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/public/forms/"):
			json.NewEncoder(w).Encode(s.form)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/responses/"):
			var sub model.Submission
			if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
				t.Error(err)
			}
			s.responses = append(s.responses, sub)
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected API call %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func testApp(t *testing.T, stub *apiStub) (http.Handler, *apiStub) {
	t.Helper()
	api := httptest.NewServer(stub.handler(t))
	t.Cleanup(api.Close)

	a := app.App{Client: client.New(api.URL, &client.Session{}, 5*time.Second)}
	return Wire(a), stub
}

func sampleForm() model.Form {
	return model.Form{
		ID:       1,
		URLToken: "tok123",
		Title:    "Exit survey",
		Status:   model.StatusPublished,
		Fields: []model.Field{
			{ID: 1, Text: "Why are you leaving?", Type: model.TypeParagraph, Required: true, Order: 1},
			{ID: 2, Text: "Rate us", Type: model.TypeRating, Order: 2},
			{ID: 3, Text: "Perks you used", Type: model.TypeCheckboxes, Options: `["Gym","Lunch"]`, Order: 3},
			{ID: 4, Type: model.TypeDivider, Order: 4},
		},
	}
}

func TestViewFormRendersWidgets(t *testing.T) {
	handler, _ := testApp(t, &apiStub{form: sampleForm()})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms/tok123", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Exit survey",
		`name="q_1"`,
		`name="q_3" value="Gym"`,
		`name="email"`,
		"<hr",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %s", want)
		}
	}
}

func encodeForm(t *testing.T, values map[string][]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, vs := range values {
		for _, v := range vs {
			if err := mw.WriteField(name, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestSubmitFormValidationBlocksNetwork(t *testing.T) {
	handler, stub := testApp(t, &apiStub{form: sampleForm()})

	body, contentType := encodeForm(t, map[string][]string{
		"email": {"foo@bar"}, // missing TLD
		// required q_1 left empty
	})
	req := httptest.NewRequest(http.MethodPost, "/forms/tok123", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	page := rec.Body.String()
	if !strings.Contains(page, "invalid email address") {
		t.Errorf("missing email error: %s", page)
	}
	if !strings.Contains(page, "this question is required") {
		t.Errorf("missing required error: %s", page)
	}
	if len(stub.responses) != 0 {
		t.Error("validation failure must not reach the API")
	}
}

func TestSubmitFormRelaysPayload(t *testing.T) {
	handler, stub := testApp(t, &apiStub{form: sampleForm()})

	body, contentType := encodeForm(t, map[string][]string{
		"email": {"ada@example.com"},
		"q_1":   {"new gig"},
		"q_3":   {"Gym", "Lunch"},
		"q_4":   {"should never be collected"},
	})
	req := httptest.NewRequest(http.MethodPost, "/forms/tok123", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.responses) != 1 {
		t.Fatalf("responses = %d", len(stub.responses))
	}

	sub := stub.responses[0]
	if sub.URLToken != "tok123" || sub.Email != "ada@example.com" {
		t.Errorf("envelope = %+v", sub)
	}
	if len(sub.Answers) != 2 {
		t.Fatalf("answers = %+v, want q_1 and q_3 only", sub.Answers)
	}
	for _, a := range sub.Answers {
		if a.QuestionID == 4 {
			t.Error("divider answer must never be submitted")
		}
	}
}

func TestPreviewDraftBuilderMode(t *testing.T) {
	handler, _ := testApp(t, &apiStub{})

	draftJSON, _ := json.Marshal(model.Form{
		Title: "WIP",
		Fields: []model.Field{
			{Text: "New text question", Type: model.TypeText},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/preview", bytes.NewReader(draftJSON))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), " disabled") {
		t.Error("builder preview should render disabled widgets")
	}
}
