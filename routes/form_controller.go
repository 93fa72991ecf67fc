package routes

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/formbench/formbench/app"
	"github.com/formbench/formbench/httpx"
	"github.com/formbench/formbench/log"
	"github.com/formbench/formbench/model"
	renderer "github.com/formbench/formbench/render"
	"github.com/formbench/formbench/submit"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
{{if .Errors}}<ul class="errors">
{{range .Errors}}<li>{{.}}</li>
{{end}}</ul>
{{end}}{{.Body}}
</body>
</html>
`))

type page struct {
	Title  string
	Errors []string
	Body   template.HTML
}

func writePage(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, p); err != nil {
		log.Errorf("preview.write_page: %s", err)
	}
}

// ViewForm fetches a published form by url token and serves the fillable
// rendition.
func ViewForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		form, err := app.PublicForm(r.Context(), token)
		if err != nil {
			httpx.RelayAPIError(w, "preview.get_form", err)
			return
		}

		body, err := renderForm(form, token, nil)
		if err != nil {
			httpx.LogInternalError(w, "preview.render_form", err)
			return
		}
		writePage(w, http.StatusOK, page{Title: form.Title, Body: body})
	}
}

func renderForm(form model.Form, token string, values map[int]any) (template.HTML, error) {
	fields, err := renderer.Form(renderer.Display, form, values)
	if err != nil {
		return "", err
	}
	return template.HTML(fmt.Sprintf(
		`<form method="post" action="/forms/%s" enctype="multipart/form-data">
%s<div class="field field-email">
<label for="email">Your email<span class="required">*</span></label>
<input type="text" id="email" name="email" placeholder="you@example.com">
</div>
<button type="submit">Submit</button>
</form>
`, template.URLQueryEscaper(token), fields)), nil
}

// SubmitForm validates the filled values and relays the built submission
// payload to the API. Validation failures re-render the form inline with
// the entered values preserved; nothing reaches the network until they
// pass.
func SubmitForm(app app.App) http.HandlerFunc {
	const maxUpload = 16 << 20

	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		form, err := app.PublicForm(r.Context(), token)
		if err != nil {
			httpx.RelayAPIError(w, "preview.get_form", err)
			return
		}

		if err := r.ParseMultipartForm(maxUpload); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "preview.parse_form")
			return
		}

		values, err := collectValues(app, r, form)
		if err != nil {
			httpx.LogInternalError(w, "preview.collect_values", err)
			return
		}

		email := r.FormValue("email")
		if errs := submit.Validate(form.Fields, values, email); len(errs) > 0 {
			body, err := renderForm(form, token, values)
			if err != nil {
				httpx.LogInternalError(w, "preview.render_form", err)
				return
			}
			messages := make([]string, len(errs))
			for i, e := range errs {
				messages[i] = e.Error()
			}
			writePage(w, http.StatusUnprocessableEntity, page{
				Title:  form.Title,
				Errors: messages,
				Body:   body,
			})
			return
		}

		sub := submit.Build(form.Fields, values, token, email)
		if err := app.CreateResponse(r.Context(), sub); err != nil {
			httpx.RelayAPIError(w, "preview.create_response", err)
			return
		}

		writePage(w, http.StatusOK, page{
			Title: form.Title,
			Body:  template.HTML("<p>Thanks, your response was recorded.</p>\n"),
		})
	}
}

// collectValues walks the form's fields and pulls the matching request
// values. File answers are uploaded right away so only the stored reference
// travels in the submission payload.
func collectValues(app app.App, r *http.Request, form model.Form) (map[int]any, error) {
	values := map[int]any{}
	for _, f := range form.Fields {
		if !f.Saved() || f.Type.IsLayout() {
			continue
		}
		name := fmt.Sprintf("q_%d", f.ID)

		switch f.Type {
		case model.TypeCheckboxes:
			if ticked := r.Form[name]; len(ticked) > 0 {
				values[f.ID] = ticked
			}
		case model.TypeFile:
			file, header, err := r.FormFile(name)
			if err != nil {
				continue // not provided
			}
			ref, err := app.UploadFile(r.Context(), header.Filename, file)
			file.Close()
			if err != nil {
				return nil, err
			}
			values[f.ID] = ref
		default:
			if v := r.FormValue(name); v != "" {
				values[f.ID] = v
			}
		}
	}
	return values, nil
}

// PreviewDraft renders the builder-mode preview of a draft posted as JSON.
// The builder UI uses it to show the disabled layout while editing.
func PreviewDraft(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := model.Form{}
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "preview.parse_body")
			return
		}

		body, err := renderer.Form(renderer.Builder, form, nil)
		if err != nil {
			httpx.LogInternalError(w, "preview.render_draft", err)
			return
		}
		writePage(w, http.StatusOK, page{Title: form.Title, Body: body})
	}
}
