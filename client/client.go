// Package client is the HTTP surface towards the external forms API: form
// and question CRUD, the approval workflow, public submissions and file
// upload. All calls take a context and return explicit errors; failed calls
// are never retried here, re-action is up to the user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/formbench/formbench/draft"
	"github.com/formbench/formbench/log"
	"github.com/formbench/formbench/model"
)

type Client struct {
	BaseURL string
	Session *Session
	HTTP    *http.Client
}

func New(baseURL string, session *Session, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		Session: session,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx response from the forms API, carrying the
// human-readable message to surface as a notification.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client.encode_body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.decorate(req)

	return c.send(req, out)
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.Session != nil && c.Session.LoggedIn() {
		req.Header.Set("Authorization", "Bearer "+c.Session.Token)
	}
}

func (c *Client) send(req *http.Request, out any) error {
	log.Debugf("client.%s %s", req.Method, req.URL.Path)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("client.request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client.decode_response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			apiErr.Message = payload.Message
		} else if payload.Detail != "" {
			apiErr.Message = payload.Detail
		}
	}
	return apiErr
}

// Login exchanges credentials for a bearer token and stores the resulting
// session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	var result struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login/", body, &result); err != nil {
		return err
	}
	c.Session.Token = result.Token
	c.Session.User = result.User
	return c.Session.Save()
}

func (c *Client) Logout() error {
	return c.Session.Clear()
}

func (c *Client) CreateForm(ctx context.Context, form model.Form) (model.Form, error) {
	var created model.Form
	err := c.do(ctx, http.MethodPost, "/api/forms/", form, &created)
	return created, err
}

func (c *Client) UpdateForm(ctx context.Context, form model.Form) error {
	path := fmt.Sprintf("/api/forms/%d/", form.ID)
	return c.do(ctx, http.MethodPut, path, form, nil)
}

func (c *Client) GetForm(ctx context.Context, id int) (model.Form, error) {
	var form model.Form
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/forms/%d/", id), nil, &form)
	return form, err
}

func (c *Client) ListForms(ctx context.Context) ([]model.Form, error) {
	var result struct {
		Forms []model.Form `json:"forms"`
	}
	err := c.do(ctx, http.MethodGet, "/api/forms/", nil, &result)
	return result.Forms, err
}

// FormPage is one page of search results.
type FormPage struct {
	Forms      []model.Form `json:"results"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
}

func (c *Client) SearchForms(ctx context.Context, keyword, status string, page int) (FormPage, error) {
	q := url.Values{}
	if keyword != "" {
		q.Set("keyword", keyword)
	}
	if status != "" {
		q.Set("status", status)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}

	var result FormPage
	err := c.do(ctx, http.MethodGet, "/api/forms/search/?"+q.Encode(), nil, &result)
	return result, err
}

// SaveQuestions submits the full field list for a form. Options travel in
// their persisted string encoding regardless of how they are held in
// memory. With override set the server reconciles the submitted list
// against the stored one; without it this is a plain bulk create.
func (c *Client) SaveQuestions(ctx context.Context, formID int, fields []model.Field, override bool) ([]model.Field, error) {
	wire := make([]model.Field, len(fields))
	copy(wire, fields)
	for i := range wire {
		if wire[i].Type.HasOptions() {
			wire[i].Options = model.EncodeOptions(model.DecodeOptions(wire[i].Options))
		} else {
			wire[i].Options = nil
		}
	}

	body := map[string]any{
		"questions": wire,
		"override":  override,
	}
	var result struct {
		Questions []model.Field `json:"questions"`
	}
	path := fmt.Sprintf("/api/forms/%d/questions/", formID)
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}
	return result.Questions, nil
}

func (c *Client) SubmitToAdmin(ctx context.Context, formID int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/forms/%d/submit/", formID), nil, nil)
}

func (c *Client) ApproveForm(ctx context.Context, formID int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/forms/%d/approve/", formID), nil, nil)
}

func (c *Client) RejectForm(ctx context.Context, formID int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/forms/%d/reject/", formID), nil, nil)
}

func (c *Client) PublishForm(ctx context.Context, formID int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/forms/%d/publish/", formID), nil, nil)
}

// PublicForm fetches a published form by its opaque url token; this is the
// anonymous access path, no authentication involved.
func (c *Client) PublicForm(ctx context.Context, urlToken string) (model.Form, error) {
	var form model.Form
	path := "/api/public/forms/" + url.PathEscape(urlToken) + "/"
	err := c.do(ctx, http.MethodGet, path, nil, &form)
	return form, err
}

// CreateResponse sends a built submission for the form identified by its
// url token.
func (c *Client) CreateResponse(ctx context.Context, sub model.Submission) error {
	path := "/api/public/forms/" + url.PathEscape(sub.URLToken) + "/responses/"
	return c.do(ctx, http.MethodPost, path, sub, nil)
}

// ResponseRecord is one collected response as returned by the dashboard
// listing.
type ResponseRecord struct {
	ID          int            `json:"id"`
	Email       string         `json:"email"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Answers     []model.Answer `json:"submissions"`
}

type ResponsePage struct {
	Responses  []ResponseRecord `json:"results"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

func (c *Client) ListResponses(ctx context.Context, formID, page int) (ResponsePage, error) {
	path := fmt.Sprintf("/api/forms/%d/responses/", formID)
	if page > 0 {
		path += "?page=" + strconv.Itoa(page)
	}
	var result ResponsePage
	err := c.do(ctx, http.MethodGet, path, nil, &result)
	return result, err
}

// UploadFile sends a file as multipart form data and returns the stored
// file reference to embed in an answer.
func (c *Client) UploadFile(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/uploads/", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.decorate(req)

	var result struct {
		File string `json:"file"`
	}
	if err := c.send(req, &result); err != nil {
		return "", err
	}
	return result.File, nil
}

// SaveDraft persists a draft: the form shell is created or updated first,
// then the full question list goes out in one bulk call with contiguous
// 1-based order values. On any failure the draft is left untouched so the
// user can retry.
func (c *Client) SaveDraft(ctx context.Context, d *draft.Draft) (model.Form, error) {
	if err := d.BeginSave(); err != nil {
		return model.Form{}, err
	}
	defer d.EndSave()

	return c.saveDraft(ctx, d)
}

func (c *Client) saveDraft(ctx context.Context, d *draft.Draft) (model.Form, error) {
	// the form shell travels without fields, those go in the bulk call below
	form := d.Form()
	form.Fields = nil

	if d.FormID == 0 {
		created, err := c.CreateForm(ctx, form)
		if err != nil {
			return model.Form{}, err
		}
		form = created
	} else if err := c.UpdateForm(ctx, form); err != nil {
		return model.Form{}, err
	}

	set := d.SaveSet()
	saved, err := c.SaveQuestions(ctx, form.ID, set.All(), set.Override)
	if err != nil {
		return model.Form{}, err
	}
	form.Fields = saved
	return form, nil
}

// SaveThenSubmit saves the draft and, only after the save has fully
// succeeded, hands the form over for admin review. The two calls are
// strictly sequenced, and the in-flight flag spans both so the triggering
// control stays disabled until the submit resolves.
func (c *Client) SaveThenSubmit(ctx context.Context, d *draft.Draft) (model.Form, error) {
	if err := d.BeginSave(); err != nil {
		return model.Form{}, err
	}
	defer d.EndSave()

	form, err := c.saveDraft(ctx, d)
	if err != nil {
		return model.Form{}, err
	}
	if err := c.SubmitToAdmin(ctx, form.ID); err != nil {
		return model.Form{}, err
	}
	return form, nil
}
