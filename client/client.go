/*
Package client is a typed HTTP client for the /csv sheet API.

PURPOSE:
  The consuming side of api/: list, read, bulk replace, upload, delete and
  export sheets. The views package drives it; the CLI uses it directly.

ERROR MODEL:
  Any non-2xx status is a *RemoteError regardless of body content, and so
  is a transport failure (StatusCode 0). Callers that only need to know
  "the server said no" use errors.Is(err, ErrRemote). Rows coming back are
  validated at this boundary: a malformed row is a *sheet.ValidationError,
  not a half-decoded value.

CONFIGURATION:
  The base URL is never hardcoded here. cmd/sheets reads it from --api or
  SHEETS_API_URL.

NO RETRIES:
  Each call is attempted exactly once.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/warp/sheet-editor/sheet"
)

// DefaultTimeout bounds each request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 4 << 10

// ErrRemote is the sentinel behind every RemoteError.
var ErrRemote = errors.New("remote request failed")

// RemoteError reports a failed call. StatusCode is 0 for transport errors.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": request failed"
}

func (e *RemoteError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRemote, e.Err}
	}
	return []error{ErrRemote}
}

// Config configures a Client.
type Config struct {
	// BaseURL is the API origin, e.g. "http://localhost:4200".
	BaseURL string
	// HTTPClient overrides the default client. Its Timeout wins over Timeout.
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil.
	Timeout time.Duration
}

// Client calls the /csv API.
type Client struct {
	base string
	http *http.Client
}

// New validates the config and returns a client.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{base: strings.TrimRight(u.String(), "/"), http: hc}, nil
}

// BaseURL returns the configured origin.
func (c *Client) BaseURL() string {
	return c.base
}

// =============================================================================
// OPERATIONS
// =============================================================================

// ListSheets fetches every sheet summary.
func (c *Client) ListSheets(ctx context.Context) ([]sheet.Summary, error) {
	const op = "list sheets"

	var out []sheet.Summary
	if err := c.doJSON(ctx, op, http.MethodGet, "/csv/getDataJSON", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []sheet.Summary{}
	}
	return out, nil
}

// GetSheet fetches one sheet and validates its rows.
func (c *Client) GetSheet(ctx context.Context, title string) (*sheet.Sheet, error) {
	op := fmt.Sprintf("get sheet %q", title)

	var body struct {
		Title     string            `json:"title"`
		Data      []json.RawMessage `json:"data"`
		CreatedAt time.Time         `json:"createdAt"`
		UpdatedAt time.Time         `json:"updatedAt"`
	}
	if err := c.doJSON(ctx, op, http.MethodGet, "/csv/getOneSheet/"+url.PathEscape(title), nil, &body); err != nil {
		return nil, err
	}

	rows, err := sheet.DecodeRows(body.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if body.Title == "" {
		body.Title = title
	}
	return &sheet.Sheet{
		Summary: sheet.Summary{Title: body.Title, CreatedAt: body.CreatedAt, UpdatedAt: body.UpdatedAt},
		Rows:    rows,
	}, nil
}

// UpdateSheet sends rows as a bulk replacement of the sheet's row set.
func (c *Client) UpdateSheet(ctx context.Context, title string, rows []sheet.Row) error {
	op := fmt.Sprintf("update sheet %q", title)

	if rows == nil {
		rows = []sheet.Row{}
	}
	payload, err := json.Marshal(struct {
		Title string      `json:"title"`
		Data  []sheet.Row `json:"data"`
	}{Title: title, Data: rows})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return c.doJSON(ctx, op, http.MethodPut, "/csv/update/"+url.PathEscape(title), bytes.NewReader(payload), nil)
}

// UploadCSV creates a sheet from CSV content as multipart form data.
func (c *Client) UploadCSV(ctx context.Context, title, filename string, content io.Reader) error {
	op := fmt.Sprintf("upload sheet %q", title)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(fw, content); err != nil {
		return fmt.Errorf("%s: read file: %w", op, err)
	}
	if err := mw.WriteField("title", title); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/csv/uploadCSV", &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

// DeleteSheet removes a sheet.
func (c *Client) DeleteSheet(ctx context.Context, title string) error {
	op := fmt.Sprintf("delete sheet %q", title)
	return c.doJSON(ctx, op, http.MethodDelete, "/csv/delete/"+url.PathEscape(title), nil, nil)
}

// ExportSheet streams the sheet's XLSX export into w.
func (c *Client) ExportSheet(ctx context.Context, title string, w io.Writer) error {
	op := fmt.Sprintf("export sheet %q", title)

	req, err := c.newRequest(ctx, http.MethodGet, "/csv/export/"+url.PathEscape(title), nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.send(op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	return nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, c.base+path, body)
}

// doJSON sends a request and decodes a 2xx JSON body into out (if non-nil).
func (c *Client) doJSON(ctx context.Context, op, method, path string, body io.Reader, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Op: op, StatusCode: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

// send performs the request; any non-2xx status becomes a RemoteError and
// the body is closed.
func (c *Client) send(op string, req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RemoteError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	return resp, nil
}

func errorMessage(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	var e struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		if e.Details != "" {
			return e.Error + ": " + e.Details
		}
		return e.Error
	}
	return strings.TrimSpace(string(data))
}
