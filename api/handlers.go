/*
handlers.go - HTTP API handlers for CSV sheets

PURPOSE:
  Exposes sheet storage via the /csv REST surface. Handles HTTP
  request/response, JSON serialization, CSV parsing, and delegates
  persistence to a sheet.Store.

ENDPOINTS:
  GET    /csv/getDataJSON          List sheet summaries
  GET    /csv/getOneSheet/{title}  One sheet with its rows
  PUT    /csv/update/{title}       Bulk replace a sheet's rows
  POST   /csv/uploadCSV            Create a sheet from a multipart CSV upload
  DELETE /csv/delete/{title}       Remove a sheet
  GET    /csv/export/{title}       XLSX workbook with a line chart

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (rows validate while decoding)
  3. Call the store
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid CSV, title mismatch
  - 404: Sheet not found
  - 409: Duplicate title on upload
  - 500: Internal errors

SECURITY NOTE:
  No authentication. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/warp/sheet-editor/sheet"
)

// DefaultMaxUploadBytes caps multipart CSV uploads.
const DefaultMaxUploadBytes = 10 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store          sheet.Store
	MaxUploadBytes int64
}

// NewHandler creates a new handler with the given store.
func NewHandler(store sheet.Store) *Handler {
	return &Handler{
		Store:          store,
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

// =============================================================================
// SHEET HANDLERS
// =============================================================================

// ListSheets returns every sheet summary.
// GET /csv/getDataJSON
func (h *Handler) ListSheets(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Store.ListSheets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sheets", err)
		return
	}

	dtos := make([]SummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = toSummaryDTO(s)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// GetSheet returns one sheet with its rows.
// GET /csv/getOneSheet/{title}
func (h *Handler) GetSheet(w http.ResponseWriter, r *http.Request) {
	title, ok := titleParam(w, r)
	if !ok {
		return
	}

	s, err := h.Store.GetSheet(r.Context(), title)
	if err != nil {
		writeStoreError(w, "Failed to get sheet", err)
		return
	}

	writeJSON(w, http.StatusOK, toSheetDTO(s))
}

// UpdateSheet replaces a sheet's rows with the request's row set.
// PUT /csv/update/{title}
func (h *Handler) UpdateSheet(w http.ResponseWriter, r *http.Request) {
	title, ok := titleParam(w, r)
	if !ok {
		return
	}

	var req UpdateSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Title != "" && req.Title != title {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Body title %q does not match %q", req.Title, title), nil)
		return
	}
	if req.Data == nil {
		writeError(w, http.StatusBadRequest, "data is required", nil)
		return
	}

	rows, err := sheet.DecodeRows(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rows", err)
		return
	}

	sum, err := h.Store.ReplaceRows(r.Context(), title, rows)
	if err != nil {
		writeStoreError(w, "Failed to update sheet", err)
		return
	}

	log.Printf("[Sheets] Replaced %d rows of %q", len(rows), title)
	writeJSON(w, http.StatusOK, AckResponse{
		Status:    "updated",
		Title:     title,
		Rows:      len(rows),
		UpdatedAt: toSummaryDTO(sum).UpdatedAt,
	})
}

// UploadCSV creates a sheet from a multipart upload with "file" and "title".
// POST /csv/uploadCSV
func (h *Handler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if err := sheet.ValidateTitle(title); err != nil {
		writeError(w, http.StatusBadRequest, "Please provide both a file and a title", err)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Please provide both a file and a title", err)
		return
	}
	defer file.Close()

	rows, err := sheet.ParseCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid CSV Format", err)
		return
	}

	sum, err := h.Store.CreateSheet(r.Context(), title, rows)
	if err != nil {
		writeStoreError(w, "Failed to create sheet", err)
		return
	}

	log.Printf("[Sheets] Created %q with %d rows", title, len(rows))
	writeJSON(w, http.StatusCreated, AckResponse{
		Status:    "created",
		Title:     sum.Title,
		Rows:      len(rows),
		UpdatedAt: toSummaryDTO(sum).UpdatedAt,
	})
}

// DeleteSheet removes a sheet.
// DELETE /csv/delete/{title}
func (h *Handler) DeleteSheet(w http.ResponseWriter, r *http.Request) {
	title, ok := titleParam(w, r)
	if !ok {
		return
	}

	if err := h.Store.DeleteSheet(r.Context(), title); err != nil {
		writeStoreError(w, "Failed to delete sheet", err)
		return
	}

	log.Printf("[Sheets] Deleted %q", title)
	writeJSON(w, http.StatusOK, AckResponse{Status: "deleted", Title: title})
}

// ExportSheet streams the sheet as an XLSX workbook with a line chart.
// GET /csv/export/{title}
func (h *Handler) ExportSheet(w http.ResponseWriter, r *http.Request) {
	title, ok := titleParam(w, r)
	if !ok {
		return
	}

	s, err := h.Store.GetSheet(r.Context(), title)
	if err != nil {
		writeStoreError(w, "Failed to get sheet", err)
		return
	}

	// Buffer so a failed export can still be reported as JSON.
	var buf bytes.Buffer
	if err := sheet.WriteXLSX(&buf, s); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export sheet", err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": title + ".xlsx"}))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// =============================================================================
// HELPERS
// =============================================================================

// titleParam reads {title}. chi matches on the escaped path when the request
// carried escapes the default encoding would not produce (e.g. %2F), so the
// raw segment needs unescaping in that case only.
func titleParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	title := chi.URLParam(r, "title")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(title)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid title", err)
			return "", false
		}
		title = unescaped
	}
	if err := sheet.ValidateTitle(title); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid title", err)
		return "", false
	}
	return title, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps store errors to their HTTP status.
func writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, sheet.ErrSheetNotFound):
		writeError(w, http.StatusNotFound, "Sheet not found", err)
	case errors.Is(err, sheet.ErrDuplicateTitle):
		writeError(w, http.StatusConflict, "A sheet with this title already exists", err)
	case sheet.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
