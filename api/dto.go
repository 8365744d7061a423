/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. The /csv wire format
  predates this server (camelCase timestamps, capitalised row keys), so
  these types pin it down independently of the domain model.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Acknowledgement wrappers

TYPES:
  Sheets:
    SummaryDTO, SheetDTO, UpdateSheetRequest, AckResponse

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Rows validate themselves while decoding (sheet.Row.UnmarshalJSON).
  Request-level checks (title mismatch, missing data) live in handlers.

SEE ALSO:
  - handlers.go: Uses these types
  - client/client.go: Decodes these types on the consuming side
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/warp/sheet-editor/sheet"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// SummaryDTO is one entry of GET /csv/getDataJSON.
type SummaryDTO struct {
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// SheetDTO is the body of GET /csv/getOneSheet/{title}.
type SheetDTO struct {
	Title     string      `json:"title"`
	Data      []sheet.Row `json:"data"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
}

// UpdateSheetRequest is the body of PUT /csv/update/{title}.
// Data stays raw so row errors can be reported with their index.
type UpdateSheetRequest struct {
	Title string            `json:"title"`
	Data  []json.RawMessage `json:"data"`
}

// AckResponse acknowledges a write.
type AckResponse struct {
	Status    string `json:"status"`
	Title     string `json:"title"`
	Rows      int    `json:"rows,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// ScenarioDTO describes a demo sheet that can be loaded.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Rows        int    `json:"rows"`
}

// LoadScenarioRequest is the body of POST /csv/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toSummaryDTO(s sheet.Summary) SummaryDTO {
	return SummaryDTO{
		Title:     s.Title,
		CreatedAt: s.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func toSheetDTO(s *sheet.Sheet) SheetDTO {
	rows := s.Rows
	if rows == nil {
		rows = []sheet.Row{}
	}
	return SheetDTO{
		Title:     s.Title,
		Data:      rows,
		CreatedAt: s.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339Nano),
	}
}
