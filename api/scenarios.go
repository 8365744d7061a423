/*
scenarios.go - Demo sheet loaders for testing and demonstrations

PURPOSE:
  Provides pre-built sheets that populate the database with realistic
  monthly figures, so the list and editor have something to show on a
  fresh install.

AVAILABLE SCENARIOS:
  quarterly:  Three months, all profitable
  full-year:  Twelve months with a loss-making summer
  empty:      A sheet with no rows (exercises empty chart/table paths)

HOW SCENARIOS WORK:
  1. Look up the scenario by ID
  2. Create its sheet, or bulk replace the rows if the title already exists

USAGE VIA API:
  GET  /csv/scenarios
  POST /csv/scenarios/load
  {"scenario_id": "quarterly"}
  POST /csv/scenarios/reset   (removes every sheet)

USAGE AT STARTUP:
  server -seed   (loads "quarterly" when the store has no sheets)

SEE ALSO:
  - handlers.go: Sheet endpoints
  - cmd/server/main.go: -seed flag
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/warp/sheet-editor/sheet"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ID          string
	Title       string
	Description string
	Rows        func() []sheet.Row
}

var scenarios = []scenario{
	{
		ID:          "quarterly",
		Title:       "Quarterly",
		Description: "Three profitable months",
		Rows: func() []sheet.Row {
			return []sheet.Row{
				sheet.NewRow("Jan", 100, 40, 60),
				sheet.NewRow("Feb", 120, 45, 75),
				sheet.NewRow("Mar", 140, 70, 70),
			}
		},
	},
	{
		ID:          "full-year",
		Title:       "Full Year",
		Description: "Twelve months with a loss-making summer",
		Rows: func() []sheet.Row {
			months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
				"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
			revenue := []int64{100, 110, 125, 130, 90, 70, 60, 65, 115, 140, 150, 180}
			expenses := []int64{60, 62, 70, 72, 95, 90, 85, 80, 75, 80, 85, 90}

			rows := make([]sheet.Row, len(months))
			for i, m := range months {
				rows[i] = sheet.NewRow(m, revenue[i], expenses[i], revenue[i]-expenses[i])
			}
			return rows
		},
	},
	{
		ID:          "empty",
		Title:       "Empty",
		Description: "A sheet with no rows",
		Rows:        func() []sheet.Row { return []sheet.Row{} },
	},
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// =============================================================================
// LOADERS
// =============================================================================

// LoadScenario creates the scenario's sheet, replacing its rows if a sheet
// with that title already exists.
func (h *Handler) LoadScenario(ctx context.Context, id string) (sheet.Summary, error) {
	sc, ok := findScenario(id)
	if !ok {
		return sheet.Summary{}, fmt.Errorf("unknown scenario %q", id)
	}

	sum, err := h.Store.CreateSheet(ctx, sc.Title, sc.Rows())
	if errors.Is(err, sheet.ErrDuplicateTitle) {
		sum, err = h.Store.ReplaceRows(ctx, sc.Title, sc.Rows())
	}
	if err != nil {
		return sheet.Summary{}, err
	}

	log.Printf("[Seed] Loaded scenario %s as %q", sc.ID, sc.Title)
	return sum, nil
}

// SeedIfEmpty loads the quarterly scenario when no sheets exist yet.
func (h *Handler) SeedIfEmpty(ctx context.Context) error {
	existing, err := h.Store.ListSheets(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	_, err = h.LoadScenario(ctx, "quarterly")
	return err
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo sheets.
// GET /csv/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = ScenarioDTO{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Rows:        len(s.Rows()),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// LoadScenarioHandler loads a demo sheet.
// POST /csv/scenarios/load
func (h *Handler) LoadScenarioHandler(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, ok := findScenario(req.ScenarioID); !ok {
		writeError(w, http.StatusNotFound, "Scenario not found", nil)
		return
	}

	sum, err := h.LoadScenario(r.Context(), req.ScenarioID)
	if err != nil {
		writeStoreError(w, "Failed to load scenario", err)
		return
	}

	writeJSON(w, http.StatusOK, AckResponse{
		Status:    "loaded",
		Title:     sum.Title,
		UpdatedAt: toSummaryDTO(sum).UpdatedAt,
	})
}

// ResetDatabase removes every sheet.
// POST /csv/scenarios/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	log.Printf("[Seed] Database reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
