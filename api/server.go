/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests from the editor front-end

ROUTE GROUPS:
  /csv/*            Sheet endpoints (the surface the editor consumes)
  /csv/scenarios/*  Demo sheets
  /                 Plain index listing the endpoints

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultAllowedOrigins are the dev front-end origins allowed by CORS.
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:4200"}

// NewRouter creates a new router with all routes configured. An empty
// allowedOrigins falls back to DefaultAllowedOrigins.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/csv", func(r chi.Router) {
		r.Get("/getDataJSON", h.ListSheets)
		r.Get("/getOneSheet/{title}", h.GetSheet)
		r.Put("/update/{title}", h.UpdateSheet)
		r.Post("/uploadCSV", h.UploadCSV)
		r.Delete("/delete/{title}", h.DeleteSheet)
		r.Get("/export/{title}", h.ExportSheet)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenarioHandler)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Sheet Editor API</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Sheet Editor API</h1>
<ul>
<li><a href="/csv/getDataJSON">GET /csv/getDataJSON</a> - List sheets</li>
<li>GET /csv/getOneSheet/{title} - One sheet's rows</li>
<li>PUT /csv/update/{title} - Bulk replace rows</li>
<li>POST /csv/uploadCSV - Upload a CSV (multipart: file, title)</li>
<li>DELETE /csv/delete/{title} - Delete a sheet</li>
<li>GET /csv/export/{title} - Download as XLSX</li>
<li><a href="/csv/scenarios">GET /csv/scenarios</a> - Demo sheets</li>
</ul>
</body>
</html>`))
	})

	return r
}
