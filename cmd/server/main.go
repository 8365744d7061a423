/*
main.go - Sheet API server entry point

PURPOSE:
  Initializes and starts the /csv sheet API server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Create API handler (optionally seed a demo sheet)
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port         HTTP server port (default: 4200)
  -db           SQLite database path (default: sheets.db)
                Use ":memory:" for in-memory database
  -cors-origin  Allowed CORS origin; repeatable (default: localhost:3000, :4200)
  -seed         Load the "quarterly" demo sheet when the store is empty
  -max-upload   Maximum CSV upload size in bytes

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  ./server -db="./data/sheets.db"
  ./server -db=":memory:" -seed
  ./server -port=8080 -cors-origin=http://localhost:5173

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/warp/sheet-editor/api"
	"github.com/warp/sheet-editor/store/sqlite"
)

// originList collects repeated -cors-origin flags.
type originList []string

func (o *originList) String() string { return strings.Join(*o, ",") }

func (o *originList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*o = append(*o, part)
		}
	}
	return nil
}

func main() {
	// Flags
	var origins originList
	port := flag.Int("port", 4200, "HTTP server port")
	dbPath := flag.String("db", "sheets.db", "SQLite database path")
	seed := flag.Bool("seed", false, "Load a demo sheet when the store is empty")
	maxUpload := flag.Int64("max-upload", api.DefaultMaxUploadBytes, "Maximum CSV upload size in bytes")
	flag.Var(&origins, "cors-origin", "Allowed CORS origin (repeatable)")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store)
	handler.MaxUploadBytes = *maxUpload

	if *seed {
		if err := handler.SeedIfEmpty(context.Background()); err != nil {
			log.Printf("Warning: Failed to seed demo sheet: %v", err)
		}
	}

	// Create router
	router := api.NewRouter(handler, origins)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("Sheets API available at http://localhost:%d/csv", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
