/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the time-charge server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from environment (.env honored when present)
  2. Initialize SQLite store
  3. Create API handler with the reconciliation rules
  4. Configure HTTP router
  5. Start server with graceful shutdown

CONFIGURATION:
  PORT               HTTP server port (default: 8080)
  DB_PATH            SQLite database path (default: timecharge.db)
                     Use ":memory:" for in-memory database
  DAILY_HOURS        Required hours per working day (default: 8)
  OFFICE_OPEN_HOUR   Start of the chargeable window (default: 7)
  OFFICE_CLOSE_HOUR  End of the chargeable window (default: 19)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  DB_PATH="./data/timecharge.db" ./server

  # Run with in-memory database
  DB_PATH=":memory:" ./server

  # Run on different port
  PORT=3000 ./server

SEE ALSO:
  - config/config.go: Environment loading
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/timecharge/api"
	"github.com/warp/timecharge/config"
	"github.com/warp/timecharge/reconcile"
	"github.com/warp/timecharge/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.App.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store, rulesFrom(cfg.Rules))

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.App.Port)
		log.Printf("API available at http://localhost:%d/api", cfg.App.Port)
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

func rulesFrom(rc config.RulesConfig) reconcile.Rules {
	return reconcile.Rules{
		DailyHours: decimal.NewFromInt(int64(rc.DailyHours)),
		Office: reconcile.OfficeWindow{
			Open:  reconcile.ClockTime{Hour: rc.OfficeOpenHour},
			Close: reconcile.ClockTime{Hour: rc.OfficeCloseHour},
		},
		Lunch: reconcile.LunchBreak{
			Start: reconcile.ClockTime{Hour: rc.LunchStartHour, Minute: rc.LunchStartMinute},
			End:   reconcile.ClockTime{Hour: rc.LunchEndHour, Minute: rc.LunchEndMinute},
		},
	}
}
