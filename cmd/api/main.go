// Command api serves the planner HTTP API.
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"airhaul/internal/api"
	"airhaul/internal/config"
	"airhaul/internal/loader"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	airports, err := loader.Airports(cfg.AirportsPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("loaded %d airports from %s", len(airports), cfg.AirportsPath)

	srv, err := api.NewServer(cfg, airports)
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	mux := http.NewServeMux()
	srv.Routes(mux)

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("API listening on %s", cfg.Listen)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
