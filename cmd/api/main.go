package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	apiconfig "bessquote/pkg/api/config"
	apiquote "bessquote/pkg/api/quote"
	"bessquote/pkg/core/quote"
	"bessquote/pkg/core/reference"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Build the immutable reference snapshot, with optional regional rate
	// overrides maintained alongside the deployment.
	tables := reference.Default()
	if err := tables.LoadRateOverrides("config/rates.hjson"); err != nil {
		fmt.Printf("[WARNING] Failed to load rate overrides: %v\n", err)
		fmt.Println("  Continuing with compiled-in regional rates")
	}

	cfg, err := quote.LoadConfig("config/engine.yaml")
	if err != nil {
		fmt.Printf("[WARNING] Failed to load engine config: %v\n", err)
		fmt.Println("  Continuing with defaults")
	}

	engine := quote.NewEngine(tables, cfg)

	// Quote endpoints
	apiquote.InitHandler(engine)
	http.HandleFunc("/api/quote/estimate", apiquote.HandleEstimate)
	http.HandleFunc("/api/quote/verify", apiquote.HandleVerify)
	http.HandleFunc("/api/quote/report", apiquote.HandleReport)

	// Config endpoints
	configHandler := apiconfig.NewHandler(engine)
	http.HandleFunc("/api/config", configHandler.HandleConfig)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - POST /api/quote/estimate")
	fmt.Println("  - POST /api/quote/verify")
	fmt.Println("  - POST /api/quote/report")
	fmt.Println("  - GET  /api/config")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server error: %v\n", err)
		os.Exit(1)
	}
}
