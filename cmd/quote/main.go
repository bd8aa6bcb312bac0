// Command quote runs a single estimate from the command line: a request JSON
// file in, the composed quote (or its markdown summary) out. Useful for
// spot-checking table changes without standing up the API server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"bessquote/pkg/core/quote"
	"bessquote/pkg/core/reference"
	"bessquote/pkg/core/report"
)

func main() {
	input := flag.String("input", "", "path to request JSON (defaults to stdin)")
	configPath := flag.String("config", "config/engine.yaml", "engine config path")
	ratesPath := flag.String("rates", "config/rates.hjson", "regional rate overrides path")
	asMarkdown := flag.Bool("markdown", false, "print the markdown summary instead of JSON")
	flag.Parse()

	var data []byte
	var err error
	if *input == "" {
		data, err = os.ReadFile("/dev/stdin")
	} else {
		data, err = os.ReadFile(*input)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "read request: %v\n", err)
		os.Exit(1)
	}

	var req quote.Request
	if err := json.Unmarshal(data, &req); err != nil {
		fmt.Fprintf(os.Stderr, "parse request: %v\n", err)
		os.Exit(1)
	}

	tables := reference.Default()
	if err := tables.LoadRateOverrides(*ratesPath); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	cfg, err := quote.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	engine := quote.NewEngine(tables, cfg)
	result, err := engine.Generate(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate quote: %v\n", err)
		os.Exit(1)
	}

	if *asMarkdown {
		fmt.Print(report.Markdown(result))
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(result)
}
