// Package main runs the big3 MCP server over stdio (for local editor / assistant use).
// The same MCP server is also mounted on the backend at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/2beens/big3stats/internal"
	"github.com/2beens/big3stats/internal/big3"
	big3mcp "github.com/2beens/big3stats/internal/big3/mcp"
	"github.com/2beens/big3stats/internal/config"
	"github.com/2beens/big3stats/internal/telemetry/metrics"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// stdout belongs to the MCP transport; log and logrus both write to stderr
	loader := big3.NewLoader(
		internal.NewTableSource(cfg, &http.Client{Timeout: 30 * time.Second}),
		// nothing scrapes this process, the registry only backs the loader counters
		metrics.NewManager("big3", "mcp", prometheus.NewRegistry()),
	)
	defer loader.Close()

	server := big3mcp.NewServer(loader, cfg.Padding)
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
