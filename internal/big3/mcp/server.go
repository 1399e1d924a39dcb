package mcp

import (
	"github.com/2beens/big3stats/internal/big3"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with the BIG3 tools: summary, series and rows.
// Mounted by the backend at /mcp and served over stdio by cmd/big3_mcp.
func NewServer(loader snapshotLoader, padding big3.Padding) *mcp.Server {
	h := NewHandler(NewContextService(loader, padding))
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "big3-stats",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_big3_summary",
		Description: "Returns the all-time best bench press, squat and deadlift, their total (sum of the three bests), the latest body weight and each best divided by it. Use when you need the current strength level.",
	}, h.GetBig3SummaryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_big3_series",
		Description: "Returns the time-ordered chart series for one field (bp, sq, dl, total, bw; default total), lifts forward-filled, with the padded axis domain. Optional: ratio=true divides by that day's body weight. Use when looking at progression over time.",
	}, h.GetBig3SeriesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_big3_rows",
		Description: "Returns the raw decoded log rows (timestamp, benchPress, squat, deadlift, bodyWeight; null when not recorded). Optional: from_date, to_date (YYYY-MM-DD). Use when you need the exact entries.",
	}, h.GetBig3RowsTool())

	return s
}
