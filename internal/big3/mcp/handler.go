package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/2beens/big3stats/internal/big3"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any, extra ...mcp.Content) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: append(extra, &mcp.TextContent{Text: string(raw)}),
	}
}

// GetBig3SummaryTool returns the MCP tool handler for get_big3_summary.
func (h *Handler) GetBig3SummaryTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		summary, err := h.service.GetSummary(ctx)
		if err != nil {
			return errorResult("Error loading summary: " + err.Error()), nil, nil
		}
		return jsonResult(summary, &mcp.TextContent{Text: formatSummary(summary)}), nil, nil
	}
}

// SeriesInput is the input for get_big3_series.
type SeriesInput struct {
	Field string `json:"field,omitempty" jsonschema:"One of bp, sq, dl, total, bw (default total)"`
	Ratio bool   `json:"ratio,omitempty" jsonschema:"Divide the field by that day's body weight"`
}

// GetBig3SeriesTool returns the MCP tool handler for get_big3_series.
func (h *Handler) GetBig3SeriesTool() func(context.Context, *mcp.CallToolRequest, SeriesInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SeriesInput) (*mcp.CallToolResult, any, error) {
		field := big3.FieldTotal
		if in.Field != "" {
			f, err := big3.ParseField(in.Field)
			if err != nil {
				return errorResult("Invalid field: use one of bp, sq, dl, total, bw"), nil, nil
			}
			field = f
		}

		series, err := h.service.GetSeries(ctx, field, in.Ratio)
		if err != nil {
			return errorResult("Error loading series: " + err.Error()), nil, nil
		}
		return jsonResult(series), nil, nil
	}
}

// RowsInput is the input for get_big3_rows.
type RowsInput struct {
	FromDate string `json:"from_date,omitempty" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date,omitempty" jsonschema:"End date (YYYY-MM-DD), inclusive"`
}

// GetBig3RowsTool returns the MCP tool handler for get_big3_rows.
func (h *Handler) GetBig3RowsTool() func(context.Context, *mcp.CallToolRequest, RowsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RowsInput) (*mcp.CallToolResult, any, error) {
		var from, to *time.Time
		if in.FromDate != "" {
			f, err := time.Parse("2006-01-02", in.FromDate)
			if err != nil {
				return errorResult("Invalid from_date: use YYYY-MM-DD"), nil, nil
			}
			from = &f
		}
		if in.ToDate != "" {
			t, err := time.Parse("2006-01-02", in.ToDate)
			if err != nil {
				return errorResult("Invalid to_date: use YYYY-MM-DD"), nil, nil
			}
			t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
			to = &t
		}

		rows, err := h.service.GetRows(ctx, from, to)
		if err != nil {
			return errorResult("Error loading rows: " + err.Error()), nil, nil
		}
		return jsonResult(rows), nil, nil
	}
}
