package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/2beens/big3stats/internal/big3"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func connectTestClient(t *testing.T, loader snapshotLoader) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(loader, big3.DefaultPadding)
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = clientSession.Close() })

	return clientSession
}

func TestNewServer_ListTools(t *testing.T) {
	cs := connectTestClient(t, &mockLoader{snapshot: testSnapshot()})

	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	want := []string{"get_big3_rows", "get_big3_series", "get_big3_summary"}
	if len(names) != len(want) {
		t.Fatalf("tools = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("tools = %v, want %v", names, want)
		}
	}
}

func TestNewServer_CallSeries(t *testing.T) {
	cs := connectTestClient(t, &mockLoader{snapshot: testSnapshot()})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_big3_series",
		Arguments: map[string]any{"field": "bp"},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected IsError: %+v", res.Content)
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T", res.Content[0])
	}

	var series big3.SeriesResponse
	if err := json.Unmarshal([]byte(tc.Text), &series); err != nil {
		t.Fatalf("series json: %v", err)
	}
	if series.Field != big3.FieldBenchPress || len(series.Points) != 4 {
		t.Fatalf("series = %+v", series)
	}
}

func TestNewServer_CallSummaryError(t *testing.T) {
	cs := connectTestClient(t, &mockLoader{err: big3.ErrSourceUnavailable})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: "get_big3_summary"})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected IsError")
	}
}
