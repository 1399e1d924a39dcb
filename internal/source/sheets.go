package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/2beens/big3stats/internal/big3"
	"github.com/2beens/big3stats/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

// example API call
// https://docs.google.com/spreadsheets/d/<sheet id>/gviz/tq?tqx=out:json&headers=0&sheet=<sheet name>

const (
	DefaultSheetsBaseURL = "https://docs.google.com/spreadsheets/d"

	// the gviz endpoint wraps its JSON into:
	// /*O_o*/\ngoogle.visualization.Query.setResponse(<JSON>);
	gvizPrefixLen = 47
	gvizSuffixLen = 2

	defaultRequestsPerMinute = 30
)

type SheetsApiParams struct {
	BaseURL           string
	SheetID           string
	SheetName         string
	HttpClient        *http.Client
	RequestsPerMinute int
}

// SheetsApi reads the BIG3 log from a Google Sheets gviz query endpoint.
type SheetsApi struct {
	baseURL    string
	sheetID    string
	sheetName  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewSheetsApi(params SheetsApiParams) *SheetsApi {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = DefaultSheetsBaseURL
	}
	httpClient := params.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	perMinute := params.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = defaultRequestsPerMinute
	}

	return &SheetsApi{
		baseURL:    baseURL,
		sheetID:    params.SheetID,
		sheetName:  params.SheetName,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

func (s *SheetsApi) queryURL() string {
	query := url.Values{}
	query.Set("tqx", "out:json")
	// header row stays in table.rows, the decoder skips it
	query.Set("headers", "0")
	if s.sheetName != "" {
		query.Set("sheet", s.sheetName)
	}
	return fmt.Sprintf("%s/%s/gviz/tq?%s", s.baseURL, url.PathEscape(s.sheetID), query.Encode())
}

func (s *SheetsApi) FetchTable(ctx context.Context) (_ [][]*big3.Cell, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sheetsApi.fetchTable")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for sheets rate limiter: %w", err)
	}

	sheetsURL := s.queryURL()
	log.Debugf("calling sheets api: %s", sheetsURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sheetsURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http client do: %w", big3.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s", big3.ErrSourceUnavailable, resp.Status)
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheets response: %w", big3.ErrSourceUnavailable, err)
	}

	table, err := ParseGvizPayload(respBytes)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("table.rows", len(table)))
	return table, nil
}

// ParseGvizPayload strips the gviz wrapper and returns the raw table, header row included.
func ParseGvizPayload(payload []byte) ([][]*big3.Cell, error) {
	if len(payload) < gvizPrefixLen+gvizSuffixLen {
		return nil, fmt.Errorf("%w: payload too short (%d bytes)", big3.ErrMalformedPayload, len(payload))
	}

	jsonPart := payload[gvizPrefixLen : len(payload)-gvizSuffixLen]
	if !gjson.ValidBytes(jsonPart) {
		return nil, fmt.Errorf("%w: unwrapped payload is not valid json", big3.ErrMalformedPayload)
	}

	doc := gjson.ParseBytes(jsonPart)
	if doc.Get("status").String() == "error" {
		msg := doc.Get("errors.0.detailed_message").String()
		if msg == "" {
			msg = doc.Get("errors.0.message").String()
		}
		return nil, fmt.Errorf("%w: gviz error: %s", big3.ErrSourceUnavailable, msg)
	}

	rows := doc.Get("table.rows")
	if !rows.IsArray() {
		return nil, fmt.Errorf("%w: table.rows missing", big3.ErrMalformedPayload)
	}

	table := make([][]*big3.Cell, 0, len(rows.Array()))
	rows.ForEach(func(_, row gjson.Result) bool {
		var cells []*big3.Cell
		row.Get("c").ForEach(func(_, c gjson.Result) bool {
			cells = append(cells, gvizCell(c))
			return true
		})
		table = append(table, cells)
		return true
	})

	return table, nil
}

// gvizCell maps {"v": ..., "f": "..."} onto a cell; null stays absent.
func gvizCell(c gjson.Result) *big3.Cell {
	if !c.IsObject() {
		return nil
	}

	cell := &big3.Cell{
		Formatted: c.Get("f").String(),
	}
	v := c.Get("v")
	switch v.Type {
	case gjson.Number:
		cell.Raw = v.Float()
	case gjson.String:
		cell.Raw = v.String()
	case gjson.True:
		cell.Raw = true
	case gjson.False:
		cell.Raw = false
	default:
		cell.Raw = nil
	}
	return cell
}
