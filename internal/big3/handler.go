package big3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/big3stats/internal/telemetry/tracing"
	"github.com/2beens/big3stats/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_loader_test.go -package=big3_test

type snapshotLoader interface {
	Refresh(ctx context.Context) (*Snapshot, error)
	Latest() *Snapshot
}

type RowsResponse struct {
	Rows []MeasurementRow `json:"rows"`
}

type SummaryResponse struct {
	Summary Summary `json:"summary"`
}

type SeriesResponse struct {
	Field  Field         `json:"field"`
	Ratio  bool          `json:"ratio"`
	Points []SeriesPoint `json:"points"`
	Domain Domain        `json:"domain"`
}

type StatusResponse struct {
	Loaded     bool       `json:"loaded"`
	Generation uint64     `json:"generation"`
	FetchedAt  *time.Time `json:"fetchedAt"`
	Rows       int        `json:"rows"`
}

type Handler struct {
	loader  snapshotLoader
	padding Padding
}

func NewHandler(loader snapshotLoader, padding Padding) *Handler {
	return &Handler{
		loader:  loader,
		padding: padding,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/big3/rows", handler.HandleRows).Methods("GET", "OPTIONS").Name("big3-rows")
	router.HandleFunc("/big3/summary", handler.HandleSummary).Methods("GET", "OPTIONS").Name("big3-summary")
	router.HandleFunc("/big3/series", handler.HandleSeries).Methods("GET", "OPTIONS").Name("big3-series")
	router.HandleFunc("/big3/status", handler.HandleStatus).Methods("GET", "OPTIONS").Name("big3-status")
}

func (handler *Handler) HandleRows(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.big3.rows")
	defer span.End()

	snapshot, ok := handler.refresh(ctx, w)
	if !ok {
		span.SetStatus(codes.Error, "refresh failed")
		return
	}

	span.SetAttributes(attribute.Int("rows", len(snapshot.Rows)))
	pkg.WriteJSON(w, RowsResponse{Rows: snapshot.Rows}, http.StatusOK)
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.big3.summary")
	defer span.End()

	snapshot, ok := handler.refresh(ctx, w)
	if !ok {
		span.SetStatus(codes.Error, "refresh failed")
		return
	}

	pkg.WriteJSON(w, SummaryResponse{Summary: Summarize(snapshot.Rows)}, http.StatusOK)
}

func (handler *Handler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.big3.series")
	defer span.End()

	field := FieldTotal
	if fieldParam := r.URL.Query().Get("field"); fieldParam != "" {
		f, err := ParseField(fieldParam)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid field parameter: %s", err), http.StatusBadRequest)
			return
		}
		field = f
	}

	ratio := false
	if ratioParam := r.URL.Query().Get("ratio"); ratioParam != "" {
		b, err := strconv.ParseBool(ratioParam)
		if err != nil {
			http.Error(w, "invalid ratio parameter (must be true or false)", http.StatusBadRequest)
			return
		}
		ratio = b
	}

	span.SetAttributes(
		attribute.String("field", string(field)),
		attribute.Bool("ratio", ratio),
	)

	snapshot, ok := handler.refresh(ctx, w)
	if !ok {
		span.SetStatus(codes.Error, "refresh failed")
		return
	}

	points := BuildSeries(snapshot.Rows, field, ratio)
	pkg.WriteJSON(w, SeriesResponse{
		Field:  field,
		Ratio:  ratio,
		Points: points,
		Domain: AxisDomain(SeriesValues(points, field, ratio), handler.padding.For(field, ratio)),
	}, http.StatusOK)
}

func (handler *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.big3.status")
	defer span.End()

	resp := StatusResponse{}
	if latest := handler.loader.Latest(); latest != nil {
		fetchedAt := latest.FetchedAt
		resp = StatusResponse{
			Loaded:     true,
			Generation: latest.Generation,
			FetchedAt:  &fetchedAt,
			Rows:       len(latest.Rows),
		}
	}

	pkg.WriteJSON(w, resp, http.StatusOK)
}

// refresh loads a fresh snapshot; on failure it writes the error response itself.
func (handler *Handler) refresh(ctx context.Context, w http.ResponseWriter) (*Snapshot, bool) {
	snapshot, err := handler.loader.Refresh(ctx)
	if err == nil {
		return snapshot, true
	}

	log.Errorf("big3 refresh: %s", err)
	switch {
	case errors.Is(err, ErrLoaderClosed):
		http.Error(w, "service shutting down", http.StatusServiceUnavailable)
	case errors.Is(err, ErrMalformedPayload):
		http.Error(w, fmt.Sprintf("data source returned malformed payload: %s", err), http.StatusBadGateway)
	case errors.Is(err, ErrSourceUnavailable):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, "failed to load big3 data", http.StatusInternalServerError)
	}
	return nil, false
}
