package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/big3stats/internal/big3"
)

// snapshotLoader provides fresh BIG3 snapshots (for dependency injection and testing).
type snapshotLoader interface {
	Refresh(ctx context.Context) (*big3.Snapshot, error)
}

// contextService provides BIG3 summary, series and rows. Used by Handler for testability.
type contextService interface {
	GetSummary(ctx context.Context) (*big3.Summary, error)
	GetSeries(ctx context.Context, field big3.Field, ratio bool) (*big3.SeriesResponse, error)
	GetRows(ctx context.Context, from, to *time.Time) ([]big3.MeasurementRow, error)
}

// ContextService reads the BIG3 log through the loader; every call is a fresh fetch.
type ContextService struct {
	loader  snapshotLoader
	padding big3.Padding
}

func NewContextService(loader snapshotLoader, padding big3.Padding) *ContextService {
	return &ContextService{
		loader:  loader,
		padding: padding,
	}
}

// GetSummary returns the all-time bests, the latest body weight and the strength ratios.
func (s *ContextService) GetSummary(ctx context.Context) (*big3.Summary, error) {
	snapshot, err := s.loader.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	summary := big3.Summarize(snapshot.Rows)
	return &summary, nil
}

// GetSeries returns the forward-filled chart series for field, with its axis domain.
func (s *ContextService) GetSeries(ctx context.Context, field big3.Field, ratio bool) (*big3.SeriesResponse, error) {
	snapshot, err := s.loader.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	points := big3.BuildSeries(snapshot.Rows, field, ratio)
	return &big3.SeriesResponse{
		Field:  field,
		Ratio:  ratio,
		Points: points,
		Domain: big3.AxisDomain(big3.SeriesValues(points, field, ratio), s.padding.For(field, ratio)),
	}, nil
}

// GetRows returns the decoded rows. With a range set, only rows whose timestamp
// parses and falls into [from, to] are returned.
func (s *ContextService) GetRows(ctx context.Context, from, to *time.Time) ([]big3.MeasurementRow, error) {
	snapshot, err := s.loader.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	if from == nil && to == nil {
		return snapshot.Rows, nil
	}

	rows := make([]big3.MeasurementRow, 0, len(snapshot.Rows))
	for _, r := range snapshot.Rows {
		at, ok := r.Time()
		if !ok {
			continue
		}
		if from != nil && at.Before(*from) {
			continue
		}
		if to != nil && at.After(*to) {
			continue
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func formatSummary(s *big3.Summary) string {
	var b strings.Builder
	b.WriteString("# BIG3 Summary\n\n")
	if s.LatestRow != nil {
		b.WriteString(fmt.Sprintf("As of: %s\n\n", s.LatestRow.Timestamp))
	}

	b.WriteString("| Lift | Best | x Body weight |\n|------|------|---------------|\n")
	ratio := func(get func(r *big3.Ratios) big3.Value) string {
		if s.Ratios == nil {
			return "-"
		}
		return get(s.Ratios).String()
	}
	b.WriteString(fmt.Sprintf("| Bench press | %s | %s |\n", s.BenchPress, ratio(func(r *big3.Ratios) big3.Value { return r.BenchPress })))
	b.WriteString(fmt.Sprintf("| Squat | %s | %s |\n", s.Squat, ratio(func(r *big3.Ratios) big3.Value { return r.Squat })))
	b.WriteString(fmt.Sprintf("| Deadlift | %s | %s |\n", s.Deadlift, ratio(func(r *big3.Ratios) big3.Value { return r.Deadlift })))
	b.WriteString(fmt.Sprintf("| Total | %s | %s |\n", s.Total, ratio(func(r *big3.Ratios) big3.Value { return r.Total })))
	b.WriteString(fmt.Sprintf("\nLatest body weight: %s\n", s.LatestBodyWeight))

	return b.String()
}
