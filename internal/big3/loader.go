package big3

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/2beens/big3stats/internal/telemetry/metrics"
	"github.com/2beens/big3stats/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_source_test.go -package=big3_test

type tableSource interface {
	FetchTable(ctx context.Context) ([][]*Cell, error)
}

// Snapshot is the decoded result of one complete fetch.
type Snapshot struct {
	Rows       []MeasurementRow `json:"rows"`
	FetchedAt  time.Time        `json:"fetchedAt"`
	Generation uint64           `json:"generation"`
	// Published is false when a newer refresh started (or the loader was
	// closed) before this one completed; such results never replace Latest.
	Published bool `json:"published"`
}

// Loader fetches the whole table and decodes it in one go. Concurrent
// FetchAndDecode calls share one round trip. Every Refresh does its own round
// trip, and only the most recently started refresh may publish its snapshot.
type Loader struct {
	source         tableSource
	metricsManager *metrics.Manager
	now            func() time.Time
	group          singleflight.Group

	mu         sync.Mutex
	generation uint64
	closed     bool
	latest     *Snapshot
}

func NewLoader(source tableSource, metricsManager *metrics.Manager) *Loader {
	return &Loader{
		source:         source,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

const sharedFetchKey = "table"

// FetchAndDecode does a single round trip to the source and decodes all rows.
func (l *Loader) FetchAndDecode(ctx context.Context) ([]MeasurementRow, error) {
	return l.fetchAndDecode(ctx, sharedFetchKey)
}

func (l *Loader) fetchAndDecode(ctx context.Context, key string) (_ []MeasurementRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "loader.big3.fetchAndDecode")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		l.metricsManager.CounterFetches.WithLabelValues(result).Inc()
		l.metricsManager.HistFetchDuration.Observe(time.Since(start).Seconds())
	}()

	// the shared fetch must not die with the first caller's context
	fetchCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (interface{}, error) {
		return l.source.FetchTable(fetchCtx)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	table, _ := res.Val.([][]*Cell)
	rows := DecodeTable(table)

	span.SetAttributes(
		attribute.Int("rows", len(rows)),
		attribute.Bool("shared", res.Shared),
	)
	l.metricsManager.GaugeDecodedRows.Set(float64(len(rows)))

	return rows, nil
}

// Refresh fetches a new snapshot and publishes it as Latest, unless it got
// superseded by a later Refresh or the loader was closed in the meantime.
func (l *Loader) Refresh(ctx context.Context) (*Snapshot, error) {
	gen, err := l.begin()
	if err != nil {
		return nil, err
	}

	// a refresh never joins a round trip started before it
	rows, err := l.fetchAndDecode(ctx, "refresh-"+strconv.FormatUint(gen, 10))
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		Rows:       rows,
		FetchedAt:  l.now(),
		Generation: gen,
	}

	published, closed := l.publish(snapshot)
	if closed {
		l.metricsManager.CounterStaleResults.Inc()
		return nil, ErrLoaderClosed
	}
	if !published {
		l.metricsManager.CounterStaleResults.Inc()
		log.Debugf("big3 loader: refresh %d superseded, result not published", gen)
	}

	return snapshot, nil
}

// Latest returns the last published snapshot, nil if there is none yet.
func (l *Loader) Latest() *Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latest
}

// Close discards results of refreshes still in flight.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.generation++
}

func (l *Loader) begin() (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, ErrLoaderClosed
	}
	l.generation++
	return l.generation, nil
}

func (l *Loader) publish(snapshot *Snapshot) (published, closed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false, true
	}
	if snapshot.Generation != l.generation {
		return false, false
	}
	snapshot.Published = true
	l.latest = snapshot
	return true, false
}
