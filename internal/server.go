package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/big3stats/internal/big3"
	big3mcp "github.com/2beens/big3stats/internal/big3/mcp"
	"github.com/2beens/big3stats/internal/config"
	"github.com/2beens/big3stats/internal/middleware"
	"github.com/2beens/big3stats/internal/source"
	"github.com/2beens/big3stats/internal/telemetry/metrics"
	"github.com/2beens/big3stats/internal/telemetry/tracing"
	"github.com/2beens/big3stats/pkg"
)

// TableSource is what the big3 loader reads from.
type TableSource interface {
	FetchTable(ctx context.Context) ([][]*big3.Cell, error)
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	redisClient *redis.Client
	loader      *big3.Loader

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

type HealthResponse struct {
	Version    string `json:"version"`
	Redis      string `json:"redis"`
	Big3Loaded bool   `json:"big3Loaded"`
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("backend", "big3", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "big3-backend")
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   30 * time.Second,
	}

	return &Server{
		config:      params.Config,
		versionInfo: params.VersionInfo,
		redisClient: rdb,
		loader:      big3.NewLoader(NewTableSource(params.Config, tracedHttpClient), metricsManager),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

// NewTableSource picks the BIG3 data source: the local .xlsx export when
// configured, the Google Sheet otherwise.
func NewTableSource(cfg *config.Config, httpClient *http.Client) TableSource {
	if cfg.XLSXPath != "" {
		log.Debugf("big3 source: xlsx file [%s]", cfg.XLSXPath)
		return source.NewXLSXSource(cfg.XLSXPath, cfg.SheetName)
	}

	log.Debugf("big3 source: google sheet [%s]", cfg.SheetID)
	return source.NewSheetsApi(source.SheetsApiParams{
		BaseURL:           cfg.SheetsBaseURL,
		SheetID:           cfg.SheetID,
		SheetName:         cfg.SheetName,
		HttpClient:        httpClient,
		RequestsPerMinute: cfg.SheetsRequestsPerMinute,
	})
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("big3-router"))

	// every big3 request refreshes from the source, so these are rate limited per client
	big3Router := r.NewRoute().Subrouter()
	big3Router.Use(middleware.RateLimit(
		redis_rate.NewLimiter(s.redisClient),
		"big3",
		s.config.RateLimitPerMinute,
		s.metricsManager,
	))
	big3Handler := big3.NewHandler(s.loader, s.config.Padding)
	big3Handler.SetupRoutes(big3Router)

	mcpServer := big3mcp.NewServer(s.loader, s.config.Padding)
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)
	r.Handle("/mcp", mcpHandler).Name("mcp")

	r.HandleFunc("/health", s.handleHealth).Methods("GET").Name("health")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Version:    s.versionInfo,
		Redis:      "ok",
		Big3Loaded: s.loader.Latest() != nil,
	}
	if err := s.redisClient.Ping(r.Context()).Err(); err != nil {
		log.Errorf("health: redis ping: %s", err)
		resp.Redis = err.Error()
	}
	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

// Warmup loads the first snapshot so /big3/status reports data right after start.
func (s *Server) Warmup(ctx context.Context) error {
	snapshot, err := s.loader.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("warmup refresh: %w", err)
	}
	log.Infof("big3 warmup: %d rows loaded", len(snapshot.Rows))
	return nil
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	// in-flight refreshes must not publish after this point
	s.loader.Close()

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
