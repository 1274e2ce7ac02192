package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/2beens/infofit/internal/config"
	"github.com/2beens/infofit/internal/middleware"
	"github.com/2beens/infofit/internal/page"
	"github.com/2beens/infofit/internal/scene"
	"github.com/2beens/infofit/internal/telemetry/metrics"
	"github.com/2beens/infofit/internal/telemetry/tracing"
	"github.com/2beens/infofit/internal/tips"
	"github.com/2beens/infofit/internal/trainer"

	"github.com/coocood/freecache"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	addr              net.Addr
	metricsAddr       net.Addr
	serveGroup        *errgroup.Group
	shutdownOnce      sync.Once

	config      *config.Config
	versionInfo string
	tipsManager *tips.Manager
	renderer    *page.Renderer
	blueprint   scene.Blueprint
	pageCache   *freecache.Cache

	// nil when rate limiting is disabled
	redisClient *redis.Client

	// telemetry
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

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	pageCache := freecache.NewCache(cfg.PageCacheSizeMB * 1024 * 1024)
	promRegistry := metrics.SetupPrometheus(metrics.NewCacheCollector("page", pageCache))
	metricsManager := metrics.NewManager("infofit", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // set to 1 once serving

	var rdb *redis.Client
	if cfg.RateLimitingEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		rdb.AddHook(redisotel.NewTracingHook())

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	} else {
		log.Debugln("redis host not set, pose api rate limiting disabled")
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, err
	}

	tipsManager, err := tips.NewDefaultManager()
	if err != nil {
		return nil, fmt.Errorf("load posture tips: %w", err)
	}

	blueprint := scene.DefaultBlueprint()
	renderer, err := page.NewRenderer(tipsManager, blueprint, cfg.ThreeJSURL)
	if err != nil {
		return nil, fmt.Errorf("new page renderer: %w", err)
	}

	return &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		tipsManager: tipsManager,
		renderer:    renderer,
		blueprint:   blueprint,
		pageCache:   pageCache,
		redisClient: rdb,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("infofit-router"))

	var reqRateLimiter middleware.RequestRateLimiter
	if s.redisClient != nil {
		reqRateLimiter = redis_rate.NewLimiter(s.redisClient)
	}

	trainerHandler := trainer.NewHandler(trainer.HandlerParams{
		Renderer:       s.renderer,
		TipsManager:    s.tipsManager,
		Blueprint:      s.blueprint,
		PageCache:      s.pageCache,
		PageCacheTTL:   s.config.PageCacheTTLSeconds,
		MetricsManager: s.metricsManager,
		StreamMaxFPS:   s.config.StreamMaxFPS,
		VersionInfo:    s.versionInfo,
	})
	trainerHandler.SetupRoutes(r, reqRateLimiter, s.config.PoseRateLimitPerMin)

	// all the rest - unhandled paths
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		log.Tracef("not found: [%s] %s", req.Method, req.URL.Path)
		http.NotFound(w, req)
	})

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.RequestID())
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

// Serve binds the main and the metrics listeners and serves them in the background.
// Binding errors are returned right away; later serve errors come from Wait.
func (s *Server) Serve(ctx context.Context, host string, port int) error {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	listener, err := net.Listen("tcp", ipAndPort)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", ipAndPort, err)
	}

	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	metricsListener, err := net.Listen("tcp", metricsAddr)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("metrics listen on %s: %w", metricsAddr, err)
	}

	s.addr = listener.Addr()
	s.metricsAddr = metricsListener.Addr()

	s.httpServer = &http.Server{
		Handler:           s.routerSetup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		ConnState:         s.connStateMetrics,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	s.metricsHttpServer = &http.Server{
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.serveGroup = &errgroup.Group{}
	s.serveGroup.Go(func() error {
		log.Infof(" > server listening on: [%s]", s.addr)
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("main service, serve: %w", err)
		}
		return nil
	})
	s.serveGroup.Go(func() error {
		log.Debugf(" > metrics listening on: [%s]", s.metricsAddr)
		if err := s.metricsHttpServer.Serve(metricsListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics service, serve: %w", err)
		}
		return nil
	})

	s.metricsManager.GaugeLifeSignal.Set(1)

	return nil
}

// Addr is the bound address of the main server, once Serve returned.
func (s *Server) Addr() string {
	if s.addr == nil {
		return ""
	}
	return s.addr.String()
}

func (s *Server) MetricsAddr() string {
	if s.metricsAddr == nil {
		return ""
	}
	return s.metricsAddr.String()
}

// Wait blocks until both servers stopped and returns the first serve error.
func (s *Server) Wait() error {
	if s.serveGroup == nil {
		return nil
	}
	return s.serveGroup.Wait()
}

func (s *Server) GracefulShutdown() {
	s.shutdownOnce.Do(s.shutdown)
}

func (s *Server) shutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}

	if err := s.Wait(); err != nil {
		log.Errorf("serve: %s", err)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed, http.StateHijacked:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
