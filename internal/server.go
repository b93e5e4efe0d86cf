package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/strideworks/physioengine/internal/config"
	"github.com/strideworks/physioengine/internal/db"
	"github.com/strideworks/physioengine/internal/engine/load"
	"github.com/strideworks/physioengine/internal/engine/modifier"
	"github.com/strideworks/physioengine/internal/engine/readiness"
	"github.com/strideworks/physioengine/internal/engine/validator"
	"github.com/strideworks/physioengine/internal/middleware"
	"github.com/strideworks/physioengine/internal/profile"
	"github.com/strideworks/physioengine/internal/telemetry/metrics"
	"github.com/strideworks/physioengine/internal/telemetry/tracing"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config       *config.Config
	dbPool       *pgxpool.Pool
	redisClient  *redis.Client
	profileStore *profile.Store
	loadAnalyzer *load.Analyzer

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

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("physioengine", "main", promRegistry)
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
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "physio-engine")
	if err != nil {
		return nil, err
	}

	return &Server{
		config:       params.Config,
		versionInfo:  params.VersionInfo,
		dbPool:       dbPool,
		redisClient:  rdb,
		profileStore: profile.NewStore(rdb),
		loadAnalyzer: load.NewAnalyzer(load.NewRepo(dbPool)),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	profileHandler := profile.NewHandler(
		s.profileStore,
		s.metricsManager,
		s.config.FieldTestMaxDriftOfReserve,
	)

	// test submissions trigger curve fitting and profile writes, keep them
	// behind the rate limiter
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	testsRouter := r.PathPrefix("/tests").Subrouter()
	testsRouter.Use(middleware.RateLimit(
		reqRateLimiter,
		"tests-router",
		s.config.TestSubmissionsAllowedPerMin,
		s.metricsManager,
	))
	testsRouter.HandleFunc("/lactate", profileHandler.HandleLactateTest).Methods("POST", "OPTIONS").Name("new-lactate-test")
	testsRouter.HandleFunc("/field", profileHandler.HandleFieldTest).Methods("POST", "OPTIONS").Name("new-field-test")
	testsRouter.HandleFunc("/race", profileHandler.HandleRaceTest).Methods("POST", "OPTIONS").Name("new-race-result")

	r.HandleFunc("/athlete/{athleteID}/zones", profileHandler.HandleGetZones).Methods("GET", "OPTIONS").Name("get-zones")

	loadHandler := load.NewHandler(s.loadAnalyzer, s.metricsManager)
	r.HandleFunc("/load/{athleteID}", loadHandler.HandleRecord).Methods("POST", "OPTIONS").Name("new-load-sample")
	r.HandleFunc("/load/{athleteID}/status", loadHandler.HandleStatus).Methods("GET", "OPTIONS").Name("get-load-status")

	readinessHandler := readiness.NewHandler(s.loadAnalyzer, s.metricsManager)
	r.HandleFunc("/readiness/{athleteID}", readinessHandler.HandleScore).Methods("POST", "OPTIONS").Name("new-readiness-score")

	modifierHandler := modifier.NewHandler()
	r.HandleFunc("/workout/modify", modifierHandler.HandleModify).Methods("POST", "OPTIONS").Name("modify-workout")

	validatorHandler := validator.NewHandler(s.metricsManager)
	r.HandleFunc("/validate", validatorHandler.HandleValidate).Methods("POST", "OPTIONS").Name("validate")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
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

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
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
