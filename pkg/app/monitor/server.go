// Package monitor implements app.Runner for the bridgewatch monitor process: the event
// consumer, the alert batcher and the management API.
package monitor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chainsafe/bridgewatch/pkg/app/httpserver"
	"github.com/chainsafe/bridgewatch/pkg/auth"
	"github.com/chainsafe/bridgewatch/pkg/batching"
	"github.com/chainsafe/bridgewatch/pkg/bridge"
	"github.com/chainsafe/bridgewatch/pkg/bridgegraph"
	"github.com/chainsafe/bridgewatch/pkg/config"
	"github.com/chainsafe/bridgewatch/pkg/consumer"
	"github.com/chainsafe/bridgewatch/pkg/monitor/service"
	"github.com/chainsafe/bridgewatch/pkg/monitorstore"
	"github.com/chainsafe/bridgewatch/pkg/pgutil"
	"github.com/chainsafe/bridgewatch/pkg/transport/kafka"
)

const serviceName = "bridgewatch-monitor"

// Server holds configuration for the monitor process.
type Server struct {
	cfg *config.Config
}

// NewServer initializes a new monitor Server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// stores groups the persistence backends selected by storage.driver
type stores struct {
	monitor service.Store
	graph   bridgegraph.Store
	db      *bun.DB
}

// Run starts the consumer, the batcher and the HTTP server. It blocks until an OS shutdown
// signal is received or a component fails. Shutdown stops the consumer first, then the
// HTTP server, then force-flushes the batcher.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("nil config")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging, serviceName)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting bridgewatch monitor",
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("kafka", cfg.Kafka.Enabled))

	st, err := s.openStores(ctx, logger)
	if err != nil {
		return err
	}
	if st.db != nil {
		defer func() { _ = st.db.Close() }()
	}

	registry, detector, err := s.newDetector(logger)
	if err != nil {
		return err
	}

	svc := service.NewLog(service.NewService(st.monitor, logger), logger)
	rules := consumer.NewRuleCache(svc, cfg.Consumer.RuleRefreshInterval, logger)

	sink, closeSinks := s.newSink(logger)
	defer closeSinks()

	batcher := batching.NewBatcher(batching.ConfigFrom(&cfg.Batching), sink, logger)
	batcher.Start(ctx)
	defer batcher.Stop()

	cons, closeConsumer, err := s.newConsumer(detector, st.graph, rules, svc, batcher, logger)
	if err != nil {
		return err
	}
	defer closeConsumer()

	rt := routes{
		service:  service.NewRuleChangeNotifier(svc, rules.Invalidate),
		graph:    st.graph,
		registry: registry,
		batcher:  batcher,
	}
	if cons != nil {
		rt.consumer = cons
	}
	httpServer := httpserver.New(cfg.Server, s.newRouter(rt, logger), logger)
	if err := httpServer.Listen(); err != nil {
		return err
	}

	// the HTTP server outlives the consumer so /ready reports the drain
	httpCtx, stopHTTP := context.WithCancel(context.WithoutCancel(ctx))
	defer stopHTTP()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stopHTTP()
		if cons == nil {
			<-gctx.Done()
			return nil
		}
		if err := cons.Run(gctx); err != nil {
			return fmt.Errorf("consumer: %w", err)
		}
		logger.Info("Consumer stopped")
		return nil
	})
	g.Go(func() error {
		return httpServer.Serve(httpCtx, cfg.Shutdown.Timeout)
	})

	err = g.Wait()
	batcher.Stop()
	logger.Info("Bridgewatch monitor stopped", zap.Error(err))
	return err
}

func (s *Server) openStores(ctx context.Context, logger *zap.Logger) (*stores, error) {
	if s.cfg.Storage.Driver == "memory" {
		logger.Warn("Using in-memory storage; rules, alerts and the bridge graph are lost on restart")
		return &stores{
			monitor: monitorstore.NewMemoryStore(),
			graph:   bridgegraph.NewMemoryStore(),
		}, nil
	}

	db, err := pgutil.ConnectDB(ctx, &s.cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("connect monitor db: %w", err)
	}
	return &stores{
		monitor: monitorstore.NewStore(db),
		graph:   bridgegraph.NewStore(db),
		db:      db,
	}, nil
}

func (s *Server) newDetector(logger *zap.Logger) (*bridge.Registry, *bridge.Detector, error) {
	cfg := s.cfg.Bridge

	registry := bridge.NewRegistry(bridge.DefaultContracts()...)
	for _, c := range cfg.Contracts {
		registry.Register(contractFromConfig(c))
	}

	topics := bridge.NewTopicTable()
	if err := topics.LoadOverrides(cfg.TopicNamesFile, cfg.TopicNamesJSON); err != nil {
		return nil, nil, fmt.Errorf("load topic names: %w", err)
	}
	specs, err := bridge.LoadEventSpecs(cfg.EventSpecsFile, cfg.EventSpecsJSON)
	if err != nil {
		return nil, nil, fmt.Errorf("load event specs: %w", err)
	}

	stats := registry.Stats()
	logger.Info("Bridge registry loaded",
		zap.Int("contracts", stats.TotalContracts),
		zap.Int("topics", topics.Len()),
		zap.Int("event_specs", len(specs)))

	return registry, bridge.NewDetector(registry, topics, bridge.NewDecoder(topics, specs), logger), nil
}

func contractFromConfig(c config.ContractConfig) bridge.Contract {
	return bridge.Contract{
		Address:           c.Address,
		Chain:             c.Chain,
		Name:              c.Name,
		Type:              bridge.Type(c.Type),
		CounterpartChains: c.CounterpartChains,
		MethodSelectors:   c.MethodSelectors,
	}
}

// newSink fans flushed batches out to the log, the batches topic and Slack.
func (s *Server) newSink(logger *zap.Logger) (batching.Sink, func()) {
	cfg := s.cfg
	sinks := []batching.Sink{batching.NewLogSink(logger)}
	closers := make([]func() error, 0, 1)

	if cfg.Kafka.Enabled && cfg.Kafka.BatchesTopic != "" {
		w := kafka.NewBatchWriter(&cfg.Kafka, logger)
		sinks = append(sinks, w)
		closers = append(closers, w.Close)
	}
	if cfg.Notify.Slack.Enabled {
		sinks = append(sinks, batching.NewSlackSink(cfg.Notify.Slack.Token, cfg.Notify.Slack.Channel))
		logger.Info("Slack notifications enabled", zap.String("channel", cfg.Notify.Slack.Channel))
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("Failed to close batch sink", zap.Error(err))
			}
		}
	}
	if len(sinks) == 1 {
		return sinks[0], closeAll
	}
	return batching.NewMultiSink(logger, sinks...), closeAll
}

// newConsumer returns a nil consumer when Kafka is disabled; the process then only serves the API.
func (s *Server) newConsumer(
	detector *bridge.Detector,
	graph bridgegraph.Store,
	rules *consumer.RuleCache,
	svc service.Service,
	batcher *batching.Batcher,
	logger *zap.Logger,
) (*consumer.Consumer, func(), error) {
	cfg := s.cfg
	if !cfg.Kafka.Enabled {
		logger.Warn("Kafka disabled; events are not consumed")
		return nil, func() {}, nil
	}

	reader, err := kafka.NewReader(&cfg.Kafka, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create kafka reader: %w", err)
	}

	var dlq consumer.DeadLetterPublisher
	var dlqWriter *kafka.DeadLetterWriter
	if cfg.Kafka.DeadLetterTopic != "" {
		dlqWriter = kafka.NewDeadLetterWriter(&cfg.Kafka, logger)
		dlq = dlqWriter
	}

	processor := consumer.NewProcessor(detector, graph, rules, svc, batcher, cfg.Consumer.GraphTimeout, logger)
	cons := consumer.NewConsumer(&cfg.Consumer, reader, processor, dlq, logger)

	closeFn := func() {
		if err := reader.Close(); err != nil {
			logger.Warn("Failed to close kafka reader", zap.Error(err))
		}
		if dlqWriter != nil {
			if err := dlqWriter.Close(); err != nil {
				logger.Warn("Failed to close dead letter writer", zap.Error(err))
			}
		}
	}
	return cons, closeFn, nil
}

// routes are the components exposed over HTTP
type routes struct {
	service  service.Service
	graph    bridgegraph.Store
	registry *bridge.Registry
	batcher  batching.Controller
	consumer readiness
}

type readiness interface {
	IsReady() bool
}

func (s *Server) newRouter(rt routes, logger *zap.Logger) http.Handler {
	cfg := s.cfg

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))
	r.Use(httpserver.AccessLog(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		// no consumer means API-only mode
		if rt.consumer != nil && !rt.consumer.IsReady() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT_READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})

	if cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
		logger.Info("Metrics enabled", zap.String("path", "/metrics"))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Auth.JWKSURL != "" {
			r.Use(auth.Middleware(auth.NewJWTValidator(cfg.Auth.JWKSURL, cfg.Auth.Issuer, cfg.Auth.Audience), logger))
			logger.Info("API authentication enabled", zap.String("jwks_url", cfg.Auth.JWKSURL))
		} else {
			logger.Warn("API authentication disabled; set auth.jwks_url to require bearer tokens")
		}

		service.RegisterRoutes(r, rt.service, logger)
		bridgegraph.RegisterRoutes(r, rt.graph, logger)
		bridge.RegisterRoutes(r, rt.registry, logger)
		batching.RegisterRoutes(r, rt.batcher, logger)
	})

	return r
}
