// Command fastlaned runs the matching engine behind an HTTP gateway, the
// way the teacher repo's cmd/xchainserver and cmd/dexserver front their own
// core packages with a go-chi router and a logrus-instrumented logger.
package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/synnergy-labs/fastlane-engine/internal/config"
	"github.com/synnergy-labs/fastlane-engine/internal/engine"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/store"
	"github.com/synnergy-labs/fastlane-engine/internal/engine/transport"
	"github.com/synnergy-labs/fastlane-engine/internal/guardian"
	"github.com/synnergy-labs/fastlane-engine/internal/metrics"
)

func main() {
	env := os.Getenv("FASTLANE_ENV")
	if env == "" {
		env = "development"
	}
	cfg, err := config.Load(env)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	registry := prometheus.NewRegistry()
	var collectors *metrics.Collectors
	if cfg.Metrics.Enabled {
		collectors, err = metrics.New(cfg.Metrics.Namespace, registry)
		if err != nil {
			logger.WithError(err).Fatal("register metrics")
		}
	}

	ctx := &engine.Context{
		Store:    store.NewMemory(),
		Locks:    store.NewKeyLocks(),
		Clock:    engine.NewWallClock(),
		Logger:   logger,
		Guardian: guardian.NewMockVerifier(),
		Burn:     transport.NewMockBurn(),
		Message:  transport.NewMockMessage(),
		Metrics:  collectors,
	}

	gw := &gateway{ctx: ctx, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", gw.handleHealthz)
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/custodian", gw.handleInitializeCustodian)
		r.Post("/custodian/pause", gw.handleSetPause)
		r.Post("/router-endpoints/cctp", gw.handleAddCctpRouterEndpoint)
		r.Post("/router-endpoints/local", gw.handleAddLocalRouterEndpoint)
		r.Post("/orders", gw.handleInitializeOrder)
		r.Get("/orders/{digest}", gw.handleGetOrder)
		r.Post("/auctions/offers", gw.handlePlaceInitialOffer)
		r.Post("/auctions/offers/improve", gw.handleImproveOffer)
		r.Post("/auctions/execute", gw.handleExecuteOrder)
		r.Get("/auctions/{digest}", gw.handleGetAuction)
	})

	server := &http.Server{Addr: cfg.Network.ListenAddress, Handler: r}
	go func() {
		logger.WithField("addr", cfg.Network.ListenAddress).Info("fastlaned listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")
}
