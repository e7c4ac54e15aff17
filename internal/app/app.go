// Package app wires the client together: configuration, logging,
// metrics, storage, the ledger write path, the mirror read path, the
// scene, the frame loop and the renderer websocket.
package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"

	"harvest-heist/client/internal/config"
	"harvest-heist/client/internal/event"
	"harvest-heist/client/internal/inventory"
	"harvest-heist/client/internal/ledger"
	"harvest-heist/client/internal/mirror"
	"harvest-heist/client/internal/scene"
	"harvest-heist/client/internal/session"
	"harvest-heist/client/internal/sim"
	"harvest-heist/client/internal/telemetry"
	"harvest-heist/client/internal/view"
	"harvest-heist/client/logging"
	loggingSinks "harvest-heist/client/logging/sinks"
)

func Run(ctx context.Context, cfg config.Config) error {
	logger := telemetry.WrapLogger(log.Default())

	router, jsonSink, err := buildRouter(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			logger.Printf("close logging router: %v", cerr)
		}
		if jsonSink != nil {
			jsonSink.Close()
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := telemetry.NewPromMetrics(registry)

	store, err := inventory.OpenSQLiteStore(cfg.Inventory.DatabasePath)
	if err != nil {
		return oops.With("path", cfg.Inventory.DatabasePath).Wrapf(err, "open inventory store")
	}
	defer store.Close()
	inv := inventory.New(store, logger)

	manifest, err := ledger.LoadManifest(cfg.Ledger.ManifestPath)
	if err != nil {
		return oops.With("path", cfg.Ledger.ManifestPath).Wrapf(err, "load contract manifest")
	}
	account := ledger.NewHTTPAccount(cfg.Ledger.SignerEndpoint, cfg.Game.PlayerAddress)
	led, err := ledger.NewDispatcher(ledger.DispatcherConfig{
		Account:   account,
		Manifest:  manifest,
		VRFAddr:   cfg.Ledger.VRFProvider,
		Logger:    logger,
		Metrics:   metrics,
		Publisher: router,
	})
	if err != nil {
		return oops.Wrapf(err, "build ledger dispatcher")
	}
	defer led.Wait()

	mirrorClient := mirror.NewClient(cfg.Mirror.Endpoint)
	probeCtx, cancelProbe := context.WithTimeout(ctx, cfg.Mirror.ProbeTimeout)
	err = mirrorClient.Probe(probeCtx)
	cancelProbe()
	if err != nil {
		return oops.With("endpoint", cfg.Mirror.Endpoint).Wrapf(err, "probe mirror")
	}
	mir := mirror.New(mirrorClient, logger, metrics, router)
	mir.Start(ctx)
	defer mir.Stop()

	sess := session.New(cfg.Game.GameID, cfg.Game.WorldID, cfg.Game.Participant, cfg.Game.PlayerAddress)
	dispatcher := event.NewDispatcher(inv, led, sess, logger, metrics, router)

	inputs := sim.NewInputBuffer()
	hub := view.NewHub(inputs, logger)
	defer hub.Close(context.Background())

	sc := scene.New(scene.Config{
		Session:    sess,
		Inventory:  inv,
		Ledger:     led,
		Dispatcher: dispatcher,
		Remote:     mir,
		View:       hub,
		Logger:     logger,
		Metrics:    metrics,
		Inputs:     inputs,
	})

	mux := http.NewServeMux()
	mux.Handle("/ws", hub.Handler())
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: cfg.Server.ListenAddr, Handler: mux}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("client listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	loop := sim.NewLoop(sc, sim.LoopConfig{
		FrameRate: cfg.Game.FrameRate,
		Logger:    logger,
		Metrics:   metrics,
	})

	loopErr := make(chan error, 1)
	loopCtx, cancelLoop := context.WithCancel(ctx)
	go func() { loopErr <- loop.Run(loopCtx) }()
	defer cancelLoop()

	select {
	case <-ctx.Done():
		cancelLoop()
		<-loopErr
	case err := <-serverErr:
		cancelLoop()
		<-loopErr
		return oops.Wrapf(err, "http server")
	case err := <-loopErr:
		cancelLoop()
		if err != nil && !errors.Is(err, context.Canceled) {
			shutdown(srv, logger)
			return oops.Wrapf(err, "frame loop")
		}
	}

	shutdown(srv, logger)
	return nil
}

func shutdown(srv *http.Server, logger telemetry.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("http shutdown: %v", err)
	}
}

// buildRouter assembles the event router from the logging section of the
// config. The JSON sink is returned separately so Run can close its file.
func buildRouter(cfg config.Logging) (*logging.Router, *os.File, error) {
	severity, err := logging.ParseSeverity(cfg.MinSeverity)
	if err != nil {
		return nil, nil, oops.Wrapf(err, "logging.min_severity")
	}
	logCfg := logging.DefaultConfig()
	logCfg.EnabledSinks = cfg.Sinks
	logCfg.MinimumSeverity = severity
	logCfg.JSONFilePath = cfg.JSONFilePath

	var jsonFile *os.File
	var sinks []logging.NamedSink
	for _, name := range cfg.Sinks {
		switch name {
		case "console":
			sinks = append(sinks, logging.NamedSink{Name: name, Sink: loggingSinks.NewConsoleSink(os.Stdout)})
		case "json":
			path := cfg.JSONFilePath
			if path == "" {
				return nil, nil, oops.Errorf("logging.json_file_path required for the json sink")
			}
			jsonFile, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, nil, oops.With("path", path).Wrapf(err, "open json log file")
			}
			sinks = append(sinks, logging.NamedSink{Name: name, Sink: loggingSinks.NewJSON(jsonFile, logCfg.JSONFlush)})
		case "memory":
			sinks = append(sinks, logging.NamedSink{Name: name, Sink: loggingSinks.NewMemorySink()})
		default:
			return nil, nil, oops.Errorf("unknown logging sink %q", name)
		}
	}
	return logging.NewRouter(logging.SystemClock{}, logCfg, sinks), jsonFile, nil
}
