// Command skopio-desktop is the background tracking agent: it watches
// the focused window, input activity, and AFK gaps, buffers closed spans
// to a local SQLite ledger, periodically syncs them to the aggregation
// server, and evaluates goals against it. Wiring follows the usual
// daemon shape: load config, construct every component, start its
// background loop, and wait on a signal to shut down cleanly.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samwahome/skopio-desktop/internal/axcache"
	"github.com/samwahome/skopio-desktop/internal/config"
	"github.com/samwahome/skopio-desktop/internal/goal"
	"github.com/samwahome/skopio-desktop/internal/inputsignal"
	"github.com/samwahome/skopio-desktop/internal/logging"
	"github.com/samwahome/skopio-desktop/internal/netclient"
	"github.com/samwahome/skopio-desktop/internal/notify"
	"github.com/samwahome/skopio-desktop/internal/paths"
	"github.com/samwahome/skopio-desktop/internal/store"
	"github.com/samwahome/skopio-desktop/internal/tracker"
	"github.com/samwahome/skopio-desktop/internal/trackingsvc"
	"github.com/samwahome/skopio-desktop/internal/windowwatch"

	"go.uber.org/zap"
)

func main() {
	release := flag.Bool("release", false, "Run with release paths and a Unix domain socket transport")
	configPath := flag.String("config", "", "Path to config file (defaults to the platform config directory)")
	flag.Parse()

	paths.Release = *release

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = paths.ConfigPath()
	}
	cfg, loadErr := config.Load(cfgPath)

	logDir := ""
	if *release {
		logDir = paths.LogDir()
	}
	logger, err := logging.New(!*release, logDir)
	if err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}
	defer logger.Sync()

	if loadErr != nil {
		logger.Warn("config load failed, using defaults", zap.Error(loadErr), zap.String("path", cfgPath))
	}

	if err := paths.EnsureDataDir(); err != nil {
		logger.Fatal("failed to create data directory", zap.Error(err))
	}

	if *release {
		if err := paths.EnsureRunDir(); err != nil {
			logger.Fatal("failed to create run directory", zap.Error(err))
		}
		cfg.Server.Socket = paths.SocketPath()
	}

	token, err := netclient.ResolveAuthToken(*release)
	if err != nil {
		logger.Fatal("failed to resolve auth token", zap.Error(err))
	}
	cfg.Server.AuthToken = token

	broadcaster := config.NewBroadcaster(cfg)

	db, err := store.Open(paths.StorePath())
	if err != nil {
		logger.Fatal("failed to open local store", zap.Error(err))
	}
	defer db.Close()

	client := netclient.New(cfg.Server)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	status := netclient.WaitReady(ctx, client, 15*time.Second)
	if !status.Connected {
		logger.Warn("aggregation server not reachable at startup, continuing in degraded mode", zap.Error(status.Err))
	}

	inputs := inputsignal.NewManager(logger)
	go inputs.Run(ctx)

	windows := windowwatch.New(cfg.WindowPollInterval(), logger)
	go windows.Run(ctx)

	ax := axcache.New(axcache.SystemProvider{}, windows.Current, cfg.AxMaxAge())

	trackingSvc := trackingsvc.New(db, client, broadcaster, logger)
	trackingSvc.Start(ctx)

	eventTracker := tracker.NewEventTracker(inputs.Mouse, inputs.Keyboard, ax, trackingSvc, broadcaster, logger)
	go eventTracker.Run(ctx, windows.Watch())

	afkTracker := tracker.NewAFKTracker(inputs.Mouse, inputs.Keyboard, trackingSvc, broadcaster, logger)
	go afkTracker.Run(ctx)

	goalSvc := goal.New(client, db, notify.New(logger), logger)
	go goalSvc.Run(ctx)

	logger.Info("skopio-desktop started",
		zap.Bool("release", *release),
		zap.String("store", paths.StorePath()),
		zap.Bool("server_connected", status.Connected),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()

	// EventTracker, AFKTracker, and the tracking service's flush loop all
	// flush their active/buffered state on ctx.Done(); give them a moment
	// to finish before the process exits.
	time.Sleep(200 * time.Millisecond)
}
