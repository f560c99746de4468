// Command tiltball plays the tilt maze in a terminal, optionally bridged to a phone controller
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tiltball/asset"
	"github.com/lixenwraith/tiltball/audio"
	"github.com/lixenwraith/tiltball/config"
	"github.com/lixenwraith/tiltball/constant"
	"github.com/lixenwraith/tiltball/core"
	"github.com/lixenwraith/tiltball/engine"
	"github.com/lixenwraith/tiltball/events"
	"github.com/lixenwraith/tiltball/network"
	"github.com/lixenwraith/tiltball/render"
	"github.com/lixenwraith/tiltball/service"
	"github.com/lixenwraith/tiltball/status"
	"github.com/lixenwraith/tiltball/tilt"
)

var (
	configFlag = flag.String("config", "", "Path to a TOML config (default ./tiltball.toml, then built-in)")
	seedFlag   = flag.Int64("seed", 0, "Level seed, 0 keeps the configured seed")
	listenFlag = flag.String("listen", "", "Serve the phone controller on host:port (enables the network bridge)")
	sensorFlag = flag.String("sensor", "keyboard", "Tilt source: keyboard, phone, none")
	debugFlag  = flag.Bool("debug", false, "Write logs/tiltball.log and show the metrics overlay")
	muteFlag   = flag.Bool("mute", false, "Start with sound muted")
	dumpFlag   = flag.Bool("dump-config", false, "Print the effective config as TOML and exit")
)

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, capability, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tiltball: %v\n", err)
		os.Exit(2)
	}
	if *dumpFlag {
		if err := cfg.Encode(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "tiltball: %v\n", err)
			os.Exit(1)
		}
		return
	}

	summary, err := run(cfg, capability)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tiltball: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(summary.Render())
}

// loadConfig applies flag overrides on top of the loaded file and validates the result
func loadConfig() (*config.Config, engine.Capability, error) {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return nil, engine.CapabilityNone, err
	}

	if *seedFlag != 0 {
		cfg.Level.Seed = *seedFlag
	}
	if *listenFlag != "" {
		cfg.Network.Enabled = true
		cfg.Network.Listen = *listenFlag
	}
	if *debugFlag {
		cfg.Debug.Overlay = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, engine.CapabilityNone, fmt.Errorf("invalid config: %w", err)
	}

	var capability engine.Capability
	switch *sensorFlag {
	case "keyboard":
		capability = engine.CapabilityDirect
	case "phone":
		if !cfg.Network.Enabled {
			return nil, engine.CapabilityNone, errors.New("-sensor phone needs the network bridge, pass -listen")
		}
		capability = engine.CapabilityPermission
	case "none":
		capability = engine.CapabilityNone
	default:
		return nil, engine.CapabilityNone, fmt.Errorf("unknown -sensor %q", *sensorFlag)
	}
	return cfg, capability, nil
}

func run(cfg *config.Config, capability engine.Capability) (sessionSummary, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return sessionSummary{}, fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return sessionSummary{}, fmt.Errorf("terminal: %w", err)
	}
	finiOnce := sync.Once{}
	fini := func() { finiOnce.Do(screen.Fini) }
	defer fini()

	// Engine goroutines restore the terminal before printing a crash
	core.SetCrashHandler(func(r any) {
		fini()
		fmt.Fprintf(os.Stderr, "\r\n\x1b[31mTILTBALL CRASHED: %v\x1b[0m\r\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	})
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	reg := status.NewRegistry()
	sampler := tilt.NewSampler()
	queue := events.NewEventQueue()
	clock := engine.NewPausableClock(nil)
	startedAt := time.Now()

	game := engine.NewGame(cfg.Engine(), clock, sampler, queue, reg)
	scheduler, updateDone := engine.NewClockScheduler(game, clock, cfg.TickInterval(), reg)

	board := render.NewTextBoard()
	scheduler.RegisterEventHandler(board)

	quit := make(chan struct{})
	var quitOnce sync.Once
	scheduler.RegisterEventHandler(events.HandlerFunc[*engine.Game]{
		Types: []events.EventType{events.EventQuitRequest},
		Fn: func(*engine.Game, events.GameEvent) {
			quitOnce.Do(func() { close(quit) })
		},
	})
	scheduler.RegisterEventHandler(sessionLogger())

	hub := service.NewHub()
	loopDeps := []string{}

	sound := audio.NewSoundManager(cfg.Audio.Volume, reg)
	sound.SetMuted(*muteFlag)
	scheduler.RegisterEventHandler(sound)
	if cfg.Audio.Enabled {
		hub.Register(sound)
		loopDeps = append(loopDeps, sound.Name())
	}

	if cfg.Network.Enabled {
		bridge := newBridge(cfg, sampler, queue, reg)
		scheduler.RegisterEventHandler(bridge.svc)
		scheduler.OnTick(bridge.svc.SnapshotHook(game))
		hub.Register(bridge.assetService())
		hub.Register(bridge.networkService())
		loopDeps = append(loopDeps, "network")
	}

	hub.Register(&service.Func{
		ID:    "scheduler",
		Needs: loopDeps,
		OnStart: func() error {
			game.Start(capability)
			scheduler.Start()
			return nil
		},
		OnStop: func() error {
			scheduler.Stop()
			return nil
		},
	})

	if err := hub.StartAll(); err != nil {
		return sessionSummary{}, err
	}
	defer hub.StopAll()
	log.Printf("tiltball: services up: %v", hub.Started())

	renderer := render.NewRenderer(screen, board, reg)
	renderer.SetDebug(cfg.Debug.Overlay)
	keyboard := tilt.NewKeyboard(sampler)

	eventChan := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	frameTicker := time.NewTicker(constant.FrameUpdateInterval)
	defer frameTicker.Stop()

	requestQuit := func() {
		// Ticks are frozen while paused, resume so the request is dispatched
		clock.Resume()
		queue.Push(events.GameEvent{Type: events.EventQuitRequest, Timestamp: clock.Now()})
	}

	dirty := true
	for {
		select {
		case <-quit:
			return collectSummary(reg, time.Since(startedAt), clock.TotalPauseDuration(), cfg.Source), nil

		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				renderer.Resize()
			case *tcell.EventKey:
				if keyboard.HandleKey(ev) {
					break
				}
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
					requestQuit()
				case ev.Rune() == 'r':
					queue.Push(events.GameEvent{Type: events.EventLevelRefreshRequest, Timestamp: clock.Now()})
				case ev.Rune() == 'p':
					clock.Toggle()
				case ev.Rune() == 'd':
					renderer.ToggleDebug()
				case ev.Rune() == 'm':
					sound.ToggleMute()
				case ev.Rune() == 'g' && game.Phase() == engine.PhaseAwaitingPermission:
					// Stand-in for the phone prompt when testing without a controller
					queue.Push(events.GameEvent{
						Type:      events.EventPermissionResult,
						Payload:   &events.PermissionResultPayload{State: events.PermissionGranted},
						Timestamp: clock.Now(),
					})
				}
			}
			dirty = true

		case <-updateDone:
			dirty = true

		case <-frameTicker.C:
			if dirty || clock.IsPaused() {
				renderer.RenderFrame(game.Snapshot(), clock.IsPaused())
				dirty = false
			}
		}
	}
}

// bridge serves the controller page from the offline cache plus both websocket endpoints
type bridge struct {
	storage *asset.CacheStorage
	origin  asset.Fetcher
	svc     *network.Service
	reg     *status.Registry
	netCfg  *network.Config
}

func newBridge(cfg *config.Config, sampler *tilt.Sampler, queue *events.EventQueue, reg *status.Registry) *bridge {
	netCfg := network.DefaultConfig()
	netCfg.Address = cfg.Network.Listen
	netCfg.SnapshotEvery = cfg.Network.SnapshotEvery

	b := &bridge{
		storage: asset.NewCacheStorage(),
		origin:  &asset.FSFetcher{FS: asset.WebFS()},
		svc:     network.NewService(netCfg, sampler, queue, reg),
		reg:     reg,
		netCfg:  netCfg,
	}
	b.svc.Mount(asset.NewHandler(b.storage, b.origin))
	return b
}

// assetService installs the controller files into the versioned cache and drops older caches
func (b *bridge) assetService() service.Service {
	return &service.Func{
		ID: "assets",
		OnStart: func() error {
			if err := asset.Install(context.Background(), b.storage, asset.CacheName, asset.Manifest, b.origin); err != nil {
				return fmt.Errorf("install controller assets: %w", err)
			}
			asset.Activate(b.storage, asset.CacheName)
			b.reg.Ints.Get(status.KeyCacheEntries).Store(int64(b.storage.Entries()))
			return nil
		},
	}
}

func (b *bridge) networkService() service.Service {
	return &service.Func{
		ID:    "network",
		Needs: []string{"assets"},
		OnStart: func() error {
			if err := b.svc.Start(); err != nil {
				return fmt.Errorf("listen %s: %w", b.netCfg.Address, err)
			}
			log.Printf("network: controller at http://%s/", b.svc.Addr())
			return nil
		},
		OnStop: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), b.netCfg.ShutdownTimeout)
			defer cancel()
			return b.svc.Stop(ctx)
		},
	}
}

// sessionLogger records noteworthy game events in the debug log
func sessionLogger() events.Handler[*engine.Game] {
	return events.HandlerFunc[*engine.Game]{
		Types: []events.EventType{events.EventGoalReached, events.EventLevelRegenerated, events.EventPhaseChanged},
		Fn: func(_ *engine.Game, ev events.GameEvent) {
			switch p := ev.Payload.(type) {
			case *events.GoalReachedPayload:
				log.Printf("tick %d: goal reached, score %d", ev.Tick, p.Score)
			case *events.LevelRegeneratedPayload:
				log.Printf("tick %d: level regenerated, %d walls, %d attempts, exhausted=%v",
					ev.Tick, p.Walls, p.Attempts, p.Exhausted)
			case *events.PhaseChangedPayload:
				log.Printf("tick %d: phase %s -> %s", ev.Tick, p.From, p.To)
			}
		},
	}
}
