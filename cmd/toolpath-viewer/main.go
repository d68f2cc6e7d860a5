// Command toolpath-viewer opens a window showing the toolpath streamed from a
// CNC controller's push socket, with orbit controls and snap views.
//
// Hotkeys: 1-7 snap to angled, front, back, left, right, top, bottom; R resets
// the camera; S saves the current camera as the reset point; O toggles the
// machine envelope; arrow keys pan; Esc quits.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-toolpath/engine"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/bounds"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/camera"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/config"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/feed"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/framer"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/prefs"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/renderer"
	"github.com/Carmen-Shannon/oxy-toolpath/engine/window"
)

func main() {
	configPath := flag.String("config", "toolpath-viewer.toml", "path to the TOML configuration file")
	feedURL := flag.String("feed", "", "push socket URL, overrides [feed] url")
	profile := flag.Bool("profile", false, "log rendered and idle frame counts every second")
	software := flag.Bool("software", false, "force the software WebGPU adapter")
	flag.Parse()

	// ── Config ──────────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Printf("no config at %s, using defaults", *configPath)
		cfg = config.Default()
	case err != nil:
		log.Fatal(err)
	}
	if *feedURL != "" {
		cfg.Feed.URL = *feedURL
	}

	controllerOptions, err := cfg.ControllerOptions()
	if err != nil {
		log.Fatal(err)
	}

	store, err := prefs.Open(cfg.Prefs.File)
	if err != nil {
		log.Printf("prefs: %v, using defaults", err)
		store, _ = prefs.Open("")
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	defer win.Close()

	r, err := renderer.NewRenderer(win,
		renderer.WithPresentMode(renderer.PresentModeVSync),
		renderer.WithForceSoftwareRenderer(*software),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Release()

	// ── Engine ──────────────────────────────────────────────────────────
	aspect := float32(win.Width()) / float32(max(win.Height(), 1))
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithCamera(camera.NewCamera(cfg.CameraOptions(aspect)...)),
		engine.WithControllerOptions(controllerOptions...),
		engine.WithFramer(framer.NewViewFramer(cfg.FramerOptions()...)),
		engine.WithBounds(bounds.NewProvider(bounds.WithDefaultHalfExtent(cfg.Framing.DefaultHalfExtent))),
		engine.WithPrefs(store),
		engine.WithProfiling(*profile),
		engine.WithRenderFrameLimit(120),
	)

	// ── Feed ────────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Feed.URL != "" {
		go runFeed(ctx, cfg.Feed.URL, eng)
	}
	go func() {
		<-eng.Done()
		cancel()
	}()

	eng.Run()
}

// runFeed keeps a push-socket connection open, reconnecting with backoff until ctx is done.
func runFeed(ctx context.Context, url string, sink feed.Sink) {
	backoff := time.Second
	for {
		c, err := feed.Dial(ctx, url)
		if err == nil {
			backoff = time.Second
			err = c.Run(ctx, sink)
			c.Close()
		}
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			err = errors.New("connection closed")
		}
		log.Printf("[Feed] %s: %v, retrying in %s", url, err, backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, 30*time.Second)
	}
}
