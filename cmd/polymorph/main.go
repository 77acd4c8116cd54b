// polymorph - Terminal builder for branching jointed chains.
//
// Controls:
//
//	Click       - Select the link under the pointer (empty space clears)
//	Mouse drag  - Orbit the camera
//	Scroll      - Zoom in/out
//	E           - Extend the selected output with a branch cell
//	J           - Extend the selected output with a straight cell
//	X/Backspace - Remove the newest cell
//	[ ]         - Steer the selected left/right pivot
//	0           - Center the angle control
//	W/S/A/D     - Orbit (arrows work too)
//	V           - Toggle x-ray wireframe
//	P           - Save a snapshot of the frame
//	R           - Reset view
//	?           - Toggle HUD overlay
//	+/-         - Adjust zoom
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/KinematicTrees/kinematictrees.github.io/internal/config"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/chain"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/models"
	"github.com/KinematicTrees/kinematictrees.github.io/pkg/scene"
)

var (
	configPath = flag.String("config", "", "Path to a TOML config file")
	middlePath = flag.String("middle", "", "Middle link template (.glb); empty uses a box")
	branchPath = flag.String("branch", "", "Branch link template (.glb); empty uses a box")
	targetFPS  = flag.Int("fps", 0, "Target FPS (default 60)")
	bgColor    = flag.String("bg", "", "Background color (R,G,B)")
	logFile    = flag.String("log", "", "Write logs to this file")
	logLevel   = flag.String("log-level", "", "Log level (debug, info, warn, error)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "polymorph - Terminal chain builder\n\n")
		fmt.Fprintf(os.Stderr, "Usage: polymorph [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Click       - Select link\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  E / J       - Extend with branch / straight cell\n")
		fmt.Fprintf(os.Stderr, "  X           - Remove newest cell\n")
		fmt.Fprintf(os.Stderr, "  [ ] / 0     - Steer selected pivot / center\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Orbit\n")
		fmt.Fprintf(os.Stderr, "  V           - Toggle x-ray wireframe\n")
		fmt.Fprintf(os.Stderr, "  P           - Save snapshot\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}
	cfg.Resolve(config.Flags{
		Middle:     *middlePath,
		Branch:     *branchPath,
		FPS:        *targetFPS,
		Background: *bgColor,
		LogFile:    *logFile,
		LogLevel:   *logLevel,
	})
	return cfg, cfg.Validate()
}

// newLogger writes to the configured file. The terminal is in the
// alternate screen while running, so without a file logs are discarded.
func newLogger(cfg config.Config) (*slog.Logger, io.Closer, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Log.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}

// loadAssets is the startup phase: both templates load concurrently and any
// failure aborts before the terminal is touched.
func loadAssets(ctx context.Context, cfg config.Config, log *slog.Logger) (chain.Assets, error) {
	start := time.Now()
	tmpls, err := models.LoadTemplates(ctx,
		models.TemplateSource{
			Name:     "middle",
			Path:     cfg.Assets.Middle,
			Color:    cfg.Colors.Middle,
			Fallback: chain.MiddleMesh,
		},
		models.TemplateSource{
			Name:     "branch",
			Path:     cfg.Assets.Branch,
			Color:    cfg.Colors.Branch,
			Fallback: chain.BranchMesh,
		},
	)
	if err != nil {
		return chain.Assets{}, fmt.Errorf("load templates: %w", err)
	}
	for _, t := range tmpls {
		log.Info("template loaded", "name", t.Material.Name,
			"triangles", t.Mesh.TriangleCount(), "vertices", t.Mesh.VertexCount())
	}
	log.Debug("startup phase done", "elapsed", time.Since(start))

	return chain.Assets{
		Middle: tmpls[0],
		Branch: tmpls[1],
		Palette: chain.Palette{
			Highlight: cfg.Colors.Highlight,
			Selected:  cfg.Colors.Selected,
		},
	}, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	bg, err := config.ParseRGB(cfg.View.Background)
	if err != nil {
		return err
	}

	log, logCloser, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			log.Info("signal", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	assets, err := loadAssets(ctx, cfg, log)
	if err != nil {
		return err
	}
	structure, err := chain.NewStructure(scene.NewGraph(), assets)
	if err != nil {
		return fmt.Errorf("build structure: %w", err)
	}
	ctrl := chain.NewController(structure, cfg.Control.AngleStep, log)

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	app := newApp(cfg, term, ctrl, bg, log, cancel)
	app.resize(width, height)
	log.Info("session started", "cols", width, "rows", height, "fps", cfg.View.FPS)

	// The event goroutine only forwards; all state lives on the frame loop.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	targetDuration := time.Second / time.Duration(cfg.View.FPS)
	for {
		now := time.Now()

	drain:
		for {
			select {
			case <-ctx.Done():
				log.Info("session ended", "cells", ctrl.Structure.Len())
				return nil
			case ev := <-events:
				app.handle(ev)
			default:
				break drain
			}
		}

		if err := app.frame(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
