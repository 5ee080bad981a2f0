package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/dispatchviz"
	"github.com/phanxgames/dispatchviz/internal/cli"
	"github.com/phanxgames/dispatchviz/internal/ctxlog"
	"github.com/phanxgames/dispatchviz/internal/metrics"
	"github.com/phanxgames/dispatchviz/internal/scenario"
)

// viewer owns the diagram, its player and the loaded scenario.
type viewer struct {
	ctx      context.Context
	cfg      *cli.Config
	scene    *dispatchviz.Scene
	diagram  *dispatchviz.Diagram
	player   *dispatchviz.Player
	scenario *scenario.Scenario
	script   *dispatchviz.ScriptRunner
	metrics  *metrics.Metrics
	shownAt  int
}

func newViewer(ctx context.Context, cfg *cli.Config) (*viewer, error) {
	scene := dispatchviz.NewScene()
	scene.ScreenshotDir = cfg.ScreenshotDir
	scene.SetDebugMode(cfg.Debug)

	d := dispatchviz.New(scene, dispatchviz.Options{
		PointerTween: float32(cfg.Tween),
		Sketch:       dispatchviz.SketchOptions{Seed: cfg.Seed},
	})
	v := &viewer{
		ctx:     ctx,
		cfg:     cfg,
		scene:   scene,
		diagram: d,
		player:  dispatchviz.NewPlayer(d),
		shownAt: -1,
	}
	if cfg.ScriptPath == "" {
		d.Interact(func(gn *dispatchviz.GraphNode) {
			if gn.TreeNode != nil && !v.player.Seek(gn.TreeNode) {
				ctxlog.FromContext(ctx).Debug("No step at node.", "node", gn.TreeNode.Label())
			}
		})
	}

	switch cfg.ScriptPath {
	case "":
	case "capture-all":
		v.script = dispatchviz.CaptureAllScript()
	default:
		data, err := os.ReadFile(cfg.ScriptPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read script %s: %w", cfg.ScriptPath, err)
		}
		if v.script, err = dispatchviz.LoadScript(data); err != nil {
			return nil, fmt.Errorf("failed to load script %s: %w", cfg.ScriptPath, err)
		}
	}

	if err := v.load(); err != nil {
		return nil, err
	}
	return v, nil
}

// load reads the scenario file and redraws the diagram from its first step.
func (v *viewer) load() error {
	s, err := scenario.Load(v.ctx, v.cfg.ScenarioPath)
	if err != nil {
		return err
	}
	steps := s.Steps()
	v.scenario = s
	v.player.Load(s.Tree, steps)
	if v.metrics != nil {
		v.metrics.ObserveTree(v.diagram.Stats())
	}
	ctxlog.FromContext(v.ctx).Info("Scenario loaded.",
		"title", s.Title,
		"nodes", v.diagram.Stats().Nodes,
		"regions", v.diagram.Stats().Regions,
		"steps", len(steps))
	return nil
}

func (v *viewer) attachMetrics(m *metrics.Metrics) {
	v.metrics = m
	v.scene.OnFrameStats(m.ObserveFrame)
	m.ObserveTree(v.diagram.Stats())
}

// windowSize prefers flags, then the scenario, then Run's defaults.
func (v *viewer) windowSize() (int, int) {
	w, h := v.cfg.Width, v.cfg.Height
	if w == 0 {
		w = v.scenario.Width
	}
	if h == 0 {
		h = v.scenario.Height
	}
	return w, h
}

func (v *viewer) title() string {
	step, ok := v.player.Current()
	if !ok {
		return v.scenario.Title + " (no steps)"
	}
	return fmt.Sprintf("%s [%d/%d] %s at %s", v.scenario.Title,
		v.player.Index()+1, v.player.Len(), step.Phase, step.CurrentTarget.Label())
}

// update handles input and advances animations. Runs once per tick.
func (v *viewer) update() error {
	logger := ctxlog.FromContext(v.ctx)

	if v.script != nil {
		v.script.Update(v.player, v.scene)
		if v.script.Done() && v.scene.PendingScreenshots() == 0 {
			logger.Info("Script finished.")
			return dispatchviz.ErrQuit
		}
	} else {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
			return dispatchviz.ErrQuit
		case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight), inpututil.IsKeyJustPressed(ebiten.KeySpace):
			v.player.Next()
		case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
			v.player.Prev()
		case inpututil.IsKeyJustPressed(ebiten.KeyHome):
			v.player.First()
		case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
			v.player.Last()
		case inpututil.IsKeyJustPressed(ebiten.KeyS):
			v.scene.Screenshot(fmt.Sprintf("step-%03d", v.player.Index()))
		case inpututil.IsKeyJustPressed(ebiten.KeyR):
			if err := v.load(); err != nil {
				logger.Error("Reload failed.", "error", err)
			}
			v.shownAt = -1
		}
	}

	if v.player.Index() != v.shownAt {
		v.shownAt = v.player.Index()
		ebiten.SetWindowTitle(v.title())
		if v.metrics != nil {
			v.metrics.ObserveDiagram(v.diagram.Stats())
		}
		if step, ok := v.player.Current(); ok {
			logger.Debug("Step shown.", "index", v.shownAt, "phase", step.Phase.String(),
				"current", step.CurrentTarget.Label(), "target", step.Target.Label())
		}
	}

	v.diagram.Update(float32(1.0 / float64(ebiten.TPS())))
	return nil
}
