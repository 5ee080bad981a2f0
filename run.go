package dispatchviz

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// ErrQuit may be returned from RunConfig.Update to close the window cleanly.
var ErrQuit = errors.New("dispatchviz: quit")

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// Background fills the screen before the scene draws.
	Background Color
	// ShowFPS prints FPS and TPS in the top-left corner.
	ShowFPS bool
	// Update runs once per tick before Scene.Update.
	Update func() error
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	cfg   RunConfig
}

func (g *game) Update() error {
	if g.cfg.Update != nil {
		if err := g.cfg.Update(); err != nil {
			return err
		}
	}
	g.scene.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Background.toRGBA())
	g.scene.Draw(screen)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Run opens a resizable window and drives the scene until the window closes
// or cfg.Update returns an error. ErrQuit is not reported as an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1024
	}
	if cfg.Height <= 0 {
		cfg.Height = 768
	}
	if cfg.Background == (Color{}) {
		cfg.Background = ColorWhite
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(&game{scene: scene, cfg: cfg})
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}
