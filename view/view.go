//go:build ebiten

// Package view shows a session in an ebiten window and turns clicks and key
// presses into loop commands.
package view

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/engine"
	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/utils"
)

const noticeDuration = 3 * time.Second

// Game adapts an engine.Loop to the ebiten.Game interface.
type Game struct {
	ctx   context.Context
	loop  *engine.Loop
	scale int

	img   *ebiten.Image
	buf   []byte
	dirty bool

	last        time.Time
	notice      string
	noticeUntil time.Time
}

// Run opens the window and blocks until it is closed or ctx is done. ebiten
// requires it to be called from the main goroutine.
func Run(ctx context.Context, loop *engine.Loop, cfg utils.ViewConfig) error {
	g := newGame(ctx, loop, cfg.Scale)
	loop.Observe(g)

	grid := loop.Grid()
	ebiten.SetWindowTitle("go-life")
	ebiten.SetWindowSize(grid.Cols()*g.scale, grid.Rows()*g.scale)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return errors.Wrap(err, "[view.Run]")
	}
	return nil
}

func newGame(ctx context.Context, loop *engine.Loop, scale int) *Game {
	if scale <= 0 {
		scale = 1
	}
	grid := loop.Grid()
	return &Game{
		ctx:   ctx,
		loop:  loop,
		scale: scale,
		img:   ebiten.NewImage(grid.Cols(), grid.Rows()),
		buf:   make([]byte, 4*grid.Rows()*grid.Cols()),
		dirty: true,
	}
}

// GridCommitted marks the board for repaint
func (g *Game) GridCommitted(*model.Grid, uint64) {
	g.dirty = true
}

// StabilityDetected shows a one-time notice
func (g *Game) StabilityDetected(ev engine.StabilityEvent) {
	g.notice = fmt.Sprintf("Stable (%s) at generation %d", ev.Classification, ev.Generation)
	g.noticeUntil = time.Now().Add(noticeDuration)
}

// Update handles input and advances the loop by the real time since the last frame
func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.loop.ToggleRunning()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if err := g.loop.Step(); err != nil {
			slog.Debug("manual step ignored", "error", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.loop.Randomize(model.DefaultProbability)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.loop.Reset()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		cell := cellAt(x, y, g.scale)
		if err := g.loop.Toggle(cell.Row, cell.Col); err != nil {
			slog.Debug("click outside the board ignored", "cell", cell.String())
		}
	}

	now := time.Now()
	if g.last.IsZero() {
		g.last = now
	}
	g.loop.Frame(now.Sub(g.last))
	g.last = now

	if err := g.loop.Err(); err != nil {
		return errors.Wrap(err, "[Game.Update]")
	}
	return nil
}

// Draw paints the board and any pending notice
func (g *Game) Draw(screen *ebiten.Image) {
	if g.dirty {
		fillRGBA(g.buf, g.loop.Grid(), liveColor, deadColor)
		g.img.WritePixels(g.buf)
		g.dirty = false
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.img, op)

	if g.notice != "" && time.Now().Before(g.noticeUntil) {
		ebitenutil.DebugPrint(screen, g.notice)
	}
}

// Layout returns the logical screen size
func (g *Game) Layout(int, int) (int, int) {
	grid := g.loop.Grid()
	return grid.Cols() * g.scale, grid.Rows() * g.scale
}
