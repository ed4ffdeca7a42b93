package game

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/rocketboost/music"
)

const statusTTL = 3 * time.Second

var (
	skyColor    = color.NRGBA{R: 0x10, G: 0x14, B: 0x2c, A: 0xff}
	stripeColor = color.NRGBA{R: 0x1c, G: 0x24, B: 0x4a, A: 0xff}
	textColor   = color.NRGBA{R: 0xee, G: 0xee, B: 0xff, A: 0xff}
	dimColor    = color.NRGBA{R: 0x88, G: 0x90, B: 0xb0, A: 0xff}
	alertColor  = color.NRGBA{R: 0xff, G: 0x60, B: 0x50, A: 0xff}
)

type hud struct {
	title *text.GoTextFace
	body  *text.GoTextFace
	pixel *ebiten.Image
}

func newHUD() (*hud, error) {
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("game: load title font: %w", err)
	}
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("game: load body font: %w", err)
	}
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &hud{
		title: &text.GoTextFace{Source: bold, Size: 48},
		body:  &text.GoTextFace{Source: regular, Size: 20},
		pixel: pixel,
	}, nil
}

func (h *hud) fillRect(dst *ebiten.Image, x, y, w, ht float64, clr color.Color) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, ht)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	dst.DrawImage(h.pixel, op)
}

// drawBackground tiles vertical stripes shifted by the looping offset.
func (h *hud) drawBackground(dst *ebiten.Image, offset float64) {
	dst.Fill(skyColor)
	const spacing = 160.0
	shift := offset - float64(int(offset/spacing))*spacing
	for x := -spacing + shift; x < BaseWidth; x += spacing {
		h.fillRect(dst, x, 0, 24, BaseHeight, stripeColor)
	}
}

func (h *hud) drawText(dst *ebiten.Image, face *text.GoTextFace, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = face.Size * 1.4
	text.Draw(dst, s, face, op)
}

func (h *hud) drawScene(dst *ebiten.Image, g *Game) {
	catalog := g.scenes.Catalog()
	active := g.scenes.Active()

	h.drawText(dst, h.title, catalog.Name(active), 48, 40, textColor)
	if g.countdown.Expired() {
		h.drawText(dst, h.body, "TIME UP", BaseWidth-120, 56, alertColor)
	} else {
		h.drawText(dst, h.body, g.countdown.Format(), BaseWidth-120, 56, textColor)
	}

	names := make([]string, 0, g.history.Len())
	for _, ref := range g.history.Entries() {
		names = append(names, catalog.Name(ref))
	}
	h.drawText(dst, h.body, "History: "+strings.Join(names, " > "), 48, 120, dimColor)

	lines := []string{
		"Current: " + channelLine(g.music.Current()),
		"Next:    " + channelLine(g.music.Next()),
	}
	if g.music.Fading() {
		lines = append(lines, "Crossfading...")
	}
	if g.mute.Muted() {
		lines = append(lines, "Muted")
	}
	h.drawText(dst, h.body, strings.Join(lines, "\n"), 48, 170, dimColor)

	if g.status != "" && time.Since(g.statusAt) < statusTTL {
		h.drawText(dst, h.body, g.status, 48, BaseHeight-150, textColor)
	}
	h.drawText(dst, h.body, "Enter: next   Backspace: back   P: pause   M: mute", 48, BaseHeight-40, dimColor)
}

func (h *hud) drawDebug(dst *ebiten.Image, s string) {
	ebitenutil.DebugPrint(dst, s)
}

func channelLine(ch music.Channel) string {
	if ch == nil {
		return "-"
	}
	name := "(none)"
	if c := ch.Clip(); c != nil {
		name = c.Name()
	}
	state := "stopped"
	if ch.IsPlaying() {
		state = "playing"
	}
	return fmt.Sprintf("%s  vol %.2f  %s", name, ch.Volume(), state)
}
