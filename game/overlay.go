package game

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

var (
	panelColor       = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200}
	buttonColor      = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}
	buttonDownColor  = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255}
	buttonOffColor   = color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 160}
	buttonTextColor  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	buttonTextOffClr = color.NRGBA{R: 0x77, G: 0x77, B: 0x77, A: 0xff}
)

func uiFace() *ebtext.Face {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	return &face
}

func newButton(label string, face *ebtext.Face, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:     imageui.NewNineSliceColor(buttonColor),
			Pressed:  imageui.NewNineSliceColor(buttonDownColor),
			Disabled: imageui.NewNineSliceColor(buttonOffColor),
		}),
		widget.ButtonOpts.Text(label, face, &widget.ButtonTextColor{Idle: buttonTextColor, Disabled: buttonTextOffClr}),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(96, 32)),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}

// navControls is the on-screen Back / Next bar. The back button is
// disabled whenever the history cannot go back.
type navControls struct {
	g    *Game
	ui   *ebitenui.UI
	back *widget.Button
	next *widget.Button
}

func newNavControls(g *Game) *navControls {
	face := uiFace()
	n := &navControls{g: g}
	n.back = newButton("Back", face, g.goBack)
	n.next = newButton("Next", face, g.advance)
	pause := newButton("Pause", face, g.togglePause)
	mute := newButton("Mute", face, g.toggleMute)

	bar := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(panelColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionEnd,
			}),
		),
	)
	bar.AddChild(n.back)
	bar.AddChild(n.next)
	bar.AddChild(pause)
	bar.AddChild(mute)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(bar)

	n.ui = &ebitenui.UI{Container: root}
	n.refresh()
	return n
}

func (n *navControls) refresh() {
	loading := n.g.scenes.Pending()
	n.back.GetWidget().Disabled = loading || !n.g.history.CanGoBack()
	n.next.GetWidget().Disabled = loading || n.g.cfg.Override == "" && int(n.g.scenes.Active())+1 >= n.g.scenes.Count()
}

// newPauseUI builds the centered pause panel with a Resume button.
func newPauseUI(g *Game) *ebitenui.UI {
	face := uiFace()

	title := widget.NewText(
		widget.TextOpts.Text("Paused", face, buttonTextColor),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	hint := widget.NewText(
		widget.TextOpts.Text("Music keeps playing while paused", face, buttonTextOffClr),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	resume := newButton("Resume", face, g.togglePause)
	resume.GetWidget().LayoutData = widget.RowLayoutData{Position: widget.RowLayoutPositionCenter}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(panelColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(BaseWidth/2, BaseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(hint)
	panel.AddChild(resume)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}
