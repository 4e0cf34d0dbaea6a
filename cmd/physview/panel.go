package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/rigidsync/ecs"
	"github.com/milk9111/rigidsync/ecs/component"
	"golang.org/x/image/font/basicfont"
)

// floatStep is the relative change applied by the +/- buttons.
const floatStep = 0.1

// panel shows every Adjustable section found in the world.
type panel struct {
	ui     *ebitenui.UI
	labels []func()
}

func newPanel(w *ecs.World) *panel {
	p := &panel{}

	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 180})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}

	container := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 12, Right: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)

	newButton := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnHover}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.TextPadding(&widget.Insets{Left: 6, Right: 6, Top: 2, Bottom: 2}),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	ecs.ForEach(w, component.AdjustableComponent.Kind(), func(_ ecs.Entity, adj *component.Adjustable) {
		container.AddChild(widget.NewText(widget.TextOpts.Text(adj.Section, &face, white)))

		for _, param := range adj.Params {
			row := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(6),
			)))
			label := widget.NewText(widget.TextOpts.Text(paramLabel(param), &face, white))
			update := func() { label.Label = paramLabel(param) }
			p.labels = append(p.labels, update)

			switch {
			case param.Bool != nil:
				row.AddChild(newButton("toggle", func() {
					toggleParam(param)
					update()
				}))
			case param.Float != nil:
				row.AddChild(newButton("-", func() {
					nudgeParam(param, -floatStep)
					update()
				}))
				row.AddChild(newButton("+", func() {
					nudgeParam(param, floatStep)
					update()
				}))
			}
			row.AddChild(label)
			container.AddChild(row)
		}
	})

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(container)
	p.ui = &ebitenui.UI{Container: root}
	return p
}

// refresh redraws every label after a parameter changed outside the panel.
func (p *panel) refresh() {
	for _, update := range p.labels {
		update()
	}
}

func paramLabel(param component.AdjustableParam) string {
	switch {
	case param.Bool != nil:
		return fmt.Sprintf("%s: %v", param.Name, *param.Bool)
	case param.Float != nil:
		return fmt.Sprintf("%s: %.2f", param.Name, *param.Float)
	default:
		return param.Name
	}
}

func toggleParam(param component.AdjustableParam) {
	if param.Bool != nil {
		*param.Bool = !*param.Bool
	}
}

// nudgeParam scales a float parameter by 1+rel. Zero values step by rel.
func nudgeParam(param component.AdjustableParam, rel float64) {
	if param.Float == nil {
		return
	}
	if *param.Float == 0 {
		*param.Float = rel
		return
	}
	*param.Float *= 1 + rel
}
