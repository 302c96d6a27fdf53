package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/duckling/canvas"
)

var toolOrder = []canvas.ToolKind{canvas.ToolCreate, canvas.ToolDrag}

// ToolBar mirrors the active canvas tool and the history state.
type ToolBar struct {
	group   *widget.RadioGroup
	buttons []*widget.Button
	undo    *widget.Button
	redo    *widget.Button
	syncing bool
}

// SetTool marks kind active without re-triggering the selection callback.
func (tb *ToolBar) SetTool(kind canvas.ToolKind) {
	if tb == nil || tb.group == nil {
		return
	}
	for idx, k := range toolOrder {
		if k == kind && idx < len(tb.buttons) {
			tb.syncing = true
			tb.group.SetActive(tb.buttons[idx])
			tb.syncing = false
			return
		}
	}
}

func (tb *ToolBar) SetHistory(canUndo, canRedo bool) {
	if tb == nil {
		return
	}
	if tb.undo != nil {
		tb.undo.GetWidget().Disabled = !canUndo
	}
	if tb.redo != nil {
		tb.redo.GetWidget().Disabled = !canRedo
	}
}

type toolBarActions struct {
	onTool func(kind canvas.ToolKind)
	onUndo func()
	onRedo func()
	onSave func()
}

func buildToolBar(theme *widget.Theme, fontFace *text.Face, actions toolBarActions, initial canvas.ToolKind) (*widget.Container, *ToolBar) {
	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.Black,
		Hover:    color.Black,
		Pressed:  color.RGBA{0, 0, 200, 255},
		Disabled: color.Gray{Y: 128},
	}

	toolbar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(220, 48),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 4, Bottom: 4, Left: 4, Right: 4}),
			),
		),
		widget.ContainerOpts.BackgroundImage(theme.PanelTheme.BackgroundImage),
	)

	tb := &ToolBar{}
	for _, kind := range toolOrder {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(kind.String(), fontFace, buttonTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(64, 40),
			),
		)
		tb.buttons = append(tb.buttons, btn)
		toolbar.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(tb.buttons))
	for _, b := range tb.buttons {
		elements = append(elements, b)
	}

	tb.group = widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if actions.onTool == nil || tb.syncing {
				return
			}
			for idx, b := range tb.buttons {
				if args.Active == b {
					actions.onTool(toolOrder[idx])
					return
				}
			}
		}),
	)
	tb.SetTool(initial)

	action := func(label string, fn func()) *widget.Button {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label, fontFace, buttonTextColor),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(56, 40),
			),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
				if fn != nil {
					fn()
				}
			}),
		)
		toolbar.AddChild(btn)
		return btn
	}
	tb.undo = action("Undo", actions.onUndo)
	tb.redo = action("Redo", actions.onRedo)
	action("Save", actions.onSave)
	tb.SetHistory(false, false)

	return toolbar, tb
}
