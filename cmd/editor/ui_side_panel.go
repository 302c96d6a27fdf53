package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/duckling/asset"
)

type sidePanelActions struct {
	onTemplate func(name string)
	onAsset    func(a asset.Asset)
}

// SidePanel lists the placement templates and the project's textures.
type SidePanel struct {
	templates *widget.List
	assets    *widget.List
}

func buildSidePanel(fontFace *text.Face, templates []string, assets []asset.Asset, actions sidePanelActions) (*widget.Container, *SidePanel) {
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{50, 50, 60, 240})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Left: 8, Right: 8, Bottom: 8}),
		)),
	)
	sp := &SidePanel{}

	addSectionLabel(panel, fontFace, "Templates")
	sp.templates = widget.NewList(
		widget.ListOpts.Entries(toEntries(templates)),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			name, _ := e.(string)
			return name
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if name, ok := args.Entry.(string); ok && actions.onTemplate != nil {
				actions.onTemplate(name)
			}
		}),
	)
	sp.templates.GetWidget().MinHeight = 80
	sp.templates.GetWidget().MinWidth = 180
	panel.AddChild(sp.templates)

	addSectionLabel(panel, fontFace, "Assets")
	sp.assets = widget.NewList(
		widget.ListOpts.Entries(toEntries(assets)),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if a, ok := e.(asset.Asset); ok {
				return a.Key
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if a, ok := args.Entry.(asset.Asset); ok && actions.onAsset != nil {
				actions.onAsset(a)
			}
		}),
	)
	sp.assets.GetWidget().MinHeight = 160
	sp.assets.GetWidget().MinWidth = 180
	panel.AddChild(sp.assets)

	return panel, sp
}

func (sp *SidePanel) SetAssets(assets []asset.Asset) {
	sp.assets.SetEntries(toEntries(assets))
}

func addSectionLabel(parent *widget.Container, fontFace *text.Face, title string) {
	parent.AddChild(widget.NewLabel(
		widget.LabelOpts.Text(title, fontFace, &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}),
	))
}

func toEntries[T any](items []T) []any {
	entries := make([]any, 0, len(items))
	for _, it := range items {
		entries = append(entries, it)
	}
	return entries
}
