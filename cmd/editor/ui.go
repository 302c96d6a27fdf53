package main

import (
	"bytes"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/duckling/asset"
	"github.com/milk9111/duckling/canvas"
	"golang.org/x/image/font/gofont/goregular"
)

type panelContents struct {
	templates []string
	assets    []asset.Asset
}

func buildEditorUI(actions toolBarActions, side sidePanelActions, contents panelContents, initial canvas.ToolKind) (*ebitenui.UI, *ToolBar, *SidePanel, error) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, nil, nil, err
	}

	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newEditorTheme(&fontFace)

	toolbarContainer, toolBar := buildToolBar(ui.PrimaryTheme, &fontFace, actions, initial)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	// Toolbar: top center
	toolbarContainer.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	root.AddChild(toolbarContainer)

	sideContainer, sidePanel := buildSidePanel(&fontFace, contents.templates, contents.assets, side)
	// Side panel: right edge
	sideContainer.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
	}
	root.AddChild(sideContainer)

	ui.Container = root
	return ui, toolBar, sidePanel, nil
}
