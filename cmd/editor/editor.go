package main

import (
	"context"
	"fmt"
	"image/color"
	"io/fs"

	"github.com/ebitenui/ebitenui"
	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/duckling/asset"
	"github.com/milk9111/duckling/canvas"
	"github.com/milk9111/duckling/command"
	"github.com/milk9111/duckling/draw/ebitensurface"
	"github.com/milk9111/duckling/editor"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/observe"
	"github.com/milk9111/duckling/prefabs"
	"go.uber.org/zap"
)

var (
	backgroundColor = color.RGBA{40, 40, 40, 255}
	pasteOffset     = geom.V(20, 20)
)

// nudgeKeys moves the selection by one unit, or by ten with Shift.
var nudgeKeys = map[ebiten.Key]geom.Vector{
	ebiten.KeyArrowLeft:  geom.V(-1, 0),
	ebiten.KeyArrowRight: geom.V(1, 0),
	ebiten.KeyArrowUp:    geom.V(0, -1),
	ebiten.KeyArrowDown:  geom.V(0, 1),
}

// scriptKeys maps Ctrl+key to a generator script run at the cursor.
var scriptKeys = map[ebiten.Key]string{
	ebiten.KeyG: "grid.tengo",
	ebiten.KeyF: "floor.tengo",
}

// Editor is the ebiten game hosting one editing session.
type Editor struct {
	session  *editor.Session
	canvas   *canvas.Canvas
	view     *canvas.View
	surface  *ebitensurface.Surface
	ui       *ebitenui.UI
	toolBar  *ToolBar
	side     *SidePanel
	watcher  *prefabs.Watcher
	preview  *ebiten.Image
	log      *zap.Logger

	pressed  bool
	lastX    int
	lastY    int
	panning  bool
	panX     int
	panY     int
	status   string
	title    string
	historyC observe.Subscription
}

func NewEditor(session *editor.Session, watcher *prefabs.Watcher, log *zap.Logger) (*Editor, error) {
	g := &Editor{
		session: session,
		surface: ebitensurface.New(),
		watcher: watcher,
		log:     log,
	}
	g.view = canvas.NewView(session.World, session.Selection, g.surface)
	g.canvas = canvas.New(session.Env(), session.Template(), g.view)

	assets, err := session.Assets()
	if err != nil {
		log.Info("no project assets", zap.Error(err))
	}
	ui, toolBar, side, err := buildEditorUI(toolBarActions{
		onTool: g.selectTool,
		onUndo: g.undo,
		onRedo: g.redo,
		onSave: g.save,
	}, sidePanelActions{
		onTemplate: g.useTemplate,
		onAsset:    g.showAsset,
	}, panelContents{
		templates: prefabs.Names(),
		assets:    assets,
	}, g.canvas.ActiveTool())
	if err != nil {
		return nil, fmt.Errorf("editor ui: %w", err)
	}
	g.ui = ui
	g.toolBar = toolBar
	g.side = side

	g.historyC = session.Queue.Listen("history", observe.ObserverFunc(func(_ string, evt observe.Event) {
		if st, ok := evt.New.(command.HistoryState); ok {
			g.toolBar.SetHistory(st.CanUndo, st.CanRedo)
		}
		g.updateTitle()
	}))
	g.updateTitle()
	return g, nil
}

func (g *Editor) Close() {
	g.historyC.Cancel()
	g.view.Close()
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Editor) Update() error {
	g.drainWatcher()

	if g.ui != nil {
		g.ui.Update()
	}

	g.handlePan()
	g.handlePointer()
	g.handleKeys()
	g.handleDrop()
	return nil
}

// handleDrop runs .tengo files dropped on the window at the cursor.
func (g *Editor) handleDrop() {
	dropped := ebiten.DroppedFiles()
	if dropped == nil {
		return
	}
	names, err := fs.Glob(dropped, "*.tengo")
	if err != nil {
		g.setStatus("drop: %v", err)
		return
	}
	mx, my := ebiten.CursorPosition()
	for _, name := range names {
		src, err := fs.ReadFile(dropped, name)
		if err != nil {
			g.setStatus("drop %s: %v", name, err)
			continue
		}
		n, err := g.session.RunScript(context.Background(), src, g.surface.ToCanvas(mx, my))
		if err != nil {
			g.setStatus("script %s: %v", name, err)
			continue
		}
		g.setStatus("%s placed %d entities", name, n)
	}
}

func (g *Editor) handlePan() {
	// Handle pan (middle mouse drag)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
		g.panning = true
		g.panX, g.panY = ebiten.CursorPosition()
	}
	if g.panning && ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		cx, cy := ebiten.CursorPosition()
		delta := geom.V(float64(g.panX-cx), float64(g.panY-cy)).Scale(1 / g.surface.Zoom)
		g.surface.Offset = g.surface.Offset.Add(delta)
		g.panX, g.panY = cx, cy
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle) {
		g.panning = false
	}
}

func (g *Editor) handlePointer() {
	mx, my := ebiten.CursorPosition()
	pos := g.surface.ToCanvas(mx, my)

	if !ebuiinput.UIHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.pressed = true
		g.lastX, g.lastY = mx, my
		g.canvas.PointerDown(pos, modifiers())
		return
	}
	if g.pressed && (mx != g.lastX || my != g.lastY) {
		g.lastX, g.lastY = mx, my
		g.canvas.PointerMove(pos)
	}
	if g.pressed && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.pressed = false
		g.canvas.PointerUp(pos)
	}
}

func (g *Editor) handleKeys() {
	ctrl := ctrlPressed()
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyZ) && ebiten.IsKeyPressed(ebiten.KeyShift):
		g.redo()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyZ):
		g.undo()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyY):
		g.redo()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.save()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyO):
		g.reload()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC):
		if err := g.session.Copy(); err != nil {
			g.setStatus("copy: %v", err)
		}
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV):
		if _, err := g.session.Paste(pasteOffset); err != nil {
			g.setStatus("paste: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		if err := g.session.DeleteSelected(); err != nil {
			g.setStatus("delete: %v", err)
		}
	case !ctrl && inpututil.IsKeyJustPressed(ebiten.Key1):
		g.selectTool(canvas.ToolCreate)
		g.toolBar.SetTool(canvas.ToolCreate)
	case !ctrl && inpututil.IsKeyJustPressed(ebiten.Key2):
		g.selectTool(canvas.ToolDrag)
		g.toolBar.SetTool(canvas.ToolDrag)
	case !ctrl && inpututil.IsKeyJustPressed(ebiten.KeyT):
		g.nextTemplate()
	}

	for key, delta := range nudgeKeys {
		if !inpututil.IsKeyJustPressed(key) && !repeating(key) {
			continue
		}
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			delta = delta.Scale(10)
		}
		if err := g.session.Nudge(delta); err != nil {
			g.setStatus("nudge: %v", err)
		}
	}

	if !ctrl {
		return
	}
	for key, name := range scriptKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.runScript(name)
		}
	}
}

func (g *Editor) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.surface.Draw(screen)
	if g.preview != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(8, 48)
		screen.DrawImage(g.preview, op)
	}
	if g.ui != nil {
		g.ui.Draw(screen)
	}
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, 8, screen.Bounds().Dy()-20)
	}
}

func (g *Editor) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func (g *Editor) selectTool(kind canvas.ToolKind) {
	if err := g.canvas.SetTool(kind); err != nil {
		g.setStatus("%v", err)
	}
}

func (g *Editor) undo() {
	if err := g.session.Undo(); err != nil {
		g.setStatus("undo: %v", err)
	}
}

func (g *Editor) redo() {
	if err := g.session.Redo(); err != nil {
		g.setStatus("redo: %v", err)
	}
}

func (g *Editor) save() {
	if err := g.session.Save(context.Background()); err != nil {
		g.setStatus("save: %v", err)
		return
	}
	g.setStatus("saved %s", g.session.Store.Path(g.session.MapName))
	g.updateTitle()
}

func (g *Editor) reload() {
	if err := g.session.Load(context.Background()); err != nil {
		g.setStatus("load: %v", err)
		return
	}
	g.setStatus("loaded %s", g.session.Store.Path(g.session.MapName))
	g.updateTitle()
	g.refreshAssets()
}

func (g *Editor) useTemplate(name string) {
	if err := g.session.UseTemplate(name); err != nil {
		g.setStatus("template %s: %v", name, err)
		return
	}
	g.canvas.SetTemplate(g.session.Template())
	g.setStatus("placing %s", name)
}

func (g *Editor) nextTemplate() {
	name, err := g.session.NextTemplate()
	if err != nil {
		g.setStatus("template: %v", err)
		return
	}
	g.canvas.SetTemplate(g.session.Template())
	g.setStatus("placing %s", name)
}

// showAsset previews a project texture in the corner of the canvas.
func (g *Editor) showAsset(a asset.Asset) {
	img, err := g.session.Texture(a)
	if err != nil {
		g.setStatus("asset %s: %v", a.Key, err)
		return
	}
	g.preview = ebiten.NewImageFromImage(img)
	g.setStatus("%s (%dx%d)", a.Key, img.Bounds().Dx(), img.Bounds().Dy())
}

func (g *Editor) refreshAssets() {
	assets, err := g.session.Assets()
	if err != nil {
		g.log.Info("no project assets", zap.Error(err))
	}
	g.side.SetAssets(assets)
}

func (g *Editor) runScript(name string) {
	mx, my := ebiten.CursorPosition()
	n, err := g.session.RunScriptFile(context.Background(), name, g.surface.ToCanvas(mx, my))
	if err != nil {
		g.setStatus("script %s: %v", name, err)
		return
	}
	g.setStatus("%s placed %d entities", name, n)
}

// drainWatcher reloads the placement template when its file changes on disk.
func (g *Editor) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case _, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			reloaded, err := g.session.ReloadTemplate()
			if err != nil {
				g.setStatus("template %s: %v", g.session.TemplateName(), err)
				continue
			}
			if reloaded {
				g.canvas.SetTemplate(g.session.Template())
				g.setStatus("reloaded template %s", g.session.TemplateName())
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("prefab watcher", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Editor) setStatus(format string, args ...any) {
	g.status = fmt.Sprintf(format, args...)
	g.log.Info(g.status)
}

func (g *Editor) updateTitle() {
	title := "Duckling - " + g.session.MapName
	if g.session.Dirty() {
		title += " *"
	}
	if title != g.title {
		g.title = title
		ebiten.SetWindowTitle(title)
	}
}

// repeating reports key auto-repeat after a short hold.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d > 30 && d%4 == 0
}

func ctrlPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
}

func modifiers() canvas.Modifiers {
	return canvas.Modifiers{
		Ctrl: ctrlPressed(),
		Meta: ebiten.IsKeyPressed(ebiten.KeyMeta),
	}
}
