package canvas

import (
	"fmt"

	"github.com/milk9111/duckling/draw"
	"github.com/milk9111/duckling/ecs/entity"
	"github.com/milk9111/duckling/geom"
)

// ToolKind names the tools the toolbar can activate.
type ToolKind uint8

const (
	ToolCreate ToolKind = iota
	ToolDrag
)

func (k ToolKind) String() string {
	switch k {
	case ToolCreate:
		return "create"
	case ToolDrag:
		return "drag"
	default:
		return fmt.Sprintf("ToolKind(%d)", uint8(k))
	}
}

// Modifiers are the keys held when a gesture starts.
type Modifiers struct {
	Ctrl bool
	Meta bool
}

func (m Modifiers) selects() bool {
	return m.Ctrl || m.Meta
}

// Canvas routes pointer gestures to tools. A gesture that starts with Ctrl or Meta
// held goes to the selection tool; anything else goes to the active tool. The tool
// that got the press receives the rest of the gesture.
type Canvas struct {
	env     Env
	tools   map[ToolKind]Tool
	active  ToolKind
	sel     *SelectionTool
	gesture Tool
	view    *View
}

// New builds a canvas with the create tool active. The view, if any, is redrawn
// after every pointer event so tool overlays stay current.
func New(env Env, template entity.Template, view *View) *Canvas {
	c := &Canvas{
		env: env,
		tools: map[ToolKind]Tool{
			ToolCreate: NewCreatorTool(env, template),
			ToolDrag:   NewDragTool(env),
		},
		active: ToolCreate,
		sel:    NewSelectionTool(env),
		view:   view,
	}
	if view != nil {
		view.SetOverlay(c.Overlay)
	}
	return c
}

// SetTool activates a tool. Switching in the middle of a gesture takes effect on
// the next press.
func (c *Canvas) SetTool(kind ToolKind) error {
	if _, ok := c.tools[kind]; !ok {
		return fmt.Errorf("canvas: unknown tool %s", kind)
	}
	c.active = kind
	return nil
}

func (c *Canvas) ActiveTool() ToolKind {
	return c.active
}

func (c *Canvas) Tool(kind ToolKind) Tool {
	return c.tools[kind]
}

// SetTemplate changes what the create tool places.
func (c *Canvas) SetTemplate(template entity.Template) {
	if ct, ok := c.tools[ToolCreate].(*CreatorTool); ok {
		ct.SetTemplate(template)
	}
}

func (c *Canvas) PointerDown(pos geom.Vector, mods Modifiers) {
	if mods.selects() {
		c.gesture = c.sel
	} else {
		c.gesture = c.tools[c.active]
	}
	c.gesture.OnStageDown(pos)
	c.redraw()
}

func (c *Canvas) PointerMove(pos geom.Vector) {
	t := c.gesture
	if t == nil {
		t = c.tools[c.active]
	}
	t.OnStageMove(pos)
	if t.Overlay() != nil || c.gesture != nil {
		c.redraw()
	}
}

func (c *Canvas) PointerUp(pos geom.Vector) {
	if c.gesture == nil {
		return
	}
	g := c.gesture
	c.gesture = nil
	g.OnStageUp(pos)
	c.redraw()
}

// Overlay returns the overlay of the tool handling the current gesture, or of the
// active tool between gestures.
func (c *Canvas) Overlay() []draw.Primitive {
	if c.gesture != nil {
		return c.gesture.Overlay()
	}
	return c.tools[c.active].Overlay()
}

func (c *Canvas) redraw() {
	if c.view != nil {
		c.view.Redraw()
	}
}
