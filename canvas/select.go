package canvas

import (
	"github.com/milk9111/duckling/draw"
	"github.com/milk9111/duckling/geom"
)

// SelectionTool selects the entity under the pointer. A press that hits nothing
// keeps the current selection.
type SelectionTool struct {
	env Env
}

func NewSelectionTool(env Env) *SelectionTool {
	return &SelectionTool{env: env}
}

func (t *SelectionTool) OnStageDown(pos geom.Vector) {
	key, _, ok := HitTest(t.env.World, pos)
	if !ok {
		return
	}
	t.env.Selection.Set(key)
}

func (t *SelectionTool) OnStageMove(geom.Vector) {}
func (t *SelectionTool) OnStageUp(geom.Vector)   {}

func (t *SelectionTool) Overlay() []draw.Primitive { return nil }
