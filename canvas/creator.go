package canvas

import (
	"github.com/milk9111/duckling/command"
	"github.com/milk9111/duckling/draw"
	"github.com/milk9111/duckling/ecs/entity"
	"github.com/milk9111/duckling/geom"
	"go.uber.org/zap"
)

// CreatorTool stamps a new entity from its template wherever the pointer goes
// down. Each placement is one undoable step.
type CreatorTool struct {
	env      Env
	template entity.Template
}

func NewCreatorTool(env Env, template entity.Template) *CreatorTool {
	return &CreatorTool{env: env, template: template}
}

// SetTemplate changes what the tool places.
func (t *CreatorTool) SetTemplate(template entity.Template) {
	t.template = template
}

func (t *CreatorTool) OnStageDown(pos geom.Vector) {
	if t.template == nil {
		return
	}
	e, err := t.template(pos)
	if err != nil {
		t.env.logger().Warn("build entity from template", zap.Error(err))
		return
	}
	add := command.NewAddEntity(t.env.World, e)
	if err := t.env.Queue.Push(add); err != nil {
		t.env.logger().Warn("create entity", zap.String("key", add.Key()), zap.Error(err))
		return
	}
	t.env.logger().Debug("entity created", zap.String("key", add.Key()), zap.Float64("x", pos.X), zap.Float64("y", pos.Y))
}

func (t *CreatorTool) OnStageMove(geom.Vector) {}
func (t *CreatorTool) OnStageUp(geom.Vector)   {}

func (t *CreatorTool) Overlay() []draw.Primitive { return nil }
