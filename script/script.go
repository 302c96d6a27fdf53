// Package script runs tengo placement scripts. A script calls place(x, y) or
// place(x, y, body) for every entity it wants, with the pointer position available
// as cursor_x and cursor_y.
package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/prefabs"
)

const (
	// MaxPlacements bounds how many entities one script run may place.
	MaxPlacements = 1000
	// DefaultTimeout applies when ctx has no deadline.
	DefaultTimeout = 2 * time.Second
)

var ErrTooManyPlacements = errors.New("script: too many placements")

// Placement is one entity requested by a script.
type Placement struct {
	Position geom.Vector
	// Body overrides the template's collision body when HasBody is set.
	Body    component.BodyType
	HasBody bool
}

// Run executes src and returns the placements it made, in call order.
func Run(ctx context.Context, src []byte, cursor geom.Vector) ([]Placement, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	var placements []Placement
	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap("math", "fmt", "rand"))
	place := &tengo.UserFunction{Name: "place", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p, err := placementFromArgs(args)
		if err != nil {
			return nil, err
		}
		if len(placements) >= MaxPlacements {
			return nil, ErrTooManyPlacements
		}
		placements = append(placements, p)
		return tengo.UndefinedValue, nil
	}}
	if err := bind(s, []variable{
		{"cursor_x", cursor.X},
		{"cursor_y", cursor.Y},
		{"place", place},
	}); err != nil {
		return nil, err
	}

	if _, err := s.RunContext(ctx); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return placements, nil
}

// RunFile runs a script from the prefabs scripts directory.
func RunFile(ctx context.Context, name string, cursor geom.Vector) ([]Placement, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return Run(ctx, src, cursor)
}

type variable struct {
	name  string
	value any
}

func bind(s *tengo.Script, vars []variable) error {
	for _, v := range vars {
		if err := s.Add(v.name, v.value); err != nil {
			return fmt.Errorf("script: bind %s: %w", v.name, err)
		}
	}
	return nil
}

func placementFromArgs(args []tengo.Object) (Placement, error) {
	if len(args) != 2 && len(args) != 3 {
		return Placement{}, tengo.ErrWrongNumArguments
	}
	x, ok := tengo.ToFloat64(args[0])
	if !ok {
		return Placement{}, tengo.ErrInvalidArgumentType{Name: "x", Expected: "number", Found: args[0].TypeName()}
	}
	y, ok := tengo.ToFloat64(args[1])
	if !ok {
		return Placement{}, tengo.ErrInvalidArgumentType{Name: "y", Expected: "number", Found: args[1].TypeName()}
	}
	p := Placement{Position: geom.V(x, y)}
	if len(args) == 3 {
		name, ok := tengo.ToString(args[2])
		if !ok {
			return Placement{}, tengo.ErrInvalidArgumentType{Name: "body", Expected: "string", Found: args[2].TypeName()}
		}
		body, err := component.ParseBodyType(name)
		if err != nil {
			return Placement{}, err
		}
		p.Body, p.HasBody = body, true
	}
	return p, nil
}
