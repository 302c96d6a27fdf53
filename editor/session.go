// Package editor ties the document, selection, history and storage of one open map
// into an editing session.
package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/milk9111/duckling/asset"
	"github.com/milk9111/duckling/canvas"
	"github.com/milk9111/duckling/command"
	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/ecs/component"
	"github.com/milk9111/duckling/ecs/entity"
	"github.com/milk9111/duckling/geom"
	"github.com/milk9111/duckling/persist"
	"github.com/milk9111/duckling/prefabs"
	"github.com/milk9111/duckling/script"
	"go.uber.org/zap"
)

var (
	ErrNoSelection = errors.New("editor: nothing selected")
	ErrNoTemplates = errors.New("editor: no entity templates")
)

// Session is one open map.
type Session struct {
	World     *ecs.World
	Selection *ecs.Selection
	Queue     *command.Queue
	Store     *persist.MapStore
	MapName   string

	template     entity.Template
	templateName string
	templateMod  time.Time

	assets    *asset.Loader
	clipboard Clipboard
	projects  persist.ProjectStore
	log       *zap.Logger

	savedDigest uint64
}

type Option func(*Session)

func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClipboard(c Clipboard) Option {
	return func(s *Session) {
		if c != nil {
			s.clipboard = c
		}
	}
}

func WithProjects(p persist.ProjectStore) Option {
	return func(s *Session) { s.projects = p }
}

func WithQueue(q *command.Queue) Option {
	return func(s *Session) {
		if q != nil {
			s.Queue = q
		}
	}
}

func WithWorld(w *ecs.World) Option {
	return func(s *Session) {
		if w != nil {
			s.World = w
		}
	}
}

// NewSession opens an empty document for mapName in store. Call Load to read the
// map from disk.
func NewSession(store *persist.MapStore, mapName string, opts ...Option) (*Session, error) {
	s := &Session{
		World:     ecs.NewWorld(),
		Selection: ecs.NewSelection(),
		Queue:     command.NewQueue(),
		Store:     store,
		MapName:   mapName,
		assets:    newAssetLoader(store.Root),
		clipboard: &MemoryClipboard{},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.UseTemplate(prefabs.DefaultEntity); err != nil {
		return nil, fmt.Errorf("editor: default template: %w", err)
	}
	if err := s.markClean(); err != nil {
		return nil, err
	}
	return s, nil
}

// Env returns the state canvas tools work on.
func (s *Session) Env() canvas.Env {
	return canvas.Env{World: s.World, Selection: s.Selection, Queue: s.Queue, Log: s.log}
}

func (s *Session) Template() entity.Template {
	return s.template
}

// TemplateName is the prefab the current template was built from.
func (s *Session) TemplateName() string {
	return s.templateName
}

// UseTemplate makes the named prefab the placement template.
func (s *Session) UseTemplate(name string) error {
	tmpl, err := entity.NewTemplate(name)
	if err != nil {
		return err
	}
	s.template = tmpl
	s.templateName = name
	s.templateMod, _ = prefabs.ModTime(name)
	s.log.Info("template selected", zap.String("template", name))
	return nil
}

// NextTemplate switches to the built-in template after the current one and
// returns its name.
func (s *Session) NextTemplate() (string, error) {
	names := prefabs.Names()
	if len(names) == 0 {
		return "", ErrNoTemplates
	}
	next := names[0]
	for i, n := range names {
		if n == s.templateName {
			next = names[(i+1)%len(names)]
			break
		}
	}
	return next, s.UseTemplate(next)
}

// ReloadTemplate rebuilds the current template when its file on disk is newer
// than the version in use. It reports whether the template was rebuilt.
func (s *Session) ReloadTemplate() (bool, error) {
	mod, ok := prefabs.ModTime(s.templateName)
	if !ok || !mod.After(s.templateMod) {
		return false, nil
	}
	if err := s.UseTemplate(s.templateName); err != nil {
		return false, err
	}
	return true, nil
}

// Assets lists the textures of the current project.
func (s *Session) Assets() ([]asset.Asset, error) {
	return asset.List(s.Store.Root)
}

// Texture decodes a project texture, caching it for the rest of the project's
// lifetime in the session.
func (s *Session) Texture(a asset.Asset) (image.Image, error) {
	cached := s.assets.Cache.Has(a)
	img, err := s.assets.Image(a)
	if err != nil {
		return nil, err
	}
	if !cached {
		s.log.Debug("texture loaded", zap.Stringer("asset", a), zap.Int("cached", s.assets.Cache.Len()))
	}
	return img, nil
}

func (s *Session) Undo() error {
	if err := s.Queue.Undo(); err != nil {
		s.log.Error("undo failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *Session) Redo() error {
	if err := s.Queue.Redo(); err != nil {
		s.log.Error("redo failed", zap.Error(err))
		return err
	}
	return nil
}

// Save writes the document and marks it clean.
func (s *Session) Save(ctx context.Context) error {
	if err := s.Store.SaveMap(ctx, s.MapName, s.World); err != nil {
		s.log.Error("save failed", zap.String("map", s.MapName), zap.Error(err))
		return err
	}
	return s.markClean()
}

// Load replaces the document with the map on disk. The history and selection are
// cleared. If the map cannot be read the current document is kept as it is.
func (s *Session) Load(ctx context.Context) error {
	fresh := s.World.EmptyClone()
	if _, err := s.Store.LoadMap(ctx, s.MapName, fresh); err != nil {
		s.log.Warn("load failed", zap.String("map", s.MapName), zap.Error(err))
		return err
	}
	s.replace(fresh)
	return s.markClean()
}

// Dirty reports whether the document differs from what was last saved or loaded.
func (s *Session) Dirty() bool {
	d, err := persist.Digest(s.Store.Registry(), s.World)
	if err != nil {
		return true
	}
	return d != s.savedDigest
}

// DeleteSelected removes the selected entity as one undoable step and clears the
// selection.
func (s *Session) DeleteSelected() error {
	key := s.Selection.Key()
	if key == "" {
		return ErrNoSelection
	}
	if err := s.Queue.Push(command.NewRemoveEntity(s.World, key)); err != nil {
		return err
	}
	s.Selection.Clear()
	return nil
}

// Copy puts the selected entity on the clipboard.
func (s *Session) Copy() error {
	key := s.Selection.Key()
	e, ok := s.World.Entity(key)
	if !ok {
		return ErrNoSelection
	}
	data, err := ecs.EncodeEntity(s.Store.Registry(), e)
	if err != nil {
		return err
	}
	return s.clipboard.Write(data)
}

// Paste adds the clipboard entity shifted by offset and selects it. It returns the
// new entity's key.
func (s *Session) Paste(offset geom.Vector) (string, error) {
	data, err := s.clipboard.Read()
	if err != nil {
		return "", err
	}
	e, err := ecs.DecodeEntity(s.Store.Registry(), data)
	if err != nil {
		return "", fmt.Errorf("editor: paste: %w", err)
	}
	if pos, ok := ecs.Get(e, component.PositionComponent); ok {
		pos.SetPosition(pos.Position().Add(offset))
	}
	add := command.NewAddEntity(s.World, e)
	if err := s.Queue.Push(add); err != nil {
		return "", err
	}
	s.Selection.Set(add.Key())
	return add.Key(), nil
}

// Nudge moves the selected entity by delta. Consecutive nudges of the same entity
// merge into one undo step when the queue merges edits.
func (s *Session) Nudge(delta geom.Vector) error {
	key := s.Selection.Key()
	e, ok := s.World.Entity(key)
	if !ok {
		return ErrNoSelection
	}
	pos, ok := ecs.Get(e, component.PositionComponent)
	if !ok {
		return fmt.Errorf("editor: nudge %q: entity has no position", key)
	}
	from := pos.Position()
	move := command.NewMoveEntity(s.World, key, from, from.Add(delta)).WithMergeID("nudge:" + key)
	return s.Queue.Push(move)
}

// RunScript places one template entity per placement the script makes. All
// placements form a single undo step. It returns how many entities were added.
func (s *Session) RunScript(ctx context.Context, src []byte, cursor geom.Vector) (int, error) {
	placements, err := script.Run(ctx, src, cursor)
	if err != nil {
		return 0, err
	}
	return s.placeAll(placements)
}

// RunScriptFile runs a bundled or on-disk script by name, like RunScript.
func (s *Session) RunScriptFile(ctx context.Context, name string, cursor geom.Vector) (int, error) {
	placements, err := script.RunFile(ctx, name, cursor)
	if err != nil {
		return 0, err
	}
	return s.placeAll(placements)
}

func (s *Session) placeAll(placements []script.Placement) (int, error) {
	if len(placements) == 0 {
		return 0, nil
	}
	cmds := make([]command.Command, 0, len(placements))
	for _, p := range placements {
		e, err := s.template(p.Position)
		if err != nil {
			return 0, err
		}
		if p.HasBody {
			if col, ok := ecs.Get(e, component.CollisionComponent); ok {
				col.SetBodyType(p.Body)
			}
		}
		cmds = append(cmds, command.NewAddEntity(s.World, e))
	}
	if err := s.Queue.Push(command.NewComposite(cmds...)); err != nil {
		return 0, err
	}
	s.log.Info("script placed entities", zap.Int("count", len(cmds)))
	return len(cmds), nil
}

// OpenProject switches the session to the project at p, loading its map if one
// exists, and records it in the recent-projects list. If the map cannot be read the
// session stays on the current project with its document untouched.
func (s *Session) OpenProject(ctx context.Context, p persist.Project) error {
	next := s.Store.At(p.Path)
	fresh := s.World.EmptyClone()
	if next.Exists(s.MapName) {
		if _, err := next.LoadMap(ctx, s.MapName, fresh); err != nil {
			s.log.Warn("open project failed", zap.String("project", p.Path), zap.Error(err))
			return err
		}
	} else {
		s.log.Info("new map", zap.String("project", p.Path), zap.String("map", s.MapName))
	}

	if s.projects != nil {
		list, err := s.projects.Load()
		if err != nil {
			s.log.Warn("recent projects unreadable, starting a new list", zap.Error(err))
			list = persist.ProjectList{}
		}
		if err := s.projects.Save(list.Open(p)); err != nil {
			return err
		}
	}

	s.Store = next
	s.assets = newAssetLoader(p.Path)
	s.replace(fresh)
	return s.markClean()
}

func (s *Session) replace(w *ecs.World) {
	s.Queue.Clear()
	s.Selection.Clear()
	s.World.Move(w)
}

func (s *Session) markClean() error {
	d, err := persist.Digest(s.Store.Registry(), s.World)
	if err != nil {
		return err
	}
	s.savedDigest = d
	return nil
}

func newAssetLoader(root string) *asset.Loader {
	return &asset.Loader{BaseSrc: root, Cache: asset.NewCache()}
}
