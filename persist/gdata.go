package persist

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
)

const (
	projectsObject   = "projects"
	projectsProperty = "recent"
)

// PropStore is the part of *gdata.Manager the project list needs.
type PropStore interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

// GdataProjects stores the recent-projects list in the platform's app data
// location through gdata.
type GdataProjects struct {
	store PropStore
}

// OpenGdataProjects opens the gdata storage of appName.
func OpenGdataProjects(appName string) (*GdataProjects, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("persist: open app data: %w", err)
	}
	return NewGdataProjects(m), nil
}

func NewGdataProjects(store PropStore) *GdataProjects {
	return &GdataProjects{store: store}
}

func (g *GdataProjects) Load() (ProjectList, error) {
	if !g.store.ObjectPropExists(projectsObject, projectsProperty) {
		return ProjectList{}, nil
	}
	data, err := g.store.LoadObjectProp(projectsObject, projectsProperty)
	if err != nil {
		return nil, fmt.Errorf("persist: load projects: %w", err)
	}
	return decodeProjects(data)
}

func (g *GdataProjects) Save(list ProjectList) error {
	data, err := encodeProjects(list)
	if err != nil {
		return err
	}
	if err := g.store.SaveObjectProp(projectsObject, projectsProperty, data); err != nil {
		return fmt.Errorf("persist: save projects: %w", err)
	}
	return nil
}
