package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// MaxRecentProjects is the length of the recent-projects list.
const MaxRecentProjects = 8

type Project struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// NewProject names a project after its directory.
func NewProject(path string) Project {
	return Project{Title: filepath.Base(path), Path: path}
}

// ProjectList is the most-recently-opened-first list of projects.
type ProjectList []Project

// Open moves p to the front, dropping any older entry with the same path and
// anything past MaxRecentProjects.
func (l ProjectList) Open(p Project) ProjectList {
	out := make(ProjectList, 0, MaxRecentProjects)
	out = append(out, p)
	for _, existing := range l {
		if len(out) == MaxRecentProjects {
			break
		}
		if existing.Path == p.Path {
			continue
		}
		out = append(out, existing)
	}
	return out
}

// DefaultProjectsFile is ~/.duckling/recent_projects.json.
func DefaultProjectsFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".duckling", "recent_projects.json"), nil
}

// LoadProjects reads the list from path. A missing file is an empty list.
func LoadProjects(path string) (ProjectList, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ProjectList{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persist: load projects: %w", err)
	}
	return decodeProjects(data)
}

// SaveProjects writes the list to path.
func SaveProjects(path string, list ProjectList) error {
	data, err := encodeProjects(list)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("persist: save projects: %w", err)
	}
	return nil
}

func encodeProjects(list ProjectList) ([]byte, error) {
	if list == nil {
		list = ProjectList{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("persist: encode projects: %w", err)
	}
	return data, nil
}

func decodeProjects(data []byte) (ProjectList, error) {
	var list ProjectList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("persist: decode projects: %w", err)
	}
	if len(list) > MaxRecentProjects {
		list = list[:MaxRecentProjects]
	}
	if list == nil {
		list = ProjectList{}
	}
	return list, nil
}

// ProjectStore is where the recent-projects list lives.
type ProjectStore interface {
	Load() (ProjectList, error)
	Save(ProjectList) error
}

// FileProjects stores the list in a JSON file.
type FileProjects struct {
	Path string
}

func (f FileProjects) Load() (ProjectList, error)   { return LoadProjects(f.Path) }
func (f FileProjects) Save(list ProjectList) error { return SaveProjects(f.Path, list) }
