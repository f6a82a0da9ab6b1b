package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Project is one entry in the project registry: a short name mapped to
// an absolute project root.
type Project struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
}

// registryFile is the on-disk shape of projects.yaml.
type registryFile struct {
	Projects []Project `yaml:"projects"`
}

// GetRegistryPath returns the process-wide project registry path,
// following the same XDG layout as the user config.
func GetRegistryPath() string {
	return filepath.Join(GetUserConfigDir(), "projects.yaml")
}

// LoadRegistry reads the project registry from disk. A missing file is
// not an error: it reads back as an empty registry. There is no
// in-process cache — every call re-reads the file, matching the rest
// of this package's load-fresh-every-time behavior.
func LoadRegistry() ([]Project, error) {
	path := GetRegistryPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read project registry %s: %w", path, err)
	}

	var rf registryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse project registry %s: %w", path, err)
	}
	return rf.Projects, nil
}

func saveRegistry(projects []Project) error {
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })

	data, err := yaml.Marshal(registryFile{Projects: projects})
	if err != nil {
		return fmt.Errorf("failed to marshal project registry: %w", err)
	}

	path := GetRegistryPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project registry: %w", err)
	}
	return nil
}

// AddProject registers name -> absolute root path, overwriting any
// existing entry with the same name. root is resolved to an absolute
// path before being stored.
func AddProject(name, root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("invalid project path: %w", err)
	}

	projects, err := LoadRegistry()
	if err != nil {
		return err
	}

	found := false
	for i, p := range projects {
		if p.Name == name {
			projects[i].Path = absRoot
			found = true
			break
		}
	}
	if !found {
		projects = append(projects, Project{Name: name, Path: absRoot})
	}

	return saveRegistry(projects)
}

// RemoveProject deregisters name. Removing a name that isn't
// registered is not an error.
func RemoveProject(name string) error {
	projects, err := LoadRegistry()
	if err != nil {
		return err
	}

	out := projects[:0]
	for _, p := range projects {
		if p.Name != name {
			out = append(out, p)
		}
	}
	return saveRegistry(out)
}

// ResolveProject looks up a registered project's root path by name.
func ResolveProject(name string) (string, bool, error) {
	projects, err := LoadRegistry()
	if err != nil {
		return "", false, err
	}
	for _, p := range projects {
		if p.Name == name {
			return p.Path, true, nil
		}
	}
	return "", false, nil
}
