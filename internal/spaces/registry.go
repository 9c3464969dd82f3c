package spaces

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"docspace/internal/domain/models"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Container describes one of the three fixed top-level space containers.
type Container struct {
	// Key is the container identifier (set during YAML unmarshaling)
	Key string `yaml:"-" json:"key"`

	DisplayName string           `yaml:"display_name" json:"display_name"`
	SpaceType   models.SpaceType `yaml:"space_type" json:"space_type"`
	Description string           `yaml:"description" json:"description"`
}

type registryFile struct {
	Containers map[string]Container `yaml:"containers"`
}

// Registry holds the fixed space container definitions loaded from the
// embedded YAML. The set is closed; there is no runtime mutation.
type Registry struct {
	containers map[string]Container
}

// NewRegistry loads the embedded space definitions
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/spaces.yaml")
	if err != nil {
		return nil, fmt.Errorf("read spaces config: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal spaces config: %w", err)
	}

	containers := make(map[string]Container, len(file.Containers))
	for key, c := range file.Containers {
		if !c.SpaceType.Valid() {
			return nil, fmt.Errorf("container %s: unknown space type %q", key, c.SpaceType)
		}
		c.Key = key
		containers[key] = c
	}

	return &Registry{containers: containers}, nil
}

// Container returns the definition for a container key
func (r *Registry) Container(key string) (Container, error) {
	c, ok := r.containers[key]
	if !ok {
		return Container{}, fmt.Errorf("unknown space container: %s", key)
	}
	return c, nil
}

// BySpaceType returns the container governing a space type
func (r *Registry) BySpaceType(space models.SpaceType) (Container, error) {
	for _, c := range r.containers {
		if c.SpaceType == space {
			return c, nil
		}
	}
	return Container{}, fmt.Errorf("no container for space type: %s", space)
}

// All returns every container, ordered by key
func (r *Registry) All() []Container {
	out := make([]Container, 0, len(r.containers))
	for _, c := range r.containers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
