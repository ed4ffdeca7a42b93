package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownScene = errors.New("scene: unknown scene")
	ErrNoNextScene  = errors.New("scene: no next scene")
	ErrLoadPending  = errors.New("scene: a load is already pending")
)

// Ref is a stable index into the scene catalog.
type Ref int

// InvalidRef marks the absence of a scene.
const InvalidRef Ref = -1

func (r Ref) String() string {
	return strconv.Itoa(int(r))
}

// LoadMode mirrors how the host pipeline treats the currently active scene.
type LoadMode int

const (
	// Single replaces the active scene.
	Single LoadMode = iota
	// Additive loads alongside the active scene without replacing it.
	Additive
)

func (m LoadMode) String() string {
	switch m {
	case Single:
		return "single"
	case Additive:
		return "additive"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Catalog lists every loadable scene by path, in index order.
type Catalog struct {
	Scenes []string `yaml:"scenes"`
}

// LoadCatalog parses a yaml scene list.
func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("scene: unmarshal catalog: %w", err)
	}
	for i, p := range c.Scenes {
		c.Scenes[i] = filepath.ToSlash(strings.TrimSpace(p))
	}
	return &c, nil
}

func (c *Catalog) Count() int {
	if c == nil {
		return 0
	}
	return len(c.Scenes)
}

// PathByIndex returns the path for ref, or "" when ref is out of range.
func (c *Catalog) PathByIndex(ref Ref) string {
	if c == nil || ref < 0 || int(ref) >= len(c.Scenes) {
		return ""
	}
	return c.Scenes[ref]
}

// IndexByName finds a scene by its display name or its full path.
func (c *Catalog) IndexByName(name string) (Ref, bool) {
	name = strings.TrimSpace(name)
	if c == nil || name == "" {
		return InvalidRef, false
	}
	for i, p := range c.Scenes {
		if p == name || baseName(p) == name {
			return Ref(i), true
		}
	}
	return InvalidRef, false
}

// Name resolves ref to a human readable scene name.
func (c *Catalog) Name(ref Ref) string {
	return Name(c, ref)
}

// PathResolver maps refs to loadable paths.
type PathResolver interface {
	PathByIndex(ref Ref) string
}

// Name returns the file name of ref's path without directory or extension.
// Unresolvable refs render as "#<index>".
func Name(paths PathResolver, ref Ref) string {
	var path string
	if paths != nil {
		path = paths.PathByIndex(ref)
	}
	if path == "" {
		return "#" + ref.String()
	}
	return baseName(path)
}

func baseName(path string) string {
	slash := strings.LastIndex(path, "/")
	dot := strings.LastIndex(path, ".")
	if slash >= 0 && dot > slash {
		return path[slash+1 : dot]
	}
	return path
}
