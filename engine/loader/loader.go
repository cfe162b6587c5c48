package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-forward/engine/shading"
)

// ErrUnsupportedFormat is returned for texture paths no backend decodes.
var ErrUnsupportedFormat = errors.New("loader: unsupported texture format")

// MaterialDefinition describes a material by file paths instead of decoded pixels.
// Empty map paths leave the role to the sentinel textures.
type MaterialDefinition struct {
	Name          string     `toml:"name" yaml:"name"`
	Ambient       [3]float32 `toml:"ambient" yaml:"ambient"`
	Diffuse       [3]float32 `toml:"diffuse" yaml:"diffuse"`
	Specular      [3]float32 `toml:"specular" yaml:"specular"`
	Shininess     float32    `toml:"shininess" yaml:"shininess"`
	SpecularModel string     `toml:"specular_model" yaml:"specular_model"`
	DiffuseMap    string     `toml:"diffuse_map" yaml:"diffuse_map"`
	SpecularMap   string     `toml:"specular_map" yaml:"specular_map"`
	EmissiveMap   string     `toml:"emissive_map" yaml:"emissive_map"`
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	fsys     fs.FS
	backends map[string]loaderBackend

	textureCache  map[string]common.TextureStagingData
	materialCache map[string]material.Material

	pool    worker.DynamicWorkerPool
	workers int
}

// Loader decodes texture files into staging data and builds materials from definitions.
// Decoded textures and built materials are cached by path and name.
type Loader interface {
	// Texture decodes a texture file, returning the cached copy on repeat calls.
	//
	// Parameters:
	//   - path: the slash-separated path inside the loader's file system
	//
	// Returns:
	//   - common.TextureStagingData: RGBA8 pixels
	//   - error: ErrUnsupportedFormat for unknown extensions, or the open/decode error
	Texture(path string) (common.TextureStagingData, error)

	// Textures decodes several texture files concurrently.
	//
	// Parameters:
	//   - paths: the texture paths
	//
	// Returns:
	//   - []common.TextureStagingData: one texture per path, in order
	//   - error: the joined errors of every failed path
	Textures(paths ...string) ([]common.TextureStagingData, error)

	// Material builds a material from a definition, decoding its maps. Materials are cached by
	// name, so models sharing a name share GPU resources.
	//
	// Parameters:
	//   - def: the material definition
	//
	// Returns:
	//   - material.Material: the material
	//   - error: an error if a map fails to load or the specular model is unknown
	Material(def MaterialDefinition) (material.Material, error)

	// CachedTextures returns the number of decoded textures held.
	CachedTextures() int

	// Release stops the decode workers and drops the caches.
	Release()
}

var _ Loader = &loader{}

// NewLoader creates a Loader reading from the working directory unless WithFS says otherwise.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		fsys:          os.DirFS("."),
		backends:      make(map[string]loaderBackend),
		textureCache:  make(map[string]common.TextureStagingData),
		materialCache: make(map[string]material.Material),
		workers:       4,
	}
	l.registerBackend(imageLoaderBackend{})

	for _, option := range options {
		option(l)
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 64, time.Second)
	return l
}

func (l *loader) registerBackend(b loaderBackend) {
	for _, ext := range b.Extensions() {
		l.backends[ext] = b
	}
}

func (l *loader) Texture(path string) (common.TextureStagingData, error) {
	l.mu.RLock()
	if cached, ok := l.textureCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, ok := l.backends[extension(path)]
	if !ok {
		return common.TextureStagingData{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := l.fsys.Open(path)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()

	tex, err := backend.Decode(f)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("loader: decode %s: %w", path, err)
	}

	l.mu.Lock()
	l.textureCache[path] = tex
	l.mu.Unlock()

	common.Logger().Debug("texture loaded", "path", path, "width", tex.Width, "height", tex.Height)
	return tex, nil
}

func (l *loader) Textures(paths ...string) ([]common.TextureStagingData, error) {
	textures := make([]common.TextureStagingData, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		idx, p := i, path
		l.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				textures[idx], errs[idx] = l.Texture(p)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return textures, errors.Join(errs...)
}

func (l *loader) Material(def MaterialDefinition) (material.Material, error) {
	if def.Name != "" {
		l.mu.RLock()
		cached, ok := l.materialCache[def.Name]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}
	}

	model, err := shading.SpecularModelByName(def.SpecularModel)
	if err != nil {
		return nil, fmt.Errorf("loader: material %q: %w", def.Name, err)
	}

	opts := []material.MaterialBuilderOption{
		material.WithName(def.Name),
		material.WithAmbient(def.Ambient[0], def.Ambient[1], def.Ambient[2]),
		material.WithDiffuse(def.Diffuse[0], def.Diffuse[1], def.Diffuse[2]),
		material.WithSpecular(def.Specular[0], def.Specular[1], def.Specular[2], def.Shininess),
		material.WithSpecularModel(model),
	}

	roles := []material.TextureRole{material.TextureRoleDiffuse, material.TextureRoleSpecular, material.TextureRoleEmissive}
	var paths []string
	var pathRoles []material.TextureRole
	for i, p := range []string{def.DiffuseMap, def.SpecularMap, def.EmissiveMap} {
		if p != "" {
			paths = append(paths, p)
			pathRoles = append(pathRoles, roles[i])
		}
	}
	if len(paths) > 0 {
		textures, err := l.Textures(paths...)
		if err != nil {
			return nil, fmt.Errorf("loader: material %q: %w", def.Name, err)
		}
		for i, tex := range textures {
			opts = append(opts, material.WithTexture(pathRoles[i], tex))
		}
	}

	m := material.NewMaterial(opts...)
	if def.Name != "" {
		l.mu.Lock()
		if existing, ok := l.materialCache[def.Name]; ok {
			m = existing
		} else {
			l.materialCache[def.Name] = m
		}
		l.mu.Unlock()
	}
	return m, nil
}

func (l *loader) CachedTextures() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.textureCache)
}

func (l *loader) Release() {
	l.pool.Stop()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.textureCache = make(map[string]common.TextureStagingData)
	l.materialCache = make(map[string]material.Material)
}
