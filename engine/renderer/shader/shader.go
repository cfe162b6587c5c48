package shader

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader module is written for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// LitVertexSource is the lit pass vertex stage: world-space position and normal, clip position.
//
//go:embed assets/lit-vert.wgsl
var LitVertexSource string

// LitFragmentSource is the lit pass fragment stage. Requires SPECULAR_MODEL via WithDefine.
//
//go:embed assets/lit-frag.wgsl
var LitFragmentSource string

// OverlayVertexSource is the debug overlay vertex stage with per-instance transforms.
//
//go:embed assets/overlay-vert.wgsl
var OverlayVertexSource string

// OverlayFragmentSource is the debug overlay fragment stage: flat tint.
//
//go:embed assets/overlay-frag.wgsl
var OverlayFragmentSource string

// DepthVertexSource is the depth visualization vertex stage for the fullscreen quad.
//
//go:embed assets/depth-vert.wgsl
var DepthVertexSource string

// DepthFragmentSource is the depth visualization fragment stage: linearized grayscale depth.
//
//go:embed assets/depth-frag.wgsl
var DepthFragmentSource string

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation and resource binding.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	vertexLayouts              []wgpu.VertexBufferLayout
	entryPoint                 string
	bindings                   []Binding
	declarations               []Annotation
	module                     *wgpu.ShaderModuleDescriptor

	ppOptions []PreProcessorOption
}

// Shader defines the interface for a pre-processed WGSL shader stage. It exposes the shader's
// unique key, source code, entry point, the bind group layout contract it was checked against,
// its vertex buffer layouts, and the pre-processor declarations.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a group index.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if not set
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves the bind group layout contract of the shader's pass.
	// The renderer creates the wgpu.BindGroupLayout GPU objects from these descriptors.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// VertexLayouts retrieves the vertex buffer layouts in slot order. Empty for fragment shaders.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// Module returns the wgpu.ShaderModuleDescriptor built from the pre-processed source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// Bindings returns every @group/@binding variable declared by the processed source.
	//
	// Returns:
	//   - []Binding: the declared bindings in source order
	Bindings() []Binding

	// Declarations returns the group and provider annotations parsed from the shader source.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes WGSL source into a Shader. When bind group layouts are supplied, every
// binding the source declares is checked against them.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the stage of the shader
//   - source: the WGSL source containing @oxy: annotations
//   - options: variadic list of ShaderBuilderOption functions
//
// Returns:
//   - Shader: the processed shader
//   - error: a pre-processing error, a missing entry point or a binding mismatch
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:                        key,
		shaderType:                 shaderType,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
	}
	for _, option := range options {
		option(s)
	}
	if err := s.parseSource(source); err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return s, nil
}

// NewShaderFromPath reads WGSL source from a file and builds a Shader with NewShader.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage of the shader
//   - sourcePath: the file path to read WGSL source from
//   - options: variadic list of ShaderBuilderOption functions
//
// Returns:
//   - Shader: the processed shader
//   - error: a read error or any error from NewShader
func NewShaderFromPath(key string, shaderType ShaderType, sourcePath string, options ...ShaderBuilderOption) (Shader, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to read source file %q: %w", key, sourcePath, err)
	}
	return NewShader(key, shaderType, string(data), options...)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Bindings() []Binding {
	return s.bindings
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

// parseSource pre-processes the WGSL source, builds the shader module descriptor, parses the
// entry point name and validates the declared bindings against the layout contract.
func (s *shader) parseSource(source string) error {
	pp := NewPreProcessor(s.ppOptions...)
	processed, err := pp.Process(source)
	if err != nil {
		return fmt.Errorf("failed to pre-process source: %w", err)
	}
	s.source = processed
	s.declarations = append([]Annotation(nil), pp.Declarations()...)
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}

	s.entryPoint = parseEntryPoint(s.source, s.shaderType)
	if s.entryPoint == "" {
		return fmt.Errorf("no entry point found for shader type %d", s.shaderType)
	}

	s.bindings = parseBindings(s.source)
	if len(s.bindGroupLayoutDescriptors) > 0 {
		if err := validateBindings(s.bindings, s.bindGroupLayoutDescriptors, StructLayouts(s.source)); err != nil {
			return err
		}
	}
	return nil
}
