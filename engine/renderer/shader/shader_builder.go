package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option for configuring a Shader via NewShader.
type ShaderBuilderOption func(*shader)

// WithDefine sets the value of an @oxy:define constant for this shader.
//
// Parameters:
//   - name: the constant name, e.g. AnnotationArgSpecularModel
//   - value: the u32 value emitted into the source
//
// Returns:
//   - ShaderBuilderOption: a function that records the define
func WithDefine(name AnnotationArg, value uint32) ShaderBuilderOption {
	return func(s *shader) {
		s.ppOptions = append(s.ppOptions, Define(name, value))
	}
}

// WithVertexLayouts sets the vertex buffer layouts, in slot order, of a vertex shader.
//
// Parameters:
//   - layouts: one layout per vertex buffer slot
//
// Returns:
//   - ShaderBuilderOption: a function that sets the vertex layouts
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = layouts
	}
}

// WithBindGroupLayouts sets the bind group layout contract the shader's bindings are checked
// against and the pipeline layout is built from.
//
// Parameters:
//   - layouts: descriptors keyed by group index
//
// Returns:
//   - ShaderBuilderOption: a function that sets the layouts
func WithBindGroupLayouts(layouts map[int]wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors = layouts
	}
}
