// pre_processor.go implements the Oxy WGSL shader pre-processor. It scans shader
// source code for @oxy: annotations, replaces them with generated WGSL declarations,
// injected struct or library source, or host-supplied constants, and collects a
// declarations list that is checked against the renderer's bind group layouts.
//
// The pre-processor maintains three registries:
//   - structRegistry: maps AnnotationArg keys to embedded WGSL sources and their
//     resolved type names. Used by @oxy:include and @oxy:group.
//   - addressSpaceRegistry: maps address space argument keys to WGSL var<> syntax strings.
//   - defines: maps constant names to the u32 values emitted by @oxy:define.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-forward/engine/light"
	"github.com/Carmen-Shannon/oxy-forward/engine/model"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/instancing"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-forward/engine/renderer/uniforms"
	"github.com/Carmen-Shannon/oxy-forward/engine/shading"
)

// registryEntry pairs a WGSL source string (embedded from a .wgsl asset file) with the
// resolved WGSL type name used in generated @group/@binding declarations. Libraries have
// no Type.
type registryEntry struct {
	// Source is the raw WGSL text injected by @oxy:include.
	Source string

	// Type is the WGSL type name emitted in @oxy:group declarations (e.g. "PerFrameUniforms").
	Type string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// structRegistry maps struct type and library keys to their embedded WGSL source and type name.
	structRegistry map[AnnotationArg]registryEntry

	// addressSpaceRegistry maps address space argument keys to WGSL var<> syntax strings.
	addressSpaceRegistry map[AnnotationArg]string

	// defines maps constant names to the values emitted by @oxy:define.
	defines map[AnnotationArg]uint32

	// declarations accumulates annotations of type AnnotationTypeBindingGroup and
	// AnnotationTypeProvider during a Process call. Reset at the start of each Process invocation.
	declarations []Annotation
}

// PreProcessor processes raw WGSL shader source code containing @oxy: annotations,
// replacing them with generated declarations or injected sources while collecting
// a declarations list for layout validation.
type PreProcessor interface {
	// Process takes raw WGSL shader source code and pre-processes it by replacing
	// @oxy: annotations with their corresponding WGSL output. Each struct or library is
	// injected at most once per call, so shaders can include a dependency that another
	// include already pulled in.
	//
	// The declarations list is reset at the start of each call and can be retrieved
	// via Declarations() after Process returns.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing annotations to be processed
	//
	// Returns:
	//   - string: the processed WGSL shader source code with annotations replaced
	//   - error: an error if any annotation is malformed or references an unknown type
	Process(source string) (string, error)

	// Declarations returns the list of AnnotationTypeBindingGroup and AnnotationTypeProvider
	// annotations collected during the most recent call to Process, in source-order.
	//
	// Returns:
	//   - []Annotation: the declarations collected during the last Process call
	Declarations() []Annotation
}

// PreProcessorOption configures a PreProcessor via NewPreProcessor.
type PreProcessorOption func(*preProcessor)

// Define sets the value emitted for an @oxy:define constant.
//
// Parameters:
//   - name: the constant name, e.g. AnnotationArgSpecularModel
//   - value: the u32 value
//
// Returns:
//   - PreProcessorOption: a function that records the define
func Define(name AnnotationArg, value uint32) PreProcessorOption {
	return func(p *preProcessor) {
		p.defines[name] = value
	}
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor with all registered struct types, libraries,
// address space mappings and default constant values pre-populated.
//
// Parameters:
//   - options: variadic list of PreProcessorOption functions
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(options ...PreProcessorOption) PreProcessor {
	p := &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgDirectionalLight:  {Source: light.PackedDirectionalLightSource, Type: "PackedDirectionalLight"},
			AnnotationArgPointLight:        {Source: light.PackedPointLightSource, Type: "PackedPointLight"},
			AnnotationArgSpotLight:         {Source: light.PackedSpotLightSource, Type: "PackedSpotLight"},
			AnnotationArgPerFrame:          {Source: uniforms.PerFrameUniformsSource, Type: "PerFrameUniforms"},
			AnnotationArgPerModel:          {Source: uniforms.PerModelUniformsSource, Type: "PerModelUniforms"},
			AnnotationArgMaterialConstants: {Source: material.PackedMaterialConstantsSource, Type: "PackedMaterialConstants"},
			AnnotationArgDepthParams:       {Source: uniforms.DepthVisualizationParamsSource, Type: "DepthVisualizationParams"},
			annotationArgVertex:            {Source: model.VertexSource, Type: "VertexInput"},
			annotationArgDebugVertex:       {Source: model.DebugVertexSource, Type: "DebugVertexInput"},
			annotationArgInstance:          {Source: instancing.InstanceInputSource, Type: "InstanceInput"},
			annotationArgLighting:          {Source: shading.LightingSource},
			annotationArgColor:             {Source: shading.ColorSource},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform: "var<uniform>",
			annotationArgStorageTypeRead:    "var<storage, read>",
		},
		defines: map[AnnotationArg]uint32{
			AnnotationArgSpecularModel: uint32(shading.SpecularModelBlinnPhong),
		},
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	included := make(map[AnnotationArg]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			if included[a.Args[0]] {
				continue
			}
			entry, ok := p.structRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", i+1, a.Args[0])
			}
			included[a.Args[0]] = true
			out = append(out, strings.TrimRight(entry.Source, "\n"))
		case annotationTypeDefine:
			value, ok := p.defines[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: no value for @oxy:define %q", i+1, a.Args[0])
			}
			out = append(out, fmt.Sprintf("const %s: u32 = %du;", a.Args[0], value))
		case AnnotationTypeBindingGroup:
			addrSpace := p.addressSpaceRegistry[a.Args[0]]
			entry := p.structRegistry[a.Args[2]]
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, addrSpace, a.Args[1], entry.Type))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", i+1, a.Type)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
