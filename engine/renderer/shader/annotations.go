// annotations.go defines the annotation types, argument constants, and parser for the
// Oxy WGSL shader pre-processor. Annotations are single-line WGSL comments prefixed
// with @oxy: that drive struct injection, compile-time constants, bind group declaration
// and resource provider registration. The parsed results are stored as Annotation values
// and consumed by the PreProcessor and the renderer to check shaders against the host
// bind group layout contract.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a WGSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
// Each type corresponds to a distinct pre-processor action and produces different
// fields on the resulting Annotation struct.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct definition or
	// library into the shader at the annotation site. This annotation does not produce
	// a declaration and is consumed entirely during pre-processing.
	//
	// Syntax: //@oxy:include <struct_type|library>
	//
	// Example: //@oxy:include per_frame
	annotationTypeInclude AnnotationType = "include"

	// annotationTypeDefine emits a module-scope u32 constant whose value is supplied by the
	// host through Define, so one WGSL source can be compiled into several pipeline
	// variants. Undefined names fall back to their registered default.
	//
	// Syntax: //@oxy:define <CONSTANT_NAME>
	//
	// Example: //@oxy:define SPECULAR_MODEL
	annotationTypeDefine AnnotationType = "define"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding variable declaration
	// and appends an Annotation to the PreProcessor's declarations list. The declaration
	// carries the group index, binding index, and the resolved struct type.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <type>
	//
	// Example: //@oxy:group 0 0 storage_uniform frame_uniforms per_frame
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider registers a resource provider identity for a group and binding
	// without generating any WGSL output. The WGSL binding declaration remains hand-written
	// in the shader source directly below the annotation. This is used for textures and
	// samplers, which have no registered struct.
	//
	// Syntax:
	//   //@oxy:provider <group> <binding> <provider_identity>
	//   //@oxy:provider <group> <binding> <provider_identity> <binding_role>
	//
	// Examples:
	//   //@oxy:provider 2 2 material diffuse_texture
	//   //@oxy:provider 0 1 depth depth_texture
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation represents a single parsed @oxy: annotation from a WGSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed (include, define, group, or provider).
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = struct type or library key (e.g. "per_frame", "lighting")
	//   - define:   [0] = constant name (e.g. "SPECULAR_MODEL")
	//   - group:    [0] = address space, [1] = var name, [2] = WGSL type key
	//   - provider: [0] = provider identity (e.g. "material"), [1] = binding role (optional, e.g. "diffuse_texture")
	Args []AnnotationArg

	// Line is the 1-based line number in the original WGSL source where this annotation
	// was found. Used for error reporting.
	Line int

	// Group is the @group index for group and provider annotations. Nil otherwise.
	Group *int

	// Binding is the @binding index for group and provider annotations. Nil otherwise.
	Binding *int
}

// Role returns the binding role of a provider annotation, or "" when none was given.
func (a Annotation) Role() AnnotationArg {
	if a.Type != AnnotationTypeProvider || len(a.Args) < 2 {
		return ""
	}
	return a.Args[1]
}

// AnnotationArg is a typed string constant used as an argument in annotations.
type AnnotationArg string

// ── Struct type arguments ──────────────────────────────────────────────────────
// These identify registered WGSL struct types. They can appear in @oxy:include annotations
// (to inject the struct source) and in @oxy:group annotations (as the type field). Each maps
// to a Go GPU type with an embedded .wgsl asset file.

const (
	// AnnotationArgDirectionalLight identifies the PackedDirectionalLight struct.
	// Source: engine/light/assets/directional_light.wgsl
	AnnotationArgDirectionalLight AnnotationArg = "directional_light"

	// AnnotationArgPointLight identifies the PackedPointLight struct.
	// Source: engine/light/assets/point_light.wgsl
	AnnotationArgPointLight AnnotationArg = "point_light"

	// AnnotationArgSpotLight identifies the PackedSpotLight struct.
	// Source: engine/light/assets/spot_light.wgsl
	AnnotationArgSpotLight AnnotationArg = "spot_light"

	// AnnotationArgPerFrame identifies the PerFrameUniforms struct.
	// Source: engine/renderer/uniforms/assets/per_frame.wgsl
	AnnotationArgPerFrame AnnotationArg = "per_frame"

	// AnnotationArgPerModel identifies the PerModelUniforms struct.
	// Source: engine/renderer/uniforms/assets/per_model.wgsl
	AnnotationArgPerModel AnnotationArg = "per_model"

	// AnnotationArgMaterialConstants identifies the PackedMaterialConstants struct.
	// Source: engine/renderer/material/assets/material_constants.wgsl
	AnnotationArgMaterialConstants AnnotationArg = "material_constants"

	// AnnotationArgDepthParams identifies the DepthVisualizationParams struct.
	// Source: engine/renderer/uniforms/assets/depth_params.wgsl
	AnnotationArgDepthParams AnnotationArg = "depth_params"

	// annotationArgVertex identifies the VertexInput struct of lit meshes.
	// Source: engine/model/assets/vertex.wgsl
	annotationArgVertex AnnotationArg = "vertex"

	// annotationArgDebugVertex identifies the DebugVertexInput struct of overlay and fullscreen meshes.
	// Source: engine/model/assets/debug_vertex.wgsl
	annotationArgDebugVertex AnnotationArg = "debug_vertex"

	// annotationArgInstance identifies the InstanceInput struct and the instance_matrix helper.
	// Source: engine/renderer/instancing/assets/instance.wgsl
	annotationArgInstance AnnotationArg = "instance"
)

// ── Library arguments ──────────────────────────────────────────────────────────
// These identify WGSL function libraries. They are only valid in @oxy:include annotations.

const (
	// annotationArgLighting identifies the light model library.
	// Source: engine/shading/assets/lighting.wgsl
	annotationArgLighting AnnotationArg = "lighting"

	// annotationArgColor identifies the sRGB conversion library.
	// Source: engine/shading/assets/color.wgsl
	annotationArgColor AnnotationArg = "color"
)

// ── Define arguments ───────────────────────────────────────────────────────────
// These name the u32 constants an @oxy:define annotation may emit.

const (
	// AnnotationArgSpecularModel selects the specular term of the lit fragment shader.
	// Values follow shading.SpecularModelID.
	AnnotationArgSpecularModel AnnotationArg = "SPECULAR_MODEL"
)

// ── Address space arguments ────────────────────────────────────────────────────
// These specify the WGSL variable address space in @oxy:group annotations.

const (
	// annotationArgStorageTypeUniform maps to var<uniform> in WGSL.
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"

	// annotationArgStorageTypeRead maps to var<storage, read> in WGSL.
	annotationArgStorageTypeRead AnnotationArg = "storage_read"
)

// ── Provider identity arguments ────────────────────────────────────────────────
// These identify which renderer-side resource provider owns a binding.

const (
	// AnnotationArgFrame identifies the per-frame uniform provider.
	AnnotationArgFrame AnnotationArg = "frame"

	// AnnotationArgModel identifies the per-model uniform provider.
	AnnotationArgModel AnnotationArg = "model"

	// AnnotationArgMaterial identifies the per-submesh material provider (constants, sampler, textures).
	AnnotationArgMaterial AnnotationArg = "material"

	// AnnotationArgDepth identifies the depth visualization provider (params and depth texture).
	AnnotationArgDepth AnnotationArg = "depth"
)

// ── Binding role arguments ─────────────────────────────────────────────────────
// These qualify individual bindings within a provider group, telling the renderer which
// texture or sampler each binding holds without relying on variable names.

const (
	// AnnotationArgSampler identifies the filtering sampler shared by a material's textures.
	AnnotationArgSampler AnnotationArg = "sampler"

	// AnnotationArgDiffuseTexture identifies the diffuse texture binding.
	AnnotationArgDiffuseTexture AnnotationArg = "diffuse_texture"

	// AnnotationArgSpecularTexture identifies the specular texture binding.
	AnnotationArgSpecularTexture AnnotationArg = "specular_texture"

	// AnnotationArgEmissiveTexture identifies the emissive texture binding.
	AnnotationArgEmissiveTexture AnnotationArg = "emissive_texture"

	// AnnotationArgDepthTexture identifies the depth attachment read by the visualization pass.
	AnnotationArgDepthTexture AnnotationArg = "depth_texture"
)

// validStructTypes lists all AnnotationArg values that are accepted as struct type
// arguments in @oxy:include and @oxy:group annotations. Each entry must have a
// corresponding registryEntry in the PreProcessor's structRegistry.
var validStructTypes = []AnnotationArg{
	AnnotationArgDirectionalLight,
	AnnotationArgPointLight,
	AnnotationArgSpotLight,
	AnnotationArgPerFrame,
	AnnotationArgPerModel,
	AnnotationArgMaterialConstants,
	AnnotationArgDepthParams,
	annotationArgVertex,
	annotationArgDebugVertex,
	annotationArgInstance,
}

// validLibraries lists the include-only library keys.
var validLibraries = []AnnotationArg{
	annotationArgLighting,
	annotationArgColor,
}

// validDefines lists the constant names accepted by @oxy:define.
var validDefines = []AnnotationArg{
	AnnotationArgSpecularModel,
}

// validAddressSpaces lists all AnnotationArg values that are accepted as address
// space arguments in @oxy:group annotations. Each maps to a WGSL var<> declaration.
var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
}

// validProviderIdentities lists all AnnotationArg values that are accepted as
// provider identity arguments in @oxy:provider annotations.
var validProviderIdentities = []AnnotationArg{
	AnnotationArgFrame,
	AnnotationArgModel,
	AnnotationArgMaterial,
	AnnotationArgDepth,
}

// validBindingRoles lists all AnnotationArg values that are accepted as binding
// role qualifiers in @oxy:provider annotations.
var validBindingRoles = []AnnotationArg{
	AnnotationArgSampler,
	AnnotationArgDiffuseTexture,
	AnnotationArgSpecularTexture,
	AnnotationArgEmissiveTexture,
	AnnotationArgDepthTexture,
}

// parseAnnotation attempts to parse a single line of WGSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix. Returns
// a populated Annotation for valid annotations, or an error describing the problem for
// malformed annotations with correct prefix but invalid syntax or unknown arguments.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch args[0] {
	case string(annotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		arg := AnnotationArg(args[1])
		if !slices.Contains(validStructTypes, arg) && !slices.Contains(validLibraries, arg) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{arg},
			Line: lineNum,
		}, nil
	case string(annotationTypeDefine):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy define annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validDefines, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown constant %q in @oxy define annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeDefine,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case string(AnnotationTypeBindingGroup):
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires exactly five arguments (group number, binding number, address space, var name, struct type)", lineNum)
		}
		groupInt, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group number %q in @oxy group annotation: %v", lineNum, args[1], err)
		}
		bindingInt, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binding number %q in @oxy group annotation: %v", lineNum, args[2], err)
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy group annotation", lineNum, args[3])
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[5])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy group annotation", lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	case string(AnnotationTypeProvider):
		if len(args) < 4 || len(args) > 5 {
			return nil, fmt.Errorf("line %d: @oxy provider annotation requires three or four arguments (group, binding, provider identity[, binding role])", lineNum)
		}
		groupInt, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group number %q: %v", lineNum, args[1], err)
		}
		bindingInt, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binding number %q in @oxy provider annotation: %v", lineNum, args[2], err)
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q in @oxy provider annotation", lineNum, args[3])
		}
		providerArgs := []AnnotationArg{AnnotationArg(args[3])}
		if len(args) == 5 {
			if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
				return nil, fmt.Errorf("line %d: unknown binding role %q in @oxy provider annotation", lineNum, args[4])
			}
			providerArgs = append(providerArgs, AnnotationArg(args[4]))
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    providerArgs,
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
