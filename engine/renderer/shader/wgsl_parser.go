package shader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> frame_uniforms: PerFrameUniforms;
	// or handle types: @group(2) @binding(2) var diffuse_texture: texture_2d<f32>;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// Binding is a resource variable declared in processed WGSL source.
type Binding struct {
	Group        int
	Binding      int
	AddressSpace string
	Name         string
	Type         string
}

// parseEntryPoint extracts the entry point function name for the given shader type
// from WGSL source. Returns an empty string if no matching entry point attribute is found.
//
// Parameters:
//   - source: the WGSL source code string
//   - shaderType: the shader type to search for
//
// Returns:
//   - string: the entry point function name, or empty string if not found
func parseEntryPoint(source string, shaderType ShaderType) string {
	cleaned := stripComments(source)

	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(cleaned); match != nil {
		return match[1]
	}
	return ""
}

// parseBindings lists every @group/@binding variable in the source, generated or hand-written.
func parseBindings(source string) []Binding {
	matches := bindGroupDeclRegex.FindAllStringSubmatch(stripComments(source), -1)
	bindings := make([]Binding, 0, len(matches))
	for _, m := range matches {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		bindings = append(bindings, Binding{
			Group:        group,
			Binding:      binding,
			AddressSpace: strings.TrimSpace(m[3]),
			Name:         m[4],
			Type:         strings.TrimSpace(m[5]),
		})
	}
	return bindings
}

// validateBindings checks every declared binding against the host layout contract: the group and
// binding must exist and the resource kind must match the layout entry. A uniform whose struct
// layout is known must be exactly as large as the entry's MinBindingSize, which is the packed
// block size on the host.
//
// Parameters:
//   - bindings: the bindings declared by a shader
//   - layouts: the bind group layout descriptors keyed by group index
//   - structs: the struct layouts of the same source
//
// Returns:
//   - error: the first mismatch, or nil
func validateBindings(bindings []Binding, layouts map[int]wgpu.BindGroupLayoutDescriptor, structs map[string]StructLayout) error {
	for _, b := range bindings {
		layout, ok := layouts[b.Group]
		if !ok {
			return fmt.Errorf("%s: group %d has no layout", b.Name, b.Group)
		}
		entry, ok := findEntry(layout, uint32(b.Binding))
		if !ok {
			return fmt.Errorf("%s: group %d binding %d has no layout entry", b.Name, b.Group, b.Binding)
		}
		switch {
		case b.AddressSpace == "uniform":
			if entry.Buffer.Type != wgpu.BufferBindingTypeUniform {
				return fmt.Errorf("%s: group %d binding %d is declared uniform but laid out as %v", b.Name, b.Group, b.Binding, entry.Buffer.Type)
			}
			if st, ok := structs[b.Type]; ok && entry.Buffer.MinBindingSize != 0 && st.Size != entry.Buffer.MinBindingSize {
				return fmt.Errorf("%s: %s is %d bytes in WGSL but the host block is %d bytes", b.Name, b.Type, st.Size, entry.Buffer.MinBindingSize)
			}
		case strings.HasPrefix(b.AddressSpace, "storage"):
			if entry.Buffer.Type != wgpu.BufferBindingTypeReadOnlyStorage && entry.Buffer.Type != wgpu.BufferBindingTypeStorage {
				return fmt.Errorf("%s: group %d binding %d is declared storage but not laid out as storage", b.Name, b.Group, b.Binding)
			}
		case b.Type == "sampler":
			if entry.Sampler.Type == wgpu.SamplerBindingTypeUndefined {
				return fmt.Errorf("%s: group %d binding %d is declared sampler but not laid out as one", b.Name, b.Group, b.Binding)
			}
		case strings.HasPrefix(b.Type, "texture_depth"):
			if entry.Texture.SampleType != wgpu.TextureSampleTypeDepth {
				return fmt.Errorf("%s: group %d binding %d is declared as a depth texture but not laid out as one", b.Name, b.Group, b.Binding)
			}
		case strings.HasPrefix(b.Type, "texture_"):
			if entry.Texture.SampleType == wgpu.TextureSampleTypeUndefined || entry.Texture.SampleType == wgpu.TextureSampleTypeDepth {
				return fmt.Errorf("%s: group %d binding %d is declared %s but not laid out as a color texture", b.Name, b.Group, b.Binding, b.Type)
			}
		}
	}
	return nil
}

func findEntry(layout wgpu.BindGroupLayoutDescriptor, binding uint32) (wgpu.BindGroupLayoutEntry, bool) {
	for _, e := range layout.Entries {
		if e.Binding == binding {
			return e, true
		}
	}
	return wgpu.BindGroupLayoutEntry{}, false
}

// stripComments removes both line comments (//) and block comments (/* */) from WGSL source.
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

// stripLineComments removes single-line // comments from WGSL source.
func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes block comments from WGSL source, handling nested
// block comments per the WGSL specification.
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			if source[i] == '/' && source[i+1] == '*' {
				depth++
				i++
				continue
			}
			if source[i] == '*' && source[i+1] == '/' && depth > 0 {
				depth--
				i++
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
