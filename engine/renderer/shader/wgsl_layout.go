package shader

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// attributeRegex matches field attributes such as @location(0) or @builtin(position)
	attributeRegex = regexp.MustCompile(`@\w+(?:\([^)]*\))?`)

	// fieldRegex captures the name and type of a struct member with attributes removed
	fieldRegex = regexp.MustCompile(`^(\w+)\s*:\s*(.+)$`)
)

// StructLayout is the byte size and alignment of a WGSL type under the uniform/storage layout
// rules of the WGSL specification.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
type StructLayout struct {
	Size  uint64
	Align uint64
}

// wgslPrimitiveLayouts maps the scalar, vector and matrix types the shaders use to their layout.
var wgslPrimitiveLayouts = map[string]StructLayout{
	"f32":  {4, 4},
	"i32":  {4, 4},
	"u32":  {4, 4},
	"bool": {4, 4},

	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},
	"vec2<u32>": {8, 8},
	"vec3<u32>": {12, 16},
	"vec4<u32>": {16, 16},
	"vec2<i32>": {8, 8},
	"vec4<i32>": {16, 16},

	// matCxR<f32>: C columns of vecR<f32>
	"mat3x3<f32>": {48, 16},
	"mat4x4<f32>": {64, 16},
}

type parsedField struct {
	name     string
	typeName string
	builtin  bool
}

type parsedStruct struct {
	name   string
	fields []parsedField
}

// StructLayouts computes the layout of every struct declared in a WGSL source. Structs may nest
// other structs and fixed-size arrays of them, in any declaration order. Structs with a
// runtime-sized array or an unknown member type are left out.
//
// Parameters:
//   - source: WGSL source, usually the output of the pre-processor
//
// Returns:
//   - map[string]StructLayout: layouts keyed by struct name
func StructLayouts(source string) map[string]StructLayout {
	return computeStructSizes(parseStructBlocks(stripComments(source)))
}

func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, m := range matches {
		structs = append(structs, parsedStruct{name: m[1], fields: parseStructFields(m[2])})
	}
	return structs
}

func parseStructFields(body string) []parsedField {
	parts := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		builtin := strings.Contains(part, "@builtin")
		fm := fieldRegex.FindStringSubmatch(strings.TrimSpace(attributeRegex.ReplaceAllString(part, "")))
		if fm == nil {
			continue
		}
		fields = append(fields, parsedField{name: fm[1], typeName: strings.TrimSpace(fm[2]), builtin: builtin})
	}
	return fields
}

// splitAtTopLevelCommas splits on commas outside <...>, so array<T, N> stays whole.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// roundUpAlign rounds value up to the next multiple of alignment, a power of two.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// resolveTypeLayout resolves a primitive, an already computed struct or a fixed-size array.
func resolveTypeLayout(typeName string, known map[string]StructLayout) (StructLayout, bool) {
	if layout, ok := wgslPrimitiveLayouts[typeName]; ok {
		return layout, true
	}
	if layout, ok := known[typeName]; ok {
		return layout, true
	}

	if !strings.HasPrefix(typeName, "array<") || !strings.HasSuffix(typeName, ">") {
		return StructLayout{}, false
	}
	parts := strings.SplitN(typeName[len("array<"):len(typeName)-1], ",", 2)
	if len(parts) != 2 {
		return StructLayout{}, false
	}
	elem, ok := resolveTypeLayout(strings.TrimSpace(parts[0]), known)
	if !ok {
		return StructLayout{}, false
	}
	count, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return StructLayout{}, false
	}
	stride := roundUpAlign(elem.Align, elem.Size)
	return StructLayout{Size: count * stride, Align: elem.Align}, true
}

// computeStructLayout places each member at its next aligned offset and rounds the total up to
// the largest member alignment. Builtin members are not part of any buffer and are skipped.
func computeStructLayout(ps parsedStruct, known map[string]StructLayout) (StructLayout, bool) {
	offset := uint64(0)
	maxAlign := uint64(1)
	for _, f := range ps.fields {
		if f.builtin {
			continue
		}
		layout, ok := resolveTypeLayout(f.typeName, known)
		if !ok {
			return StructLayout{}, false
		}
		offset = roundUpAlign(layout.Align, offset) + layout.Size
		maxAlign = max(maxAlign, layout.Align)
	}
	return StructLayout{Size: roundUpAlign(maxAlign, offset), Align: maxAlign}, true
}

// computeStructSizes resolves structs in passes until no more can be resolved, so a struct may
// be declared after the structs that contain it.
func computeStructSizes(structs []parsedStruct) map[string]StructLayout {
	resolved := make(map[string]StructLayout, len(structs))
	remaining := append([]parsedStruct(nil), structs...)
	for len(remaining) > 0 {
		next := remaining[:0]
		for _, ps := range remaining {
			if layout, ok := computeStructLayout(ps, resolved); ok {
				resolved[ps.name] = layout
			} else {
				next = append(next, ps)
			}
		}
		if len(next) == len(remaining) {
			break
		}
		remaining = next
	}
	return resolved
}
