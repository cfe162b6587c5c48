package light

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Partition splits a scene light list by type, skipping disabled lights. Order is preserved.
//
// Parameters:
//   - lights: the scene lights in any order
//
// Returns:
//   - []Light: enabled directional lights
//   - []Light: enabled point lights
//   - []Light: enabled spot lights
func Partition(lights []Light) (directional, point, spot []Light) {
	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		switch l.Type() {
		case LightTypeDirectional:
			directional = append(directional, l)
		case LightTypePoint:
			point = append(point, l)
		case LightTypeSpot:
			spot = append(spot, l)
		}
	}
	return directional, point, spot
}

// Truncate keeps at most capacity lights from the front of the list.
//
// Parameters:
//   - lights: the candidate lights
//   - capacity: the maximum number to keep
//
// Returns:
//   - []Light: the kept lights
//   - int: how many lights were dropped
func Truncate(lights []Light, capacity int) ([]Light, int) {
	if len(lights) <= capacity {
		return lights, 0
	}
	return lights[:capacity], len(lights) - capacity
}

// Nearest keeps the capacity lights closest to origin, ordered nearest first.
// Ties keep their original order.
//
// Parameters:
//   - lights: the candidate point or spot lights
//   - origin: the world-space point distances are measured from
//   - capacity: the maximum number to keep
//
// Returns:
//   - []Light: the kept lights
//   - int: how many lights were dropped
func Nearest(lights []Light, origin mgl32.Vec3, capacity int) ([]Light, int) {
	if len(lights) <= capacity {
		return lights, 0
	}

	sorted := slices.Clone(lights)
	slices.SortStableFunc(sorted, func(a, b Light) int {
		return cmp.Compare(distanceSqr(a.Position(), origin), distanceSqr(b.Position(), origin))
	})
	return sorted[:capacity], len(lights) - capacity
}

func distanceSqr(a, b mgl32.Vec3) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}
